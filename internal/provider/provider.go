package provider

import (
	"context"

	"github.com/glowlab/dermalyze/internal/domain"
)

// FaceDetector gates an analysis: it reports whether (and how) a face
// appears in the selfie. Detection metadata feeds confidence scoring
// but never the metric values themselves.
type FaceDetector interface {
	// DetectFaces returns one entry per face found in the image.
	// An empty slice means no face, not an error.
	DetectFaces(ctx context.Context, image []byte) ([]DetectedFace, error)
}

// ColorExtractor reduces the selfie to the three representative color
// samples the metrics engine consumes. Implementations must degrade
// gracefully: an undecodable image yields empty samples (the engine
// substitutes the neutral default), not an error.
type ColorExtractor interface {
	ExtractColors(ctx context.Context, image []byte) (domain.ColorSamples, error)
}

// DetectedFace represents a detected face in the image.
type DetectedFace struct {
	BoundingBox  BoundingBox `json:"bounding_box"`
	Confidence   float64     `json:"confidence"`
	QualityScore float64     `json:"quality_score"`
	Pose         *Pose       `json:"pose,omitempty"`
}

// Pose represents face orientation angles.
type Pose struct {
	Pitch float64 `json:"pitch"` // up/down rotation
	Roll  float64 `json:"roll"`  // tilted rotation
	Yaw   float64 `json:"yaw"`   // left/right rotation
}

// BoundingBox represents the face area in the image.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
