// Package mock provides deterministic detector and extractor
// implementations for development and tests.
package mock

import (
	"context"
	"crypto/sha256"

	"github.com/glowlab/dermalyze/internal/domain"
	"github.com/glowlab/dermalyze/internal/provider"
)

// Provider implements provider.FaceDetector and provider.ColorExtractor
// with outputs derived from a hash of the image bytes, so the same image
// always produces the same analysis.
type Provider struct{}

// New creates a mock provider.
func New() *Provider {
	return &Provider{}
}

var (
	_ provider.FaceDetector   = (*Provider)(nil)
	_ provider.ColorExtractor = (*Provider)(nil)
)

// DetectFaces simulates detection. Images under 1000 bytes are rejected
// the same way the real provider rejects undersized payloads.
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if len(image) < 1000 {
		return nil, domain.ErrInvalidImage
	}

	hash := sha256.Sum256(image)
	// Yaw in [-16, 15] so some images exercise the reduced-confidence
	// angle bands.
	yaw := float64(int(hash[0])%32 - 16)

	return []provider.DetectedFace{
		{
			BoundingBox: provider.BoundingBox{
				X:      0.1,
				Y:      0.1,
				Width:  0.8,
				Height: 0.8,
			},
			Confidence:   0.99,
			QualityScore: 0.95,
			Pose: &provider.Pose{
				Yaw: yaw,
			},
		},
	}, nil
}

// ExtractColors derives three stable skin-tone-like samples from the
// image hash.
func (p *Provider) ExtractColors(ctx context.Context, image []byte) (domain.ColorSamples, error) {
	if len(image) == 0 {
		return domain.ColorSamples{}, nil
	}

	hash := sha256.Sum256(image)

	dominant := sampleFromHash(hash[:], 0)
	average := sampleFromHash(hash[:], 3)
	vibrant := sampleFromHash(hash[:], 6)

	return domain.ColorSamples{
		Dominant: &dominant,
		Average:  &average,
		Vibrant:  &vibrant,
	}, nil
}

// sampleFromHash maps three hash bytes into a plausible skin-tone range
// so mock analyses land in realistic metric bands.
func sampleFromHash(hash []byte, offset int) domain.RGB {
	return domain.NewRGB(
		140+int(hash[offset])%100,
		100+int(hash[offset+1])%100,
		70+int(hash[offset+2])%100,
	)
}
