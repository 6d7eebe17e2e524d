package rekognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/glowlab/dermalyze/internal/domain"
	"github.com/glowlab/dermalyze/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100

	errCodeAccessDenied  = "AccessDeniedException"
	errCodeInvalidFormat = "InvalidImageFormatException"
	errCodeImageTooLarge = "ImageTooLargeException"
)

// detectFacesAPI is the slice of the Rekognition client this provider
// needs; it keeps the AWS call mockable in tests.
type detectFacesAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Provider implements provider.FaceDetector using AWS Rekognition.
type Provider struct {
	api detectFacesAPI
}

// Ensure Provider implements the detector interface at compile time
var _ provider.FaceDetector = (*Provider)(nil)

// NewProvider creates a Rekognition-backed face detector.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return &Provider{api: client.rekognition}, nil
}

// newProviderWithAPI wires a custom API implementation (tests).
func newProviderWithAPI(api detectFacesAPI) *Provider {
	return &Provider{api: api}
}

// validateImage checks if image data is valid for Rekognition
// processing. Rejections carry domain.ErrInvalidImage so they map to
// the same response code as the mock detector's.
func validateImage(image []byte) error {
	if len(image) == 0 {
		return domain.ErrInvalidImage
	}
	if len(image) < minImageSize {
		return domain.ErrInvalidImage.WithError(fmt.Errorf("image too small (%d bytes, minimum %d)", len(image), minImageSize))
	}
	if len(image) > maxImageSize {
		return domain.ErrInvalidImage.WithError(fmt.Errorf("image too large (%d bytes, maximum %d)", len(image), maxImageSize))
	}
	return nil
}

// DetectFaces detects faces in an image using the Rekognition DetectFaces API.
// Returns an empty slice if no faces are detected (not an error).
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]provider.DetectedFace, error) {
	if err := validateImage(image); err != nil {
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := p.api.DetectFaces(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case errCodeAccessDenied:
				return nil, fmt.Errorf("detect faces: %w", ErrInvalidCredentials)
			case errCodeInvalidFormat, errCodeImageTooLarge:
				return nil, domain.ErrInvalidImage.WithError(err)
			}
		}
		return nil, fmt.Errorf("detect faces: %w", err)
	}

	faces := make([]provider.DetectedFace, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		face := provider.DetectedFace{
			Confidence:   derefFloat32(detail.Confidence),
			QualityScore: calculateQualityScore(detail.Quality),
		}
		if detail.BoundingBox != nil {
			face.BoundingBox = provider.BoundingBox{
				X:      derefFloat32(detail.BoundingBox.Left),
				Y:      derefFloat32(detail.BoundingBox.Top),
				Width:  derefFloat32(detail.BoundingBox.Width),
				Height: derefFloat32(detail.BoundingBox.Height),
			}
		}
		if detail.Pose != nil {
			face.Pose = &provider.Pose{
				Pitch: derefFloat32(detail.Pose.Pitch),
				Roll:  derefFloat32(detail.Pose.Roll),
				Yaw:   derefFloat32(detail.Pose.Yaw),
			}
		}
		faces = append(faces, face)
	}

	return faces, nil
}

// calculateQualityScore folds Rekognition's brightness and sharpness
// into a single 0-1 score, weighting sharpness more heavily.
func calculateQualityScore(quality *types.ImageQuality) float64 {
	if quality == nil {
		return 0.0
	}

	brightness := 0.0
	sharpness := 0.0
	if quality.Brightness != nil {
		brightness = float64(*quality.Brightness) / 100.0
	}
	if quality.Sharpness != nil {
		sharpness = float64(*quality.Sharpness) / 100.0
	}

	return brightness*0.3 + sharpness*0.7
}

func derefFloat32(v *float32) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}
