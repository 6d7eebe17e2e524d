package rekognition

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowlab/dermalyze/internal/domain"
)

type mockDetectFacesAPI struct {
	output *rekognition.DetectFacesOutput
	err    error
}

func (m *mockDetectFacesAPI) DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func float32Ptr(v float32) *float32 { return &v }

func validImage() []byte {
	return make([]byte, 4096)
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		image   []byte
		wantErr bool
	}{
		{"valid image", validImage(), false},
		{"empty image", nil, true},
		{"too small", make([]byte, 10), true},
		{"too large", make([]byte, maxImageSize+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateImage(tt.image)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidImage)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDetectFaces_MapsPoseAndQuality(t *testing.T) {
	api := &mockDetectFacesAPI{
		output: &rekognition.DetectFacesOutput{
			FaceDetails: []types.FaceDetail{
				{
					Confidence: float32Ptr(99.2),
					BoundingBox: &types.BoundingBox{
						Left:   float32Ptr(0.1),
						Top:    float32Ptr(0.2),
						Width:  float32Ptr(0.5),
						Height: float32Ptr(0.6),
					},
					Pose: &types.Pose{
						Yaw:   float32Ptr(-12.5),
						Pitch: float32Ptr(3.0),
						Roll:  float32Ptr(1.5),
					},
					Quality: &types.ImageQuality{
						Brightness: aws.Float32(80),
						Sharpness:  aws.Float32(90),
					},
				},
			},
		},
	}
	p := newProviderWithAPI(api)

	faces, err := p.DetectFaces(context.Background(), validImage())
	require.NoError(t, err)
	require.Len(t, faces, 1)

	face := faces[0]
	assert.InDelta(t, 99.2, face.Confidence, 0.01)
	require.NotNil(t, face.Pose)
	assert.InDelta(t, -12.5, face.Pose.Yaw, 0.01)
	// 0.8*0.3 + 0.9*0.7
	assert.InDelta(t, 0.87, face.QualityScore, 0.001)
	assert.InDelta(t, 0.1, face.BoundingBox.X, 0.001)
}

func TestDetectFaces_NoFacesIsNotAnError(t *testing.T) {
	p := newProviderWithAPI(&mockDetectFacesAPI{output: &rekognition.DetectFacesOutput{}})

	faces, err := p.DetectFaces(context.Background(), validImage())
	require.NoError(t, err)
	assert.Empty(t, faces)
}

func TestDetectFaces_APIError(t *testing.T) {
	p := newProviderWithAPI(&mockDetectFacesAPI{err: errors.New("throttled")})

	_, err := p.DetectFaces(context.Background(), validImage())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidImage)
}

func TestDetectFaces_RejectionsCarryInvalidImage(t *testing.T) {
	tests := []struct {
		name   string
		image  []byte
		apiErr error
	}{
		{
			name:  "oversized upload rejected before the API call",
			image: make([]byte, maxImageSize+1),
		},
		{
			name:   "unsupported format rejected by the API",
			image:  validImage(),
			apiErr: &smithy.GenericAPIError{Code: errCodeInvalidFormat, Message: "bad image"},
		},
		{
			name:   "service-side size cap rejected by the API",
			image:  validImage(),
			apiErr: &smithy.GenericAPIError{Code: errCodeImageTooLarge, Message: "too large"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProviderWithAPI(&mockDetectFacesAPI{err: tt.apiErr})

			_, err := p.DetectFaces(context.Background(), tt.image)
			require.ErrorIs(t, err, domain.ErrInvalidImage)

			var appErr *domain.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 422, appErr.StatusCode)
		})
	}
}

func TestCalculateQualityScore_NilQuality(t *testing.T) {
	assert.Equal(t, 0.0, calculateQualityScore(nil))
}
