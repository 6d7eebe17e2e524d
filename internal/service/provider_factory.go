package service

import (
	"context"
	"fmt"

	"github.com/glowlab/dermalyze/internal/config"
	"github.com/glowlab/dermalyze/internal/provider"
	"github.com/glowlab/dermalyze/internal/provider/mock"
	"github.com/glowlab/dermalyze/internal/provider/palette"
	"github.com/glowlab/dermalyze/internal/provider/rekognition"
)

// ProviderType defines supported face detection provider types
type ProviderType string

const (
	// ProviderTypeMock is the deterministic local provider (dev/test)
	ProviderTypeMock ProviderType = "mock"
	// ProviderTypeRekognition is the AWS Rekognition provider (cloud, for prod)
	ProviderTypeRekognition ProviderType = "rekognition"
)

// NewFaceDetector creates a FaceDetector instance based on configuration.
//
// Environment variables:
//   - FACE_PROVIDER: "mock" or "rekognition" (default: "mock")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewFaceDetector(ctx context.Context, cfg *config.Config) (provider.FaceDetector, error) {
	switch ProviderType(cfg.FaceProvider) {
	case ProviderTypeRekognition:
		prov, err := rekognition.NewProvider(ctx, rekognition.Config{Region: cfg.AWSRegion})
		if err != nil {
			return nil, fmt.Errorf("create rekognition provider: %w", err)
		}
		return prov, nil

	case ProviderTypeMock, "":
		// Default to the mock detector for dev/test environments
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s)",
			cfg.FaceProvider, ProviderTypeMock, ProviderTypeRekognition)
	}
}

// NewColorExtractor creates the ColorExtractor matching the detector
// choice: the mock detector pairs with the mock extractor so dev
// analyses stay deterministic; everything else uses local palette
// extraction.
func NewColorExtractor(cfg *config.Config) provider.ColorExtractor {
	if ProviderType(cfg.FaceProvider) == ProviderTypeMock || cfg.FaceProvider == "" {
		return mock.New()
	}
	return palette.NewExtractor()
}
