package mock

import (
	"context"
	"testing"
)

func TestProvider_DetectFaces(t *testing.T) {
	p := New()
	ctx := context.Background()

	tests := []struct {
		name      string
		image     []byte
		wantFaces int
		wantErr   bool
	}{
		{
			name:      "valid image",
			image:     make([]byte, 5000),
			wantFaces: 1,
			wantErr:   false,
		},
		{
			name:      "image too small",
			image:     make([]byte, 100),
			wantFaces: 0,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, err := p.DetectFaces(ctx, tt.image)
			if (err != nil) != tt.wantErr {
				t.Errorf("DetectFaces() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if len(faces) != tt.wantFaces {
				t.Errorf("DetectFaces() got %d faces, want %d", len(faces), tt.wantFaces)
			}
		})
	}
}

func TestProvider_DetectFaces_Deterministic(t *testing.T) {
	p := New()
	ctx := context.Background()

	image := make([]byte, 5000)
	for i := range image {
		image[i] = byte(i % 256)
	}

	faces1, err := p.DetectFaces(ctx, image)
	if err != nil {
		t.Fatalf("DetectFaces() error = %v", err)
	}
	faces2, _ := p.DetectFaces(ctx, image)

	if faces1[0].Pose == nil || faces2[0].Pose == nil {
		t.Fatal("DetectFaces() should report a pose")
	}
	if faces1[0].Pose.Yaw != faces2[0].Pose.Yaw {
		t.Error("DetectFaces() should be deterministic for same input")
	}
}

func TestProvider_ExtractColors(t *testing.T) {
	p := New()
	ctx := context.Background()

	image := make([]byte, 5000)
	for i := range image {
		image[i] = byte(i % 256)
	}

	samples, err := p.ExtractColors(ctx, image)
	if err != nil {
		t.Fatalf("ExtractColors() error = %v", err)
	}
	if samples.Dominant == nil || samples.Average == nil || samples.Vibrant == nil {
		t.Fatal("ExtractColors() should fill all three samples")
	}

	again, _ := p.ExtractColors(ctx, image)
	if *samples.Dominant != *again.Dominant {
		t.Error("ExtractColors() should be deterministic for same input")
	}

	if samples.Dominant.R < 140 || samples.Dominant.R > 239 {
		t.Errorf("ExtractColors() dominant R = %d, want within skin-tone band", samples.Dominant.R)
	}
}

func TestProvider_ExtractColors_Empty(t *testing.T) {
	p := New()

	samples, err := p.ExtractColors(context.Background(), nil)
	if err != nil {
		t.Fatalf("ExtractColors() error = %v", err)
	}
	if samples.Dominant != nil {
		t.Error("ExtractColors() empty image should yield empty samples")
	}
}
