package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glowlab/dermalyze/internal/domain"
)

func TestLightingQuality(t *testing.T) {
	tests := []struct {
		name string
		rgb  domain.RGB
		want float64
	}{
		{"optimal band", domain.NewRGB(120, 120, 120), 1.0},
		{"band edges", domain.NewRGB(60, 60, 60), 1.0},
		{"pitch black floors at 0.7", domain.NewRGB(0, 0, 0), 0.7},
		{"over-bright degrades", domain.NewRGB(230, 230, 230), 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lightingQuality(tt.rgb), 0.001)
		})
	}
}

func TestColorTemperature(t *testing.T) {
	assert.Equal(t, 1.1, colorTemperature(domain.NewRGB(200, 150, 120))) // warm
	assert.Equal(t, 0.9, colorTemperature(domain.NewRGB(100, 150, 200))) // cool
	assert.Equal(t, 1.0, colorTemperature(domain.NewRGB(150, 150, 150))) // neutral
	assert.Equal(t, 1.1, colorTemperature(domain.NewRGB(100, 50, 0)))    // zero blue guarded
}

func TestContrastFactor(t *testing.T) {
	dom := domain.NewRGB(200, 180, 160)
	assert.Equal(t, 1.2, contrastFactor(dom, domain.NewRGB(180, 160, 140))) // diff 60
	assert.Equal(t, 0.8, contrastFactor(dom, domain.NewRGB(199, 179, 159))) // diff 3
	assert.Equal(t, 1.0, contrastFactor(dom, domain.NewRGB(193, 173, 155))) // diff 19
}

func TestApplyEnvironment_RoutesFactorsToMetrics(t *testing.T) {
	in := scores{Oiliness: 50, Redness: 50, Texture: 50, Acne: 50, Wrinkles: 50}
	env := domain.EnvironmentalFactors{
		LightingQuality:  0.8,
		ColorTemperature: 1.1,
		Contrast:         1.2,
	}

	got := applyEnvironment(in, env)
	assert.Equal(t, 40.0, got.Oiliness) // lighting
	assert.Equal(t, 40.0, got.Acne)     // lighting
	assert.Equal(t, 55.0, got.Redness)  // color temperature
	assert.Equal(t, 60.0, got.Texture)  // contrast
	assert.Equal(t, 60.0, got.Wrinkles) // contrast
}

func TestApplyEnvironment_ClampsToWideBound(t *testing.T) {
	in := scores{Oiliness: 5, Redness: 85, Texture: 80, Acne: 5, Wrinkles: 75}
	env := domain.EnvironmentalFactors{
		LightingQuality:  0.7,
		ColorTemperature: 1.2,
		Contrast:         1.3,
	}

	got := applyEnvironment(in, env)
	assert.GreaterOrEqual(t, got.Oiliness, 5.0)
	assert.GreaterOrEqual(t, got.Acne, 5.0)
	assert.LessOrEqual(t, got.Redness, 95.0)
	assert.LessOrEqual(t, got.Texture, 95.0)
	assert.LessOrEqual(t, got.Wrinkles, 95.0)
}
