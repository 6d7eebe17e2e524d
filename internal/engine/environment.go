package engine

import (
	"github.com/glowlab/dermalyze/internal/domain"
)

// environmentalFactors estimates how much ambient conditions may have
// skewed the raw scores. Each factor is a multiplicative correction
// centered at 1.0.
func environmentalFactors(s domain.NormalizedSamples) domain.EnvironmentalFactors {
	return domain.EnvironmentalFactors{
		LightingQuality:  lightingQuality(s.Dominant),
		ColorTemperature: colorTemperature(s.Dominant),
		Contrast:         contrastFactor(s.Dominant, s.Average),
	}
}

// lightingQuality is 1.0 inside the optimal dominant-brightness band and
// degrades linearly toward 0.7 outside it.
func lightingQuality(dominant domain.RGB) float64 {
	b := dominant.Brightness()
	switch {
	case b < 60:
		return clamp(1-0.005*(60-b), 0.7, 1.0)
	case b > 180:
		return clamp(1-0.002*(b-180), 0.7, 1.0)
	default:
		return 1.0
	}
}

// colorTemperature nudges for warm or cool color casts based on the
// dominant red/blue ratio.
func colorTemperature(dominant domain.RGB) float64 {
	blue := dominant.B
	if blue < 1 {
		blue = 1
	}
	ratio := float64(dominant.R) / float64(blue)
	switch {
	case ratio > 1.2:
		return 1.1
	case ratio < 0.8:
		return 0.9
	default:
		return 1.0
	}
}

// contrastFactor reads the summed channel distance between dominant and
// average as a proxy for scene contrast.
func contrastFactor(dominant, average domain.RGB) float64 {
	diff := sumChannelDiff(dominant, average)
	switch {
	case diff > 30:
		return 1.2
	case diff < 10:
		return 0.8
	default:
		return 1.0
	}
}

// applyEnvironment scales the raw scores by the relevant factor.
// Lighting drives oiliness and acne, color temperature drives redness,
// contrast drives texture and wrinkles. The multiplied values can leave
// the raw sub-ranges, so this stage clamps to the wider [5,95] bound.
func applyEnvironment(in scores, env domain.EnvironmentalFactors) scores {
	out := scores{
		Oiliness: clamp(in.Oiliness*env.LightingQuality, 5, 95),
		Redness:  clamp(in.Redness*env.ColorTemperature, 5, 95),
		Texture:  clamp(in.Texture*env.Contrast, 5, 95),
		Acne:     clamp(in.Acne*env.LightingQuality, 5, 95),
		Wrinkles: clamp(in.Wrinkles*env.Contrast, 5, 95),
	}
	return out.rounded()
}
