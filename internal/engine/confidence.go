package engine

import (
	"math"

	"github.com/glowlab/dermalyze/internal/domain"
)

// confidenceScore estimates how trustworthy the whole analysis is,
// independent of the metric values. Four sub-scores, each stepping
// 100/85/70 as conditions degrade, averaged without weights.
func confidenceScore(s domain.NormalizedSamples, yawDegrees *float64, env domain.EnvironmentalFactors) int {
	sub := [4]float64{
		lightingScore(s.Dominant),
		angleScore(yawDegrees),
		consistencyScore(s.Dominant, s.Average),
		envScore(env),
	}
	return int(math.Round((sub[0] + sub[1] + sub[2] + sub[3]) / 4))
}

// lightingScore degrades in two steps as dominant brightness moves away
// from the center band.
func lightingScore(dominant domain.RGB) float64 {
	b := dominant.Brightness()
	switch {
	case b >= 60 && b <= 180:
		return 100
	case b >= 40 && b <= 200:
		return 85
	default:
		return 70
	}
}

// angleScore penalizes head turn. Without face-pose metadata the score
// stays at 100.
func angleScore(yawDegrees *float64) float64 {
	if yawDegrees == nil {
		return 100
	}
	yaw := math.Abs(*yawDegrees)
	switch {
	case yaw < 15:
		return 100
	case yaw < 30:
		return 85
	default:
		return 70
	}
}

// consistencyScore reads a large dominant-vs-average gap as a noisy
// extraction.
func consistencyScore(dominant, average domain.RGB) float64 {
	diff := sumChannelDiff(dominant, average)
	switch {
	case diff < 50:
		return 100
	case diff < 100:
		return 85
	default:
		return 70
	}
}

// envScore is the mean environmental factor scaled to 0-100, capped so
// factors above 1.0 cannot inflate confidence.
func envScore(env domain.EnvironmentalFactors) float64 {
	mean := (env.LightingQuality + env.ColorTemperature + env.Contrast) / 3
	return math.Min(100, mean*100)
}
