// Package engine derives heuristic skin metrics from a small set of
// representative selfie colors. The whole pipeline is a pure function:
// identical input, including identical history, yields identical output.
package engine

import (
	"github.com/glowlab/dermalyze/internal/domain"
)

// Input is everything a single analysis depends on.
type Input struct {
	// Samples are the extracted colors; missing slots fall back to the
	// neutral default rather than erroring.
	Samples domain.ColorSamples

	// Previous holds up to two prior metric records for the same user,
	// most-recent-first. Extra entries are ignored.
	Previous []domain.SkinMetrics

	// FaceYawDegrees is the detected head turn, when available.
	FaceYawDegrees *float64

	// Premium controls whether acne and wrinkles appear in the result.
	Premium bool
}

// Result is the engine output for one analysis.
type Result struct {
	Metrics       domain.SkinMetrics
	Confidence    int
	SkinType      domain.SkinType
	Environmental domain.EnvironmentalFactors
	Advice        domain.Advice
}

// Compute runs the full pipeline: raw scoring, environmental
// correction, temporal smoothing, skin-type normalization, confidence
// scoring and advice selection. Each stage clamps its own output, so
// every returned metric is an integer in [0,100] for any input.
func Compute(in Input) Result {
	samples := in.Samples.Normalize()

	raw := rawScores(samples)
	env := environmentalFactors(samples)
	corrected := applyEnvironment(raw, env)
	smoothed := smooth(corrected, in.Previous)
	final, class := normalizeForTone(smoothed, samples.Dominant)
	confidence := confidenceScore(samples, in.FaceYawDegrees, env)

	metrics := domain.SkinMetrics{
		Oiliness: int(final.Oiliness),
		Redness:  int(final.Redness),
		Texture:  int(final.Texture),
	}
	if in.Premium {
		acne := int(final.Acne)
		wrinkles := int(final.Wrinkles)
		metrics.Acne = &acne
		metrics.Wrinkles = &wrinkles
	}

	return Result{
		Metrics:       metrics,
		Confidence:    confidence,
		SkinType:      class,
		Environmental: env,
		Advice:        buildAdvice(final, confidence, class, in.Premium),
	}
}
