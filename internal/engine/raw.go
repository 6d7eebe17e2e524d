package engine

import (
	"math"

	"github.com/glowlab/dermalyze/internal/domain"
)

// scores carries all five metrics through the pipeline as floats.
// Premium gating happens once, at the end, when the result is built.
type scores struct {
	Oiliness float64
	Redness  float64
	Texture  float64
	Acne     float64
	Wrinkles float64
}

func (s scores) rounded() scores {
	return scores{
		Oiliness: math.Round(s.Oiliness),
		Redness:  math.Round(s.Redness),
		Texture:  math.Round(s.Texture),
		Acne:     math.Round(s.Acne),
		Wrinkles: math.Round(s.Wrinkles),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rawScores converts the three color samples into the five raw metric
// scores. Pure color arithmetic, no history or environment involved.
// Each metric is clamped into its own sub-range and rounded.
func rawScores(s domain.NormalizedSamples) scores {
	out := scores{
		Oiliness: rawOiliness(s),
		Redness:  rawRedness(s),
		Texture:  rawTexture(s),
		Acne:     rawAcne(s),
		Wrinkles: rawWrinkles(s),
	}
	return out.rounded()
}

// rawOiliness maps mean brightness of dominant+average through a
// piecewise-linear curve, with a small additive term from the dominant
// channel spread (shiny skin reads bright and slightly saturated).
func rawOiliness(s domain.NormalizedSamples) float64 {
	b := (s.Dominant.Brightness() + s.Average.Brightness()) / 2

	var score float64
	switch {
	case b <= 50:
		score = 15 + 0.2*b
	case b <= 180:
		score = 25 + 0.35*(b-50)
	default:
		score = 70.5 + 0.3*(b-180)
	}

	score += 0.08 * float64(s.Dominant.Spread())
	return clamp(score, 15, 85)
}

// rawRedness scores the red channel against the green/blue mean of the
// dominant and average samples, with a positive-only erythema term from
// the dominant red-green gap.
func rawRedness(s domain.NormalizedSamples) float64 {
	rr := (redRatio(s.Dominant) + redRatio(s.Average)) / 2

	var score float64
	switch {
	case rr <= 0.9:
		score = 8 + 4*rr
	case rr <= 1.4:
		score = 11.6 + 30*(rr-0.9)
	default:
		score = 26.6 + 120*(rr-1.4)
	}

	score += 0.1 * math.Max(0, float64(s.Dominant.R-s.Dominant.G))
	return clamp(score, 8, 85)
}

func redRatio(c domain.RGB) float64 {
	gb := float64(c.G+c.B) / 2
	if gb < 1 {
		gb = 1
	}
	return float64(c.R) / gb
}

// rawTexture combines the pairwise luminance spread of the three samples
// with the mean per-channel distance between dominant and average.
func rawTexture(s domain.NormalizedSamples) float64 {
	ld := s.Dominant.Luminance()
	la := s.Average.Luminance()
	lv := s.Vibrant.Luminance()

	interDiff := math.Abs(ld-la) + math.Abs(la-lv) + math.Abs(ld-lv)
	score := 10 + 0.3*interDiff + 0.2*meanChannelDiff(s.Dominant, s.Average)
	return clamp(score, 10, 80)
}

// rawAcne combines inverted brightness with the channel irregularity
// between dominant and average.
func rawAcne(s domain.NormalizedSamples) float64 {
	darkness := 255 - (s.Dominant.Brightness()+s.Average.Brightness())/2
	score := 5 + 0.25*darkness + 0.4*meanChannelDiff(s.Dominant, s.Average)
	return clamp(score, 5, 60)
}

// rawWrinkles combines the dominant-vibrant channel contrast with their
// luminance gap.
func rawWrinkles(s domain.NormalizedSamples) float64 {
	lumDiff := math.Abs(s.Dominant.Luminance() - s.Vibrant.Luminance())
	score := 8 + 0.5*meanChannelDiff(s.Dominant, s.Vibrant) + 0.3*lumDiff
	return clamp(score, 8, 75)
}

func meanChannelDiff(a, b domain.RGB) float64 {
	return float64(absInt(a.R-b.R)+absInt(a.G-b.G)+absInt(a.B-b.B)) / 3
}

func sumChannelDiff(a, b domain.RGB) float64 {
	return float64(absInt(a.R-b.R) + absInt(a.G-b.G) + absInt(a.B-b.B))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
