package engine

import (
	"math"

	"github.com/glowlab/dermalyze/internal/domain"
)

// toneLab is the simplified luminance/chrominance transform used for
// ITA classification. Channels are normalized to 0-1 before scaling.
type toneLab struct {
	L float64
	A float64
	B float64
}

func toLab(c domain.RGB) toneLab {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255
	return toneLab{
		L: (0.299*r + 0.587*g + 0.114*b) * 100,
		A: (r - g) * 0.5 * 100,
		B: (g - b) * 0.5 * 100,
	}
}

// typologyAngle is the individual typology angle (ITA) in degrees.
func typologyAngle(c domain.RGB) float64 {
	lab := toLab(c)
	return math.Atan2(lab.B, lab.A) * 180 / math.Pi
}

// classifyTone buckets an ITA angle into the five coarse classes.
// Boundaries are strict: an angle of exactly 55 is "light".
func classifyTone(ita float64) domain.SkinType {
	switch {
	case ita > 55:
		return domain.SkinTypeVeryLight
	case ita > 41:
		return domain.SkinTypeLight
	case ita > 28:
		return domain.SkinTypeMedium
	case ita > 10:
		return domain.SkinTypeTan
	default:
		return domain.SkinTypeDark
	}
}

// toneAdjustment counteracts tone-driven bias in the raw color
// heuristics: bright skin reads oilier than it is, dark skin reads
// redder than it is.
type toneAdjustment struct {
	Oiliness float64
	Redness  float64
}

var toneAdjustments = map[domain.SkinType]toneAdjustment{
	domain.SkinTypeVeryLight: {Oiliness: 0.85, Redness: 1.15},
	domain.SkinTypeLight:     {Oiliness: 0.95, Redness: 1.05},
	domain.SkinTypeMedium:    {Oiliness: 1.00, Redness: 1.00},
	domain.SkinTypeTan:       {Oiliness: 1.05, Redness: 0.85},
	domain.SkinTypeDark:      {Oiliness: 1.10, Redness: 0.70},
}

// normalizeForTone classifies the dominant sample and applies the fixed
// per-class multipliers to oiliness and redness only. The [0,100] clamp
// is a guard against drift; the multipliers cannot normally exceed it.
func normalizeForTone(in scores, dominant domain.RGB) (scores, domain.SkinType) {
	class := classifyTone(typologyAngle(dominant))
	adj := toneAdjustments[class]

	out := in
	out.Oiliness = clamp(math.Round(in.Oiliness*adj.Oiliness), 0, 100)
	out.Redness = clamp(math.Round(in.Redness*adj.Redness), 0, 100)
	return out, class
}
