package engine

import (
	"math"

	"github.com/glowlab/dermalyze/internal/domain"
)

// smoothingWeights apply to [current, previous, previous-but-one].
// Missing history slots contribute zero weight, not zero value, and the
// remaining weights are deliberately not renormalized: with short
// history the blended value stays dominated by the current frame.
var smoothingWeights = [3]float64{0.5, 0.3, 0.2}

// smooth blends the current scores with up to two previous records
// (most-recent-first). With no history it is an exact pass-through.
func smooth(cur scores, previous []domain.SkinMetrics) scores {
	if len(previous) == 0 {
		return cur
	}
	if len(previous) > 2 {
		previous = previous[:2]
	}

	out := scores{
		Oiliness: smoothOne(cur.Oiliness, previous, func(m domain.SkinMetrics) (float64, bool) {
			return float64(m.Oiliness), true
		}),
		Redness: smoothOne(cur.Redness, previous, func(m domain.SkinMetrics) (float64, bool) {
			return float64(m.Redness), true
		}),
		Texture: smoothOne(cur.Texture, previous, func(m domain.SkinMetrics) (float64, bool) {
			return float64(m.Texture), true
		}),
		Acne: smoothOne(cur.Acne, previous, func(m domain.SkinMetrics) (float64, bool) {
			if m.Acne == nil {
				return 0, false
			}
			return float64(*m.Acne), true
		}),
		Wrinkles: smoothOne(cur.Wrinkles, previous, func(m domain.SkinMetrics) (float64, bool) {
			if m.Wrinkles == nil {
				return 0, false
			}
			return float64(*m.Wrinkles), true
		}),
	}
	return out
}

// smoothOne computes the weighted blend for a single metric. A previous
// record that lacks the metric (free-tier history has no acne/wrinkles)
// counts as a missing slot for that metric only.
func smoothOne(cur float64, previous []domain.SkinMetrics, get func(domain.SkinMetrics) (float64, bool)) float64 {
	hasAny := false
	sum := smoothingWeights[0] * cur
	for i, prev := range previous {
		v, ok := get(prev)
		if !ok {
			continue
		}
		hasAny = true
		sum += smoothingWeights[i+1] * v
	}
	if !hasAny {
		return cur
	}
	return math.Round(sum)
}
