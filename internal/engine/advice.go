package engine

import (
	"github.com/glowlab/dermalyze/internal/domain"
)

// tier buckets a final metric score: low (<40), moderate (40-69),
// high (>=70).
type tier int

const (
	tierLow tier = iota
	tierModerate
	tierHigh
)

func tierFor(score float64) tier {
	switch {
	case score < 40:
		return tierLow
	case score < 70:
		return tierModerate
	default:
		return tierHigh
	}
}

// lowConfidenceCaveat prefixes advice when confidence drops below 80.
const lowConfidenceCaveat = "Capture conditions limited this reading. "

const confidenceCaveatThreshold = 80

var adviceCopy = map[string][3]string{
	"oiliness": {
		"Your skin reads on the drier side; a richer moisturizer morning and night will help.",
		"Oil levels look balanced; keep a gentle cleanser and a light moisturizer in rotation.",
		"Shine is elevated; consider a foaming cleanser and an oil-free moisturizer.",
	},
	"redness": {
		"Little visible redness; your barrier looks calm.",
		"Mild redness showing; a fragrance-free routine with niacinamide can settle it.",
		"Pronounced redness; avoid hot water and exfoliants, and consider a soothing serum with centella.",
	},
	"texture": {
		"Surface texture looks smooth; maintenance is all you need.",
		"Some unevenness in texture; gentle chemical exfoliation once or twice a week can refine it.",
		"Rough texture detected; build up a retinoid slowly and keep sun protection consistent.",
	},
	"acne": {
		"Few blemish signals; keep pores clear with regular cleansing.",
		"Moderate blemish activity; a salicylic-acid cleanser a few times a week may help.",
		"Strong blemish signals; consistent benzoyl peroxide or salicylic acid is worth trying, and consider a dermatologist.",
	},
	"wrinkles": {
		"Fine lines are minimal; sunscreen is your best long-term investment.",
		"Early fine lines visible; nightly retinol plus daily SPF slows their progress.",
		"Deeper lines detected; a retinoid routine and dedicated hydration make the biggest difference.",
	},
}

// toneClauses are appended to the oiliness and redness advice for
// classes where the heuristics needed correction, so the user knows the
// reading is tone-adjusted.
var toneClauses = map[domain.SkinType]string{
	domain.SkinTypeVeryLight: " Very light skin tends to photograph shinier than it is.",
	domain.SkinTypeLight:     " Light skin can read slightly oilier on camera.",
	domain.SkinTypeTan:       " Tan skin often photographs warmer, so redness is adjusted down.",
	domain.SkinTypeDark:      " Deeper skin tones photograph warmer, so redness is adjusted down.",
}

// buildAdvice selects the advisory strings for the final scores.
// Wording is product copy; the tier thresholds and the confidence and
// skin-type conditioning are the behavior that matters.
func buildAdvice(final scores, confidence int, class domain.SkinType, premium bool) domain.Advice {
	prefix := ""
	if confidence < confidenceCaveatThreshold {
		prefix = lowConfidenceCaveat
	}
	clause := toneClauses[class]

	adv := domain.Advice{
		Oiliness: prefix + adviceCopy["oiliness"][tierFor(final.Oiliness)] + clause,
		Redness:  prefix + adviceCopy["redness"][tierFor(final.Redness)] + clause,
		Texture:  prefix + adviceCopy["texture"][tierFor(final.Texture)],
	}
	if premium {
		adv.Acne = prefix + adviceCopy["acne"][tierFor(final.Acne)]
		adv.Wrinkles = prefix + adviceCopy["wrinkles"][tierFor(final.Wrinkles)]
	}
	return adv
}
