package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glowlab/dermalyze/internal/domain"
)

func TestTierFor_Thresholds(t *testing.T) {
	assert.Equal(t, tierLow, tierFor(0))
	assert.Equal(t, tierLow, tierFor(39))
	assert.Equal(t, tierModerate, tierFor(40))
	assert.Equal(t, tierModerate, tierFor(69))
	assert.Equal(t, tierHigh, tierFor(70))
	assert.Equal(t, tierHigh, tierFor(100))
}

func TestBuildAdvice_TierSelection(t *testing.T) {
	low := buildAdvice(scores{Oiliness: 10, Redness: 10, Texture: 10}, 95, domain.SkinTypeMedium, false)
	high := buildAdvice(scores{Oiliness: 90, Redness: 90, Texture: 90}, 95, domain.SkinTypeMedium, false)

	assert.NotEqual(t, low.Oiliness, high.Oiliness)
	assert.NotEqual(t, low.Redness, high.Redness)
	assert.NotEqual(t, low.Texture, high.Texture)
}

func TestBuildAdvice_LowConfidenceCaveat(t *testing.T) {
	final := scores{Oiliness: 50, Redness: 50, Texture: 50, Acne: 50, Wrinkles: 50}

	confident := buildAdvice(final, 80, domain.SkinTypeMedium, true)
	hedged := buildAdvice(final, 79, domain.SkinTypeMedium, true)

	for _, s := range []string{confident.Oiliness, confident.Redness, confident.Texture, confident.Acne, confident.Wrinkles} {
		assert.False(t, strings.HasPrefix(s, lowConfidenceCaveat), "unexpected caveat on %q", s)
	}
	for _, s := range []string{hedged.Oiliness, hedged.Redness, hedged.Texture, hedged.Acne, hedged.Wrinkles} {
		assert.True(t, strings.HasPrefix(s, lowConfidenceCaveat), "missing caveat on %q", s)
	}
}

func TestBuildAdvice_SkinTypeClause(t *testing.T) {
	final := scores{Oiliness: 50, Redness: 50, Texture: 50}

	medium := buildAdvice(final, 95, domain.SkinTypeMedium, false)
	dark := buildAdvice(final, 95, domain.SkinTypeDark, false)

	assert.NotContains(t, medium.Oiliness, toneClauses[domain.SkinTypeDark])
	assert.True(t, strings.HasSuffix(dark.Oiliness, toneClauses[domain.SkinTypeDark]))
	assert.True(t, strings.HasSuffix(dark.Redness, toneClauses[domain.SkinTypeDark]))
	// Texture advice is never tone-conditioned.
	assert.Equal(t, medium.Texture, dark.Texture)
}

func TestBuildAdvice_PremiumFields(t *testing.T) {
	final := scores{Oiliness: 50, Redness: 50, Texture: 50, Acne: 50, Wrinkles: 50}

	free := buildAdvice(final, 95, domain.SkinTypeMedium, false)
	assert.Empty(t, free.Acne)
	assert.Empty(t, free.Wrinkles)

	prem := buildAdvice(final, 95, domain.SkinTypeMedium, true)
	assert.NotEmpty(t, prem.Acne)
	assert.NotEmpty(t, prem.Wrinkles)
}
