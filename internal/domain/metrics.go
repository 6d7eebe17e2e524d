package domain

import (
	"time"

	"github.com/google/uuid"
)

// SkinMetrics holds the five heuristic scores, each an integer in
// [0,100]. Acne and wrinkles are present only for premium analyses.
type SkinMetrics struct {
	Oiliness int  `json:"oiliness"`
	Redness  int  `json:"redness"`
	Texture  int  `json:"texture"`
	Acne     *int `json:"acne,omitempty"`
	Wrinkles *int `json:"wrinkles,omitempty"`
}

// EnvironmentalFactors are multiplicative correction terms derived from
// the color samples, each centered near 1.0 (observed range 0.7-1.2).
type EnvironmentalFactors struct {
	LightingQuality  float64 `json:"lighting_quality"`
	ColorTemperature float64 `json:"color_temperature"`
	Contrast         float64 `json:"contrast"`
}

// SkinType is the coarse five-bucket ITA classification.
type SkinType string

const (
	SkinTypeVeryLight SkinType = "very-light"
	SkinTypeLight     SkinType = "light"
	SkinTypeMedium    SkinType = "medium"
	SkinTypeTan       SkinType = "tan"
	SkinTypeDark      SkinType = "dark"
)

// Advice carries one advisory string per reported metric.
type Advice struct {
	Oiliness string `json:"oiliness"`
	Redness  string `json:"redness"`
	Texture  string `json:"texture"`
	Acne     string `json:"acne,omitempty"`
	Wrinkles string `json:"wrinkles,omitempty"`
}

// RoutineSource says whether routine text came from the generator or
// from the deterministic fallback template.
type RoutineSource string

const (
	RoutineGenerated RoutineSource = "generated"
	RoutineFallback  RoutineSource = "fallback"
)

// AnalysisRecord is one completed analysis. Records are immutable after
// creation except for the later attachment of a premium detailed report.
type AnalysisRecord struct {
	ID            uuid.UUID            `json:"id"`
	UserID        uuid.UUID            `json:"-"`
	ImageRef      string               `json:"image_ref,omitempty"`
	Metrics       SkinMetrics          `json:"metrics"`
	Confidence    int                  `json:"confidence"`
	SkinType      SkinType             `json:"skin_type"`
	Environmental EnvironmentalFactors `json:"environmental_factors"`
	Advice        Advice               `json:"advice"`
	RoutineText   string               `json:"routine_text,omitempty"`
	RoutineSource RoutineSource        `json:"routine_source,omitempty"`
	Report        *DetailedReport      `json:"report,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// DetailedReport is the premium report attached to a record after the
// fact. Attachment is the only permitted mutation of a stored record.
type DetailedReport struct {
	Summary     string    `json:"summary"`
	Sections    []string  `json:"sections,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Tier is the user's entitlement tier.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// User is an authenticated mobile client.
type User struct {
	ID           uuid.UUID  `json:"id"`
	ExternalID   string     `json:"external_id"`
	TokenHash    string     `json:"-"`
	Tier         Tier       `json:"tier"`
	PremiumUntil *time.Time `json:"premium_until,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Premium reports whether the user currently has premium access.
func (u *User) Premium(now time.Time) bool {
	if u.Tier != TierPremium {
		return false
	}
	if u.PremiumUntil == nil {
		return true
	}
	return now.Before(*u.PremiumUntil)
}

// SimilarState is one result of a metric-vector similarity search over
// a user's past analyses.
type SimilarState struct {
	Record   AnalysisRecord `json:"record"`
	Distance float64        `json:"distance"`
}
