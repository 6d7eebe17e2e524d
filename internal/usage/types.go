package usage

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one user's counters for one UTC day.
type UsageRecord struct {
	UserID    uuid.UUID `json:"user_id"`
	Date      time.Time `json:"date"`
	Analyses  int       `json:"analyses"`
	Reports   int       `json:"reports"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuotaStatus summarizes today's consumption against the tier quota.
type QuotaStatus struct {
	Used       int     `json:"used"`
	Quota      int     `json:"quota"`
	Remaining  int     `json:"remaining"`
	Percentage float64 `json:"percentage"`
}
