package repository

import (
	"strings"

	"github.com/glowlab/dermalyze/internal/domain"
)

const maxListLimit = 50

// isUniqueViolation checks if the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "23505") ||
		strings.Contains(errMsg, "unique") ||
		strings.Contains(errMsg, "duplicate key")
}

// validateLimit rejects limits outside [1, maxListLimit] before any
// query runs.
func validateLimit(limit int) error {
	if limit < 1 || limit > maxListLimit {
		return domain.ErrInvalidLimit
	}
	return nil
}
