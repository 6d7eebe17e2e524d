package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowlab/dermalyze/internal/domain"
)

const (
	FieldAnalyses = "analyses"
	FieldReports  = "reports"
)

// RepositoryInterface defines the storage operations the quota service
// needs.
type RepositoryInterface interface {
	GetDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*UsageRecord, error)
	IncrementDaily(ctx context.Context, userID uuid.UUID, date time.Time, field string, amount int) error
}

// Service enforces per-tier daily analysis quotas.
type Service struct {
	repo         RepositoryInterface
	freeQuota    int
	premiumQuota int
}

func NewService(repo RepositoryInterface, freeQuota, premiumQuota int) *Service {
	return &Service{
		repo:         repo,
		freeQuota:    freeQuota,
		premiumQuota: premiumQuota,
	}
}

// QuotaFor returns the daily analysis quota for the user's current
// entitlement.
func (s *Service) QuotaFor(user *domain.User, now time.Time) int {
	if user.Premium(now) {
		return s.premiumQuota
	}
	return s.freeQuota
}

// CheckQuota fails with ErrQuotaExceeded once today's analyses reach
// the tier quota. A quota <= 0 means unlimited.
func (s *Service) CheckQuota(ctx context.Context, user *domain.User, now time.Time) error {
	quota := s.QuotaFor(user, now)
	if quota <= 0 {
		return nil
	}

	record, err := s.repo.GetDaily(ctx, user.ID, now)
	if err != nil {
		return fmt.Errorf("check quota: %w", err)
	}

	if record.Analyses >= quota {
		return domain.ErrQuotaExceeded
	}

	return nil
}

// RecordAnalysis increments today's analysis counter.
func (s *Service) RecordAnalysis(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return s.repo.IncrementDaily(ctx, userID, now, FieldAnalyses, 1)
}

// RecordReport increments today's report counter.
func (s *Service) RecordReport(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return s.repo.IncrementDaily(ctx, userID, now, FieldReports, 1)
}

// Status reports today's consumption against the quota.
func (s *Service) Status(ctx context.Context, user *domain.User, now time.Time) (*QuotaStatus, error) {
	quota := s.QuotaFor(user, now)

	record, err := s.repo.GetDaily(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("usage status: %w", err)
	}

	status := &QuotaStatus{
		Used:  record.Analyses,
		Quota: quota,
	}
	if quota > 0 {
		status.Remaining = quota - record.Analyses
		if status.Remaining < 0 {
			status.Remaining = 0
		}
		status.Percentage = calculatePercentage(record.Analyses, quota)
	}

	return status, nil
}

func calculatePercentage(used, quota int) float64 {
	if quota <= 0 {
		return 0
	}
	return (float64(used) / float64(quota)) * 100
}
