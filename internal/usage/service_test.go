package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowlab/dermalyze/internal/domain"
)

type stubRepo struct {
	record      *UsageRecord
	getErr      error
	incremented []string
}

func (s *stubRepo) GetDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*UsageRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.record != nil {
		return s.record, nil
	}
	return &UsageRecord{UserID: userID, Date: date}, nil
}

func (s *stubRepo) IncrementDaily(ctx context.Context, userID uuid.UUID, date time.Time, field string, amount int) error {
	s.incremented = append(s.incremented, field)
	return nil
}

func freeUser() *domain.User {
	return &domain.User{ID: uuid.New(), Tier: domain.TierFree, IsActive: true}
}

func premiumUser() *domain.User {
	return &domain.User{ID: uuid.New(), Tier: domain.TierPremium, IsActive: true}
}

func TestService_QuotaFor(t *testing.T) {
	svc := NewService(&stubRepo{}, 3, 50)
	now := time.Now()

	assert.Equal(t, 3, svc.QuotaFor(freeUser(), now))
	assert.Equal(t, 50, svc.QuotaFor(premiumUser(), now))

	// Expired premium falls back to the free quota
	past := now.Add(-time.Hour)
	expired := premiumUser()
	expired.PremiumUntil = &past
	assert.Equal(t, 3, svc.QuotaFor(expired, now))
}

func TestService_CheckQuota(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		used    int
		quota   int
		wantErr error
	}{
		{"under quota", 2, 3, nil},
		{"at quota", 3, 3, domain.ErrQuotaExceeded},
		{"over quota", 5, 3, domain.ErrQuotaExceeded},
		{"unlimited quota", 1000, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := freeUser()
			repo := &stubRepo{record: &UsageRecord{UserID: user.ID, Analyses: tt.used}}
			svc := NewService(repo, tt.quota, 50)

			err := svc.CheckQuota(context.Background(), user, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestService_CheckQuota_RepoError(t *testing.T) {
	svc := NewService(&stubRepo{getErr: errors.New("connection refused")}, 3, 50)

	err := svc.CheckQuota(context.Background(), freeUser(), time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestService_RecordCounters(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, 3, 50)
	ctx := context.Background()

	require.NoError(t, svc.RecordAnalysis(ctx, uuid.New(), time.Now()))
	require.NoError(t, svc.RecordReport(ctx, uuid.New(), time.Now()))
	assert.Equal(t, []string{FieldAnalyses, FieldReports}, repo.incremented)
}

func TestService_Status(t *testing.T) {
	user := freeUser()
	repo := &stubRepo{record: &UsageRecord{UserID: user.ID, Analyses: 2}}
	svc := NewService(repo, 3, 50)

	status, err := svc.Status(context.Background(), user, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Used)
	assert.Equal(t, 3, status.Quota)
	assert.Equal(t, 1, status.Remaining)
	assert.InDelta(t, 66.67, status.Percentage, 0.01)
}

func TestService_Status_OverQuotaClampsRemaining(t *testing.T) {
	user := freeUser()
	repo := &stubRepo{record: &UsageRecord{UserID: user.ID, Analyses: 7}}
	svc := NewService(repo, 3, 50)

	status, err := svc.Status(context.Background(), user, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, status.Remaining)
}

func TestCalculatePercentage(t *testing.T) {
	assert.Equal(t, 0.0, calculatePercentage(100, 0))
	assert.Equal(t, 0.0, calculatePercentage(100, -1))
	assert.Equal(t, 50.0, calculatePercentage(1, 2))
	assert.Equal(t, 150.0, calculatePercentage(3, 2))
}
