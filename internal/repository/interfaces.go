package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glowlab/dermalyze/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use
// (compatible with pgxmock.PgxPoolIface)
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// UserRepositoryInterface defines operations for user data access
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByTokenHash(ctx context.Context, hash string) (*domain.User, error)
	UpdateTier(ctx context.Context, id uuid.UUID, tier domain.Tier, premiumUntil *time.Time) error
}

// AnalysisRepositoryInterface defines operations for analysis data access
type AnalysisRepositoryInterface interface {
	Create(ctx context.Context, record *domain.AnalysisRecord) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.AnalysisRecord, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AnalysisRecord, error)
	GetRecentMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SkinMetrics, error)
	AttachReport(ctx context.Context, userID, id uuid.UUID, report *domain.DetailedReport) error
	SearchSimilar(ctx context.Context, userID, id uuid.UUID, limit int) ([]domain.SimilarState, error)
	PruneToDepth(ctx context.Context, userID uuid.UUID, keep int) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
