package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool this repository uses (compatible
// with pgxmock)
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// GetDaily returns the counters for one user and day. A day with no
// activity yields a zero record, not an error.
func (r *Repository) GetDaily(ctx context.Context, userID uuid.UUID, date time.Time) (*UsageRecord, error) {
	query := `
		SELECT user_id, date, analyses, reports, created_at, updated_at
		FROM usage_daily
		WHERE user_id = $1 AND date = $2
	`

	var record UsageRecord
	err := r.db.QueryRow(ctx, query, userID, dateOnly(date)).Scan(
		&record.UserID,
		&record.Date,
		&record.Analyses,
		&record.Reports,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return &UsageRecord{UserID: userID, Date: dateOnly(date)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user %s: get daily usage: %w", userID, err)
	}

	return &record, nil
}

func (r *Repository) IncrementDaily(ctx context.Context, userID uuid.UUID, date time.Time, field string, amount int) error {
	if field != "analyses" && field != "reports" {
		return fmt.Errorf("invalid field: %s", field)
	}

	query := fmt.Sprintf(`
		INSERT INTO usage_daily (user_id, date, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date)
		DO UPDATE SET %s = usage_daily.%s + EXCLUDED.%s, updated_at = NOW()
	`, field, field, field, field)

	_, err := r.db.Exec(ctx, query, userID, dateOnly(date), amount)
	if err != nil {
		return fmt.Errorf("user %s: increment daily %s: %w", userID, field, err)
	}

	return nil
}

// DeleteBefore removes usage rows older than the cutoff day.
func (r *Repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM usage_daily WHERE date < $1`

	result, err := r.db.Exec(ctx, query, dateOnly(cutoff))
	if err != nil {
		return 0, fmt.Errorf("delete old usage: %w", err)
	}

	return result.RowsAffected(), nil
}

// dateOnly truncates to the UTC day so counters never straddle
// timezones.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
