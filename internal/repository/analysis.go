package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/glowlab/dermalyze/internal/domain"
)

const analysisColumns = `id, user_id, image_ref, oiliness, redness, texture, acne, wrinkles,
		confidence, skin_type, environmental, advice, routine_text, routine_source, report, created_at`

type AnalysisRepository struct {
	pool PgxPool
}

func NewAnalysisRepository(pool PgxPool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

func (r *AnalysisRepository) Create(ctx context.Context, record *domain.AnalysisRecord) error {
	query := `
		INSERT INTO analyses (id, user_id, image_ref, oiliness, redness, texture, acne, wrinkles,
			confidence, skin_type, environmental, advice, routine_text, routine_source, metrics_vec, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		RETURNING created_at
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.ImageRef,
		record.Metrics.Oiliness,
		record.Metrics.Redness,
		record.Metrics.Texture,
		record.Metrics.Acne,
		record.Metrics.Wrinkles,
		record.Confidence,
		record.SkinType,
		record.Environmental,
		record.Advice,
		record.RoutineText,
		record.RoutineSource,
		metricsVector(record.Metrics),
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("create analysis: %w", err)
	}

	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.AnalysisRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM analyses
		WHERE user_id = $1 AND id = $2
	`, analysisColumns)

	record, err := scanAnalysis(r.pool.QueryRow(ctx, query, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis by id: %w", err)
	}

	return record, nil
}

func (r *AnalysisRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AnalysisRecord, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, analysisColumns)

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent analyses: %w", err)
	}
	defer rows.Close()

	var records []domain.AnalysisRecord
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// GetRecentMetrics returns only the metric columns of the newest
// analyses, newest first. Used to seed temporal smoothing.
func (r *AnalysisRepository) GetRecentMetrics(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SkinMetrics, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	query := `
		SELECT oiliness, redness, texture, acne, wrinkles
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent metrics: %w", err)
	}
	defer rows.Close()

	var history []domain.SkinMetrics
	for rows.Next() {
		var m domain.SkinMetrics
		if err := rows.Scan(&m.Oiliness, &m.Redness, &m.Texture, &m.Acne, &m.Wrinkles); err != nil {
			return nil, fmt.Errorf("scan metrics: %w", err)
		}
		history = append(history, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return history, nil
}

// AttachReport sets the detailed report once. A second attachment
// attempt fails with ErrReportExists.
func (r *AnalysisRepository) AttachReport(ctx context.Context, userID, id uuid.UUID, report *domain.DetailedReport) error {
	query := `
		UPDATE analyses
		SET report = $3
		WHERE user_id = $1 AND id = $2 AND report IS NULL
	`

	result, err := r.pool.Exec(ctx, query, userID, id, report)
	if err != nil {
		return fmt.Errorf("attach report: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a missing record from an already attached report
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM analyses WHERE user_id = $1 AND id = $2)`
		if err := r.pool.QueryRow(ctx, checkQuery, userID, id).Scan(&exists); err != nil {
			return fmt.Errorf("attach report: %w", err)
		}
		if !exists {
			return domain.ErrAnalysisNotFound
		}
		return domain.ErrReportExists
	}

	return nil
}

// SearchSimilar finds the user's past analyses closest to the given one
// in metric space, ordered by L2 distance.
func (r *AnalysisRepository) SearchSimilar(ctx context.Context, userID, id uuid.UUID, limit int) ([]domain.SimilarState, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	var ref pgvector.Vector
	refQuery := `SELECT metrics_vec FROM analyses WHERE user_id = $1 AND id = $2`
	err := r.pool.QueryRow(ctx, refQuery, userID, id).Scan(&ref)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reference vector: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, metrics_vec <-> $3 AS distance
		FROM analyses
		WHERE user_id = $1 AND id <> $2
		ORDER BY distance ASC
		LIMIT $4
	`, analysisColumns)

	rows, err := r.pool.Query(ctx, query, userID, id, ref, limit)
	if err != nil {
		return nil, fmt.Errorf("search similar analyses: %w", err)
	}
	defer rows.Close()

	var matches []domain.SimilarState
	for rows.Next() {
		var state domain.SimilarState
		record, err := scanAnalysisWithDistance(rows, &state.Distance)
		if err != nil {
			return nil, fmt.Errorf("scan similar analysis: %w", err)
		}
		state.Record = *record
		matches = append(matches, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return matches, nil
}

// PruneToDepth deletes all but the newest keep analyses for a user.
// Free-tier retention runs this after every successful create.
func (r *AnalysisRepository) PruneToDepth(ctx context.Context, userID uuid.UUID, keep int) (int64, error) {
	if keep < 0 {
		return 0, domain.ErrInvalidLimit
	}

	query := `
		DELETE FROM analyses
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM analyses
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		)
	`

	result, err := r.pool.Exec(ctx, query, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("prune analyses: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteOlderThan removes analyses created before the cutoff,
// regardless of owner. The retention worker uses it.
func (r *AnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM analyses WHERE created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old analyses: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanAnalysis reads one analysis row in analysisColumns order.
func scanAnalysis(row pgx.Row) (*domain.AnalysisRecord, error) {
	var record domain.AnalysisRecord
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.ImageRef,
		&record.Metrics.Oiliness,
		&record.Metrics.Redness,
		&record.Metrics.Texture,
		&record.Metrics.Acne,
		&record.Metrics.Wrinkles,
		&record.Confidence,
		&record.SkinType,
		&record.Environmental,
		&record.Advice,
		&record.RoutineText,
		&record.RoutineSource,
		&record.Report,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func scanAnalysisWithDistance(row pgx.Row, distance *float64) (*domain.AnalysisRecord, error) {
	var record domain.AnalysisRecord
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.ImageRef,
		&record.Metrics.Oiliness,
		&record.Metrics.Redness,
		&record.Metrics.Texture,
		&record.Metrics.Acne,
		&record.Metrics.Wrinkles,
		&record.Confidence,
		&record.SkinType,
		&record.Environmental,
		&record.Advice,
		&record.RoutineText,
		&record.RoutineSource,
		&record.Report,
		&record.CreatedAt,
		distance,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// metricsVector folds the five scores into the similarity-search
// vector. Missing premium metrics map to zero.
func metricsVector(m domain.SkinMetrics) pgvector.Vector {
	acne := 0
	if m.Acne != nil {
		acne = *m.Acne
	}
	wrinkles := 0
	if m.Wrinkles != nil {
		wrinkles = *m.Wrinkles
	}

	return pgvector.NewVector([]float32{
		float32(m.Oiliness),
		float32(m.Redness),
		float32(m.Texture),
		float32(acne),
		float32(wrinkles),
	})
}
