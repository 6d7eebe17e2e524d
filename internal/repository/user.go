package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/glowlab/dermalyze/internal/domain"
)

type UserRepository struct {
	pool PgxPool
}

func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, external_id, token_hash, tier, premium_until, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Tier == "" {
		user.Tier = domain.TierFree
	}

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.ExternalID,
		user.TokenHash,
		user.Tier,
		user.PremiumUntil,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, external_id, token_hash, tier, premium_until, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.ExternalID,
		&user.TokenHash,
		&user.Tier,
		&user.PremiumUntil,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) GetByTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	query := `
		SELECT id, external_id, token_hash, tier, premium_until, is_active, created_at, updated_at
		FROM users
		WHERE token_hash = $1 AND is_active = true
	`

	var user domain.User
	err := r.pool.QueryRow(ctx, query, hash).Scan(
		&user.ID,
		&user.ExternalID,
		&user.TokenHash,
		&user.Tier,
		&user.PremiumUntil,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by token hash: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier domain.Tier, premiumUntil *time.Time) error {
	query := `
		UPDATE users
		SET tier = $2, premium_until = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, tier, premiumUntil)
	if err != nil {
		return fmt.Errorf("update user tier: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
