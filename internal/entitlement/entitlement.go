// Package entitlement resolves a user's current tier, with a short
// TTL cache in front of the users table.
package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glowlab/dermalyze/internal/domain"
)

const cacheKeyEntitlement = "entitlement:%s"

// Entitlement is the resolved tier snapshot returned to clients.
type Entitlement struct {
	Tier         domain.Tier `json:"tier"`
	Premium      bool        `json:"premium"`
	PremiumUntil *time.Time  `json:"premium_until,omitempty"`
	CheckedAt    time.Time   `json:"checked_at"`
}

// UserGetter is the slice of the user repository this service needs.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Cache is the byte-level cache interface (satisfied by cache.PGCache).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service answers tier questions. Cache failures degrade to direct
// lookups, never to request failures.
type Service struct {
	users  UserGetter
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewService(users UserGetter, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Check resolves the user's entitlement, consulting the cache first.
func (s *Service) Check(ctx context.Context, userID uuid.UUID) (*Entitlement, error) {
	key := fmt.Sprintf(cacheKeyEntitlement, userID)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached Entitlement
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		s.logger.Warn("corrupt entitlement cache entry, refetching", "user_id", userID)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve entitlement: %w", err)
	}

	now := time.Now().UTC()
	ent := &Entitlement{
		Tier:         user.Tier,
		Premium:      user.Premium(now),
		PremiumUntil: user.PremiumUntil,
		CheckedAt:    now,
	}

	if data, err := json.Marshal(ent); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("failed to cache entitlement", "user_id", userID, "error", err)
		}
	}

	return ent, nil
}

// Invalidate drops the cached entitlement, for use after tier changes.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Delete(ctx, fmt.Sprintf(cacheKeyEntitlement, userID))
}
