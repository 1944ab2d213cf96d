package redis

import (
	"context"
	"fmt"
	"time"

	"dice-token-backend/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AllowanceStore implements ports.RollAllowanceStore with per-day counters.
// Keys are scoped by user, roll kind and UTC date, so the window resets at
// midnight UTC without any cleanup job.
type AllowanceStore struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
	log    zerolog.Logger
}

// NewAllowanceStore creates a new Redis-backed allowance store.
func NewAllowanceStore(client *goredis.Client, log zerolog.Logger) *AllowanceStore {
	return &AllowanceStore{
		client: client,
		prefix: "rolls:",
		now:    time.Now,
		log:    log,
	}
}

// Consume takes one roll from today's allowance. Returns false when the
// limit is already spent. A limit <= 0 means unlimited; the counter is not
// touched at all.
func (s *AllowanceStore) Consume(ctx context.Context, userID string, kind domain.RollKind, limit int64) (bool, error) {
	if limit <= 0 {
		return true, nil
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s%s:%s:%s", s.prefix, userID, kind, now.Format("2006-01-02"))

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis allowance incr: %w", err)
	}

	// Set expiry only on first increment: the key dies shortly after the
	// window it counts.
	if count == 1 {
		midnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
		if err := s.client.Expire(ctx, key, midnight.Sub(now)+time.Minute).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to expire allowance key")
		}
	}

	if count > limit {
		// Roll refused; undo the increment so a later retry within the day
		// does not double-count.
		if err := s.client.Decr(ctx, key).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to undo allowance increment")
		}
		return false, nil
	}
	return true, nil
}
