package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/internal/domain/repository"
	"github.com/oksasatya/tokenflow-auth/pkg/helpers"
)

// PendingStore keeps pending registrations in Redis as JSON. Each key lives
// until the code expires plus a retention window, so an expired code is still
// reported as expired rather than unknown, and stale entries clean themselves up.
type PendingStore struct {
	rdb       *redis.Client
	retention time.Duration
	now       func() time.Time
}

func NewPendingStore(rdb *redis.Client, retention time.Duration) *PendingStore {
	return &PendingStore{rdb: rdb, retention: retention, now: time.Now}
}

// ttl is measured from the registration's own timestamps when it has them,
// so the key outlives the code regardless of the Redis host clock.
func (s *PendingStore) ttl(p *entity.PendingRegistration) time.Duration {
	retention := p.RetentionFor(s.retention)
	ttl := p.Lifetime() + retention
	if p.Lifetime() == 0 {
		ttl = p.ExpiresAt.Sub(s.now()) + retention
	}
	return ttl
}

func (s *PendingStore) Save(ctx context.Context, p *entity.PendingRegistration) error {
	ttl := s.ttl(p)
	if ttl < time.Second {
		ttl = time.Second
	}
	return helpers.RedisSetJSON(ctx, s.rdb, helpers.KeyPendingSignup(p.Email), p, ttl)
}

func (s *PendingStore) Get(ctx context.Context, email string) (*entity.PendingRegistration, error) {
	var p entity.PendingRegistration
	found, err := helpers.RedisGetJSON(ctx, s.rdb, helpers.KeyPendingSignup(email), &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *PendingStore) Delete(ctx context.Context, email string) error {
	return helpers.RedisDel(ctx, s.rdb, helpers.KeyPendingSignup(email))
}

var _ repository.PendingRegistrationStore = (*PendingStore)(nil)
