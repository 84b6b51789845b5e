package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/internal/domain/repository"
)

func newStore(t *testing.T, retention time.Duration) (*PendingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPendingStore(rdb, retention), mr
}

func TestSaveGetRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, time.Hour)
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)

	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{
		Email: "jane@ex.com", FullName: "Jane Doe", Username: "jane", Code: "123456", PasswordHash: "h", ExpiresAt: exp,
	}))

	p, err := s.Get(ctx, "jane@ex.com")
	require.NoError(t, err)
	require.Equal(t, "123456", p.Code)
	require.Equal(t, "jane", p.Username)
	require.True(t, exp.Equal(p.ExpiresAt))

	ttl := mr.TTL("signup:pending:jane@ex.com")
	require.Greater(t, ttl, time.Hour)
	require.LessOrEqual(t, ttl, time.Hour+5*time.Minute)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, time.Hour)
	exp := time.Now().Add(5 * time.Minute)

	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com", Code: "111111", ExpiresAt: exp}))
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com", Code: "222222", ExpiresAt: exp}))

	p, err := s.Get(ctx, "jane@ex.com")
	require.NoError(t, err)
	require.Equal(t, "222222", p.Code)
}

func TestEntryVanishesAfterRetention(t *testing.T) {
	ctx := context.Background()
	// retention below the 5m code lifetime is raised to 5m
	s, mr := newStore(t, time.Minute)
	now := time.Now()
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com", Code: "111111", CreatedAt: now, ExpiresAt: now.Add(5 * time.Minute)}))

	mr.FastForward(7 * time.Minute)
	_, err := s.Get(ctx, "jane@ex.com")
	require.NoError(t, err)

	mr.FastForward(4 * time.Minute)
	_, err = s.Get(ctx, "jane@ex.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, time.Hour)
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com", ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, s.Delete(ctx, "jane@ex.com"))

	_, err := s.Get(ctx, "jane@ex.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestZeroRetentionKeepsExpiredCodeUnderClockSkew(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, 0)
	// issued by a clock an hour behind this process
	issued := time.Now().Add(-time.Hour)
	p := &entity.PendingRegistration{Email: "jane@ex.com", Code: "111111", CreatedAt: issued, ExpiresAt: issued.Add(5 * time.Minute)}
	require.NoError(t, s.Save(ctx, p))

	require.Equal(t, 10*time.Minute, mr.TTL("signup:pending:jane@ex.com"))

	mr.FastForward(9 * time.Minute)
	got, err := s.Get(ctx, "jane@ex.com")
	require.NoError(t, err)
	require.True(t, got.Expired(issued.Add(6*time.Minute)))
}
