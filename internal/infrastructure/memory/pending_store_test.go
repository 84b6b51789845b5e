package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/internal/domain/repository"
)

func TestPendingStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewPendingStore(time.Hour)

	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com", Code: "111111"}))
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com", Code: "222222"}))

	p, err := s.Get(ctx, "jane@ex.com")
	require.NoError(t, err)
	require.Equal(t, "222222", p.Code)
	require.Equal(t, 1, s.Len())
}

func TestPendingStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewPendingStore(time.Hour)
	in := &entity.PendingRegistration{Email: "jane@ex.com", Code: "111111"}
	require.NoError(t, s.Save(ctx, in))
	in.Code = "999999"

	p, err := s.Get(ctx, "jane@ex.com")
	require.NoError(t, err)
	require.Equal(t, "111111", p.Code)
}

func TestPendingStoreDeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	s := NewPendingStore(time.Hour)
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com"}))
	require.NoError(t, s.Delete(ctx, "jane@ex.com"))

	_, err := s.Get(ctx, "jane@ex.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, s.Delete(ctx, "nobody@ex.com"))
}

func TestPendingStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewPendingStore(10 * time.Minute)
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "old@ex.com", ExpiresAt: now.Add(-11 * time.Minute)}))
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "recent@ex.com", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "live@ex.com", ExpiresAt: now.Add(time.Minute)}))

	require.Equal(t, 1, s.Sweep(now))
	require.Equal(t, 2, s.Len())
	_, err := s.Get(ctx, "old@ex.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSweepKeepsEntriesForAtLeastTheCodeLifetime(t *testing.T) {
	ctx := context.Background()
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewPendingStore(0)
	require.NoError(t, s.Save(ctx, &entity.PendingRegistration{Email: "jane@ex.com", CreatedAt: issued, ExpiresAt: issued.Add(5 * time.Minute)}))

	require.Equal(t, 0, s.Sweep(issued.Add(9*time.Minute)))
	require.Equal(t, 1, s.Sweep(issued.Add(11*time.Minute)))
}

func TestRunSweeperStopsOnCancel(t *testing.T) {
	s := NewPendingStore(0)
	require.NoError(t, s.Save(context.Background(), &entity.PendingRegistration{Email: "old@ex.com", ExpiresAt: time.Now().Add(-time.Hour)}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, 5*time.Millisecond, nil)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
