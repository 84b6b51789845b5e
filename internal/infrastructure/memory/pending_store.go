package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/internal/domain/repository"
)

// PendingStore keeps pending registrations in process memory. It does not
// survive restarts and is not shared between instances.
type PendingStore struct {
	mu        sync.Mutex
	items     map[string]entity.PendingRegistration
	retention time.Duration
}

// NewPendingStore returns an empty store. Expired entries are kept for
// retention, and never less than the code lifetime, so Confirm can still
// report them as expired.
func NewPendingStore(retention time.Duration) *PendingStore {
	return &PendingStore{items: make(map[string]entity.PendingRegistration), retention: retention}
}

func (s *PendingStore) Save(_ context.Context, p *entity.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.Email] = *p
	return nil
}

func (s *PendingStore) Get(_ context.Context, email string) (*entity.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *PendingStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, email)
	return nil
}

// Len reports the number of stored entries.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops entries whose retention window has passed and returns how many were removed.
func (s *PendingStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, p := range s.items {
		if now.After(p.ExpiresAt.Add(p.RetentionFor(s.retention))) {
			delete(s.items, k)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *PendingStore) RunSweeper(ctx context.Context, interval time.Duration, logger *logrus.Logger) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Sweep(now); n > 0 && logger != nil {
				logger.WithFields(logrus.Fields{"removed": n, "pending": s.Len()}).Debug("swept expired pending registrations")
			}
		}
	}
}

var _ repository.PendingRegistrationStore = (*PendingStore)(nil)
