package repository

import (
	"context"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
)

// PendingRegistrationStore keeps provisional signups keyed by email.
// Save overwrites any existing entry for the same email.
type PendingRegistrationStore interface {
	Save(ctx context.Context, p *entity.PendingRegistration) error
	Get(ctx context.Context, email string) (*entity.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}
