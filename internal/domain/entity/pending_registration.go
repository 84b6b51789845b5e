package entity

import "time"

// PendingRegistration is a provisional signup waiting for its one-time code.
// At most one exists per email; a repeat signup replaces it.
type PendingRegistration struct {
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"password_hash"`
	Username     string    `json:"username"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the code is past its validity window at now.
func (p *PendingRegistration) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Lifetime is how long the code was issued for, or zero when CreatedAt is unset.
func (p *PendingRegistration) Lifetime() time.Duration {
	if p.CreatedAt.IsZero() || !p.ExpiresAt.After(p.CreatedAt) {
		return 0
	}
	return p.ExpiresAt.Sub(p.CreatedAt)
}

// RetentionFor floors a store's retention window at the code's lifetime, so a
// store whose clock runs ahead of the issuer's still reports the code as expired.
func (p *PendingRegistration) RetentionFor(retention time.Duration) time.Duration {
	return max(retention, p.Lifetime())
}
