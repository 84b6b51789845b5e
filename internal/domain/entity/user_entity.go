package entity

import (
	"time"
)

// User is the aggregate root for the identity domain. It only ever exists for
// confirmed accounts; PasswordHash holds a bcrypt digest, never plaintext.
type User struct {
	ID              string
	FullName        string
	Email           string
	Username        string
	PasswordHash    string
	IsVerified      bool
	ProfileImageURL string
	JoinedAt        time.Time
	UpdatedAt       time.Time
}
