package application

import (
	"context"
	"time"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
)

// PasswordHasher produces and checks credential digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer signs access tokens that embed the user id.
type TokenIssuer interface {
	GenerateAccessToken(userID string) (string, time.Time, error)
}

// VerificationMessage is everything a notifier needs to deliver a signup code.
type VerificationMessage struct {
	To        string
	FullName  string
	Code      string
	ExpiresAt time.Time
	SentAt    time.Time
	IP        string
	UserAgent string
}

// Notifier delivers one-time codes out of band.
type Notifier interface {
	SendVerificationCode(ctx context.Context, msg VerificationMessage) error
}

// AuditEntry is a single security-relevant event.
type AuditEntry struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
}

// AuditLogger records audit entries. Implementations must not block the request on failure.
type AuditLogger interface {
	Record(ctx context.Context, e AuditEntry) error
}

// UserIndexer mirrors confirmed identities into a search index.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}

// RequestMeta describes the caller of an operation.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type metaKey struct{}

// WithRequestMeta attaches caller details to ctx for notifications and audit entries.
func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// RequestMetaFrom returns the caller details attached by WithRequestMeta, if any.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	m, _ := ctx.Value(metaKey{}).(RequestMeta)
	return m
}
