package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	repo "github.com/oksasatya/tokenflow-auth/internal/domain/repository"
	"github.com/oksasatya/tokenflow-auth/pkg/helpers"
	"github.com/oksasatya/tokenflow-auth/pkg/validation"
)

// DefaultCodeTTL is how long a signup code stays valid.
const DefaultCodeTTL = 5 * time.Minute

// RegistrationService drives signup: a pending registration is created with a
// one-time code, and promoted to a verified identity only when the code is
// confirmed before it expires.
//
// A repeat signup for the same email replaces the pending registration, so
// only the most recent code is accepted.
type RegistrationService struct {
	Users    repo.UserRepository
	Pending  repo.PendingRegistrationStore
	Hasher   PasswordHasher
	Notifier Notifier
	Logger   *logrus.Logger

	// Optional collaborators.
	Audit AuditLogger
	Index UserIndexer

	CodeTTL  time.Duration
	Now      func() time.Time
	GenCode  func() (string, error)
	Avatar   func() string
	Suffixer func() string
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
}

func NewRegistrationService(users repo.UserRepository, pending repo.PendingRegistrationStore, hasher PasswordHasher, notifier Notifier, logger *logrus.Logger, codeTTL time.Duration) *RegistrationService {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &RegistrationService{
		Users:    users,
		Pending:  pending,
		Hasher:   hasher,
		Notifier: notifier,
		Logger:   logger,
		CodeTTL:  codeTTL,
		Now:      time.Now,
		GenCode:  helpers.GenOTPCode,
		Avatar:   helpers.RandomAvatarURL,
		Suffixer: helpers.UsernameSuffix,
	}
}

// ValidateSignup checks the signup fields in order and returns the first failure.
func ValidateSignup(fullName, email, password string) error {
	v := validation.Validator()
	if v.Var(fullName, "fullname") != nil {
		return invalid("fullname", "Fullname must be at least 3 letters long")
	}
	if email == "" {
		return invalid("email", "Enter email")
	}
	if v.Var(email, "signupemail") != nil {
		return invalid("email", "Email is invalid")
	}
	if v.Var(password, "pwd") != nil {
		return invalid("password", "Password should be 6 - 20 characters long with a numeric, 1 lowercase, and 1 uppercase letter")
	}
	return nil
}

// Initiate validates the signup, stores a pending registration and mails the code.
// The code itself is never returned to the caller.
func (s *RegistrationService) Initiate(ctx context.Context, in SignupInput) (*entity.PendingRegistration, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	if err := ValidateSignup(fullName, email, in.Password); err != nil {
		return nil, err
	}

	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w: %w", ErrStorage, err)
	}

	username, err := s.deriveUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := s.GenCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := s.now()
	p := &entity.PendingRegistration{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Username:     username,
		Code:         code,
		ExpiresAt:    now.Add(s.CodeTTL),
		CreatedAt:    now,
	}
	if err := s.Pending.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save pending registration: %w: %w", ErrStorage, err)
	}
	metricSignupInitiated.Add(1)

	meta := RequestMetaFrom(ctx)
	msg := VerificationMessage{
		To:        email,
		FullName:  fullName,
		Code:      code,
		ExpiresAt: p.ExpiresAt,
		SentAt:    now,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	// The pending registration is kept on delivery failure; a later signup replaces it.
	if err := s.Notifier.SendVerificationCode(ctx, msg); err != nil {
		s.log().WithError(err).WithField("email", email).Error("send verification code failed")
		return nil, fmt.Errorf("%w: %w", ErrNotifyFailed, err)
	}

	s.audit(ctx, AuditEntry{Email: email, Action: "signup_initiated", Metadata: map[string]any{"username": username}})
	s.log().WithFields(logrus.Fields{"email": email, "expires_at": p.ExpiresAt}).Info("signup code issued")
	return p, nil
}

// Confirm promotes the pending registration for email to a verified identity.
// Unknown emails and wrong codes both yield ErrCodeInvalid; a wrong code keeps
// the pending registration so the user can retry until it expires.
func (s *RegistrationService) Confirm(ctx context.Context, email, code string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	p, err := s.Pending.Get(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		metricSignupCodeRejected.Add(1)
		s.log().WithField("email", email).Info("no pending registration")
		return nil, ErrCodeInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("load pending registration: %w: %w", ErrStorage, err)
	}

	if p.Expired(s.now()) {
		if dErr := s.Pending.Delete(ctx, email); dErr != nil {
			s.log().WithError(dErr).WithField("email", email).Warn("delete expired registration failed")
		}
		metricSignupExpired.Add(1)
		s.log().WithField("email", email).Info("verification code expired")
		return nil, ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(p.Code)) != 1 {
		metricSignupCodeRejected.Add(1)
		s.log().WithField("email", email).Info("invalid verification code")
		return nil, ErrCodeInvalid
	}

	u := &entity.User{
		FullName:        strings.ToLower(p.FullName),
		Email:           p.Email,
		Username:        p.Username,
		PasswordHash:    p.PasswordHash,
		IsVerified:      true,
		ProfileImageURL: s.Avatar(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w: %w", ErrStorage, err)
	}

	if err := s.Pending.Delete(ctx, email); err != nil {
		// The identity exists; a replayed code now fails on the unique email index.
		s.log().WithError(err).WithField("email", email).Warn("delete confirmed registration failed")
	}
	metricSignupConfirmed.Add(1)

	if s.Index != nil {
		if err := s.Index.IndexUser(ctx, u); err != nil {
			s.log().WithError(err).WithField("user_id", u.ID).Warn("index user failed")
		}
	}
	s.audit(ctx, AuditEntry{UserID: u.ID, Email: u.Email, Action: "signup_confirmed"})
	s.log().WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user verified")
	return u, nil
}

// deriveUsername takes the email local part and appends a short random suffix
// when it is already taken. The check races with concurrent signups; the
// unique index on username settles it at Confirm.
func (s *RegistrationService) deriveUsername(ctx context.Context, email string) (string, error) {
	username := helpers.EmailLocalPart(email)
	taken, err := s.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("check username: %w: %w", ErrStorage, err)
	}
	if taken {
		username += s.Suffixer()
	}
	return username, nil
}

func (s *RegistrationService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *RegistrationService) log() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func (s *RegistrationService) audit(ctx context.Context, e AuditEntry) {
	recordAudit(ctx, s.Audit, s.log(), e)
}

func recordAudit(ctx context.Context, a AuditLogger, logger *logrus.Logger, e AuditEntry) {
	if a == nil {
		return
	}
	meta := RequestMetaFrom(ctx)
	e.IP, e.UserAgent = meta.IP, meta.UserAgent
	if err := a.Record(ctx, e); err != nil {
		logger.WithError(err).WithField("action", e.Action).Warn("audit record failed")
	}
}
