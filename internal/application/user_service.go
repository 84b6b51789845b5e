package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	repo "github.com/oksasatya/tokenflow-auth/internal/domain/repository"
	"github.com/oksasatya/tokenflow-auth/pkg/validation"
)

// PasswordPolicyMessage is reported when a change-password request fails the password rules.
const PasswordPolicyMessage = "Password should be 6 - 20 characters long with a numeric, 1 lowercase and 1 uppercase letters"

type UserService struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Logger *logrus.Logger
	Audit  AuditLogger
}

func NewUserService(repo repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Hasher: hasher, Tokens: tokens, Logger: logger}
}

// IssueToken signs an access token for u.
func (s *UserService) IssueToken(u *entity.User) (string, error) {
	tok, _, err := s.Tokens.GenerateAccessToken(u.ID)
	if err != nil {
		s.log().WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return "", err
	}
	return tok, nil
}

// Signin checks email/password and returns the user with a fresh access token.
func (s *UserService) Signin(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = strings.TrimSpace(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		metricSigninFailed.Add(1)
		return nil, "", ErrEmailNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup email: %w: %w", ErrStorage, err)
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		metricSigninFailed.Add(1)
		recordAudit(ctx, s.Audit, s.log(), AuditEntry{UserID: u.ID, Email: u.Email, Action: "signin_failed"})
		return nil, "", ErrIncorrectPassword
	}
	tok, err := s.IssueToken(u)
	if err != nil {
		return nil, "", err
	}
	metricSigninSucceeded.Add(1)
	recordAudit(ctx, s.Audit, s.log(), AuditEntry{UserID: u.ID, Email: u.Email, Action: "signin"})
	return u, tok, nil
}

// ChangePassword replaces the stored digest after confirming the current password.
// Both passwords must satisfy the password policy.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	v := validation.Validator()
	if v.Var(currentPassword, "required,pwd") != nil || v.Var(newPassword, "required,pwd") != nil {
		return invalid("password", PasswordPolicyMessage)
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w: %w", ErrStorage, err)
	}
	if !s.Hasher.Compare(u.PasswordHash, currentPassword) {
		return ErrIncorrectPassword
	}
	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w: %w", ErrStorage, err)
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w: %w", ErrStorage, err)
	}
	recordAudit(ctx, s.Audit, s.log(), AuditEntry{UserID: u.ID, Email: u.Email, Action: "password_changed"})
	s.log().WithField("user_id", u.ID).Info("password changed")
	return nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w: %w", ErrStorage, err)
	}
	return u, nil
}

func (s *UserService) log() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
