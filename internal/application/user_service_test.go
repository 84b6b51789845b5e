package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
	"github.com/oksasatya/tokenflow-auth/pkg/helpers"
)

func newUserService(t *testing.T) (*application.UserService, *memoryUserRepo, *entity.User) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	hasher := helpers.NewBcryptHasher(4)
	users := newMemoryUserRepo()
	hash, err := hasher.Hash("Passw0rd")
	require.NoError(t, err)
	u := &entity.User{FullName: "jane doe", Email: "jane@ex.com", Username: "jane", PasswordHash: hash, IsVerified: true}
	require.NoError(t, users.Create(context.Background(), u))

	svc := application.NewUserService(users, hasher, helpers.NewJWTManager("test-secret", 0), logger)
	return svc, users, u
}

func TestSigninIssuesTokenForUser(t *testing.T) {
	svc, _, jane := newUserService(t)

	u, tok, err := svc.Signin(context.Background(), "jane@ex.com", "Passw0rd")
	require.NoError(t, err)
	require.Equal(t, jane.ID, u.ID)

	claims, err := helpers.NewJWTManager("test-secret", 0).ParseAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, jane.ID, claims.UserID)
	require.Nil(t, claims.ExpiresAt)
}

func TestSigninFailures(t *testing.T) {
	svc, _, _ := newUserService(t)

	_, _, err := svc.Signin(context.Background(), "nobody@ex.com", "Passw0rd")
	require.ErrorIs(t, err, application.ErrEmailNotFound)

	_, _, err = svc.Signin(context.Background(), "jane@ex.com", "WrongPass1")
	require.ErrorIs(t, err, application.ErrIncorrectPassword)
}

func TestSigninTrimsEmail(t *testing.T) {
	svc, _, jane := newUserService(t)

	u, _, err := svc.Signin(context.Background(), "  jane@ex.com ", "Passw0rd")
	require.NoError(t, err)
	require.Equal(t, jane.ID, u.ID)
}

func TestChangePasswordReplacesDigest(t *testing.T) {
	ctx := context.Background()
	svc, _, jane := newUserService(t)
	audit := &recordingAudit{}
	svc.Audit = audit

	require.NoError(t, svc.ChangePassword(ctx, jane.ID, "Passw0rd", "N3wSecret"))

	_, _, err := svc.Signin(ctx, "jane@ex.com", "Passw0rd")
	require.ErrorIs(t, err, application.ErrIncorrectPassword)
	_, _, err = svc.Signin(ctx, "jane@ex.com", "N3wSecret")
	require.NoError(t, err)

	require.Equal(t, "password_changed", audit.entries[0].Action)
}

func TestChangePasswordFailures(t *testing.T) {
	ctx := context.Background()
	svc, users, jane := newUserService(t)

	err := svc.ChangePassword(ctx, jane.ID, "Passw0rd", "weak")
	require.ErrorIs(t, err, application.ErrValidation)

	err = svc.ChangePassword(ctx, jane.ID, "short", "N3wSecret")
	require.ErrorIs(t, err, application.ErrValidation)

	err = svc.ChangePassword(ctx, jane.ID, "NotMine1", "N3wSecret")
	require.ErrorIs(t, err, application.ErrIncorrectPassword)

	err = svc.ChangePassword(ctx, "missing", "Passw0rd", "N3wSecret")
	require.ErrorIs(t, err, application.ErrUserNotFound)

	users.mu.Lock()
	delete(users.byID, jane.ID)
	users.mu.Unlock()
	err = svc.ChangePassword(ctx, jane.ID, "Passw0rd", "N3wSecret")
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

type failingRepo struct{ *memoryUserRepo }

func (failingRepo) UpdatePassword(context.Context, string, string) error {
	return errors.New("write concern failed")
}

func TestChangePasswordStorageError(t *testing.T) {
	svc, users, jane := newUserService(t)
	svc.Repo = failingRepo{users}

	err := svc.ChangePassword(context.Background(), jane.ID, "Passw0rd", "N3wSecret")
	require.ErrorIs(t, err, application.ErrStorage)
}

func TestGetProfile(t *testing.T) {
	svc, _, jane := newUserService(t)

	u, err := svc.GetProfile(context.Background(), jane.ID)
	require.NoError(t, err)
	require.Equal(t, "jane", u.Username)

	_, err = svc.GetProfile(context.Background(), "nope")
	require.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestSignupThenSigninEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.clock.t = time.Now()
	f.svc.Now = nil

	_, err := f.svc.Initiate(ctx, janeSignup())
	require.NoError(t, err)
	u, err := f.svc.Confirm(ctx, "jane@ex.com", f.notifier.lastCode())
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	users := application.NewUserService(f.users, helpers.NewBcryptHasher(4), helpers.NewJWTManager("s", time.Hour), logger)
	signed, tok, err := users.Signin(ctx, "jane@ex.com", "Passw0rd")
	require.NoError(t, err)
	require.Equal(t, u.ID, signed.ID)
	require.NotEmpty(t, tok)
}

func TestPaddedEmailSignupThenSignin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := janeSignup()
	in.Email = " jane@ex.com"
	_, err := f.svc.Initiate(ctx, in)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, " jane@ex.com", f.notifier.lastCode())
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	users := application.NewUserService(f.users, helpers.NewBcryptHasher(4), helpers.NewJWTManager("s", 0), logger)
	signed, _, err := users.Signin(ctx, " jane@ex.com", "Passw0rd")
	require.NoError(t, err)
	require.Equal(t, "jane@ex.com", signed.Email)
}
