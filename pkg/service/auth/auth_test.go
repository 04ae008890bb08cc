package auth_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/pledgepool/internal/fixtures/fake"
	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	authsvc "github.com/amirasaad/pledgepool/pkg/service/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const testSecret = "test-secret"

func newService(t *testing.T) (*authsvc.Service, *fake.UoW) {
	t.Helper()
	uow := fake.NewUoW()
	cfg := &config.App{
		Auth: &config.Auth{Jwt: &config.Jwt{Secret: testSecret, Expiry: time.Hour}},
	}
	svc := authsvc.NewService(config.Deps{Uow: uow, Logger: slog.Default(), Config: cfg})
	return svc, uow
}

func seedUser(t *testing.T, uow *fake.UoW) *user.User {
	t.Helper()
	u, err := user.New("alice@example.com", "Alice", "Doe", "secret123")
	require.NoError(t, err)
	uow.SeedUser(u)
	return u
}

func TestLoginIssuesToken(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	svc, uow := newService(t)
	u := seedUser(t, uow)

	tokenStr, err := svc.Login(context.Background(), u.Email, "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	userID, err := authsvc.GetCurrentUserID(token)
	require.NoError(t, err)
	assert.Equal(u.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	svc, uow := newService(t)
	u := seedUser(t, uow)

	_, err := svc.Login(context.Background(), u.Email, "wrong")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLoginUnknownUserMapsToInvalidCredentials(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
	require.ErrorIs(t, err, user.ErrInvalidCredentials, "the response must not reveal whether the user exists")
}

func TestGetCurrentUserIDRejectsMissingClaims(t *testing.T) {
	t.Parallel()
	token := jwt.New(jwt.SigningMethodHS256)
	_, err := authsvc.GetCurrentUserID(token)
	require.ErrorIs(t, err, user.ErrUserUnauthorized)
}
