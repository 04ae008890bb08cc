// Package auth provides credential verification and JWT issuing.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service provides authentication operations.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		cfg:    deps.Config.Auth.Jwt,
		logger: deps.Logger,
	}
}

// Login verifies the credentials and returns a signed JWT. A missing user
// and a wrong password both map to user.ErrInvalidCredentials so the
// response does not reveal which one failed.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		u, err = uow.Users().GetByEmail(ctx, email)
		return err
	})
	if errors.Is(err, user.ErrUserNotFound) {
		return "", user.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !u.CheckPassword(password) {
		return "", user.ErrInvalidCredentials
	}

	token, err := s.generateToken(u)
	if err != nil {
		s.logger.Error("token generation failed", "userID", u.ID, "error", err)
		return "", err
	}
	s.logger.Info("user logged in", "userID", u.ID)
	return token, nil
}

func (s *Service) generateToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"exp":   time.Now().Add(s.cfg.Expiry).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// GetCurrentUserID extracts the authenticated user ID from a verified token.
func GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return id, nil
}
