// Package user provides business logic for user registration and lookup.
package user

import (
	"context"
	"log/slog"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
)

// Service provides user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		logger: deps.Logger,
	}
}

// Register creates a user together with their investment account. Both rows
// commit in one transaction; a user without an account never exists.
func (s *Service) Register(ctx context.Context, email, firstName, lastName, password string) (*user.User, error) {
	u, err := user.New(email, firstName, lastName, password)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Users().Create(ctx, u); err != nil {
			return err
		}
		acct, err := account.New().WithUserID(u.ID).Build()
		if err != nil {
			return err
		}
		return uow.Accounts().Create(ctx, acct)
	})
	if err != nil {
		s.logger.Error("user registration failed", "email", email, "error", err)
		return nil, err
	}
	s.logger.Info("user registered", "userID", u.ID)
	return u, nil
}

// Get returns the user with the given ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		u, err = uow.Users().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail returns the user with the given email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		u, err = uow.Users().GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
