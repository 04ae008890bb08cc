// Package user provides the GORM-backed user repository.
package user

import (
	"context"
	"errors"

	domain "github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a user repository bound to the given session.
func New(db *gorm.DB) repository.UserRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, u *domain.User) error {
	m := User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

func mapModelToDomain(m *User) *domain.User {
	return domain.NewFromData(
		m.ID,
		m.Email,
		m.FirstName,
		m.LastName,
		m.Password,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
