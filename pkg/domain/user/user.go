// Package user contains the user entity. Every user owns exactly one
// investment account, created in the same transaction as the user.
package user

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when the actor is not the rightful
	// operator of a resource.
	ErrUserUnauthorized = errors.New("user unauthorized")
	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered user.
type User struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Password  string // bcrypt hash
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a User with a bcrypt-hashed password.
func New(email, firstName, lastName, password string) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New("invalid email address")
	}
	if firstName == "" || lastName == "" {
		return nil, errors.New("first and last name are required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewFromData hydrates a User from raw data. Repository use only.
func NewFromData(
	id uuid.UUID,
	email, firstName, lastName, password string,
	created, updated time.Time,
) *User {
	return &User{
		ID:        id,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  password,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// CheckPassword compares a plain password with the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
