// Package user provides HTTP handlers for user registration and lookup.
package user

import (
	"time"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/amirasaad/pledgepool/pkg/middleware"
	usersvc "github.com/amirasaad/pledgepool/pkg/service/user"
	"github.com/amirasaad/pledgepool/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// UserDTO is the API representation of a user. The password hash never
// leaves the server.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserDTO maps a user to its API representation.
func ToUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// Routes registers user endpoints.
//
// Routes:
//   - POST   /user    : Register a new user with their investment account.
//   - GET    /user/me : Get the authenticated user's profile.
func Routes(app *fiber.App, userSvc *usersvc.Service, cfg *config.App) {
	app.Post("/user", Register(userSvc))
	app.Get("/user/me", middleware.JwtProtected(cfg.Auth.Jwt), GetMe(userSvc))
}

// Register returns a handler that creates a user and their account.
func Register(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Register(c.UserContext(), input.Email, input.FirstName, input.LastName, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to register user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", ToUserDTO(u))
	}
}

// GetMe returns a handler serving the authenticated user's profile.
func GetMe(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		u, err := userSvc.Get(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User retrieved", ToUserDTO(u))
	}
}
