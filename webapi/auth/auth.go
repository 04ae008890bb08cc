// Package auth provides HTTP handlers for login and logout.
package auth

import (
	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/middleware"
	authsvc "github.com/amirasaad/pledgepool/pkg/service/auth"
	"github.com/amirasaad/pledgepool/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// Routes registers authentication endpoints.
//
// Routes:
//   - POST   /auth/login  : Exchange credentials for a JWT.
//   - POST   /auth/logout : End the session for the presented token.
func Routes(app *fiber.App, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/auth/login", Login(authSvc))
	app.Post("/auth/logout", middleware.JwtProtected(cfg.Auth.Jwt), Logout())
}

// Login returns a handler that verifies credentials and issues a JWT.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		token, err := authSvc.Login(c.UserContext(), input.Email, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Login failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", TokenResponse{Token: token})
	}
}

// Logout returns a handler that acknowledges the logout. Tokens are
// stateless; the server holds no session, so the client discards the token.
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logout successful", nil)
	}
}
