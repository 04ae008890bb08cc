// Package webapi provides the HTTP surface of the application, organized
// into sub-packages per domain:
//   - account: balance, top-up, withdrawal and transaction endpoints
//   - campaign: campaign lifecycle endpoints
//   - investment: invest and cancel endpoints
//   - user: registration and profile endpoints
//   - auth: login and logout endpoints
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/pledgepool/pkg/app"
	accountweb "github.com/amirasaad/pledgepool/webapi/account"
	authweb "github.com/amirasaad/pledgepool/webapi/auth"
	campaignweb "github.com/amirasaad/pledgepool/webapi/campaign"
	"github.com/amirasaad/pledgepool/webapi/common"
	investmentweb "github.com/amirasaad/pledgepool/webapi/investment"
	userweb "github.com/amirasaad/pledgepool/webapi/user"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes Fiber with the shared middleware and all routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Uses X-Forwarded-For when behind a proxy, falling back to the
	// direct peer address.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	accountweb.Routes(fiberApp, a.AccountService, a.Config)
	campaignweb.Routes(fiberApp, a.CampaignService, a.Config)
	investmentweb.Routes(fiberApp, a.InvestmentService, a.Config)
	userweb.Routes(fiberApp, a.UserService, a.Config)
	authweb.Routes(fiberApp, a.AuthService, a.Config)

	return fiberApp
}
