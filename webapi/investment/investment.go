// Package investment provides HTTP handlers for investing in campaigns and
// cancelling investments.
package investment

import (
	"strconv"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/middleware"
	investmentsvc "github.com/amirasaad/pledgepool/pkg/service/investment"
	"github.com/amirasaad/pledgepool/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers investment endpoints. All routes require authentication.
//
// Routes:
//   - POST   /campaign/:id/invest   : Invest in the campaign.
//   - GET    /investment            : List the user's investments.
//   - POST   /investment/:id/cancel : Cancel a reserved investment.
func Routes(app *fiber.App, investmentSvc *investmentsvc.Service, cfg *config.App) {
	app.Post("/campaign/:id/invest", middleware.JwtProtected(cfg.Auth.Jwt), Invest(investmentSvc))
	app.Get("/investment", middleware.JwtProtected(cfg.Auth.Jwt), ListInvestments(investmentSvc))
	app.Post("/investment/:id/cancel", middleware.JwtProtected(cfg.Auth.Jwt), CancelInvestment(investmentSvc))
}

// Invest returns a handler that commits funds from the authenticated user's
// account to the campaign.
func Invest(investmentSvc *investmentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		campaignID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid campaign ID", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[InvestRequest](c)
		if input == nil {
			return err
		}
		code := currency.DefaultCurrency
		if input.Currency != "" {
			code = currency.Code(input.Currency)
		}
		amount, err := money.New(input.Amount, code)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		inv, err := investmentSvc.Invest(c.UserContext(), campaignID, userID, amount, input.InterestRate)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to invest", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Investment created", ToInvestmentDTO(inv))
	}
}

// ListInvestments returns a handler listing the authenticated user's
// investments, newest first.
func ListInvestments(investmentSvc *investmentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))
		invs, err := investmentSvc.ListByInvestor(c.UserContext(), userID, limit, offset)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list investments", err)
		}
		dtos := make([]*InvestmentDTO, 0, len(invs))
		for _, inv := range invs {
			dtos = append(dtos, ToInvestmentDTO(inv))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Investments retrieved", dtos)
	}
}

// CancelInvestment returns a handler that cancels the user's reserved
// investment and releases the funds.
func CancelInvestment(investmentSvc *investmentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid investment ID", err, fiber.StatusBadRequest)
		}
		inv, err := investmentSvc.CancelInvestment(c.UserContext(), id, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to cancel investment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Investment cancelled", ToInvestmentDTO(inv))
	}
}
