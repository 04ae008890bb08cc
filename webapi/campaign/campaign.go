// Package campaign provides HTTP handlers for campaign lifecycle operations.
package campaign

import (
	"strconv"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/middleware"
	campaignsvc "github.com/amirasaad/pledgepool/pkg/service/campaign"
	"github.com/amirasaad/pledgepool/webapi/common"
	investmentweb "github.com/amirasaad/pledgepool/webapi/investment"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers campaign endpoints. Listings are public; everything that
// mutates requires authentication.
//
// Routes:
//   - POST   /campaign                   : Create a campaign.
//   - GET    /campaign                   : List campaigns.
//   - GET    /campaign/:id               : Get one campaign.
//   - GET    /campaign/:id/investments   : List the campaign's investments.
//   - POST   /campaign/:id/close         : Close the campaign (owner only).
//   - POST   /campaign/:id/cancel        : Cancel the campaign (owner only).
//   - POST   /campaign/:id/finalize      : Convert a funded campaign into a loan.
func Routes(app *fiber.App, campaignSvc *campaignsvc.Service, cfg *config.App) {
	app.Post("/campaign", middleware.JwtProtected(cfg.Auth.Jwt), CreateCampaign(campaignSvc))
	app.Get("/campaign", ListCampaigns(campaignSvc))
	app.Get("/campaign/:id", GetCampaign(campaignSvc))
	app.Get("/campaign/:id/investments", ListInvestments(campaignSvc))
	app.Post("/campaign/:id/close", middleware.JwtProtected(cfg.Auth.Jwt), CloseCampaign(campaignSvc))
	app.Post("/campaign/:id/cancel", middleware.JwtProtected(cfg.Auth.Jwt), CancelCampaign(campaignSvc))
	app.Post("/campaign/:id/finalize", middleware.JwtProtected(cfg.Auth.Jwt), FinalizeCampaign(campaignSvc))
}

// CreateCampaign returns a handler that creates a campaign owned by the
// authenticated user.
func CreateCampaign(campaignSvc *campaignsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[CreateCampaignRequest](c)
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
		fee, err := money.New(input.ContractFee, code)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid contract fee", err)
		}
		created, err := campaignSvc.CreateCampaign(
			c.UserContext(),
			userID,
			input.Name,
			amount,
			fee,
			input.InterestRate,
			campaign.Type(input.Type),
			input.Deadline,
			input.LoanDuration,
		)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create campaign", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Campaign created", ToCampaignDTO(created))
	}
}

// ListCampaigns returns a handler listing campaigns, newest first.
func ListCampaigns(campaignSvc *campaignsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))
		cs, err := campaignSvc.ListCampaigns(c.UserContext(), limit, offset)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list campaigns", err)
		}
		dtos := make([]*CampaignDTO, 0, len(cs))
		for _, item := range cs {
			dtos = append(dtos, ToCampaignDTO(item))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Campaigns retrieved", dtos)
	}
}

// GetCampaign returns a handler serving one campaign by ID.
func GetCampaign(campaignSvc *campaignsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid campaign ID", err, fiber.StatusBadRequest)
		}
		found, err := campaignSvc.GetCampaign(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get campaign", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Campaign retrieved", ToCampaignDTO(found))
	}
}

// ListInvestments returns a handler listing the campaign's investments.
func ListInvestments(campaignSvc *campaignsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid campaign ID", err, fiber.StatusBadRequest)
		}
		invs, err := campaignSvc.ListInvestments(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list investments", err)
		}
		dtos := make([]*investmentweb.InvestmentDTO, 0, len(invs))
		for _, inv := range invs {
			dtos = append(dtos, investmentweb.ToInvestmentDTO(inv))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Investments retrieved", dtos)
	}
}

// CloseCampaign returns a handler that terminates the campaign. The outcome
// is decided server-side from the deadline and funding level.
func CloseCampaign(campaignSvc *campaignsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid campaign ID", err, fiber.StatusBadRequest)
		}
		closed, err := campaignSvc.CloseCampaign(c.UserContext(), id, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to close campaign", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Campaign "+string(closed.Status), ToCampaignDTO(closed))
	}
}

// CancelCampaign returns a handler that cancels the campaign and releases
// all reserved investments.
func CancelCampaign(campaignSvc *campaignsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid campaign ID", err, fiber.StatusBadRequest)
		}
		cancelled, err := campaignSvc.CancelCampaign(c.UserContext(), id, userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to cancel campaign", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Campaign cancelled", ToCampaignDTO(cancelled))
	}
}

// FinalizeCampaign returns a handler that converts a fully funded campaign
// into a loan.
func FinalizeCampaign(campaignSvc *campaignsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := common.CurrentUserID(c); err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid campaign ID", err, fiber.StatusBadRequest)
		}
		loan, err := campaignSvc.FinalizeCampaign(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to finalize campaign", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Campaign finalized", ToLoanDTO(loan))
	}
}
