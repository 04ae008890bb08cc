// Package account provides HTTP handlers for investment account operations.
package account

import (
	"strconv"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/middleware"
	accountsvc "github.com/amirasaad/pledgepool/pkg/service/account"
	"github.com/amirasaad/pledgepool/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers account endpoints. All routes operate on the
// authenticated user's own account.
//
// Routes:
//   - GET    /account               : Current balance and reserved amount.
//   - POST   /account/topup         : Add funds to the free balance.
//   - POST   /account/withdraw      : Withdraw funds from the free balance.
//   - GET    /account/transactions  : List recent ledger transactions.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, cfg *config.App) {
	app.Get("/account", middleware.JwtProtected(cfg.Auth.Jwt), GetAccount(accountSvc))
	app.Post("/account/topup", middleware.JwtProtected(cfg.Auth.Jwt), TopUp(accountSvc))
	app.Post("/account/withdraw", middleware.JwtProtected(cfg.Auth.Jwt), Withdraw(accountSvc))
	app.Get("/account/transactions", middleware.JwtProtected(cfg.Auth.Jwt), GetTransactions(accountSvc))
}

// GetAccount returns a handler serving the user's account balances.
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		a, err := accountSvc.GetAccount(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account retrieved", ToAccountDTO(a))
	}
}

// TopUp returns a handler that adds funds to the user's account.
func TopUp(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[TopUpRequest](c)
		if input == nil {
			return err
		}
		amount, err := money.New(input.Amount, requestCurrency(input.Currency))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		a, err := accountSvc.TopUp(c.UserContext(), userID, amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to top up account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account topped up", ToAccountDTO(a))
	}
}

// Withdraw returns a handler that withdraws funds from the user's account.
func Withdraw(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err
		}
		amount, err := money.New(input.Amount, requestCurrency(input.Currency))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}
		a, err := accountSvc.Withdraw(c.UserContext(), userID, amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to withdraw", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Funds withdrawn", ToAccountDTO(a))
	}
}

// GetTransactions returns a handler listing the user's recent transactions.
func GetTransactions(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		limit, _ := strconv.Atoi(c.Query("limit", "0"))
		txs, err := accountSvc.ListTransactions(c.UserContext(), userID, limit)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		dtos := make([]*TransactionDTO, 0, len(txs))
		for _, t := range txs {
			dtos = append(dtos, ToTransactionDTO(t))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions retrieved", dtos)
	}
}

func requestCurrency(code string) currency.Code {
	if code == "" {
		return currency.DefaultCurrency
	}
	return currency.Code(code)
}
