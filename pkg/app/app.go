// Package app wires the services from their shared dependencies.
package app

import (
	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/notification"
	"github.com/amirasaad/pledgepool/pkg/service/account"
	"github.com/amirasaad/pledgepool/pkg/service/auth"
	"github.com/amirasaad/pledgepool/pkg/service/campaign"
	"github.com/amirasaad/pledgepool/pkg/service/investment"
	"github.com/amirasaad/pledgepool/pkg/service/user"
)

// App holds the wired services and their shared dependencies.
type App struct {
	Deps   config.Deps
	Config *config.App

	AccountService    *account.Service
	CampaignService   *campaign.Service
	InvestmentService *investment.Service
	UserService       *user.Service
	AuthService       *auth.Service
}

// New builds the services and subscribes the notification handlers to the
// event bus.
func New(deps config.Deps) *App {
	notification.RegisterHandlers(
		deps.EventBus,
		notification.NewLogSender(deps.Logger),
		deps.Logger,
	)
	return &App{
		Deps:              deps,
		Config:            deps.Config,
		AccountService:    account.NewService(deps),
		CampaignService:   campaign.NewService(deps),
		InvestmentService: investment.NewService(deps),
		UserService:       user.NewService(deps),
		AuthService:       auth.NewService(deps),
	}
}
