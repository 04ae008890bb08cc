// Package investment provides business logic for investing in campaigns and
// cancelling investments.
package investment

import (
	"context"
	"log/slog"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/events"
	"github.com/amirasaad/pledgepool/pkg/domain/investment"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/amirasaad/pledgepool/pkg/eventbus"
	"github.com/amirasaad/pledgepool/pkg/repository"
	accountsvc "github.com/amirasaad/pledgepool/pkg/service/account"
	"github.com/google/uuid"
)

// Service provides investment operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		bus:    deps.EventBus,
		logger: deps.Logger,
	}
}

// Invest commits funds from the investor's account to an active campaign.
//
// The status check and the reserve run inside one transaction with both the
// campaign row and the account row locked: two concurrent invests against the
// same account cannot pass the balance check on a stale balance, and an
// invest cannot commit against a campaign a concurrent close or cancel is
// terminating.
func (s *Service) Invest(
	ctx context.Context,
	campaignID, investorID uuid.UUID,
	amount money.Money,
	interestRate float64,
) (*investment.Investment, error) {
	logger := s.logger.With(
		"campaignID", campaignID,
		"investorID", investorID,
		"amount", amount.String(),
	)
	var inv *investment.Investment
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		c, err := uow.Campaigns().GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if c.Status != campaign.StatusActive {
			return campaign.ErrCampaignNotActive
		}

		inv, err = investment.New(investorID, campaignID, amount, interestRate)
		if err != nil {
			return err
		}

		acct, err := uow.Accounts().GetByUserForUpdate(ctx, investorID)
		if err != nil {
			return err
		}
		if err = acct.Reserve(amount); err != nil {
			return err
		}
		if err = uow.Accounts().UpdateBalances(ctx, acct); err != nil {
			return err
		}
		if err = uow.Investments().Create(ctx, inv); err != nil {
			return err
		}
		return accountsvc.AppendTransaction(ctx, uow, acct.ID, amount, account.TransactionReservation)
	})
	if err != nil {
		logger.Error("invest failed", "error", err)
		return nil, err
	}
	logger.Info("investment created", "investmentID", inv.ID)
	return inv, nil
}

// CancelInvestment cancels a reserved investment and releases its funds back
// to the investor's free balance. Status flip and release commit as one
// transaction; the cancellation notification is published only afterwards.
func (s *Service) CancelInvestment(
	ctx context.Context,
	investmentID, requestingUserID uuid.UUID,
) (*investment.Investment, error) {
	logger := s.logger.With("investmentID", investmentID, "userID", requestingUserID)
	var inv *investment.Investment
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		inv, err = uow.Investments().GetForUpdate(ctx, investmentID)
		if err != nil {
			return err
		}
		if !inv.IsOwnedBy(requestingUserID) {
			return user.ErrUserUnauthorized
		}
		if err = inv.Cancel(); err != nil {
			return err
		}

		acct, err := uow.Accounts().GetByUserForUpdate(ctx, inv.InvestorID)
		if err != nil {
			return err
		}
		if err = acct.Release(inv.Amount); err != nil {
			// A release above the reserved amount means the ledger is
			// corrupt; abort without committing partial state.
			logger.Error("ledger invariant violation on release",
				"accountID", acct.ID, "reserved", acct.Reserved.String())
			return err
		}
		if err = uow.Accounts().UpdateBalances(ctx, acct); err != nil {
			return err
		}
		if err = uow.Investments().UpdateStatus(ctx, inv); err != nil {
			return err
		}
		return accountsvc.AppendTransaction(ctx, uow, acct.ID, inv.Amount, account.TransactionRelease)
	})
	if err != nil {
		logger.Error("cancel investment failed", "error", err)
		return nil, err
	}

	s.publish(ctx, events.InvestmentCancelled{
		InvestmentID: inv.ID,
		CampaignID:   inv.CampaignID,
		InvestorID:   inv.InvestorID,
		Amount:       inv.Amount,
		OccurredAt:   inv.UpdatedAt,
	})
	logger.Info("investment cancelled")
	return inv, nil
}

// ListByInvestor returns the investments of the given user, newest first.
func (s *Service) ListByInvestor(ctx context.Context, investorID uuid.UUID, limit, offset int) ([]*investment.Investment, error) {
	var invs []*investment.Investment
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		invs, err = uow.Investments().ListByInvestor(ctx, investorID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// publish emits a notification event after the transaction has committed.
// Delivery is fire-and-forget: a bus failure never affects the mutation.
func (s *Service) publish(ctx context.Context, event events.InvestmentCancelled) {
	if err := s.bus.Emit(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "type", event.Type(), "error", err)
	}
}
