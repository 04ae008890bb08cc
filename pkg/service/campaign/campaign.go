// Package campaign provides business logic for the campaign lifecycle:
// creation, closing, cancellation and finalization into a loan.
package campaign

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/common"
	"github.com/amirasaad/pledgepool/pkg/domain/events"
	"github.com/amirasaad/pledgepool/pkg/domain/investment"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/amirasaad/pledgepool/pkg/eventbus"
	"github.com/amirasaad/pledgepool/pkg/repository"
	accountsvc "github.com/amirasaad/pledgepool/pkg/service/account"
	"github.com/google/uuid"
)

// Service provides campaign operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		bus:    deps.EventBus,
		logger: deps.Logger,
		now:    time.Now,
	}
}

// CreateCampaign validates the funding terms and stores a new active
// campaign with targetAmount = amount + contractFee.
func (s *Service) CreateCampaign(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
	amount, contractFee money.Money,
	interestRate float64,
	campaignType campaign.Type,
	deadline time.Time,
	loanDuration int,
) (*campaign.Campaign, error) {
	c, err := campaign.New(ownerID, name, amount, contractFee, interestRate, campaignType, deadline, loanDuration)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.Campaigns().Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("campaign created", "campaignID", c.ID, "target", c.TargetAmount.String())
	return c, nil
}

// GetCampaign returns the campaign with the given ID.
func (s *Service) GetCampaign(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	var c *campaign.Campaign
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = uow.Campaigns().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCampaigns returns campaigns, newest first.
func (s *Service) ListCampaigns(ctx context.Context, limit, offset int) ([]*campaign.Campaign, error) {
	var cs []*campaign.Campaign
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		cs, err = uow.Campaigns().List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// ListInvestments returns the investments of the given campaign.
func (s *Service) ListInvestments(ctx context.Context, campaignID uuid.UUID) ([]*investment.Investment, error) {
	var invs []*investment.Investment
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Campaigns().Get(ctx, campaignID); err != nil {
			return err
		}
		var err error
		invs, err = uow.Investments().ListByCampaign(ctx, campaignID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invs, nil
}

// CloseCampaign evaluates the terminal outcome of an owner's close request:
// a campaign past its deadline that has not reached the target is cancelled
// (all reserved investments released), anything else is closed (owner
// credited with the funded principal, not the fee).
func (s *Service) CloseCampaign(ctx context.Context, campaignID, requestingUserID uuid.UUID) (*campaign.Campaign, error) {
	logger := s.logger.With("campaignID", campaignID, "userID", requestingUserID)
	var c *campaign.Campaign
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = uow.Campaigns().GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if !c.IsOwnedBy(requestingUserID) {
			return user.ErrUserUnauthorized
		}

		outcome := c.EvaluateClose(s.now().UTC())
		if err = c.Close(outcome); err != nil {
			return err
		}
		if err = uow.Campaigns().UpdateStatus(ctx, c); err != nil {
			return err
		}

		switch outcome {
		case campaign.StatusClosed:
			return s.creditOwner(ctx, uow, c)
		case campaign.StatusCancelled:
			return s.releaseInvestments(ctx, uow, c)
		}
		return nil
	})
	if err != nil {
		logger.Error("close campaign failed", "error", err)
		return nil, err
	}

	s.publishClosed(ctx, c)
	logger.Info("campaign terminated", "outcome", string(c.Status))
	return c, nil
}

// CancelCampaign cancels a campaign regardless of its deadline and releases
// every reserved investment back to its investor.
func (s *Service) CancelCampaign(ctx context.Context, campaignID, requestingUserID uuid.UUID) (*campaign.Campaign, error) {
	logger := s.logger.With("campaignID", campaignID, "userID", requestingUserID)
	var c *campaign.Campaign
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = uow.Campaigns().GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if !c.IsOwnedBy(requestingUserID) {
			return user.ErrUserUnauthorized
		}
		if err = c.Close(campaign.StatusCancelled); err != nil {
			return err
		}
		if err = uow.Campaigns().UpdateStatus(ctx, c); err != nil {
			return err
		}
		return s.releaseInvestments(ctx, uow, c)
	})
	if err != nil {
		logger.Error("cancel campaign failed", "error", err)
		return nil, err
	}

	s.publishClosed(ctx, c)
	logger.Info("campaign cancelled")
	return c, nil
}

// FinalizeCampaign converts a fully funded campaign into a loan. All
// reserved investments become active in the same transaction; their funds
// stay reserved backing the loan. Finalization notifications go to the
// owner and every investor after commit.
func (s *Service) FinalizeCampaign(ctx context.Context, campaignID uuid.UUID) (*campaign.Loan, error) {
	logger := s.logger.With("campaignID", campaignID)
	var (
		c          *campaign.Campaign
		loan       *campaign.Loan
		recipients []uuid.UUID
	)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = uow.Campaigns().GetForUpdate(ctx, campaignID)
		if err != nil {
			return err
		}
		if !c.IsFullyFunded() {
			return campaign.ErrNotFullyFunded
		}

		loan = campaign.NewLoan(c)
		if err = uow.Loans().Create(ctx, loan); err != nil {
			return err
		}

		invs, err := uow.Investments().ListByCampaign(ctx, campaignID)
		if err != nil {
			return err
		}
		recipients = append(recipients, c.OwnerID)
		for _, inv := range invs {
			if inv.Status != investment.StatusReserved {
				continue
			}
			if err = inv.Activate(); err != nil {
				return err
			}
			if err = uow.Investments().UpdateStatus(ctx, inv); err != nil {
				return err
			}
			recipients = append(recipients, inv.InvestorID)
		}
		return nil
	})
	if err != nil {
		logger.Error("finalize campaign failed", "error", err)
		return nil, err
	}

	for _, recipient := range recipients {
		s.publish(ctx, events.CampaignFinalized{
			CampaignID:   c.ID,
			LoanID:       loan.ID,
			RecipientID:  recipient,
			CampaignName: c.Name,
			Amount:       loan.Amount,
			InterestRate: loan.InterestRate,
			LoanDuration: loan.LoanDuration,
			OccurredAt:   loan.CreatedAt,
		})
	}
	logger.Info("campaign finalized", "loanID", loan.ID)
	return loan, nil
}

// creditOwner pays the funded principal to the campaign owner's account.
// A missing owner account is provisioned with zero balance, mirroring the
// account auto-provisioning on user creation.
func (s *Service) creditOwner(ctx context.Context, uow repository.UnitOfWork, c *campaign.Campaign) error {
	acct, err := uow.Accounts().GetByUserForUpdate(ctx, c.OwnerID)
	if errors.Is(err, account.ErrAccountNotFound) {
		acct, err = account.New().
			WithUserID(c.OwnerID).
			WithCurrency(c.Currency()).
			Build()
		if err != nil {
			return err
		}
		if err = uow.Accounts().Create(ctx, acct); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if err = acct.Credit(c.Amount); err != nil {
		return err
	}
	if err = uow.Accounts().UpdateBalances(ctx, acct); err != nil {
		return err
	}
	return accountsvc.AppendTransaction(ctx, uow, acct.ID, c.Amount, account.TransactionDeposit)
}

// releaseInvestments returns every reserved investment of the campaign to
// its investor's free balance. Cancelled investments are skipped, so the
// close and cancel paths can never double-release. Investor accounts are
// locked in ascending user ID order to avoid deadlock between concurrent
// multi-account operations.
func (s *Service) releaseInvestments(ctx context.Context, uow repository.UnitOfWork, c *campaign.Campaign) error {
	invs, err := uow.Investments().ListByCampaign(ctx, c.ID)
	if err != nil {
		return err
	}

	byInvestor := make(map[uuid.UUID][]*investment.Investment)
	investors := make([]uuid.UUID, 0, len(invs))
	for _, inv := range invs {
		if inv.Status != investment.StatusReserved {
			continue
		}
		if _, seen := byInvestor[inv.InvestorID]; !seen {
			investors = append(investors, inv.InvestorID)
		}
		byInvestor[inv.InvestorID] = append(byInvestor[inv.InvestorID], inv)
	}
	slices.SortFunc(investors, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	for _, investorID := range investors {
		acct, err := uow.Accounts().GetByUserForUpdate(ctx, investorID)
		if err != nil {
			return err
		}
		for _, inv := range byInvestor[investorID] {
			if err = inv.Cancel(); err != nil {
				return err
			}
			if err = acct.Release(inv.Amount); err != nil {
				return err
			}
			if err = uow.Investments().UpdateStatus(ctx, inv); err != nil {
				return err
			}
			if err = accountsvc.AppendTransaction(ctx, uow, acct.ID, inv.Amount, account.TransactionRelease); err != nil {
				return err
			}
		}
		if err = uow.Accounts().UpdateBalances(ctx, acct); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) publishClosed(ctx context.Context, c *campaign.Campaign) {
	s.publish(ctx, events.CampaignClosed{
		CampaignID:   c.ID,
		OwnerID:      c.OwnerID,
		CampaignName: c.Name,
		Outcome:      string(c.Status),
		Amount:       c.Amount,
		OccurredAt:   c.UpdatedAt,
	})
}

// publish emits a notification event after the transaction has committed.
// Delivery is fire-and-forget: a bus failure never affects the mutation.
func (s *Service) publish(ctx context.Context, event common.Event) {
	if err := s.bus.Emit(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "type", event.Type(), "error", err)
	}
}
