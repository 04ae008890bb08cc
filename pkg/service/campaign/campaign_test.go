package campaign_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/pledgepool/infra/eventbus"
	"github.com/amirasaad/pledgepool/internal/fixtures/fake"
	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/events"
	"github.com/amirasaad/pledgepool/pkg/domain/investment"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	campaignsvc "github.com/amirasaad/pledgepool/pkg/service/campaign"
	investmentsvc "github.com/amirasaad/pledgepool/pkg/service/investment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type harness struct {
	campaigns   *campaignsvc.Service
	investments *investmentsvc.Service
	uow         *fake.UoW
	bus         *infraeventbus.MemoryEventBus
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	uow := fake.NewUoW()
	bus := infraeventbus.NewWithMemory(slog.Default())
	deps := config.Deps{Uow: uow, EventBus: bus, Logger: slog.Default()}
	return &harness{
		campaigns:   campaignsvc.NewService(deps),
		investments: investmentsvc.NewService(deps),
		uow:         uow,
		bus:         bus,
	}
}

func mustMoney(t *testing.T, amount float64) money.Money {
	t.Helper()
	m, err := money.New(amount, currency.EUR)
	require.NoError(t, err)
	return m
}

func seedAccount(t *testing.T, uow *fake.UoW, balance int64) *account.Account {
	t.Helper()
	a, err := account.New().WithUserID(uuid.New()).WithBalance(balance).Build()
	require.NoError(t, err)
	uow.SeedAccount(a)
	return a
}

func seedCampaign(t *testing.T, uow *fake.UoW, deadline time.Time) *campaign.Campaign {
	t.Helper()
	c, err := campaign.New(
		uuid.New(), "bakery expansion",
		mustMoney(t, 10000), mustMoney(t, 500),
		6, campaign.TypeNormal,
		deadline, 36,
	)
	require.NoError(t, err)
	uow.SeedCampaign(c)
	return c
}

func (h *harness) totalFunds(t *testing.T, accountIDs ...uuid.UUID) int64 {
	t.Helper()
	var total int64
	for _, id := range accountIDs {
		a, err := h.uow.Accounts().Get(context.Background(), id)
		require.NoError(t, err)
		total += a.Balance.Amount() + a.Reserved.Amount()
	}
	return total
}

func TestCreateCampaign(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	h := newHarness(t)
	ownerID := uuid.New()

	c, err := h.campaigns.CreateCampaign(
		context.Background(), ownerID, "bakery expansion",
		mustMoney(t, 10000), mustMoney(t, 500),
		6, campaign.TypeNormal,
		time.Now().Add(30*24*time.Hour), 36,
	)
	require.NoError(t, err)
	assert.Equal(campaign.StatusActive, c.Status)
	assert.Equal(int64(1050000), c.TargetAmount.Amount())

	stored, err := h.campaigns.GetCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(c.ID, stored.ID)
}

func TestCloseCampaignFundedCreditsOwner(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	h := newHarness(t)

	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))
	owner, err := account.New().WithUserID(c.OwnerID).Build()
	require.NoError(t, err)
	h.uow.SeedAccount(owner)

	closed, err := h.campaigns.CloseCampaign(context.Background(), c.ID, c.OwnerID)
	require.NoError(t, err)
	assert.Equal(campaign.StatusClosed, closed.Status)

	stored, err := h.uow.Accounts().Get(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(c.Amount.Amount(), stored.Balance.Amount(), "the owner receives the principal, not the target")

	log := h.uow.TransactionLog()
	require.Len(t, log, 1)
	assert.Equal(account.TransactionDeposit, log[0].Type)

	published := h.bus.Published()
	require.Len(t, published, 1)
	event, ok := published[0].(events.CampaignClosed)
	require.True(t, ok)
	assert.Equal(string(campaign.StatusClosed), event.Outcome)
}

func TestCloseCampaignProvisionsMissingOwnerAccount(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))

	_, err := h.campaigns.CloseCampaign(context.Background(), c.ID, c.OwnerID)
	require.NoError(t, err)

	a, err := h.uow.Accounts().GetByUser(context.Background(), c.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, c.Amount.Amount(), a.Balance.Amount())
}

func TestCloseCampaignExpiredUnderfundedReleasesInvestments(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	h := newHarness(t)

	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))
	alice := seedAccount(t, h.uow, 100000)
	bob := seedAccount(t, h.uow, 50000)

	_, err := h.investments.Invest(context.Background(), c.ID, alice.UserID, mustMoney(t, 400), 6)
	require.NoError(t, err)
	_, err = h.investments.Invest(context.Background(), c.ID, bob.UserID, mustMoney(t, 250), 6)
	require.NoError(t, err)

	before := h.totalFunds(t, alice.ID, bob.ID)

	// Push the deadline into the past so the close evaluates to cancelled.
	c.Deadline = time.Now().Add(-time.Hour)
	h.uow.SeedCampaign(c)

	closed, err := h.campaigns.CloseCampaign(context.Background(), c.ID, c.OwnerID)
	require.NoError(t, err)
	assert.Equal(campaign.StatusCancelled, closed.Status)

	for _, acct := range []*account.Account{alice, bob} {
		stored, err := h.uow.Accounts().Get(context.Background(), acct.ID)
		require.NoError(t, err)
		assert.True(stored.Reserved.IsZero(), "all reservations must be released")
	}
	assert.Equal(before, h.totalFunds(t, alice.ID, bob.ID), "funds are conserved across the release")

	invs, err := h.campaigns.ListInvestments(context.Background(), c.ID)
	require.NoError(t, err)
	for _, inv := range invs {
		assert.Equal(investment.StatusCancelled, inv.Status)
	}

	// Two reservations and two releases in the log.
	var releases int
	for _, tx := range h.uow.TransactionLog() {
		if tx.Type == account.TransactionRelease {
			releases++
		}
	}
	assert.Equal(2, releases)
}

func TestCancelCampaignSkipsAlreadyCancelledInvestments(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	h := newHarness(t)

	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))
	alice := seedAccount(t, h.uow, 100000)

	inv, err := h.investments.Invest(context.Background(), c.ID, alice.UserID, mustMoney(t, 400), 6)
	require.NoError(t, err)
	_, err = h.investments.CancelInvestment(context.Background(), inv.ID, alice.UserID)
	require.NoError(t, err)

	_, err = h.campaigns.CancelCampaign(context.Background(), c.ID, c.OwnerID)
	require.NoError(t, err)

	stored, err := h.uow.Accounts().Get(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(int64(100000), stored.Balance.Amount(), "an already released investment must not be released again")
	assert.True(stored.Reserved.IsZero())
}

func TestCloseCampaignRequiresOwner(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))

	_, err := h.campaigns.CloseCampaign(context.Background(), c.ID, uuid.New())
	require.ErrorIs(t, err, user.ErrUserUnauthorized)
}

func TestCloseCampaignTwiceRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))

	_, err := h.campaigns.CloseCampaign(context.Background(), c.ID, c.OwnerID)
	require.NoError(t, err)

	_, err = h.campaigns.CloseCampaign(context.Background(), c.ID, c.OwnerID)
	require.ErrorIs(t, err, campaign.ErrCampaignNotActive)
}

func TestFinalizeCampaignNotFullyFunded(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))

	_, err := h.campaigns.FinalizeCampaign(context.Background(), c.ID)
	require.ErrorIs(t, err, campaign.ErrNotFullyFunded)
}

func TestFinalizeCampaignCreatesLoanAndActivatesInvestments(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	h := newHarness(t)

	c := seedCampaign(t, h.uow, time.Now().Add(time.Hour))
	alice := seedAccount(t, h.uow, 100000)
	bob := seedAccount(t, h.uow, 100000)

	_, err := h.investments.Invest(context.Background(), c.ID, alice.UserID, mustMoney(t, 600), 6)
	require.NoError(t, err)
	cancelledInv, err := h.investments.Invest(context.Background(), c.ID, bob.UserID, mustMoney(t, 100), 6)
	require.NoError(t, err)
	_, err = h.investments.CancelInvestment(context.Background(), cancelledInv.ID, bob.UserID)
	require.NoError(t, err)
	h.bus.ClearPublished()

	c.Amount = c.TargetAmount
	h.uow.SeedCampaign(c)

	loan, err := h.campaigns.FinalizeCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(c.ID, loan.CampaignID)
	assert.Equal(c.OwnerID, loan.BorrowerID)
	assert.Equal(campaign.LoanStatusActive, loan.Status)

	stored, err := h.uow.Loans().GetByCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(loan.ID, stored.ID)

	invs, err := h.campaigns.ListInvestments(context.Background(), c.ID)
	require.NoError(t, err)
	statuses := map[investment.Status]int{}
	for _, inv := range invs {
		statuses[inv.Status]++
	}
	assert.Equal(1, statuses[investment.StatusActive], "the reserved investment becomes active")
	assert.Equal(1, statuses[investment.StatusCancelled], "the cancelled investment stays cancelled")

	aliceAcct, err := h.uow.Accounts().Get(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(int64(60000), aliceAcct.Reserved.Amount(), "activated funds stay reserved backing the loan")

	// One finalization event for the owner, one for the remaining investor.
	published := h.bus.Published()
	require.Len(t, published, 2)
	recipients := map[uuid.UUID]bool{}
	for _, e := range published {
		event, ok := e.(events.CampaignFinalized)
		require.True(t, ok)
		assert.Equal(loan.ID, event.LoanID)
		recipients[event.RecipientID] = true
	}
	assert.True(recipients[c.OwnerID])
	assert.True(recipients[alice.UserID])
}

func TestListCampaigns(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	seedCampaign(t, h.uow, time.Now().Add(time.Hour))
	seedCampaign(t, h.uow, time.Now().Add(time.Hour))

	cs, err := h.campaigns.ListCampaigns(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, cs, 2)
}
