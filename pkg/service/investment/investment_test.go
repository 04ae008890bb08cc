package investment_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
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

func newService(t *testing.T) (*investmentsvc.Service, *fake.UoW, *infraeventbus.MemoryEventBus) {
	t.Helper()
	uow := fake.NewUoW()
	bus := infraeventbus.NewWithMemory(slog.Default())
	svc := investmentsvc.NewService(config.Deps{
		Uow:      uow,
		EventBus: bus,
		Logger:   slog.Default(),
	})
	return svc, uow, bus
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

func seedCampaign(t *testing.T, uow *fake.UoW) *campaign.Campaign {
	t.Helper()
	c, err := campaign.New(
		uuid.New(), "wind park",
		mustMoney(t, 10000), mustMoney(t, 500),
		5, campaign.TypeNormal,
		time.Now().Add(30*24*time.Hour), 24,
	)
	require.NoError(t, err)
	uow.SeedCampaign(c)
	return c
}

func TestInvestReservesFunds(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 100000)
	c := seedCampaign(t, uow)

	inv, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 300), 5)
	require.NoError(t, err)
	assert.Equal(investment.StatusReserved, inv.Status)

	stored, err := uow.Accounts().Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(int64(70000), stored.Balance.Amount())
	assert.Equal(int64(30000), stored.Reserved.Amount())

	log := uow.TransactionLog()
	require.Len(t, log, 1)
	assert.Equal(account.TransactionReservation, log[0].Type)
}

func TestInvestInsufficientFunds(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 10000)
	c := seedCampaign(t, uow)

	_, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 200), 5)
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.Empty(t, uow.TransactionLog())
}

func TestInvestLocksCampaignRow(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 100000)
	c := seedCampaign(t, uow)

	_, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 10), 5)
	require.NoError(t, err)

	// The status check must hold the campaign row, or a concurrent close
	// could terminate the campaign between the check and the reserve.
	locks := uow.CampaignLocks()
	require.Len(t, locks, 1)
	assert.Equal(t, c.ID, locks[0])
}

func TestInvestConcurrentExactlyOneSuccess(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 10000)
	c := seedCampaign(t, uow)

	const investors = 8
	errs := make(chan error, investors)
	var wg sync.WaitGroup
	for range investors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 100), 5)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes int
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, account.ErrInsufficientFunds)
	}
	assert.Equal(t, 1, successes, "the full balance can be reserved exactly once")

	stored, err := uow.Accounts().Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero())
	assert.Equal(t, int64(10000), stored.Reserved.Amount())
	assert.Len(t, uow.TransactionLog(), 1)
}

func TestInvestSequentialExhaustsBalanceExactlyOnce(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 10000)
	c := seedCampaign(t, uow)

	_, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 60), 5)
	require.NoError(t, err)

	// The second reserve sees the updated balance, not the original one.
	_, err = svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 60), 5)
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	stored, err := uow.Accounts().Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), stored.Balance.Amount())
	assert.Equal(t, int64(6000), stored.Reserved.Amount())
}

func TestInvestRejectsTerminalCampaign(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 100000)
	c := seedCampaign(t, uow)
	require.NoError(t, c.Close(campaign.StatusClosed))
	uow.SeedCampaign(c)

	_, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 10), 5)
	require.ErrorIs(t, err, campaign.ErrCampaignNotActive)
}

func TestCancelInvestmentReleasesFunds(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	svc, uow, bus := newService(t)
	acct := seedAccount(t, uow, 50000)
	c := seedCampaign(t, uow)

	inv, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 200), 5)
	require.NoError(t, err)

	cancelled, err := svc.CancelInvestment(context.Background(), inv.ID, acct.UserID)
	require.NoError(t, err)
	assert.Equal(investment.StatusCancelled, cancelled.Status)

	stored, err := uow.Accounts().Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(int64(50000), stored.Balance.Amount())
	assert.True(stored.Reserved.IsZero())

	log := uow.TransactionLog()
	require.Len(t, log, 2)
	assert.Equal(account.TransactionReservation, log[0].Type)
	assert.Equal(account.TransactionRelease, log[1].Type)

	published := bus.Published()
	require.Len(t, published, 1)
	event, ok := published[0].(events.InvestmentCancelled)
	require.True(t, ok)
	assert.Equal(inv.ID, event.InvestmentID)
}

func TestCancelInvestmentTwiceRejected(t *testing.T) {
	t.Parallel()
	svc, uow, bus := newService(t)
	acct := seedAccount(t, uow, 50000)
	c := seedCampaign(t, uow)

	inv, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 200), 5)
	require.NoError(t, err)

	_, err = svc.CancelInvestment(context.Background(), inv.ID, acct.UserID)
	require.NoError(t, err)
	bus.ClearPublished()

	_, err = svc.CancelInvestment(context.Background(), inv.ID, acct.UserID)
	require.ErrorIs(t, err, investment.ErrAlreadyCancelled)
	assert.Empty(t, bus.Published(), "a rejected cancel must not publish an event")

	stored, err := uow.Accounts().Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), stored.Balance.Amount(), "the release must not run twice")
}

func TestCancelInvestmentRequiresOwner(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 50000)
	c := seedCampaign(t, uow)

	inv, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 200), 5)
	require.NoError(t, err)

	_, err = svc.CancelInvestment(context.Background(), inv.ID, uuid.New())
	require.ErrorIs(t, err, user.ErrUserUnauthorized)
}

func TestListByInvestor(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	acct := seedAccount(t, uow, 100000)
	c := seedCampaign(t, uow)

	for range 3 {
		_, err := svc.Invest(context.Background(), c.ID, acct.UserID, mustMoney(t, 10), 5)
		require.NoError(t, err)
	}

	invs, err := svc.ListByInvestor(context.Background(), acct.UserID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, invs, 2)
}
