package account_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"

	"github.com/amirasaad/pledgepool/internal/fixtures/fake"
	"github.com/amirasaad/pledgepool/pkg/config"
	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	accountsvc "github.com/amirasaad/pledgepool/pkg/service/account"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newService(t *testing.T) (*accountsvc.Service, *fake.UoW) {
	t.Helper()
	uow := fake.NewUoW()
	svc := accountsvc.NewService(config.Deps{
		Uow:    uow,
		Logger: slog.Default(),
	})
	return svc, uow
}

func seedAccount(t *testing.T, uow *fake.UoW, balance int64) *account.Account {
	t.Helper()
	a, err := account.New().WithUserID(uuid.New()).WithBalance(balance).Build()
	require.NoError(t, err)
	uow.SeedAccount(a)
	return a
}

func mustMoney(t *testing.T, amount float64) money.Money {
	t.Helper()
	m, err := money.New(amount, currency.EUR)
	require.NoError(t, err)
	return m
}

func TestTopUpAppendsDepositTransaction(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	svc, uow := newService(t)
	seeded := seedAccount(t, uow, 0)

	a, err := svc.TopUp(context.Background(), seeded.UserID, mustMoney(t, 100))
	require.NoError(t, err)
	assert.Equal(int64(10000), a.Balance.Amount())

	log := uow.TransactionLog()
	require.Len(t, log, 1)
	assert.Equal(account.TransactionDeposit, log[0].Type)
	assert.Equal(seeded.ID, log[0].AccountID)
	assert.Equal(int64(10000), log[0].Amount.Amount())
}

func TestTopUpUnknownAccount(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t)
	_, err := svc.TopUp(context.Background(), uuid.New(), mustMoney(t, 100))
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestWithdraw(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	svc, uow := newService(t)
	seeded := seedAccount(t, uow, 20000)

	a, err := svc.Withdraw(context.Background(), seeded.UserID, mustMoney(t, 50))
	require.NoError(t, err)
	assert.Equal(int64(15000), a.Balance.Amount())

	log := uow.TransactionLog()
	require.Len(t, log, 1)
	assert.Equal(account.TransactionWithdrawal, log[0].Type)
}

func TestWithdrawInsufficientFundsLeavesNoTransaction(t *testing.T) {
	t.Parallel()
	svc, uow := newService(t)
	seeded := seedAccount(t, uow, 100)

	_, err := svc.Withdraw(context.Background(), seeded.UserID, mustMoney(t, 50))
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.Empty(t, uow.TransactionLog())

	a, err := svc.GetAccount(context.Background(), seeded.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), a.Balance.Amount())
}

func TestListTransactionsNewestFirstWithLimit(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	svc, uow := newService(t)
	seeded := seedAccount(t, uow, 0)

	for i := 1; i <= 3; i++ {
		_, err := svc.TopUp(context.Background(), seeded.UserID, mustMoney(t, float64(i)))
		require.NoError(t, err)
	}

	txs, err := svc.ListTransactions(context.Background(), seeded.UserID, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(int64(300), txs[0].Amount.Amount(), "latest transaction first")
	assert.Equal(int64(200), txs[1].Amount.Amount())
}

func TestListTransactionsDefaultLimit(t *testing.T) {
	t.Parallel()
	svc, uow := newService(t)
	seeded := seedAccount(t, uow, 0)

	for range accountsvc.DefaultTransactionLimit + 5 {
		_, err := svc.TopUp(context.Background(), seeded.UserID, mustMoney(t, 1))
		require.NoError(t, err)
	}

	txs, err := svc.ListTransactions(context.Background(), seeded.UserID, 0)
	require.NoError(t, err)
	assert.Len(t, txs, accountsvc.DefaultTransactionLimit)
}
