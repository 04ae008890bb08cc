package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	domain "github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func accountRows(userID uuid.UUID, balance, reserved int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "balance", "reserved", "currency", "created_at", "updated_at"}).
		AddRow(uuid.New(), userID, balance, reserved, "EUR", now, now)
}

func TestCreate(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := repo{db: db}

	a, err := domain.New().WithUserID(uuid.New()).Build()
	require.NoError(err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "investment_accounts" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(repo.Create(context.Background(), a))
	require.NoError(mock.ExpectationsWereMet())
}

func TestGetByUser(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := repo{db: db}
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "investment_accounts" WHERE user_id = (.+)`).
		WithArgs(userID, 1).
		WillReturnRows(accountRows(userID, 10000, 2500))

	a, err := repo.GetByUser(context.Background(), userID)
	require.NoError(err)
	assert.Equal(t, userID, a.UserID)
	assert.Equal(t, int64(10000), a.Balance.Amount())
	assert.Equal(t, int64(2500), a.Reserved.Amount())
	require.NoError(mock.ExpectationsWereMet())
}

func TestGetByUserNotFoundMapsToDomainError(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := repo{db: db}

	mock.ExpectQuery(`SELECT (.+) FROM "investment_accounts" WHERE user_id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByUser(context.Background(), uuid.New())
	require.ErrorIs(err, domain.ErrAccountNotFound)
}

func TestGetByUserForUpdateTakesRowLock(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := repo{db: db}
	userID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "investment_accounts" WHERE user_id = (.+) FOR UPDATE`).
		WithArgs(userID, 1).
		WillReturnRows(accountRows(userID, 10000, 0))

	_, err := repo.GetByUserForUpdate(context.Background(), userID)
	require.NoError(err)
	require.NoError(mock.ExpectationsWereMet())
}

func TestUpdateBalances(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := repo{db: db}

	a, err := domain.New().WithUserID(uuid.New()).WithBalance(7000).WithReserved(3000).Build()
	require.NoError(err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "investment_accounts" SET (.+) WHERE id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(repo.UpdateBalances(context.Background(), a))
	require.NoError(mock.ExpectationsWereMet())
}

func TestCreateError(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)
	repo := repo{db: db}

	a, err := domain.New().WithUserID(uuid.New()).Build()
	require.NoError(err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "investment_accounts" (.+) VALUES (.+)`).
		WillReturnError(errors.New("create error"))
	mock.ExpectRollback()

	require.Error(repo.Create(context.Background(), a))
}
