// Package infra provides database and event-bus infrastructure.
package infra

import (
	"errors"
	"time"

	"github.com/amirasaad/pledgepool/infra/repository/account"
	"github.com/amirasaad/pledgepool/infra/repository/campaign"
	"github.com/amirasaad/pledgepool/infra/repository/investment"
	"github.com/amirasaad/pledgepool/infra/repository/loan"
	"github.com/amirasaad/pledgepool/infra/repository/transaction"
	"github.com/amirasaad/pledgepool/infra/repository/user"
	"github.com/amirasaad/pledgepool/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens a Postgres connection with pool settings tuned for
// the API workload.
func NewDBConnection(cnf *config.DB, appEnv string) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	connection, err := gorm.Open(postgres.Open(cnf.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// Migrate creates or updates the schema from the repository models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&account.Account{},
		&transaction.Transaction{},
		&campaign.Campaign{},
		&investment.Investment{},
		&loan.Loan{},
	)
}
