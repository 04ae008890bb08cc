package repository

import "context"

// UnitOfWork is the transaction boundary for every ledger mutation.
//
// All repositories obtained inside Do share one database transaction, so a
// multi-aggregate operation (e.g. cancelling a campaign touches the campaign,
// its investments and several accounts) commits or rolls back as a whole.
// Conflicts surfaced by the database are returned to the caller; the core
// never retries internally.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back and the error is returned unchanged.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Accounts() AccountRepository
	Transactions() TransactionRepository
	Campaigns() CampaignRepository
	Investments() InvestmentRepository
	Loans() LoanRepository
	Users() UserRepository
}
