// Package fake provides an in-memory UnitOfWork for service tests. It keeps
// aggregates in maps and returns copies, so a mutation only becomes visible
// after the corresponding Update call, as with the real store.
package fake

import (
	"context"
	"sort"
	"sync"

	"github.com/amirasaad/pledgepool/pkg/domain/account"
	"github.com/amirasaad/pledgepool/pkg/domain/campaign"
	"github.com/amirasaad/pledgepool/pkg/domain/investment"
	"github.com/amirasaad/pledgepool/pkg/domain/user"
	"github.com/amirasaad/pledgepool/pkg/repository"
	"github.com/google/uuid"
)

// UoW is an in-memory UnitOfWork. Do serializes closures with a
// transaction-level mutex, standing in for the row locks the real store
// takes. There is no rollback, so tests asserting post-failure state must
// use the error paths that fail before mutating.
type UoW struct {
	txMu          sync.Mutex
	mu            sync.Mutex
	accounts      map[uuid.UUID]account.Account
	transactions  []account.Transaction
	campaigns     map[uuid.UUID]campaign.Campaign
	campaignLocks []uuid.UUID
	investments   map[uuid.UUID]investment.Investment
	loans         map[uuid.UUID]campaign.Loan
	users         map[uuid.UUID]user.User
}

// NewUoW creates an empty in-memory UnitOfWork.
func NewUoW() *UoW {
	return &UoW{
		accounts:    make(map[uuid.UUID]account.Account),
		campaigns:   make(map[uuid.UUID]campaign.Campaign),
		investments: make(map[uuid.UUID]investment.Investment),
		loans:       make(map[uuid.UUID]campaign.Loan),
		users:       make(map[uuid.UUID]user.User),
	}
}

// Do runs fn with the UoW itself. Closures run one at a time, so a
// concurrent caller observes only committed state.
func (u *UoW) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.txMu.Lock()
	defer u.txMu.Unlock()
	return fn(u)
}

// Accounts returns the in-memory account repository.
func (u *UoW) Accounts() repository.AccountRepository { return &accountRepo{u} }

// Transactions returns the in-memory transaction log.
func (u *UoW) Transactions() repository.TransactionRepository { return &transactionRepo{u} }

// Campaigns returns the in-memory campaign repository.
func (u *UoW) Campaigns() repository.CampaignRepository { return &campaignRepo{u} }

// Investments returns the in-memory investment repository.
func (u *UoW) Investments() repository.InvestmentRepository { return &investmentRepo{u} }

// Loans returns the in-memory loan repository.
func (u *UoW) Loans() repository.LoanRepository { return &loanRepo{u} }

// Users returns the in-memory user repository.
func (u *UoW) Users() repository.UserRepository { return &userRepo{u} }

var _ repository.UnitOfWork = (*UoW)(nil)

// SeedAccount stores an account directly, for test setup.
func (u *UoW) SeedAccount(a *account.Account) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.accounts[a.ID] = *a
}

// SeedCampaign stores a campaign directly, for test setup.
func (u *UoW) SeedCampaign(c *campaign.Campaign) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.campaigns[c.ID] = *c
}

// SeedInvestment stores an investment directly, for test setup.
func (u *UoW) SeedInvestment(i *investment.Investment) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.investments[i.ID] = *i
}

// SeedUser stores a user directly, for test setup.
func (u *UoW) SeedUser(usr *user.User) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[usr.ID] = *usr
}

// CampaignLocks returns the campaign IDs fetched with a row lock, in order.
func (u *UoW) CampaignLocks() []uuid.UUID {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]uuid.UUID, len(u.campaignLocks))
	copy(out, u.campaignLocks)
	return out
}

// TransactionLog returns a snapshot of the transaction log, oldest first.
func (u *UoW) TransactionLog() []account.Transaction {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]account.Transaction, len(u.transactions))
	copy(out, u.transactions)
	return out
}

type accountRepo struct{ u *UoW }

func (r *accountRepo) Create(_ context.Context, a *account.Account) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	r.u.accounts[a.ID] = *a
	return nil
}

func (r *accountRepo) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	a, ok := r.u.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return &a, nil
}

func (r *accountRepo) GetByUser(_ context.Context, userID uuid.UUID) (*account.Account, error) {
	return r.byUser(userID)
}

func (r *accountRepo) GetByUserForUpdate(_ context.Context, userID uuid.UUID) (*account.Account, error) {
	return r.byUser(userID)
}

func (r *accountRepo) byUser(userID uuid.UUID) (*account.Account, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, a := range r.u.accounts {
		if a.UserID == userID {
			found := a
			return &found, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r *accountRepo) UpdateBalances(_ context.Context, a *account.Account) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if _, ok := r.u.accounts[a.ID]; !ok {
		return account.ErrAccountNotFound
	}
	r.u.accounts[a.ID] = *a
	return nil
}

type transactionRepo struct{ u *UoW }

func (r *transactionRepo) Create(_ context.Context, t *account.Transaction) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	r.u.transactions = append(r.u.transactions, *t)
	return nil
}

func (r *transactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit int) ([]*account.Transaction, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var out []*account.Transaction
	for i := len(r.u.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.u.transactions[i].AccountID == accountID {
			t := r.u.transactions[i]
			out = append(out, &t)
		}
	}
	return out, nil
}

type campaignRepo struct{ u *UoW }

func (r *campaignRepo) Create(_ context.Context, c *campaign.Campaign) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	r.u.campaigns[c.ID] = *c
	return nil
}

func (r *campaignRepo) Get(_ context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	c, ok := r.u.campaigns[id]
	if !ok {
		return nil, campaign.ErrCampaignNotFound
	}
	return &c, nil
}

func (r *campaignRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	r.u.mu.Lock()
	r.u.campaignLocks = append(r.u.campaignLocks, id)
	r.u.mu.Unlock()
	return r.Get(ctx, id)
}

func (r *campaignRepo) UpdateStatus(_ context.Context, c *campaign.Campaign) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if _, ok := r.u.campaigns[c.ID]; !ok {
		return campaign.ErrCampaignNotFound
	}
	r.u.campaigns[c.ID] = *c
	return nil
}

func (r *campaignRepo) List(_ context.Context, limit, offset int) ([]*campaign.Campaign, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	all := make([]*campaign.Campaign, 0, len(r.u.campaigns))
	for _, c := range r.u.campaigns {
		found := c
		all = append(all, &found)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type investmentRepo struct{ u *UoW }

func (r *investmentRepo) Create(_ context.Context, i *investment.Investment) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	r.u.investments[i.ID] = *i
	return nil
}

func (r *investmentRepo) Get(_ context.Context, id uuid.UUID) (*investment.Investment, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	i, ok := r.u.investments[id]
	if !ok {
		return nil, investment.ErrInvestmentNotFound
	}
	return &i, nil
}

func (r *investmentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	return r.Get(ctx, id)
}

func (r *investmentRepo) UpdateStatus(_ context.Context, i *investment.Investment) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	if _, ok := r.u.investments[i.ID]; !ok {
		return investment.ErrInvestmentNotFound
	}
	r.u.investments[i.ID] = *i
	return nil
}

func (r *investmentRepo) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]*investment.Investment, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var out []*investment.Investment
	for _, i := range r.u.investments {
		if i.CampaignID == campaignID {
			found := i
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *investmentRepo) ListByInvestor(_ context.Context, investorID uuid.UUID, limit, offset int) ([]*investment.Investment, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	var out []*investment.Investment
	for _, i := range r.u.investments {
		if i.InvestorID == investorID {
			found := i
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type loanRepo struct{ u *UoW }

func (r *loanRepo) Create(_ context.Context, l *campaign.Loan) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	r.u.loans[l.ID] = *l
	return nil
}

func (r *loanRepo) GetByCampaign(_ context.Context, campaignID uuid.UUID) (*campaign.Loan, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, l := range r.u.loans {
		if l.CampaignID == campaignID {
			found := l
			return &found, nil
		}
	}
	return nil, campaign.ErrLoanNotFound
}

type userRepo struct{ u *UoW }

func (r *userRepo) Create(_ context.Context, usr *user.User) error {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	r.u.users[usr.ID] = *usr
	return nil
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	usr, ok := r.u.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &usr, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.u.mu.Lock()
	defer r.u.mu.Unlock()
	for _, usr := range r.u.users {
		if usr.Email == email {
			found := usr
			return &found, nil
		}
	}
	return nil, user.ErrUserNotFound
}
