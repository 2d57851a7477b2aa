package server

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/models"
)

type fakeLedger struct {
	txs       []models.Transaction
	nextID    uint64
	insertErr error
}

func (f *fakeLedger) InsertTransaction(_ context.Context, tx *models.Transaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	f.nextID++
	tx.ID = f.nextID
	f.txs = append(f.txs, *tx)
	return nil
}

func (f *fakeLedger) DeleteTransaction(_ context.Context, portfolioID string, id uint64) error {
	for i, tx := range f.txs {
		if tx.ID == id && tx.PortfolioID == portfolioID {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeLedger) ListTransactions(_ context.Context, portfolioID, assetID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.PortfolioID == portfolioID && tx.AssetID == assetID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByPortfolio(_ context.Context, portfolioID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.PortfolioID == portfolioID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListByUser(_ context.Context, userID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListDistinctAssets(_ context.Context, _, _ string) ([]models.AssetAggregate, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLedger) AvailableQuantity(_ context.Context, _, _ string, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fakePortfolios struct {
	portfolios map[string]*models.Portfolio
}

func (f *fakePortfolios) SavePortfolio(_ context.Context, p *models.Portfolio) error {
	f.portfolios[p.ID] = p
	return nil
}

func (f *fakePortfolios) GetPortfolio(_ context.Context, id string) (*models.Portfolio, error) {
	p, ok := f.portfolios[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (f *fakePortfolios) ListPortfolios(_ context.Context, userID string) ([]*models.Portfolio, error) {
	var out []*models.Portfolio
	for _, p := range f.portfolios {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePortfolios) DeletePortfolio(_ context.Context, id string) error {
	delete(f.portfolios, id)
	return nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetUser(_ context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUsers) SaveUser(_ context.Context, user *models.User) error {
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, userID string) error {
	delete(f.users, userID)
	return nil
}

type fakeCache struct{}

func (f *fakeCache) Get(_ context.Context, _ string) ([]byte, bool)                   { return nil, false }
func (f *fakeCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (f *fakeCache) Delete(_ context.Context, _ string) error                         { return nil }

type fakeStorage struct {
	ledger     *fakeLedger
	portfolios *fakePortfolios
	users      *fakeUsers
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		ledger:     &fakeLedger{},
		portfolios: &fakePortfolios{portfolios: map[string]*models.Portfolio{}},
		users:      &fakeUsers{users: map[string]*models.User{}},
	}
}

func (f *fakeStorage) Ledger() interfaces.LedgerStore        { return f.ledger }
func (f *fakeStorage) Portfolios() interfaces.PortfolioStore { return f.portfolios }
func (f *fakeStorage) Users() interfaces.UserStore           { return f.users }
func (f *fakeStorage) Cache() interfaces.CacheStore          { return &fakeCache{} }
func (f *fakeStorage) Close() error                          { return nil }

type fakeHoldingsService struct {
	response *models.HoldingsResponse
	err      error
}

func (f *fakeHoldingsService) BuildHoldings(_ context.Context, _, _ string) (*models.HoldingsResponse, error) {
	return f.response, f.err
}

func (f *fakeHoldingsService) BuildAllHoldings(_ context.Context, _ string) (*models.HoldingsResponse, error) {
	return f.response, f.err
}

type fakeHistoryService struct {
	response   *models.HistoryResponse
	err        error
	lastPeriod models.HistoryPeriod
}

func (f *fakeHistoryService) BuildHistory(_ context.Context, _, _ string, period models.HistoryPeriod) (*models.HistoryResponse, error) {
	f.lastPeriod = period
	return f.response, f.err
}

var (
	_ interfaces.StorageManager  = (*fakeStorage)(nil)
	_ interfaces.HoldingsService = (*fakeHoldingsService)(nil)
	_ interfaces.HistoryService  = (*fakeHistoryService)(nil)
)
