package history

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/models"
)

type fakeLedger struct {
	txs []models.Transaction
	err error
}

func (f *fakeLedger) InsertTransaction(_ context.Context, tx *models.Transaction) error {
	f.txs = append(f.txs, *tx)
	return nil
}

func (f *fakeLedger) DeleteTransaction(_ context.Context, _ string, _ uint64) error {
	return nil
}

func (f *fakeLedger) ListTransactions(_ context.Context, portfolioID, assetID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.PortfolioID == portfolioID && tx.AssetID == assetID {
			out = append(out, tx)
		}
	}
	return out, f.err
}

func (f *fakeLedger) ListByPortfolio(_ context.Context, portfolioID string) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.PortfolioID == portfolioID {
			out = append(out, tx)
		}
	}
	models.SortTransactions(out)
	return out, nil
}

func (f *fakeLedger) ListByUser(_ context.Context, userID string) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	models.SortTransactions(out)
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
	if f.portfolios == nil {
		f.portfolios = map[string]*models.Portfolio{}
	}
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

func (f *fakePortfolios) ListPortfolios(_ context.Context, _ string) ([]*models.Portfolio, error) {
	return nil, nil
}

func (f *fakePortfolios) DeletePortfolio(_ context.Context, _ string) error {
	return nil
}

type fakeUsers struct{}

func (f *fakeUsers) GetUser(_ context.Context, _ string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (f *fakeUsers) SaveUser(_ context.Context, _ *models.User) error { return nil }
func (f *fakeUsers) DeleteUser(_ context.Context, _ string) error     { return nil }

type fakeCache struct {
	entries map[string][]byte
	sets    int
	gets    int
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	f.gets++
	data, ok := f.entries[key]
	return data, ok
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.entries == nil {
		f.entries = map[string][]byte{}
	}
	f.entries[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

type fakeStorage struct {
	ledger     *fakeLedger
	portfolios *fakePortfolios
	users      *fakeUsers
	cache      *fakeCache
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		ledger:     &fakeLedger{},
		portfolios: &fakePortfolios{portfolios: map[string]*models.Portfolio{}},
		users:      &fakeUsers{},
		cache:      &fakeCache{entries: map[string][]byte{}},
	}
}

func (f *fakeStorage) Ledger() interfaces.LedgerStore        { return f.ledger }
func (f *fakeStorage) Portfolios() interfaces.PortfolioStore { return f.portfolios }
func (f *fakeStorage) Users() interfaces.UserStore           { return f.users }
func (f *fakeStorage) Cache() interfaces.CacheStore          { return f.cache }
func (f *fakeStorage) Close() error                          { return nil }

type fakeOracle struct {
	quotes     map[string]models.Quote
	quoteErr   error
	historical map[string]models.HistoricalQuotes
	histErr    error

	quoteCalls int
	histCalls  int
}

func (f *fakeOracle) GetCurrentQuotes(_ context.Context, _ []string) (map[string]models.Quote, error) {
	f.quoteCalls++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quotes, nil
}

func (f *fakeOracle) GetHistoricalQuotes(_ context.Context, _ []string, _ int, _ interfaces.QuoteInterval) (map[string]models.HistoricalQuotes, error) {
	f.histCalls++
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.historical, nil
}

var (
	_ interfaces.StorageManager = (*fakeStorage)(nil)
	_ interfaces.PriceOracle    = (*fakeOracle)(nil)
)
