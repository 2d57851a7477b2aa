package holdings

import (
	"context"
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
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.PortfolioID == portfolioID && tx.AssetID == assetID {
			out = append(out, tx)
		}
	}
	models.SortTransactions(out)
	return out, nil
}

func (f *fakeLedger) ListByPortfolio(_ context.Context, portfolioID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.PortfolioID == portfolioID {
			out = append(out, tx)
		}
	}
	models.SortTransactions(out)
	return out, f.err
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

func (f *fakeLedger) ListDistinctAssets(_ context.Context, userID, portfolioID string) ([]models.AssetAggregate, error) {
	if f.err != nil {
		return nil, f.err
	}
	byAsset := map[string]*models.AssetAggregate{}
	var order []string
	for _, tx := range f.txs {
		if tx.UserID != userID {
			continue
		}
		if portfolioID != "" && tx.PortfolioID != portfolioID {
			continue
		}
		agg, ok := byAsset[tx.AssetID]
		if !ok {
			agg = &models.AssetAggregate{AssetID: tx.AssetID, AssetSymbol: tx.AssetSymbol}
			byAsset[tx.AssetID] = agg
			order = append(order, tx.AssetID)
		}
		agg.TotalQuantity = agg.TotalQuantity.Add(tx.SignedQuantity())
	}
	out := make([]models.AssetAggregate, 0, len(order))
	for _, id := range order {
		out = append(out, *byAsset[id])
	}
	return out, nil
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

func (f *fakePortfolios) ListPortfolios(_ context.Context, _ string) ([]*models.Portfolio, error) {
	return nil, nil
}

func (f *fakePortfolios) DeletePortfolio(_ context.Context, _ string) error { return nil }

type fakeUsers struct{}

func (f *fakeUsers) GetUser(_ context.Context, _ string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (f *fakeUsers) SaveUser(_ context.Context, _ *models.User) error { return nil }
func (f *fakeUsers) DeleteUser(_ context.Context, _ string) error     { return nil }

type fakeCache struct{}

func (f *fakeCache) Get(_ context.Context, _ string) ([]byte, bool)                   { return nil, false }
func (f *fakeCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (f *fakeCache) Delete(_ context.Context, _ string) error                         { return nil }

type fakeStorage struct {
	ledger     *fakeLedger
	portfolios *fakePortfolios
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		ledger:     &fakeLedger{},
		portfolios: &fakePortfolios{portfolios: map[string]*models.Portfolio{}},
	}
}

func (f *fakeStorage) Ledger() interfaces.LedgerStore        { return f.ledger }
func (f *fakeStorage) Portfolios() interfaces.PortfolioStore { return f.portfolios }
func (f *fakeStorage) Users() interfaces.UserStore           { return &fakeUsers{} }
func (f *fakeStorage) Cache() interfaces.CacheStore          { return &fakeCache{} }
func (f *fakeStorage) Close() error                          { return nil }

type fakeOracle struct {
	quotes   map[string]models.Quote
	quoteErr error
	calls    int
	lastIDs  []string
}

func (f *fakeOracle) GetCurrentQuotes(_ context.Context, assetIDs []string) (map[string]models.Quote, error) {
	f.calls++
	f.lastIDs = assetIDs
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quotes, nil
}

func (f *fakeOracle) GetHistoricalQuotes(_ context.Context, _ []string, _ int, _ interfaces.QuoteInterval) (map[string]models.HistoricalQuotes, error) {
	return nil, nil
}

var (
	_ interfaces.StorageManager = (*fakeStorage)(nil)
	_ interfaces.PriceOracle    = (*fakeOracle)(nil)
)
