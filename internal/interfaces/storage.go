// Package interfaces defines service contracts for Coinfolio
package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	Ledger() LedgerStore
	Portfolios() PortfolioStore
	Users() UserStore
	Cache() CacheStore

	// Lifecycle
	Close() error
}

// LedgerStore owns the ordered set of buy/sell transactions.
// List results are sorted ascending by (OccurredAt, ID); that ordering is
// the FIFO contract.
type LedgerStore interface {
	// InsertTransaction issues a monotonic ID and persists the transaction.
	// Sells that would exceed the balance available at their OccurredAt
	// return models.ErrInsufficientBalance.
	InsertTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, portfolioID string, id uint64) error

	// ListTransactions returns the full history for one (portfolio, asset) pair.
	ListTransactions(ctx context.Context, portfolioID, assetID string) ([]models.Transaction, error)

	// Bulk loads for history reconstruction.
	ListByPortfolio(ctx context.Context, portfolioID string) ([]models.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)

	// ListDistinctAssets returns one aggregate row per asset with the signed
	// quantity sum. portfolioID may be empty for all portfolios of the user.
	ListDistinctAssets(ctx context.Context, userID, portfolioID string) ([]models.AssetAggregate, error)

	// AvailableQuantity returns the signed quantity sum at or before asOf.
	AvailableQuantity(ctx context.Context, portfolioID, assetID string, asOf time.Time) (decimal.Decimal, error)
}

// PortfolioStore manages portfolio containers.
type PortfolioStore interface {
	SavePortfolio(ctx context.Context, p *models.Portfolio) error
	GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, id string) error
}

// UserStore manages registered accounts.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
}

// CacheStore is the narrow get/set contract derived results are cached
// through. Expired entries read as misses.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
