package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/models"
)

// ledgerStorage implements interfaces.LedgerStore backed by BadgerHold.
type ledgerStorage struct {
	store  *Store
	logger *common.Logger
}

// NewLedgerStorage creates a new LedgerStore backed by BadgerHold.
func NewLedgerStorage(store *Store, logger *common.Logger) *ledgerStorage {
	return &ledgerStorage{store: store, logger: logger}
}

func (s *ledgerStorage) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	// Ledger invariant: a sell must not exceed the balance available at its
	// economic event time.
	if tx.Kind == models.TransactionSell {
		available, err := s.AvailableQuantity(ctx, tx.PortfolioID, tx.AssetID, tx.OccurredAt)
		if err != nil {
			return err
		}
		if tx.Quantity.GreaterThan(available) {
			return models.ErrInsufficientBalance
		}
	}

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	// NextSequence issues the monotonic ID used as the FIFO tie-break.
	if err := s.store.db.Insert(badgerhold.NextSequence(), tx); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	s.logger.Debug().
		Uint64("id", tx.ID).
		Str("portfolio", tx.PortfolioID).
		Str("asset", tx.AssetID).
		Str("kind", string(tx.Kind)).
		Msg("Transaction inserted")

	return nil
}

func (s *ledgerStorage) DeleteTransaction(_ context.Context, portfolioID string, id uint64) error {
	var tx models.Transaction
	if err := s.store.db.Get(id, &tx); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	if tx.PortfolioID != portfolioID {
		return models.ErrNotFound
	}
	if err := s.store.db.Delete(id, models.Transaction{}); err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	return nil
}

func (s *ledgerStorage) ListTransactions(_ context.Context, portfolioID, assetID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	query := badgerhold.Where("PortfolioID").Eq(portfolioID).Index("PortfolioID").
		And("AssetID").Eq(assetID)
	if err := s.store.db.Find(&txs, query); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	models.SortTransactions(txs)
	return txs, nil
}

func (s *ledgerStorage) ListByPortfolio(_ context.Context, portfolioID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	query := badgerhold.Where("PortfolioID").Eq(portfolioID).Index("PortfolioID")
	if err := s.store.db.Find(&txs, query); err != nil {
		return nil, fmt.Errorf("failed to list transactions for portfolio '%s': %w", portfolioID, err)
	}
	models.SortTransactions(txs)
	return txs, nil
}

func (s *ledgerStorage) ListByUser(_ context.Context, userID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")
	if err := s.store.db.Find(&txs, query); err != nil {
		return nil, fmt.Errorf("failed to list transactions for user '%s': %w", userID, err)
	}
	models.SortTransactions(txs)
	return txs, nil
}

func (s *ledgerStorage) ListDistinctAssets(ctx context.Context, userID, portfolioID string) ([]models.AssetAggregate, error) {
	var txs []models.Transaction
	var err error
	if portfolioID != "" {
		txs, err = s.ListByPortfolio(ctx, portfolioID)
	} else {
		txs, err = s.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*models.AssetAggregate)
	for i := range txs {
		tx := &txs[i]
		agg, ok := totals[tx.AssetID]
		if !ok {
			agg = &models.AssetAggregate{
				AssetID:       tx.AssetID,
				AssetSymbol:   tx.AssetSymbol,
				TotalQuantity: decimal.Zero,
			}
			totals[tx.AssetID] = agg
		}
		agg.TotalQuantity = agg.TotalQuantity.Add(tx.SignedQuantity())
	}

	aggregates := make([]models.AssetAggregate, 0, len(totals))
	for _, agg := range totals {
		aggregates = append(aggregates, *agg)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].AssetSymbol < aggregates[j].AssetSymbol
	})
	return aggregates, nil
}

func (s *ledgerStorage) AvailableQuantity(ctx context.Context, portfolioID, assetID string, asOf time.Time) (decimal.Decimal, error) {
	txs, err := s.ListTransactions(ctx, portfolioID, assetID)
	if err != nil {
		return decimal.Zero, err
	}

	available := decimal.Zero
	for i := range txs {
		if txs[i].OccurredAt.After(asOf) {
			break // sorted ascending
		}
		available = available.Add(txs[i].SignedQuantity())
	}
	return available, nil
}
