// Package models defines domain types for Coinfolio
package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the direction of a ledger entry.
type TransactionKind string

const (
	TransactionBuy  TransactionKind = "buy"
	TransactionSell TransactionKind = "sell"
)

// Transaction is an immutable ledger entry for one (portfolio, asset) pair.
// ID is issued monotonically by the ledger store and is the FIFO tie-break
// when multiple transactions share an OccurredAt timestamp.
type Transaction struct {
	ID          uint64          `badgerhold:"key" json:"id"`
	UserID      string          `badgerholdIndex:"UserID" json:"-"`
	PortfolioID string          `badgerholdIndex:"PortfolioID" json:"portfolio_id"`
	AssetID     string          `json:"asset_id"`
	AssetSymbol string          `json:"asset_symbol"`
	Kind        TransactionKind `json:"kind"`
	// Quantity is the number of units bought or sold, always positive,
	// up to 8 fractional digits.
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	// TotalAmount is quantity x price: fee-inclusive for buys, pre-fee for sells.
	TotalAmount decimal.Decimal `json:"total_amount"`
	Fee         decimal.Decimal `json:"fee"`
	// OccurredAt is the economic event time, distinct from CreatedAt.
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// SignedQuantity returns Quantity for buys and -Quantity for sells.
func (t *Transaction) SignedQuantity() decimal.Decimal {
	if t.Kind == TransactionSell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// Validate checks the value constraints the ledger enforces at creation time.
func (t *Transaction) Validate() error {
	if t.Kind != TransactionBuy && t.Kind != TransactionSell {
		return ErrInvalidTransaction
	}
	if !t.Quantity.IsPositive() || !t.PricePerUnit.IsPositive() {
		return ErrInvalidTransaction
	}
	if t.TotalAmount.IsNegative() || t.Fee.IsNegative() {
		return ErrInvalidTransaction
	}
	if t.OccurredAt.IsZero() {
		return ErrInvalidTransaction
	}
	return nil
}

// AssetAggregate is a distinct-asset row with the signed quantity sum over a
// user's ledger, scoped to one portfolio or to all of a user's portfolios.
type AssetAggregate struct {
	AssetID       string
	AssetSymbol   string
	TotalQuantity decimal.Decimal
}

// SortTransactions orders transactions ascending by (OccurredAt, ID).
// This ordering is the FIFO contract for cost basis computation.
func SortTransactions(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].OccurredAt.Equal(txs[j].OccurredAt) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].OccurredAt.Before(txs[j].OccurredAt)
	})
}
