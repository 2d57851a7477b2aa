// Package accounting implements FIFO lot matching for cost basis and
// realized gain computation.
package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// lot is one open purchase. RemainingCost is tracked independently of
// RemainingQuantity to avoid compounding rounding error across partial sells.
type lot struct {
	remainingQuantity decimal.Decimal
	remainingCost     decimal.Decimal
}

// ComputeCostBasis replays a single (portfolio, asset) transaction history
// and returns the open cost basis, realized gain/loss, average buy price,
// and quantity remaining.
//
// Transactions must already be sorted ascending by (OccurredAt, ID); that
// ordering is the FIFO contract. The function is pure: it never mutates its
// input and is safe to re-run on every request.
//
// A sell that consumes more than the open lots hold does not underflow: the
// shortfall consumes zero-cost inventory, its proceeds share counts entirely
// as realized gain, and the result's Oversold flag is set so callers can log
// the ledger inconsistency.
func ComputeCostBasis(transactions []models.Transaction) models.CostBasisResult {
	var (
		lots     []lot
		head     int
		realized = decimal.Zero
		oversold bool
	)

	for i := range transactions {
		tx := &transactions[i]
		switch tx.Kind {
		case models.TransactionBuy:
			lots = append(lots, lot{
				remainingQuantity: tx.Quantity,
				remainingCost:     tx.TotalAmount,
			})

		case models.TransactionSell:
			sellQty := tx.Quantity
			if !sellQty.IsPositive() {
				continue
			}
			proceeds := tx.TotalAmount.Sub(tx.Fee)
			toSell := sellQty

			for toSell.IsPositive() && head < len(lots) {
				front := &lots[head]
				if !front.remainingQuantity.IsPositive() {
					// Empty or malformed lot, discard.
					head++
					continue
				}
				if front.remainingQuantity.LessThanOrEqual(toSell) {
					// Consume the lot fully.
					share := front.remainingQuantity.Div(sellQty).Mul(proceeds)
					realized = realized.Add(share.Sub(front.remainingCost))
					toSell = toSell.Sub(front.remainingQuantity)
					head++
				} else {
					// Split the lot: sell part of the front lot and stop.
					costPerUnit := front.remainingCost.Div(front.remainingQuantity)
					soldCost := toSell.Mul(costPerUnit)
					share := toSell.Div(sellQty).Mul(proceeds)
					realized = realized.Add(share.Sub(soldCost))
					front.remainingQuantity = front.remainingQuantity.Sub(toSell)
					front.remainingCost = front.remainingCost.Sub(soldCost)
					toSell = decimal.Zero
				}
			}

			if toSell.IsPositive() {
				// Ledger invariant violated: more sold than held. The
				// remainder consumes zero-cost inventory, so its proceeds
				// share is pure gain. Degraded but defined.
				oversold = true
				realized = realized.Add(toSell.Div(sellQty).Mul(proceeds))
			}
		}
	}

	quantityRemaining := decimal.Zero
	costBasis := decimal.Zero
	for _, l := range lots[head:] {
		quantityRemaining = quantityRemaining.Add(l.remainingQuantity)
		costBasis = costBasis.Add(l.remainingCost)
	}

	avgBuyPrice := decimal.Zero
	if quantityRemaining.IsPositive() {
		avgBuyPrice = costBasis.Div(quantityRemaining)
	}

	return models.CostBasisResult{
		CostBasis:         costBasis,
		RealizedGainLoss:  realized,
		AvgBuyPrice:       avgBuyPrice,
		QuantityRemaining: quantityRemaining,
		Oversold:          oversold,
	}
}
