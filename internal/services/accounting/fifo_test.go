package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/coinfolio/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func buy(id uint64, at time.Time, qty, price, total string) models.Transaction {
	return models.Transaction{
		ID:           id,
		AssetID:      "bitcoin",
		Kind:         models.TransactionBuy,
		Quantity:     d(qty),
		PricePerUnit: d(price),
		TotalAmount:  d(total),
		Fee:          decimal.Zero,
		OccurredAt:   at,
	}
}

func sell(id uint64, at time.Time, qty, price, total, fee string) models.Transaction {
	return models.Transaction{
		ID:           id,
		AssetID:      "bitcoin",
		Kind:         models.TransactionSell,
		Quantity:     d(qty),
		PricePerUnit: d(price),
		TotalAmount:  d(total),
		Fee:          d(fee),
		OccurredAt:   at,
	}
}

func at(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeCostBasisEmpty(t *testing.T) {
	res := ComputeCostBasis(nil)

	assert.True(t, res.CostBasis.IsZero())
	assert.True(t, res.RealizedGainLoss.IsZero())
	assert.True(t, res.AvgBuyPrice.IsZero())
	assert.True(t, res.QuantityRemaining.IsZero())
	assert.False(t, res.Oversold)
}

func TestComputeCostBasisBuysOnly(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "1", "10000", "10050"),
		buy(2, at(2), "0.5", "20000", "10020"),
		buy(3, at(3), "2", "15000", "30100"),
	}

	res := ComputeCostBasis(txs)

	// RealizedGainLoss = 0 and costBasis = sum of totalAmount (fee-inclusive).
	assert.True(t, res.RealizedGainLoss.IsZero())
	assert.True(t, res.CostBasis.Equal(d("50170")), "costBasis = %s", res.CostBasis)
	assert.True(t, res.QuantityRemaining.Equal(d("3.5")))
	assert.True(t, res.AvgBuyPrice.Equal(d("50170").Div(d("3.5"))))
	assert.False(t, res.Oversold)
}

func TestComputeCostBasisFullSellOfSingleBuy(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "2", "10000", "20000"),
		sell(2, at(5), "2", "12000", "24000", "100"),
	}

	res := ComputeCostBasis(txs)

	// proceeds = 24000 - 100; realized = proceeds - buy total.
	assert.True(t, res.QuantityRemaining.IsZero())
	assert.True(t, res.CostBasis.IsZero())
	assert.True(t, res.AvgBuyPrice.IsZero())
	assert.True(t, res.RealizedGainLoss.Equal(d("3900")), "realized = %s", res.RealizedGainLoss)
	assert.False(t, res.Oversold)
}

func TestComputeCostBasisPartialSellShrinksOldestLot(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "1", "10000", "10000"),
		buy(2, at(2), "1", "20000", "20000"),
		sell(3, at(3), "0.25", "30000", "7500", "0"),
	}

	res := ComputeCostBasis(txs)

	// Only the oldest lot shrinks: 0.75 @ 10000 + 1 @ 20000 remain.
	assert.True(t, res.QuantityRemaining.Equal(d("1.75")))
	assert.True(t, res.CostBasis.Equal(d("27500")), "costBasis = %s", res.CostBasis)
	// realized = 7500 - 0.25*10000
	assert.True(t, res.RealizedGainLoss.Equal(d("5000")))

	// A second sell keeps consuming the shrunken oldest lot first.
	txs = append(txs, sell(4, at(4), "0.75", "30000", "22500", "0"))
	res = ComputeCostBasis(txs)

	assert.True(t, res.QuantityRemaining.Equal(d("1")))
	assert.True(t, res.CostBasis.Equal(d("20000")), "costBasis = %s", res.CostBasis)
	// + (22500 - 7500)
	assert.True(t, res.RealizedGainLoss.Equal(d("20000")), "realized = %s", res.RealizedGainLoss)
}

// The worked example: Buy 1 @ 10k, Buy 1 @ 20k, Sell 1.5 @ 30k. The sell
// consumes the first lot fully and half the second; proceeds split 30k/15k.
func TestComputeCostBasisProportionalProceedsSplit(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "1.0", "10000", "10000"),
		buy(2, at(2), "1.0", "20000", "20000"),
		sell(3, at(3), "1.5", "30000", "45000", "0"),
	}

	res := ComputeCostBasis(txs)

	require.True(t, res.RealizedGainLoss.Equal(d("25000")), "realized = %s", res.RealizedGainLoss)
	assert.True(t, res.QuantityRemaining.Equal(d("0.5")))
	assert.True(t, res.CostBasis.Equal(d("10000")))
	assert.True(t, res.AvgBuyPrice.Equal(d("20000")))
	assert.False(t, res.Oversold)
}

func TestComputeCostBasisSellFeeReducesProceeds(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "1", "10000", "10000"),
		sell(2, at(2), "1", "15000", "15000", "500"),
	}

	res := ComputeCostBasis(txs)

	assert.True(t, res.RealizedGainLoss.Equal(d("4500")), "realized = %s", res.RealizedGainLoss)
}

func TestComputeCostBasisTimestampTieBrokenByID(t *testing.T) {
	// Two buys at the same instant: the lower id is the older lot.
	same := at(1)
	txs := []models.Transaction{
		buy(1, same, "1", "10000", "10000"),
		buy(2, same, "1", "20000", "20000"),
		sell(3, at(2), "1", "30000", "30000", "0"),
	}
	models.SortTransactions(txs)

	res := ComputeCostBasis(txs)

	// The id-1 lot (cost 10000) must be consumed first.
	assert.True(t, res.RealizedGainLoss.Equal(d("20000")), "realized = %s", res.RealizedGainLoss)
	assert.True(t, res.CostBasis.Equal(d("20000")))
}

func TestComputeCostBasisOversellDoesNotUnderflow(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "1", "10000", "10000"),
		sell(2, at(2), "2", "15000", "30000", "0"),
	}

	res := ComputeCostBasis(txs)

	assert.True(t, res.Oversold)
	assert.True(t, res.QuantityRemaining.IsZero())
	assert.True(t, res.CostBasis.IsZero())
	// Half the proceeds against the real lot (15000-10000), half against
	// zero-cost inventory (15000-0).
	assert.True(t, res.RealizedGainLoss.Equal(d("20000")), "realized = %s", res.RealizedGainLoss)
}

func TestComputeCostBasisSellIntoEmptyQueue(t *testing.T) {
	txs := []models.Transaction{
		sell(1, at(1), "1", "10000", "10000", "0"),
	}

	res := ComputeCostBasis(txs)

	assert.True(t, res.Oversold)
	assert.True(t, res.RealizedGainLoss.Equal(d("10000")))
	assert.True(t, res.QuantityRemaining.IsZero())
}

func TestComputeCostBasisIdempotent(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "1.23456789", "10000", "12345.68"),
		sell(2, at(2), "0.5", "11000", "5500", "12"),
		buy(3, at(3), "2", "9000", "18000"),
		sell(4, at(4), "1.5", "12000", "18000", "20"),
	}

	first := ComputeCostBasis(txs)
	second := ComputeCostBasis(txs)

	assert.True(t, first.CostBasis.Equal(second.CostBasis))
	assert.True(t, first.RealizedGainLoss.Equal(second.RealizedGainLoss))
	assert.True(t, first.AvgBuyPrice.Equal(second.AvgBuyPrice))
	assert.True(t, first.QuantityRemaining.Equal(second.QuantityRemaining))
	assert.Equal(t, first.Oversold, second.Oversold)
}

func TestComputeCostBasisDoesNotMutateInput(t *testing.T) {
	txs := []models.Transaction{
		buy(1, at(1), "1", "10000", "10000"),
		sell(2, at(2), "0.5", "11000", "5500", "0"),
	}
	origQty := txs[0].Quantity
	origTotal := txs[0].TotalAmount

	ComputeCostBasis(txs)

	assert.True(t, txs[0].Quantity.Equal(origQty))
	assert.True(t, txs[0].TotalAmount.Equal(origTotal))
}

func TestComputeCostBasisManyPartialSplitsNoDrift(t *testing.T) {
	// One lot whittled down by many odd-sized sells must end exactly empty.
	txs := []models.Transaction{buy(1, at(1), "1", "30000", "30000")}
	remaining := d("1")
	slice := d("0.14285714") // 1/7 at 8 fractional digits
	id := uint64(2)
	for i := 0; i < 6; i++ {
		txs = append(txs, sell(id, at(2+i), slice.String(), "30000", slice.Mul(d("30000")).String(), "0"))
		remaining = remaining.Sub(slice)
		id++
	}
	txs = append(txs, sell(id, at(20), remaining.String(), "30000", remaining.Mul(d("30000")).String(), "0"))

	res := ComputeCostBasis(txs)

	assert.True(t, res.QuantityRemaining.IsZero(), "quantity = %s", res.QuantityRemaining)
	assert.True(t, res.CostBasis.IsZero(), "costBasis = %s", res.CostBasis)
	assert.False(t, res.Oversold)
}
