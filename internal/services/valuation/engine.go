// Package valuation prices open purchase lots against a market price
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/models"
)

// ValueLedger computes market value, cost basis and unrealized P&L for the
// open lots of a ledger at the given price. It works from a snapshot and
// never mutates the ledger, so callers can reprice the same ledger against
// any number of what-if overrides. A nil price means the asset cannot be
// valued; a MissingPriceError is returned and the caller flags the entry
// unvalued instead of defaulting to zero.
func ValueLedger(ledger *models.AssetLedger, marketPrice *decimal.Decimal) (*models.Valuation, error) {
	if marketPrice == nil {
		return nil, &models.MissingPriceError{Asset: ledger.Asset}
	}

	price := *marketPrice
	marketValue := decimal.Zero
	costBasis := decimal.Zero
	unrealized := decimal.Zero

	for _, lot := range ledger.Snapshot() {
		marketValue = marketValue.Add(lot.Quantity.Mul(price))
		costBasis = costBasis.Add(lot.Quantity.Mul(lot.UnitCost))
		unrealized = unrealized.Add(price.Sub(lot.UnitCost).Mul(lot.Quantity))
	}

	return &models.Valuation{
		Asset:          ledger.Asset,
		MarketPrice:    price,
		MarketValue:    marketValue,
		CostBasisTotal: costBasis,
		UnrealizedPnL:  unrealized,
	}, nil
}
