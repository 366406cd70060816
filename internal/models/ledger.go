package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLot is a discrete, unconsumed (or partially consumed) quantity of
// an asset acquired at a specific unit cost. Quantity only ever decreases;
// a lot is removed from its ledger the moment it reaches zero.
type PurchaseLot struct {
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	FeeAllocated  decimal.Decimal `json:"fee_allocated"`
	Timestamp     time.Time       `json:"timestamp"`
	OriginTradeID string          `json:"origin_trade_id"`
}

// AssetLedger holds the open purchase lots for one asset, oldest first,
// together with the realized P&L accumulated by consuming them. Lots are
// mutated only by the FIFO matcher; every other component works from
// Snapshot. ForeignFees accumulates fees paid in a currency other than the
// quote currency; they are excluded from cost basis, never prorated.
type AssetLedger struct {
	Asset                 AssetSymbol     `json:"asset"`
	Lots                  []PurchaseLot   `json:"lots"`
	CumulativeRealizedPnL decimal.Decimal `json:"cumulative_realized_pnl"`
	ForeignFees           decimal.Decimal `json:"foreign_fees"`
}

// NewAssetLedger creates an empty ledger for one asset
func NewAssetLedger(asset AssetSymbol) *AssetLedger {
	return &AssetLedger{Asset: asset}
}

// Snapshot returns a copy of the open lots, oldest first. Callers may read
// and discard it freely without affecting the ledger.
func (l *AssetLedger) Snapshot() []PurchaseLot {
	lots := make([]PurchaseLot, len(l.Lots))
	copy(lots, l.Lots)
	return lots
}

// TotalQuantity sums the remaining quantity across all open lots
func (l *AssetLedger) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.Lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// CostBasisTotal sums quantity × unit cost across all open lots. Allocated
// fees are already folded into each lot's unit cost.
func (l *AssetLedger) CostBasisTotal() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.Lots {
		total = total.Add(lot.Quantity.Mul(lot.UnitCost))
	}
	return total
}
