// Package fifo matches trades against purchase lots in first-in-first-out order
package fifo

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/common"
	"github.com/bobmcallan/reckon/internal/models"
)

// Matcher consumes trades chronologically, mutating an asset ledger and
// emitting per-sell realized P&L. It is the only component that mutates
// lots. Identical input always yields identical ledger state and P&L.
type Matcher struct {
	quoteCurrency string
	logger        *common.Logger
}

// NewMatcher creates a matcher for trades quoted in the given currency
func NewMatcher(quoteCurrency string, logger *common.Logger) *Matcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Matcher{
		quoteCurrency: strings.ToUpper(quoteCurrency),
		logger:        logger,
	}
}

// Result carries the outcome of one ProcessTrades pass
type Result struct {
	Sells          []models.RealizedPnL
	Flags          []models.Flag
	TotalShortfall decimal.Decimal
}

// ProcessTrades replays trades against the ledger. Trades are sorted by
// timestamp with ingestion sequence as the tie-break; an ordering that
// cannot be made total fails the whole asset with a
// NonChronologicalDataError. Buys append lots; sells consume the oldest
// lots first. A sell that exceeds all tracked lots consumes what is there,
// flags the shortfall and treats the uncovered slice as zero cost basis.
func (m *Matcher) ProcessTrades(ledger *models.AssetLedger, trades []models.Trade) (*Result, error) {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	models.SortTradesChronological(sorted)

	if err := models.ValidateChronology(ledger.Asset, sorted); err != nil {
		return nil, err
	}

	result := &Result{TotalShortfall: decimal.Zero}

	for _, trade := range sorted {
		if !trade.Quantity.IsPositive() {
			m.logger.Warn().
				Str("asset", ledger.Asset.String()).
				Str("trade", trade.ID).
				Msg("Skipping trade with non-positive quantity")
			continue
		}

		switch trade.Side {
		case models.SideBuy:
			m.processBuy(ledger, trade, result)
		case models.SideSell:
			m.processSell(ledger, trade, result)
		default:
			m.logger.Warn().
				Str("asset", ledger.Asset.String()).
				Str("trade", trade.ID).
				Str("side", string(trade.Side)).
				Msg("Skipping trade with unknown side")
		}
	}

	return result, nil
}

// processBuy appends a new lot at the tail. A fee paid in the quote
// currency is folded into the unit cost: (price×quantity + fee) / quantity.
// A fee in any other currency is accumulated on the ledger and excluded
// from cost basis.
func (m *Matcher) processBuy(ledger *models.AssetLedger, trade models.Trade, result *Result) {
	unitCost := trade.Price
	feeAllocated := decimal.Zero

	if trade.Fee.IsPositive() {
		if m.isQuoteFee(trade.FeeCurrency) {
			unitCost = trade.Price.Mul(trade.Quantity).Add(trade.Fee).Div(trade.Quantity)
			feeAllocated = trade.Fee
		} else {
			ledger.ForeignFees = ledger.ForeignFees.Add(trade.Fee)
			result.Flags = models.AppendFlag(result.Flags, models.FlagForeignFee)
			m.logger.Debug().
				Str("asset", ledger.Asset.String()).
				Str("trade", trade.ID).
				Str("fee_currency", trade.FeeCurrency).
				Msg("Fee in foreign currency excluded from cost basis")
		}
	}

	ledger.Lots = append(ledger.Lots, models.PurchaseLot{
		Quantity:      trade.Quantity,
		UnitCost:      unitCost,
		FeeAllocated:  feeAllocated,
		Timestamp:     trade.Timestamp,
		OriginTradeID: trade.ID,
	})
}

// processSell consumes lots oldest-first. Fully covered lots are removed;
// a partially covered lot stays at the front with its unit cost unchanged.
func (m *Matcher) processSell(ledger *models.AssetLedger, trade models.Trade, result *Result) {
	remaining := trade.Quantity
	costBasis := decimal.Zero

	for remaining.IsPositive() && len(ledger.Lots) > 0 {
		lot := &ledger.Lots[0]

		if lot.Quantity.LessThanOrEqual(remaining) {
			// Full consumption of the oldest lot
			costBasis = costBasis.Add(lot.Quantity.Mul(lot.UnitCost))
			remaining = remaining.Sub(lot.Quantity)
			ledger.Lots = ledger.Lots[1:]
		} else {
			// Partial consumption: decrement in place, unit cost unchanged
			costBasis = costBasis.Add(remaining.Mul(lot.UnitCost))
			consumedFee := lot.FeeAllocated.Mul(remaining).Div(lot.Quantity)
			lot.Quantity = lot.Quantity.Sub(remaining)
			lot.FeeAllocated = lot.FeeAllocated.Sub(consumedFee)
			remaining = decimal.Zero
		}
	}

	shortfall := remaining
	if shortfall.IsPositive() {
		// Uncovered slice carries zero cost basis; reconciliation picks up
		// the balance gap.
		result.Flags = models.AppendFlag(result.Flags, models.FlagInsufficientLot)
		result.TotalShortfall = result.TotalShortfall.Add(shortfall)
		m.logger.Warn().
			Str("asset", ledger.Asset.String()).
			Str("trade", trade.ID).
			Str("shortfall", shortfall.String()).
			Msg("Sell exceeds tracked lots")
	}

	proceeds := trade.Quantity.Mul(trade.Price)
	feeAllocated := decimal.Zero
	if trade.Fee.IsPositive() {
		if m.isQuoteFee(trade.FeeCurrency) {
			feeAllocated = trade.Fee
		} else {
			ledger.ForeignFees = ledger.ForeignFees.Add(trade.Fee)
			result.Flags = models.AppendFlag(result.Flags, models.FlagForeignFee)
		}
	}

	pnl := proceeds.Sub(costBasis).Sub(feeAllocated)
	ledger.CumulativeRealizedPnL = ledger.CumulativeRealizedPnL.Add(pnl)

	result.Sells = append(result.Sells, models.RealizedPnL{
		TradeID:           trade.ID,
		Timestamp:         trade.Timestamp,
		Asset:             ledger.Asset,
		Quantity:          trade.Quantity,
		Proceeds:          proceeds,
		CostBasis:         costBasis,
		FeeAllocated:      feeAllocated,
		PnL:               pnl,
		ShortfallQuantity: shortfall,
	})
}

// isQuoteFee reports whether a fee currency matches the quote currency.
// An empty fee currency is taken as the quote currency.
func (m *Matcher) isQuoteFee(feeCurrency string) bool {
	return feeCurrency == "" || strings.ToUpper(feeCurrency) == m.quoteCurrency
}

// ExpectedBalance is the balance FIFO accounting predicts from trades
// alone: remaining lot quantity minus any oversold shortfall. It can be
// negative when sells exceeded tracked buys.
func ExpectedBalance(ledger *models.AssetLedger, result *Result) decimal.Decimal {
	return ledger.TotalQuantity().Sub(result.TotalShortfall)
}

// CheckConservation verifies that remaining lot quantity plus quantity
// consumed by sells equals total bought quantity.
func CheckConservation(ledger *models.AssetLedger, trades []models.Trade, result *Result) bool {
	bought := decimal.Zero
	for _, t := range trades {
		if t.Side == models.SideBuy && t.Quantity.IsPositive() {
			bought = bought.Add(t.Quantity)
		}
	}

	consumed := decimal.Zero
	for _, s := range result.Sells {
		consumed = consumed.Add(s.Quantity.Sub(s.ShortfallQuantity))
	}

	return ledger.TotalQuantity().Add(consumed).Equal(bought)
}
