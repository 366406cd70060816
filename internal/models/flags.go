package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Flag marks a non-fatal anomaly on an asset's report entry. Flags degrade
// the entry; they never abort the portfolio report.
type Flag string

const (
	// FlagUnvalued means no market price was available for the asset.
	FlagUnvalued Flag = "unvalued"
	// FlagInsufficientLot means a sell consumed more quantity than tracked lots held.
	FlagInsufficientLot Flag = "insufficient_lot"
	// FlagForeignFee means a trade fee was paid in a currency other than the
	// quote currency and was excluded from cost basis.
	FlagForeignFee Flag = "foreign_fee_excluded"
	// FlagTransferExcess means net external transfers exceeded the reconciliation
	// delta; the excess is surfaced rather than dropped.
	FlagTransferExcess Flag = "transfer_excess_explanation"
)

// AppendFlag adds a flag to a list once, preserving order
func AppendFlag(flags []Flag, f Flag) []Flag {
	for _, existing := range flags {
		if existing == f {
			return flags
		}
	}
	return append(flags, f)
}

// MissingPriceError indicates no market price could be obtained for an
// asset. The asset's valuation is omitted and its entry flagged unvalued.
type MissingPriceError struct {
	Asset AssetSymbol
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no market price available for %s", e.Asset)
}

// InsufficientLotError indicates a sell exceeded all tracked lots. The
// shortfall is treated as zero cost basis and reconciliation picks up the
// resulting balance gap.
type InsufficientLotError struct {
	Asset     AssetSymbol
	TradeID   string
	Shortfall decimal.Decimal
}

func (e *InsufficientLotError) Error() string {
	return fmt.Sprintf("sell %s on %s exceeds tracked lots by %s", e.TradeID, e.Asset, e.Shortfall)
}

// NonChronologicalDataError indicates an asset's trades or transfers cannot
// be totally ordered. Fatal for that asset only; its computation is skipped
// and the failure recorded on the report.
type NonChronologicalDataError struct {
	Asset   AssetSymbol
	TradeID string
	Reason  string
}

func (e *NonChronologicalDataError) Error() string {
	if e.TradeID != "" {
		return fmt.Sprintf("non-chronological data for %s at trade %s: %s", e.Asset, e.TradeID, e.Reason)
	}
	return fmt.Sprintf("non-chronological data for %s: %s", e.Asset, e.Reason)
}
