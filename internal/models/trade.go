package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide indicates whether a trade added to or removed from holdings
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// Trade represents a single executed order. Trades are immutable once
// ingested; Seq is the ingestion sequence number assigned by the provider
// and is used only as the deterministic tie-break for equal timestamps.
type Trade struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Asset       AssetSymbol     `json:"asset"`
	Side        TradeSide       `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fee         decimal.Decimal `json:"fee"`
	FeeCurrency string          `json:"fee_currency"`
	Seq         int64           `json:"seq"`
}

// SortTradesChronological orders trades by timestamp, breaking ties by
// ingestion sequence. The sort is stable so identical inputs always yield
// identical order.
func SortTradesChronological(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].Timestamp.Equal(trades[j].Timestamp) {
			return trades[i].Seq < trades[j].Seq
		}
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})
}

// ValidateChronology verifies that a sorted trade sequence is totally
// ordered: every trade carries a timestamp, and no two trades share both
// timestamp and sequence number. Returns a NonChronologicalDataError
// describing the first violation.
func ValidateChronology(asset AssetSymbol, trades []Trade) error {
	for i, t := range trades {
		if t.Timestamp.IsZero() {
			return &NonChronologicalDataError{Asset: asset, TradeID: t.ID, Reason: "trade has no timestamp"}
		}
		if i == 0 {
			continue
		}
		prev := trades[i-1]
		if t.Timestamp.Before(prev.Timestamp) {
			return &NonChronologicalDataError{Asset: asset, TradeID: t.ID, Reason: "trades are not sorted chronologically"}
		}
		if t.Timestamp.Equal(prev.Timestamp) && t.Seq == prev.Seq {
			return &NonChronologicalDataError{Asset: asset, TradeID: t.ID, Reason: "duplicate timestamp and sequence, ordering is ambiguous"}
		}
	}
	return nil
}
