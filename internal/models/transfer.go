package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferDirection indicates which way an external transfer moved
type TransferDirection string

const (
	DirectionDeposit    TransferDirection = "deposit"
	DirectionWithdrawal TransferDirection = "withdrawal"
)

// Transfer represents an external deposit or withdrawal reported by the
// exchange. CounterpartyMeta is opaque, exchange-supplied detail (address,
// network, memo) carried through untouched.
type Transfer struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	Asset            AssetSymbol       `json:"asset"`
	Direction        TransferDirection `json:"direction"`
	Quantity         decimal.Decimal   `json:"quantity"`
	CounterpartyMeta map[string]string `json:"counterparty_meta,omitempty"`
}

// Balance is the exchange-reported holdings of one asset at a point in time
type Balance struct {
	Asset    AssetSymbol     `json:"asset"`
	Quantity decimal.Decimal `json:"quantity"`
	AsOf     time.Time       `json:"as_of"`
}

// PricePoint is a market price for one asset in a quote currency
type PricePoint struct {
	Asset         AssetSymbol     `json:"asset"`
	QuoteCurrency string          `json:"quote_currency"`
	Price         decimal.Decimal `json:"price"`
	AsOf          time.Time       `json:"as_of"`
}
