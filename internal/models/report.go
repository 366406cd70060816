package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RealizedPnL records the outcome of one sell after FIFO matching.
// ShortfallQuantity is nonzero when the sell consumed more than the tracked
// lots held; the shortfall slice carries a zero cost basis and is picked up
// by reconciliation.
type RealizedPnL struct {
	TradeID           string          `json:"trade_id"`
	Timestamp         time.Time       `json:"timestamp"`
	Asset             AssetSymbol     `json:"asset"`
	Quantity          decimal.Decimal `json:"quantity"`
	Proceeds          decimal.Decimal `json:"proceeds"`
	CostBasis         decimal.Decimal `json:"cost_basis"`
	FeeAllocated      decimal.Decimal `json:"fee_allocated"`
	PnL               decimal.Decimal `json:"pnl"`
	ShortfallQuantity decimal.Decimal `json:"shortfall_quantity"`
}

// TransferSummary aggregates external transfers for one asset over the
// analysis window.
type TransferSummary struct {
	Asset               AssetSymbol     `json:"asset"`
	NetExternalTransfer decimal.Decimal `json:"net_external_transfer"`
	DepositCount        int             `json:"deposit_count"`
	WithdrawalCount     int             `json:"withdrawal_count"`
	Deposits            []Transfer      `json:"deposits,omitempty"`
	Withdrawals         []Transfer      `json:"withdrawals,omitempty"`
}

// RewardSummary holds deposits conservatively classified as staking or
// airdrop rewards.
type RewardSummary struct {
	Asset          AssetSymbol     `json:"asset"`
	RewardDeposits []Transfer      `json:"reward_deposits,omitempty"`
	RewardTotal    decimal.Decimal `json:"reward_total"`
}

// Valuation prices the open lots of a ledger against a market price
type Valuation struct {
	Asset          AssetSymbol     `json:"asset"`
	MarketPrice    decimal.Decimal `json:"market_price"`
	MarketValue    decimal.Decimal `json:"market_value"`
	CostBasisTotal decimal.Decimal `json:"cost_basis_total"`
	UnrealizedPnL  decimal.Decimal `json:"unrealized_pnl"`
}

// ReconciliationResult compares the exchange-reported balance against the
// FIFO-expected balance and apportions the gap. UnexplainedRemainder is a
// first-class output: it is reported verbatim, never rounded away.
type ReconciliationResult struct {
	Asset                AssetSymbol     `json:"asset"`
	ActualBalance        decimal.Decimal `json:"actual_balance"`
	FifoExpectedBalance  decimal.Decimal `json:"fifo_expected_balance"`
	Delta                decimal.Decimal `json:"delta"`
	ExplainedByTransfers decimal.Decimal `json:"explained_by_transfers"`
	ExplainedByRewards   decimal.Decimal `json:"explained_by_rewards"`
	UnexplainedRemainder decimal.Decimal `json:"unexplained_remainder"`
	ExplanationPercent   decimal.Decimal `json:"explanation_percent"`
	Flags                []Flag          `json:"flags,omitempty"`
}

// AssetStatus classifies how an asset's pipeline completed
type AssetStatus string

const (
	AssetStatusOK       AssetStatus = "ok"
	AssetStatusDegraded AssetStatus = "degraded"
	AssetStatusFailed   AssetStatus = "failed"
)

// AssetReport is the per-asset slice of the portfolio report. Unvalued is
// set when no market price was available; MarketValue and UnrealizedPnL are
// omitted rather than defaulted in that case.
type AssetReport struct {
	Asset          AssetSymbol           `json:"asset"`
	Status         AssetStatus           `json:"status"`
	Quantity       decimal.Decimal       `json:"quantity"`
	CostBasisTotal decimal.Decimal       `json:"cost_basis_total"`
	MarketValue    *decimal.Decimal      `json:"market_value,omitempty"`
	RealizedPnL    decimal.Decimal       `json:"realized_pnl"`
	UnrealizedPnL  *decimal.Decimal      `json:"unrealized_pnl,omitempty"`
	PnLPercent     *decimal.Decimal      `json:"pnl_percent,omitempty"`
	Unvalued       bool                  `json:"unvalued,omitempty"`
	Sells          []RealizedPnL         `json:"sells,omitempty"`
	Reconciliation *ReconciliationResult `json:"reconciliation,omitempty"`
	Flags          []Flag                `json:"flags,omitempty"`
	Errors         []string              `json:"errors,omitempty"`
}

// PortfolioReport aggregates every asset's report. Totals cover valued
// assets only; Failed and Degraded list the assets whose entries carry
// errors or flags so a caller can see at a glance what needs attention.
type PortfolioReport struct {
	RunID              string                       `json:"run_id"`
	GeneratedAt        time.Time                    `json:"generated_at"`
	Assets             map[AssetSymbol]*AssetReport `json:"assets"`
	TotalMarketValue   decimal.Decimal              `json:"total_market_value"`
	TotalRealizedPnL   decimal.Decimal              `json:"total_realized_pnl"`
	TotalUnrealizedPnL decimal.Decimal              `json:"total_unrealized_pnl"`
	Degraded           []AssetSymbol                `json:"degraded,omitempty"`
	Failed             []AssetSymbol                `json:"failed,omitempty"`
}
