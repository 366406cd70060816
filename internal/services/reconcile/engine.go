// Package reconcile explains the gap between reported and FIFO-expected balances
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Reconcile compares the exchange-reported balance with the balance FIFO
// accounting predicts and apportions the difference, first to net external
// transfers, then to classified rewards. Whatever is left is the
// unexplained remainder, reported verbatim. A nonzero remainder is a
// first-class result, never rounded or hidden.
//
// Net transfers are capped so they cannot explain more than the delta's
// magnitude; any excess is flagged rather than dropped. Rewards are applied
// only against what remains after transfers, so a reward deposit is never
// counted twice, and only when the remainder is a surplus; a reward cannot
// explain missing funds.
func Reconcile(asset models.AssetSymbol, actualBalance, fifoExpectedBalance decimal.Decimal, transfers *models.TransferSummary, rewards *models.RewardSummary) *models.ReconciliationResult {
	result := &models.ReconciliationResult{
		Asset:               asset,
		ActualBalance:       actualBalance,
		FifoExpectedBalance: fifoExpectedBalance,
		Delta:               actualBalance.Sub(fifoExpectedBalance),
	}

	net := decimal.Zero
	if transfers != nil {
		net = transfers.NetExternalTransfer
	}

	// Cap transfers at |delta| in either direction; surface the excess.
	deltaAbs := result.Delta.Abs()
	result.ExplainedByTransfers = net
	if net.Abs().GreaterThan(deltaAbs) {
		if net.IsNegative() {
			result.ExplainedByTransfers = deltaAbs.Neg()
		} else {
			result.ExplainedByTransfers = deltaAbs
		}
		result.Flags = models.AppendFlag(result.Flags, models.FlagTransferExcess)
	}

	remainderAfterTransfers := result.Delta.Sub(result.ExplainedByTransfers)

	result.ExplainedByRewards = decimal.Zero
	if rewards != nil && remainderAfterTransfers.IsPositive() {
		result.ExplainedByRewards = rewards.RewardTotal
		if result.ExplainedByRewards.GreaterThan(remainderAfterTransfers) {
			result.ExplainedByRewards = remainderAfterTransfers
		}
	}

	result.UnexplainedRemainder = remainderAfterTransfers.Sub(result.ExplainedByRewards)
	result.ExplanationPercent = explanationPercent(result.Delta, result.UnexplainedRemainder)

	return result
}

// explanationPercent is the share of the delta accounted for by transfers
// and rewards, clamped to [0,100]. A zero delta needs no explanation and
// scores 100. The divide-by-zero is guarded here, nowhere else.
func explanationPercent(delta, unexplained decimal.Decimal) decimal.Decimal {
	if delta.IsZero() {
		return hundred
	}

	deltaAbs := delta.Abs()
	pct := deltaAbs.Sub(unexplained.Abs()).Div(deltaAbs).Mul(hundred)

	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
