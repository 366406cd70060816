// Package reward conservatively flags deposits as staking or airdrop rewards
package reward

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/common"
	"github.com/bobmcallan/reckon/internal/models"
)

// Classifier applies a conservative rule set to decide which deposits look
// like recurring rewards. A deposit is flagged only when all three hold:
//
//  1. no buy order sits at a comparable timestamp and quantity,
//  2. the deposit is immaterial relative to total holdings of the asset,
//  3. it belongs to a recurring run of at least MinPatternLength deposits
//     with consistent spacing and similar magnitude.
//
// A single large or irregular deposit is never a reward; it surfaces in the
// reconciliation's unexplained remainder instead. The classifier holds no
// state between calls; Classify is a pure function of its inputs.
type Classifier struct {
	MinPatternLength   int
	MaterialityPct     decimal.Decimal
	IntervalTolerance  decimal.Decimal // pct deviation allowed between run intervals
	MagnitudeTolerance decimal.Decimal // pct deviation allowed between run magnitudes
	BuyMatchWindow     time.Duration   // how close a buy must be to count as explaining a deposit
	BuyMatchPct        decimal.Decimal // quantity tolerance for a matching buy
}

// NewClassifier builds a classifier from the reward configuration.
// Thresholds are converted to decimals once here; the classification itself
// never touches binary floating point.
func NewClassifier(cfg common.RewardConfig) *Classifier {
	return &Classifier{
		MinPatternLength:   cfg.MinPatternLength,
		MaterialityPct:     decimal.NewFromFloat(cfg.MaterialityPct),
		IntervalTolerance:  decimal.NewFromFloat(cfg.IntervalTolerancePct),
		MagnitudeTolerance: decimal.NewFromFloat(cfg.MagnitudeTolerancePct),
		BuyMatchWindow:     24 * time.Hour,
		BuyMatchPct:        decimal.NewFromInt(5),
	}
}

var hundred = decimal.NewFromInt(100)

// Classify returns the deposits that satisfy every conservative rule, with
// their total. Deposits must be chronologically sorted (TransferTracker
// output is). totalHoldings is the asset's current reported balance; with
// zero or negative holdings nothing is material, so nothing is classified.
func (c *Classifier) Classify(asset models.AssetSymbol, deposits []models.Transfer, trades []models.Trade, totalHoldings decimal.Decimal) *models.RewardSummary {
	summary := &models.RewardSummary{
		Asset:       asset,
		RewardTotal: decimal.Zero,
	}

	if len(deposits) < c.MinPatternLength || !totalHoldings.IsPositive() {
		return summary
	}

	materialityCeiling := totalHoldings.Mul(c.MaterialityPct).Div(hundred)

	// Rules (1) and (2) prune the candidates; rule (3) runs on what is left.
	var candidates []models.Transfer
	for _, d := range deposits {
		if d.Quantity.GreaterThan(materialityCeiling) {
			continue
		}
		if c.hasMatchingBuy(d, trades) {
			continue
		}
		candidates = append(candidates, d)
	}

	for _, run := range c.recurringRuns(candidates) {
		for _, d := range run {
			summary.RewardDeposits = append(summary.RewardDeposits, d)
			summary.RewardTotal = summary.RewardTotal.Add(d.Quantity)
		}
	}

	return summary
}

// hasMatchingBuy reports whether a buy within the match window has a
// quantity comparable to the deposit. Such a deposit is an ordinary
// transfer of purchased funds, not a reward.
func (c *Classifier) hasMatchingBuy(deposit models.Transfer, trades []models.Trade) bool {
	for _, t := range trades {
		if t.Side != models.SideBuy {
			continue
		}
		gap := t.Timestamp.Sub(deposit.Timestamp)
		if gap < 0 {
			gap = -gap
		}
		if gap > c.BuyMatchWindow {
			continue
		}
		if withinPct(t.Quantity, deposit.Quantity, c.BuyMatchPct) {
			return true
		}
	}
	return false
}

// recurringRuns scans chronologically sorted candidates for runs of at
// least MinPatternLength deposits whose spacing stays within the interval
// tolerance of the run's first interval and whose magnitude stays within
// the magnitude tolerance of the run's first deposit. The scan is greedy
// and resumes after each accepted run, so a deposit is classified at most
// once.
func (c *Classifier) recurringRuns(candidates []models.Transfer) [][]models.Transfer {
	var runs [][]models.Transfer

	i := 0
	for i < len(candidates) {
		run := c.growRun(candidates, i)
		if len(run) >= c.MinPatternLength {
			runs = append(runs, run)
			i += len(run)
		} else {
			i++
		}
	}

	return runs
}

func (c *Classifier) growRun(candidates []models.Transfer, start int) []models.Transfer {
	if start+1 >= len(candidates) {
		return candidates[start : start+1]
	}

	first := candidates[start]
	baseInterval := candidates[start+1].Timestamp.Sub(first.Timestamp)
	if baseInterval <= 0 {
		return candidates[start : start+1]
	}
	if !withinPct(candidates[start+1].Quantity, first.Quantity, c.MagnitudeTolerance) {
		return candidates[start : start+1]
	}

	end := start + 1
	for end+1 < len(candidates) {
		next := candidates[end+1]
		interval := next.Timestamp.Sub(candidates[end].Timestamp)
		if !withinDurationPct(interval, baseInterval, c.IntervalTolerance) {
			break
		}
		if !withinPct(next.Quantity, first.Quantity, c.MagnitudeTolerance) {
			break
		}
		end++
	}

	return candidates[start : end+1]
}

// withinPct reports whether a is within tolPct percent of reference b
func withinPct(a, b, tolPct decimal.Decimal) bool {
	if b.IsZero() {
		return a.IsZero()
	}
	diff := a.Sub(b).Abs()
	return diff.Mul(hundred).LessThanOrEqual(b.Abs().Mul(tolPct))
}

// withinDurationPct is withinPct over durations, in integer nanoseconds
func withinDurationPct(d, base time.Duration, tolPct decimal.Decimal) bool {
	return withinPct(decimal.NewFromInt(int64(d)), decimal.NewFromInt(int64(base)), tolPct)
}
