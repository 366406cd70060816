// Package transfer aggregates external deposits and withdrawals per asset
package transfer

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/models"
)

// Aggregate sums deposits and withdrawals into a net external transfer for
// one asset over the analysis window. The raw deposit list is kept on the
// summary, chronologically sorted, for the reward classifier; Aggregate
// itself never classifies anything.
func Aggregate(asset models.AssetSymbol, transfers []models.Transfer) *models.TransferSummary {
	summary := &models.TransferSummary{
		Asset:               asset,
		NetExternalTransfer: decimal.Zero,
	}

	for _, tr := range transfers {
		if tr.Asset != asset {
			continue
		}
		switch tr.Direction {
		case models.DirectionDeposit:
			summary.Deposits = append(summary.Deposits, tr)
			summary.DepositCount++
			summary.NetExternalTransfer = summary.NetExternalTransfer.Add(tr.Quantity)
		case models.DirectionWithdrawal:
			summary.Withdrawals = append(summary.Withdrawals, tr)
			summary.WithdrawalCount++
			summary.NetExternalTransfer = summary.NetExternalTransfer.Sub(tr.Quantity)
		}
	}

	sortChronological(summary.Deposits)
	sortChronological(summary.Withdrawals)

	return summary
}

func sortChronological(transfers []models.Transfer) {
	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].Timestamp.Before(transfers[j].Timestamp)
	})
}
