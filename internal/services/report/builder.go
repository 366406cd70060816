package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/models"
)

// Build aggregates per-asset entries into a portfolio report. Totals sum
// over whatever each entry could produce (an unvalued asset contributes
// its realized P&L but no market value), and one asset's failure never
// suppresses the rest.
func Build(entries []*models.AssetReport) *models.PortfolioReport {
	report := &models.PortfolioReport{
		RunID:              uuid.NewString(),
		GeneratedAt:        time.Now().UTC(),
		Assets:             make(map[models.AssetSymbol]*models.AssetReport, len(entries)),
		TotalMarketValue:   decimal.Zero,
		TotalRealizedPnL:   decimal.Zero,
		TotalUnrealizedPnL: decimal.Zero,
	}

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		report.Assets[entry.Asset] = entry

		switch entry.Status {
		case models.AssetStatusFailed:
			report.Failed = append(report.Failed, entry.Asset)
			continue
		case models.AssetStatusDegraded:
			report.Degraded = append(report.Degraded, entry.Asset)
		}

		report.TotalRealizedPnL = report.TotalRealizedPnL.Add(entry.RealizedPnL)
		if entry.MarketValue != nil {
			report.TotalMarketValue = report.TotalMarketValue.Add(*entry.MarketValue)
		}
		if entry.UnrealizedPnL != nil {
			report.TotalUnrealizedPnL = report.TotalUnrealizedPnL.Add(*entry.UnrealizedPnL)
		}
	}

	return report
}
