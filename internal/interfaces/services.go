package interfaces

import (
	"context"

	"github.com/bobmcallan/reckon/internal/models"
	"github.com/shopspring/decimal"
)

// ReportOptions adjusts a single report run
type ReportOptions struct {
	// Assets restricts the run to the listed assets; empty means every asset
	// the provider knows about.
	Assets []models.AssetSymbol

	// PriceOverrides substitutes market prices per asset for what-if
	// repricing. Overrides never mutate ledgers.
	PriceOverrides map[models.AssetSymbol]decimal.Decimal
}

// ReportService generates point-in-time portfolio reports
type ReportService interface {
	// GenerateReport runs the full per-asset pipeline (FIFO matching,
	// valuation, transfer aggregation, reward classification,
	// reconciliation) and aggregates the results. The report always
	// completes; per-asset failures are recorded, not propagated.
	GenerateReport(ctx context.Context, provider ExchangeDataProvider, opts ReportOptions) (*models.PortfolioReport, error)
}
