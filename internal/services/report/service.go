// Package report runs per-asset pipelines and aggregates the portfolio report
package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/reckon/internal/common"
	"github.com/bobmcallan/reckon/internal/interfaces"
	"github.com/bobmcallan/reckon/internal/models"
	"github.com/bobmcallan/reckon/internal/services/fifo"
	"github.com/bobmcallan/reckon/internal/services/reconcile"
	"github.com/bobmcallan/reckon/internal/services/reward"
	"github.com/bobmcallan/reckon/internal/services/transfer"
	"github.com/bobmcallan/reckon/internal/services/valuation"
)

// Service implements ReportService
type Service struct {
	matcher    *fifo.Matcher
	classifier *reward.Classifier
	logger     *common.Logger
}

// NewService creates a new report service
func NewService(cfg *common.Config, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		matcher:    fifo.NewMatcher(cfg.QuoteCurrency, logger),
		classifier: reward.NewClassifier(cfg.Reward),
		logger:     logger,
	}
}

// GenerateReport runs the full pipeline for every requested asset and
// aggregates the results. Asset pipelines are independent, with no mutable
// state crossing asset boundaries, so they run in parallel; within one
// asset, trade processing stays strictly sequential. The report always
// completes: a failing asset produces a failed entry, not an aborted run.
func (s *Service) GenerateReport(ctx context.Context, provider interfaces.ExchangeDataProvider, opts interfaces.ReportOptions) (*models.PortfolioReport, error) {
	assets := opts.Assets
	if len(assets) == 0 {
		var err error
		assets, err = provider.Assets(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list assets: %w", err)
		}
	}

	s.logger.Info().Int("assets", len(assets)).Msg("Generating portfolio report")

	entries := make([]*models.AssetReport, len(assets))
	var wg sync.WaitGroup
	for i, asset := range assets {
		wg.Add(1)
		go func(i int, asset models.AssetSymbol) {
			defer wg.Done()
			entries[i] = s.processAsset(ctx, provider, asset, opts)
		}(i, asset)
	}
	wg.Wait()

	return Build(entries), nil
}

// processAsset runs one asset through FIFO matching, valuation, transfer
// aggregation, reward classification and reconciliation. Anomalies degrade
// the entry; only unorderable data or a failed fetch fails it.
func (s *Service) processAsset(ctx context.Context, provider interfaces.ExchangeDataProvider, asset models.AssetSymbol, opts interfaces.ReportOptions) *models.AssetReport {
	entry := &models.AssetReport{Asset: asset, Status: models.AssetStatusOK}

	trades, err := provider.FetchTrades(ctx, asset)
	if err != nil {
		return failed(entry, fmt.Errorf("fetch trades: %w", err))
	}
	transfersList, err := provider.FetchTransfers(ctx, asset)
	if err != nil {
		return failed(entry, fmt.Errorf("fetch transfers: %w", err))
	}
	balance, err := provider.FetchBalance(ctx, asset)
	if err != nil {
		return failed(entry, fmt.Errorf("fetch balance: %w", err))
	}

	ledger := models.NewAssetLedger(asset)
	matchResult, err := s.matcher.ProcessTrades(ledger, trades)
	if err != nil {
		// NonChronologicalDataError: fatal for this asset only
		return failed(entry, err)
	}

	entry.Flags = append(entry.Flags, matchResult.Flags...)
	entry.Sells = matchResult.Sells
	entry.Quantity = ledger.TotalQuantity()
	entry.CostBasisTotal = ledger.CostBasisTotal()
	entry.RealizedPnL = ledger.CumulativeRealizedPnL

	s.value(ctx, provider, ledger, entry, opts)

	transferSummary := transfer.Aggregate(asset, transfersList)
	rewardSummary := s.classifier.Classify(asset, transferSummary.Deposits, trades, balance.Quantity)

	entry.Reconciliation = reconcile.Reconcile(
		asset,
		balance.Quantity,
		fifo.ExpectedBalance(ledger, matchResult),
		transferSummary,
		rewardSummary,
	)
	for _, f := range entry.Reconciliation.Flags {
		entry.Flags = models.AppendFlag(entry.Flags, f)
	}

	if len(entry.Flags) > 0 || len(entry.Errors) > 0 {
		entry.Status = models.AssetStatusDegraded
	}

	s.logger.Debug().
		Str("asset", asset.String()).
		Str("status", string(entry.Status)).
		Str("realized", entry.RealizedPnL.String()).
		Str("unexplained", entry.Reconciliation.UnexplainedRemainder.String()).
		Msg("Asset pipeline complete")

	return entry
}

// value prices the ledger, honoring per-asset overrides. A missing price
// marks the entry unvalued; market value and unrealized P&L stay omitted
// rather than defaulting to zero.
func (s *Service) value(ctx context.Context, provider interfaces.ExchangeDataProvider, ledger *models.AssetLedger, entry *models.AssetReport, opts interfaces.ReportOptions) {
	var price *decimal.Decimal
	if override, ok := opts.PriceOverrides[entry.Asset]; ok {
		price = &override
	} else {
		point, err := provider.FetchPrice(ctx, entry.Asset)
		if err != nil {
			entry.Errors = append(entry.Errors, fmt.Sprintf("fetch price: %v", err))
		} else if point != nil {
			price = &point.Price
		}
	}

	v, err := valuation.ValueLedger(ledger, price)
	if err != nil {
		entry.Unvalued = true
		entry.Flags = models.AppendFlag(entry.Flags, models.FlagUnvalued)
		entry.Errors = append(entry.Errors, err.Error())
		return
	}

	entry.MarketValue = &v.MarketValue
	entry.UnrealizedPnL = &v.UnrealizedPnL

	if entry.CostBasisTotal.IsPositive() {
		pct := entry.RealizedPnL.Add(v.UnrealizedPnL).Div(entry.CostBasisTotal).Mul(decimal.NewFromInt(100))
		entry.PnLPercent = &pct
	}
}

func failed(entry *models.AssetReport, err error) *models.AssetReport {
	entry.Status = models.AssetStatusFailed
	entry.Errors = append(entry.Errors, err.Error())
	return entry
}
