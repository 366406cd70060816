package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bobmcallan/reckon/internal/common"
	"github.com/bobmcallan/reckon/internal/interfaces"
	"github.com/bobmcallan/reckon/internal/models"
	"github.com/bobmcallan/reckon/internal/providers/file"
	"github.com/bobmcallan/reckon/internal/services/report"
)

func main() {
	// Resolve config path
	configPath := os.Getenv("RECKON_CONFIG")

	cfg, err := common.LoadConfig(configPath, "reckon.toml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	common.LoadVersionFromFile()
	logger := common.NewLogger(cfg.Logging.Level)
	common.PrintBanner(cfg, logger)

	provider, err := file.Load(cfg.Input.Dir, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.Input.Dir).Msg("Failed to load input snapshots")
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid asset selection")
	}

	svc := report.NewService(cfg, logger)
	portfolioReport, err := svc.GenerateReport(context.Background(), provider, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("Report generation failed")
	}

	if err := writeReport(cfg, portfolioReport); err != nil {
		logger.Fatal().Err(err).Msg("Failed to write report")
	}

	logger.Info().
		Str("run_id", portfolioReport.RunID).
		Int("assets", len(portfolioReport.Assets)).
		Int("degraded", len(portfolioReport.Degraded)).
		Int("failed", len(portfolioReport.Failed)).
		Str("total_realized", portfolioReport.TotalRealizedPnL.String()).
		Str("total_unrealized", portfolioReport.TotalUnrealizedPnL.String()).
		Msg("Report complete")

	if len(portfolioReport.Failed) > 0 {
		os.Exit(2)
	}
}

// buildOptions translates the configured asset filter into report options
func buildOptions(cfg *common.Config) (interfaces.ReportOptions, error) {
	opts := interfaces.ReportOptions{}
	for _, raw := range cfg.Assets {
		sym, err := models.ParseAssetSymbol(raw)
		if err != nil {
			return opts, err
		}
		opts.Assets = append(opts.Assets, sym)
	}
	return opts, nil
}

// writeReport emits the report as JSON to the configured destination;
// "-" or empty means stdout.
func writeReport(cfg *common.Config, portfolioReport *models.PortfolioReport) error {
	var data []byte
	var err error
	if cfg.Output.Pretty {
		data, err = json.MarshalIndent(portfolioReport, "", "  ")
	} else {
		data, err = json.Marshal(portfolioReport)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if cfg.Output.Path == "" || cfg.Output.Path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(cfg.Output.Path, data, 0o644)
}
