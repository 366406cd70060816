// Package file provides an ExchangeDataProvider backed by JSON snapshots
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bobmcallan/reckon/internal/common"
	"github.com/bobmcallan/reckon/internal/models"
)

// Provider reads already-fetched exchange snapshots from a directory:
// trades.json, transfers.json, balances.json and prices.json, each a JSON
// array. It is not an exchange client; fetching, pagination and rate
// limiting happened upstream of these files. Trades are assigned ingestion
// sequence numbers in file order at load time, which fixes the tie-break
// for equal timestamps.
type Provider struct {
	trades    map[models.AssetSymbol][]models.Trade
	transfers map[models.AssetSymbol][]models.Transfer
	balances  map[models.AssetSymbol]models.Balance
	prices    map[models.AssetSymbol]models.PricePoint
	logger    *common.Logger
}

// Load reads all snapshot files from dir. trades.json and balances.json
// are required; transfers.json and prices.json may be absent.
func Load(dir string, logger *common.Logger) (*Provider, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	p := &Provider{
		trades:    make(map[models.AssetSymbol][]models.Trade),
		transfers: make(map[models.AssetSymbol][]models.Transfer),
		balances:  make(map[models.AssetSymbol]models.Balance),
		prices:    make(map[models.AssetSymbol]models.PricePoint),
		logger:    logger,
	}

	var trades []models.Trade
	if err := readJSON(filepath.Join(dir, "trades.json"), &trades, true); err != nil {
		return nil, err
	}
	for i := range trades {
		trades[i].Seq = int64(i + 1)
		p.trades[trades[i].Asset] = append(p.trades[trades[i].Asset], trades[i])
	}

	var transfers []models.Transfer
	if err := readJSON(filepath.Join(dir, "transfers.json"), &transfers, false); err != nil {
		return nil, err
	}
	for _, tr := range transfers {
		p.transfers[tr.Asset] = append(p.transfers[tr.Asset], tr)
	}

	var balances []models.Balance
	if err := readJSON(filepath.Join(dir, "balances.json"), &balances, true); err != nil {
		return nil, err
	}
	for _, b := range balances {
		p.balances[b.Asset] = b
	}

	var prices []models.PricePoint
	if err := readJSON(filepath.Join(dir, "prices.json"), &prices, false); err != nil {
		return nil, err
	}
	for _, pp := range prices {
		p.prices[pp.Asset] = pp
	}

	logger.Info().
		Str("dir", dir).
		Int("trades", len(trades)).
		Int("transfers", len(transfers)).
		Int("balances", len(balances)).
		Int("prices", len(prices)).
		Msg("Loaded input snapshots")

	return p, nil
}

func readJSON(path string, out any, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Assets lists every asset present in the balance snapshot, sorted for
// deterministic report runs.
func (p *Provider) Assets(ctx context.Context) ([]models.AssetSymbol, error) {
	assets := make([]models.AssetSymbol, 0, len(p.balances))
	for a := range p.balances {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i] < assets[j] })
	return assets, nil
}

// FetchTrades returns the loaded trades for an asset
func (p *Provider) FetchTrades(ctx context.Context, asset models.AssetSymbol) ([]models.Trade, error) {
	return p.trades[asset], nil
}

// FetchTransfers returns the loaded transfers for an asset
func (p *Provider) FetchTransfers(ctx context.Context, asset models.AssetSymbol) ([]models.Transfer, error) {
	return p.transfers[asset], nil
}

// FetchBalance returns the loaded balance for an asset
func (p *Provider) FetchBalance(ctx context.Context, asset models.AssetSymbol) (*models.Balance, error) {
	b, ok := p.balances[asset]
	if !ok {
		return nil, fmt.Errorf("no balance snapshot for %s", asset)
	}
	return &b, nil
}

// FetchPrice returns the loaded price for an asset, or nil when the
// snapshot has none, in which case the asset is reported unvalued.
func (p *Provider) FetchPrice(ctx context.Context, asset models.AssetSymbol) (*models.PricePoint, error) {
	pp, ok := p.prices[asset]
	if !ok {
		return nil, nil
	}
	return &pp, nil
}
