// Package interfaces defines service contracts for Reckon
package interfaces

import (
	"context"

	"github.com/bobmcallan/reckon/internal/models"
)

// ExchangeDataProvider supplies fully materialized, already-fetched input
// sequences for one computation pass. Pagination, rate limiting, retries and
// authentication are internal to the provider; the core never performs I/O
// of its own. Trade sequences must carry monotonically increasing ingestion
// sequence numbers so equal timestamps order deterministically.
type ExchangeDataProvider interface {
	// Assets lists every asset the provider has data for
	Assets(ctx context.Context) ([]models.AssetSymbol, error)

	// FetchTrades retrieves all trades for an asset, chronologically sortable
	FetchTrades(ctx context.Context, asset models.AssetSymbol) ([]models.Trade, error)

	// FetchTransfers retrieves all external transfers for an asset
	FetchTransfers(ctx context.Context, asset models.AssetSymbol) ([]models.Transfer, error)

	// FetchBalance retrieves the current reported balance for an asset
	FetchBalance(ctx context.Context, asset models.AssetSymbol) (*models.Balance, error)

	// FetchPrice retrieves the current market price for an asset. A nil
	// PricePoint with a nil error means no price is available; the asset is
	// reported unvalued.
	FetchPrice(ctx context.Context, asset models.AssetSymbol) (*models.PricePoint, error)
}
