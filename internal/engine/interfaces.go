package engine

import (
	"context"

	"pnltracker/types"

	"github.com/shopspring/decimal"
)

type tradeSource interface {
	GetTrades(ctx context.Context) ([]types.Trade, error)
	GetPrices(ctx context.Context) (map[string]decimal.Decimal, error)
}
