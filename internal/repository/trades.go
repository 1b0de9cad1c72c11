package repository

import (
	"context"
	"fmt"
	"time"

	"pnltracker/types"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const getTradesSQL = `
SELECT id, trade_date, ticker, side, qty, price, fee
FROM trades
ORDER BY trade_date, created_at
`

const insertTradeSQL = `
INSERT INTO trades (id, trade_date, ticker, side, qty, price, fee)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// GetTrades retrieves the full trade history ordered by trade date, with
// insertion order breaking ties.
func (db *Database) GetTrades(ctx context.Context) ([]types.Trade, error) {
	rows, err := db.conn.Query(ctx, getTradesSQL)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []types.Trade
	for rows.Next() {
		var (
			id, ticker, side string
			tradeDate        time.Time
			qty, price, fee  decimal.Decimal
		)
		if err := rows.Scan(&id, &tradeDate, &ticker, &side, &qty, &price, &fee); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		tr := types.NewTrade(tradeDate, ticker, types.Side(side), qty, price, fee)
		tr.Id = id
		trades = append(trades, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}
	return trades, nil
}

// InsertTrades stores trades in a single batch. Trades without an id are
// assigned a fresh uuid.
func (db *Database) InsertTrades(ctx context.Context, trades []types.Trade) error {
	batch := &pgx.Batch{}
	for _, tr := range trades {
		batch.Queue(insertTradeSQL, tradeInsertArgs(tr)...)
	}

	br := db.conn.SendBatch(ctx, batch)
	defer br.Close()
	for range trades {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
	}
	return nil
}

func tradeInsertArgs(tr types.Trade) []any {
	id := tr.Id
	if id == "" {
		id = uuid.NewString()
	}
	return []any{id, tr.Date, tr.Ticker, string(tr.Side), tr.Quantity, tr.Price, tr.Fee}
}
