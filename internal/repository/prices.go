package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

const getPricesSQL = `
SELECT DISTINCT ON (ticker) ticker, price
FROM prices
ORDER BY ticker, price_date DESC
`

// GetPrices returns the latest stored price per ticker. An empty table is
// not an error: unpriced positions are reported at zero.
func (db *Database) GetPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := db.conn.Query(ctx, getPricesSQL)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]decimal.Decimal)
	for rows.Next() {
		var ticker string
		var price decimal.Decimal
		if err := rows.Scan(&ticker, &price); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices[ticker] = price
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}
