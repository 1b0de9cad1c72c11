package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"pnltracker/types"

	"github.com/shopspring/decimal"
)

// CSVStore serves trades and prices from CSV files. The prices path may be
// empty, in which case every position is marked at zero.
type CSVStore struct {
	tradesPath string
	pricesPath string
}

func NewCSVStore(tradesPath, pricesPath string) CSVStore {
	return CSVStore{
		tradesPath: tradesPath,
		pricesPath: pricesPath,
	}
}

func (s CSVStore) GetTrades(_ context.Context) ([]types.Trade, error) {
	return ReadTradesCSV(s.tradesPath)
}

func (s CSVStore) GetPrices(_ context.Context) (map[string]decimal.Decimal, error) {
	if s.pricesPath == "" {
		return map[string]decimal.Decimal{}, nil
	}
	return ReadPricesCSV(s.pricesPath)
}

// ReadTradesCSV reads a trades file with columns date,ticker,side,qty,price
// and an optional fee column. Headers are matched case-insensitively. The
// returned trades are sorted by date ascending, preserving file order for
// same-day trades.
func ReadTradesCSV(path string) ([]types.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trades file: %w", err)
	}
	defer f.Close()

	return readTrades(f)
}

func readTrades(r io.Reader) ([]types.Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := headerIndex(header)
	for _, required := range []string{"date", "ticker", "side", "qty", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("trades file is missing column %q", required)
		}
	}

	var trades []types.Trade
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line++
		tr, err := tradeFromRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("trades line %d: %w", line, err)
		}
		trades = append(trades, tr)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Date.Before(trades[j].Date)
	})
	return trades, nil
}

func tradeFromRecord(record []string, columns map[string]int) (types.Trade, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	// Accept ISO-like dates: YYYY-MM-DD or YYYY/MM/DD.
	date, err := time.Parse("2006-01-02", strings.ReplaceAll(field("date"), "/", "-"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse date: %w", err)
	}
	qty, err := decimal.NewFromString(field("qty"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse qty: %w", err)
	}
	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return types.Trade{}, fmt.Errorf("parse price: %w", err)
	}
	fee := decimal.Zero
	if s := field("fee"); s != "" {
		fee, err = decimal.NewFromString(s)
		if err != nil {
			return types.Trade{}, fmt.Errorf("parse fee: %w", err)
		}
	}

	return types.NewTrade(
		date,
		strings.ToUpper(field("ticker")),
		types.Side(strings.ToUpper(field("side"))),
		qty,
		price,
		fee,
	), nil
}

// ReadPricesCSV reads a prices file with columns ticker,price into a map of
// the latest mark price per ticker.
func ReadPricesCSV(path string) (map[string]decimal.Decimal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prices file: %w", err)
	}
	defer f.Close()

	return readPrices(f)
}

func readPrices(r io.Reader) (map[string]decimal.Decimal, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	prices := make(map[string]decimal.Decimal)

	header, err := cr.Read()
	if err == io.EOF {
		return prices, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := headerIndex(header)
	for _, required := range []string{"ticker", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("prices file is missing column %q", required)
		}
	}

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line++
		ticker := strings.ToUpper(strings.TrimSpace(record[columns["ticker"]]))
		price, err := decimal.NewFromString(strings.TrimSpace(record[columns["price"]]))
		if err != nil {
			return nil, fmt.Errorf("prices line %d: parse price: %w", line, err)
		}
		prices[ticker] = price
	}
	return prices, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}
