package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
)

// writeReportCSVFile writes the report to a CSV file at the given path.
func (e *Engine) writeReportCSVFile(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	return writeReportCSV(f, report)
}

// writeReportCSV writes the report to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func writeReportCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"record", // "position", "realized" or "total"
		"ticker",
		"qty",
		"avg_cost",
		"price",
		"market_value",
		"cost_basis",
		"unrealized_pnl",
		"realized_pnl",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, pos := range report.Positions {
		record := []string{
			"position",
			pos.Ticker,
			pos.Quantity.String(),
			pos.AvgCost.String(),
			pos.MarketPrice.String(),
			pos.MarketValue.String(),
			pos.CostBasis.String(),
			pos.UnrealizedPnL.String(),
			"",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write position record: %w", err)
		}
	}

	// Realized rows cover closed-out tickers that no longer appear as
	// positions, so they get their own record type.
	tickers := make([]string, 0, len(report.RealizedPnL))
	for ticker := range report.RealizedPnL {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	for _, ticker := range tickers {
		record := []string{
			"realized", ticker, "", "", "", "", "", "",
			report.RealizedPnL[ticker].String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write realized record: %w", err)
		}
	}

	totals := []string{
		"total", "", "", "", "",
		report.TotalEquity.String(),
		"",
		report.TotalUnrealized.String(),
		report.TotalRealized.String(),
	}
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("write totals record: %w", err)
	}

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
