package engine

import (
	"fmt"
	"sort"

	"pnltracker/types"

	"github.com/shopspring/decimal"
)

const (
	avgCostPrecision = 7
	displayPrecision = 2
)

type Report struct {
	Method types.MatchMethod

	// Realized PnL per ticker, including tickers that have fully closed out.
	RealizedPnL map[string]decimal.Decimal

	// Open positions, sorted by ticker ascending.
	Positions []PositionSummary

	// Totals
	TotalRealized   decimal.Decimal
	TotalUnrealized decimal.Decimal
	TotalEquity     decimal.Decimal
}

type PositionSummary struct {
	Ticker        string
	Quantity      decimal.Decimal
	AvgCost       decimal.Decimal
	MarketPrice   decimal.Decimal
	MarketValue   decimal.Decimal
	CostBasis     decimal.Decimal
	UnrealizedPnL decimal.Decimal
}

// BuildReport derives per-ticker summaries and totals from the inventory and
// a current price map. Tickers missing from the price map are marked at zero
// and still listed; tickers whose lots net to zero quantity are omitted.
// The report is a pure function of its inputs.
func BuildReport(inv *Inventory, prices map[string]decimal.Decimal) *Report {
	report := &Report{
		Method:      inv.Method(),
		RealizedPnL: inv.Realized(),
	}

	for ticker, lots := range inv.Positions() {
		marketPrice := prices[ticker]

		aggQty := decimal.Zero
		costBasis := decimal.Zero
		unrealized := decimal.Zero
		marketValue := decimal.Zero

		for _, lot := range lots {
			costPerShare := lot.CostPerShare()
			switch {
			case lot.Quantity.IsPositive():
				// Long: gain when market is above cost.
				unrealized = unrealized.Add(marketPrice.Sub(costPerShare).Mul(lot.Quantity))
			case lot.Quantity.IsNegative():
				// Short: gain when market is below the opening price.
				unrealized = unrealized.Add(costPerShare.Sub(marketPrice).Mul(lot.Quantity.Neg()))
			}
			aggQty = aggQty.Add(lot.Quantity)
			costBasis = costBasis.Add(lot.Cost)
			marketValue = marketValue.Add(lot.Quantity.Mul(marketPrice))
		}

		if aggQty.IsZero() {
			continue
		}

		report.Positions = append(report.Positions, PositionSummary{
			Ticker:        ticker,
			Quantity:      aggQty,
			AvgCost:       costBasis.Div(aggQty.Abs()).Round(avgCostPrecision),
			MarketPrice:   marketPrice,
			MarketValue:   marketValue,
			CostBasis:     costBasis,
			UnrealizedPnL: unrealized,
		})
		report.TotalUnrealized = report.TotalUnrealized.Add(unrealized)
		report.TotalEquity = report.TotalEquity.Add(marketValue)
	}

	sort.Slice(report.Positions, func(i, j int) bool {
		return report.Positions[i].Ticker < report.Positions[j].Ticker
	})

	for _, pnl := range report.RealizedPnL {
		report.TotalRealized = report.TotalRealized.Add(pnl)
	}
	return report
}

func (e *Engine) printReport(report *Report) {

	fmt.Printf("===== Portfolio Report (%s) =====\n", report.Method)

	fmt.Println("\n-- Realized PnL by ticker --")
	if len(report.RealizedPnL) == 0 {
		fmt.Println("  (none)")
	} else {
		tickers := make([]string, 0, len(report.RealizedPnL))
		for ticker := range report.RealizedPnL {
			tickers = append(tickers, ticker)
		}
		sort.Strings(tickers)
		for _, ticker := range tickers {
			fmt.Printf("  %-8s %12s\n", ticker, fmtMoney(report.RealizedPnL[ticker]))
		}
	}

	fmt.Println("\n-- Open Positions --")
	if len(report.Positions) == 0 {
		fmt.Println("  (none)")
	} else {
		fmt.Printf("%-8s%12s%14s%12s%14s%14s%14s\n",
			"Ticker", "Qty", "AvgCost", "Price", "MktValue", "CostBasis", "UnrlPnL")
		for _, pos := range report.Positions {
			fmt.Printf("%-8s%12s%14s%12s%14s%14s%14s\n",
				pos.Ticker,
				pos.Quantity.String(),
				fmtMoney(pos.AvgCost),
				fmtMoney(pos.MarketPrice),
				fmtMoney(pos.MarketValue),
				fmtMoney(pos.CostBasis),
				fmtMoney(pos.UnrealizedPnL),
			)
		}
	}

	fmt.Println("\n-- Totals --")
	fmt.Printf("Realized:              %s\n", fmtMoney(report.TotalRealized))
	fmt.Printf("Unrealized:            %s\n", fmtMoney(report.TotalUnrealized))
	fmt.Printf("Equity:                %s\n", fmtMoney(report.TotalEquity))

	fmt.Println("==========================")
}

// fmtMoney renders a monetary value at display precision, rounding half away
// from zero.
func fmtMoney(d decimal.Decimal) string {
	return d.StringFixed(displayPrecision)
}
