package engine

import (
	"reflect"
	"strings"
	"testing"

	"pnltracker/types"

	"github.com/shopspring/decimal"
)

func TestBuildReport(t *testing.T) {
	tests := []struct {
		name          string
		method        types.MatchMethod
		allowShort    bool
		trades        []types.Trade
		prices        map[string]decimal.Decimal
		wantPositions []PositionSummary
		wantRealized  string
		wantUnreal    string
		wantEquity    string
	}{
		{
			name:   "long position above cost",
			method: types.MatchMethodFIFO,
			trades: []types.Trade{
				newTestTrade(1, "AAPL", types.SideTypeBuy, "10", "100", "0"),
			},
			prices: map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(105)},
			wantPositions: []PositionSummary{
				{
					Ticker:        "AAPL",
					Quantity:      decimal.NewFromInt(10),
					AvgCost:       decimal.NewFromInt(100),
					MarketPrice:   decimal.NewFromInt(105),
					MarketValue:   decimal.NewFromInt(1050),
					CostBasis:     decimal.NewFromInt(1000),
					UnrealizedPnL: decimal.NewFromInt(50),
				},
			},
			wantRealized: "0",
			wantUnreal:   "50",
			wantEquity:   "1050",
		},
		{
			name:       "short position above opening price loses",
			method:     types.MatchMethodFIFO,
			allowShort: true,
			trades: []types.Trade{
				newTestTrade(1, "TSLA", types.SideTypeSell, "10", "100", "0"),
			},
			prices: map[string]decimal.Decimal{"TSLA": decimal.NewFromInt(105)},
			wantPositions: []PositionSummary{
				{
					Ticker:        "TSLA",
					Quantity:      decimal.NewFromInt(-10),
					AvgCost:       decimal.NewFromInt(100),
					MarketPrice:   decimal.NewFromInt(105),
					MarketValue:   decimal.NewFromInt(-1050),
					CostBasis:     decimal.NewFromInt(1000),
					UnrealizedPnL: decimal.NewFromInt(-50),
				},
			},
			wantRealized: "0",
			wantUnreal:   "-50",
			wantEquity:   "-1050",
		},
		{
			name:   "buy fee raises the average cost per share",
			method: types.MatchMethodFIFO,
			trades: []types.Trade{
				newTestTrade(1, "MSFT", types.SideTypeBuy, "10", "100", "1.0"),
			},
			prices: map[string]decimal.Decimal{"MSFT": decimal.NewFromInt(100)},
			wantPositions: []PositionSummary{
				{
					Ticker:        "MSFT",
					Quantity:      decimal.NewFromInt(10),
					AvgCost:       decimal.RequireFromString("100.1"),
					MarketPrice:   decimal.NewFromInt(100),
					MarketValue:   decimal.NewFromInt(1000),
					CostBasis:     decimal.RequireFromString("1001"),
					UnrealizedPnL: decimal.NewFromInt(-1),
				},
			},
			wantRealized: "0",
			wantUnreal:   "-1",
			wantEquity:   "1000",
		},
		{
			name:   "missing price marks the position at zero",
			method: types.MatchMethodFIFO,
			trades: []types.Trade{
				newTestTrade(1, "AAPL", types.SideTypeBuy, "4", "100", "0"),
			},
			prices: map[string]decimal.Decimal{},
			wantPositions: []PositionSummary{
				{
					Ticker:        "AAPL",
					Quantity:      decimal.NewFromInt(4),
					AvgCost:       decimal.NewFromInt(100),
					MarketPrice:   decimal.Zero,
					MarketValue:   decimal.Zero,
					CostBasis:     decimal.NewFromInt(400),
					UnrealizedPnL: decimal.NewFromInt(-400),
				},
			},
			wantRealized: "0",
			wantUnreal:   "-400",
			wantEquity:   "0",
		},
		{
			name:   "fully closed ticker is omitted but keeps realized PnL",
			method: types.MatchMethodFIFO,
			trades: []types.Trade{
				newTestTrade(1, "AAPL", types.SideTypeBuy, "10", "100", "0"),
				newTestTrade(2, "AAPL", types.SideTypeSell, "10", "110", "0"),
			},
			prices:        map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(120)},
			wantPositions: nil,
			wantRealized:  "100",
			wantUnreal:    "0",
			wantEquity:    "0",
		},
		{
			name:   "positions sorted by ticker",
			method: types.MatchMethodFIFO,
			trades: []types.Trade{
				newTestTrade(1, "MSFT", types.SideTypeBuy, "1", "200", "0"),
				newTestTrade(2, "AAPL", types.SideTypeBuy, "1", "100", "0"),
			},
			prices: map[string]decimal.Decimal{
				"AAPL": decimal.NewFromInt(100),
				"MSFT": decimal.NewFromInt(200),
			},
			wantPositions: []PositionSummary{
				{
					Ticker:        "AAPL",
					Quantity:      decimal.NewFromInt(1),
					AvgCost:       decimal.NewFromInt(100),
					MarketPrice:   decimal.NewFromInt(100),
					MarketValue:   decimal.NewFromInt(100),
					CostBasis:     decimal.NewFromInt(100),
					UnrealizedPnL: decimal.Zero,
				},
				{
					Ticker:        "MSFT",
					Quantity:      decimal.NewFromInt(1),
					AvgCost:       decimal.NewFromInt(200),
					MarketPrice:   decimal.NewFromInt(200),
					MarketValue:   decimal.NewFromInt(200),
					CostBasis:     decimal.NewFromInt(200),
					UnrealizedPnL: decimal.Zero,
				},
			},
			wantRealized: "0",
			wantUnreal:   "0",
			wantEquity:   "300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInventory(tt.method, tt.allowShort)
			for _, tr := range tt.trades {
				if err := inv.ApplyTrade(tr); err != nil {
					t.Fatalf("ApplyTrade() error = %v", err)
				}
			}

			report := BuildReport(inv, tt.prices)

			if report.Method != tt.method {
				t.Errorf("Method = %s, want %s", report.Method, tt.method)
			}
			if len(report.Positions) != len(tt.wantPositions) {
				t.Fatalf("got %d positions, want %d", len(report.Positions), len(tt.wantPositions))
			}
			for i, want := range tt.wantPositions {
				got := report.Positions[i]
				if got.Ticker != want.Ticker {
					t.Errorf("positions[%d].Ticker = %s, want %s", i, got.Ticker, want.Ticker)
				}
				checkDecimal(t, "Quantity", got.Quantity, want.Quantity)
				checkDecimal(t, "AvgCost", got.AvgCost, want.AvgCost)
				checkDecimal(t, "MarketPrice", got.MarketPrice, want.MarketPrice)
				checkDecimal(t, "MarketValue", got.MarketValue, want.MarketValue)
				checkDecimal(t, "CostBasis", got.CostBasis, want.CostBasis)
				checkDecimal(t, "UnrealizedPnL", got.UnrealizedPnL, want.UnrealizedPnL)
			}
			checkDecimal(t, "TotalRealized", report.TotalRealized, decimal.RequireFromString(tt.wantRealized))
			checkDecimal(t, "TotalUnrealized", report.TotalUnrealized, decimal.RequireFromString(tt.wantUnreal))
			checkDecimal(t, "TotalEquity", report.TotalEquity, decimal.RequireFromString(tt.wantEquity))
		})
	}
}

func checkDecimal(t *testing.T, field string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

// The builder is a pure function of its inputs: building twice against an
// unchanged inventory must yield identical reports.
func TestBuildReportIdempotent(t *testing.T) {
	inv := NewInventory(types.MatchMethodLIFO, true)
	trades := []types.Trade{
		newTestTrade(1, "AAPL", types.SideTypeBuy, "10", "100", "0.5"),
		newTestTrade(2, "AAPL", types.SideTypeSell, "4", "110", "0.5"),
		newTestTrade(3, "TSLA", types.SideTypeSell, "5", "50", "0"),
	}
	for _, tr := range trades {
		if err := inv.ApplyTrade(tr); err != nil {
			t.Fatalf("ApplyTrade() error = %v", err)
		}
	}
	prices := map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(120),
		"TSLA": decimal.NewFromInt(45),
	}

	first := BuildReport(inv, prices)
	second := BuildReport(inv, prices)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ between builds:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestWriteReportCSV(t *testing.T) {
	inv := NewInventory(types.MatchMethodFIFO, false)
	trades := []types.Trade{
		newTestTrade(1, "AAPL", types.SideTypeBuy, "10", "100", "0"),
		newTestTrade(2, "MSFT", types.SideTypeBuy, "5", "200", "0"),
		newTestTrade(3, "MSFT", types.SideTypeSell, "5", "210", "0"),
	}
	for _, tr := range trades {
		if err := inv.ApplyTrade(tr); err != nil {
			t.Fatalf("ApplyTrade() error = %v", err)
		}
	}
	report := BuildReport(inv, map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(110)})

	var sb strings.Builder
	if err := writeReportCSV(&sb, report); err != nil {
		t.Fatalf("writeReportCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	// header + 1 position + 2 realized rows + totals
	if len(lines) != 5 {
		t.Fatalf("got %d csv lines, want 5:\n%s", len(lines), sb.String())
	}
	if !strings.HasPrefix(lines[0], "record,ticker,qty") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "position,AAPL,10") {
		t.Errorf("unexpected position row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[4], "total,") {
		t.Errorf("unexpected totals row: %s", lines[4])
	}
}
