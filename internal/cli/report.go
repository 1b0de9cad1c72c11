package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pnltracker/internal/engine"
	"pnltracker/internal/repository"
	"pnltracker/types"

	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	trades     string
	prices     string
	method     string
	allowShort bool
	output     string
	dbURL      string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "realized and unrealized PnL from a trade history" }
func (*reportCmd) Usage() string {
	return `pnltracker report -trades <trades.csv> [-prices <prices.csv>] [-method fifo|lifo] [-allow-short] [-output <report.csv>] [-db <url>]

  Applies the trade history in date order and prints per-ticker realized PnL,
  open positions and portfolio totals. With -db, trades and prices are loaded
  from Postgres instead of CSV files.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trades, "trades", "trades.csv", "Path to the trades CSV file")
	f.StringVar(&c.prices, "prices", "", "Optional prices CSV file with latest prices")
	f.StringVar(&c.method, "method", "fifo", "Lot matching method (fifo, lifo)")
	f.BoolVar(&c.allowShort, "allow-short", false, "Allow short selling when sells exceed long quantity")
	f.StringVar(&c.output, "output", "", "Optional path to write the report as CSV")
	f.StringVar(&c.dbURL, "db", "", "Postgres URL to load trades and prices from instead of CSV files")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	method, err := types.ParseMatchMethod(c.method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing method: %v\n", err)
		return subcommands.ExitUsageError
	}

	inventoryConfig := engine.NewInventoryConfig(method, c.allowShort)
	reportingConfig := engine.NewReportingConfig(true, c.output)

	var eng *engine.Engine
	if c.dbURL != "" {
		db, err := repository.NewDatabase(c.dbURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
			return subcommands.ExitFailure
		}
		defer db.Close()
		eng = engine.NewEngine(&db, inventoryConfig, reportingConfig)
	} else {
		if c.trades == "" {
			fmt.Fprintln(os.Stderr, "-trades is required without -db")
			return subcommands.ExitUsageError
		}
		eng = engine.NewEngine(repository.NewCSVStore(c.trades, c.prices), inventoryConfig, reportingConfig)
	}

	if _, err := eng.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
