package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"pnltracker/internal/repository"

	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	trades string
	dbURL  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a trades CSV file into Postgres" }
func (*importCmd) Usage() string {
	return `pnltracker import -trades <trades.csv> -db <url>

  Reads a trades CSV file and stores the rows in the trades table, assigning
  an id to each trade.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trades, "trades", "trades.csv", "Path to the trades CSV file")
	f.StringVar(&c.dbURL, "db", "", "Postgres URL to import into")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dbURL == "" {
		fmt.Fprintln(os.Stderr, "-db is required")
		return subcommands.ExitUsageError
	}

	trades, err := repository.ReadTradesCSV(c.trades)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	db, err := repository.NewDatabase(c.dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := db.InsertTrades(ctx, trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Printf("imported %d trades", len(trades))
	return subcommands.ExitSuccess
}
