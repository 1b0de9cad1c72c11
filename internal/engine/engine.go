package engine

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
)

type Engine struct {
	source          tradeSource
	inventoryConfig *InventoryConfig
	reportingConfig *ReportingConfig
	inventory       *Inventory
}

func NewEngine(source tradeSource, inventoryConfig *InventoryConfig, reportingConfig *ReportingConfig) *Engine {
	return &Engine{
		source:          source,
		inventoryConfig: inventoryConfig,
		reportingConfig: reportingConfig,
	}
}

// Run loads trades and prices from the source, applies the trades in order
// and produces the final report. The source must deliver trades sorted by
// date ascending.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	trades, err := e.source.GetTrades(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := e.source.GetPrices(ctx)
	if err != nil {
		return nil, err
	}

	e.inventory = NewInventory(e.inventoryConfig.method, e.inventoryConfig.allowShortSelling)
	bar := initProgressBar(len(trades))
	for _, tr := range trades {
		if err := e.inventory.ApplyTrade(tr); err != nil {
			return nil, fmt.Errorf("apply trade %s %s %s: %w",
				tr.Date.Format("2006-01-02"), tr.Side, tr.Ticker, err)
		}
		bar.Add(1)
	}
	fmt.Println()

	report := BuildReport(e.inventory, prices)
	if e.reportingConfig.printReport {
		e.printReport(report)
	}
	if e.reportingConfig.filePath != "" {
		if err := e.writeReportCSVFile(e.reportingConfig.filePath, report); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Applying trades..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
