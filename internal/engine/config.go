package engine

import (
	"pnltracker/types"
)

type InventoryConfig struct {
	method            types.MatchMethod
	allowShortSelling bool
}

func NewInventoryConfig(method types.MatchMethod, allowShortSelling bool) *InventoryConfig {
	return &InventoryConfig{
		method:            method,
		allowShortSelling: allowShortSelling,
	}
}

type ReportingConfig struct {
	printReport bool
	filePath    string
}

func NewReportingConfig(printReport bool, filePath string) *ReportingConfig {
	return &ReportingConfig{
		printReport: printReport,
		filePath:    filePath,
	}
}
