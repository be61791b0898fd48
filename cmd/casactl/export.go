package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"casaspese/internal/core"
	"casaspese/internal/export"
)

var (
	flagExportYear  int
	flagExportMonth int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a month to the configured Google spreadsheet",
	RunE:  runExport,
}

func init() {
	now := time.Now()
	exportCmd.Flags().IntVar(&flagExportYear, "year", now.Year(), "Year to export")
	exportCmd.Flags().IntVar(&flagExportMonth, "month", int(now.Month()), "Month to export (1-12)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.GoogleSpreadsheetID == "" {
		return fmt.Errorf("no spreadsheet configured, set GOOGLE_SPREADSHEET_ID")
	}
	if flagExportMonth < 1 || flagExportMonth > 12 {
		return fmt.Errorf("invalid month %d", flagExportMonth)
	}
	logger := newLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	p := core.Period{Year: flagExportYear, Month: flagExportMonth}

	cats, err := result.Backend.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	expenses, err := result.Backend.ListExpenses(ctx, p.Year)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	feed := core.AggregateMandatoryExpenses(cats, expenses, p)

	exporter, err := export.NewExporter(ctx, export.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountKey,
		ServiceAccountFile: cfg.GoogleServiceAccount,
	}, logger)
	if err != nil {
		return err
	}

	if err := exporter.ExportMonth(ctx, p, expenses, feed); err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Printf("  exported %s: %d expense(s), %d pending\n", p.Key(), len(expenses), len(feed))
	}
	return nil
}
