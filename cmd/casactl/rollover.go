package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"casaspese/internal/services"
)

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Run a one-shot month rollover check",
	RunE:  runRollover,
}

func init() {
	rootCmd.AddCommand(rolloverCmd)
}

func runRollover(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	detector := services.NewRolloverDetector(result.Backend, result.Backend, result.Backend, logger)
	state := detector.Check(ctx, time.Now())

	if state != services.RolloverDetected {
		if !flagQuiet {
			fmt.Println("  no month transition, cursor is current")
		}
		return nil
	}

	alerts := detector.Alerts()
	fmt.Printf("  month rollover detected, %d unpaid alert(s)\n", len(alerts))
	for _, a := range alerts {
		fmt.Printf("    %-28s %s / %s  %.2f\n", a.ID, a.CategoryName, a.SubCategoryName, a.Amount)
	}
	return nil
}
