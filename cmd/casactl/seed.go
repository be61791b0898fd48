package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"casaspese/internal/core"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the backend with a starter category set",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func starterCategories() []core.Category {
	return []core.Category{
		{
			Name: "Home", Icon: "home", Color: "#4f46e5",
			ExpenseType: core.Monthly, DisplayOrder: 1,
			SubCategories: []core.SubCategory{
				{Name: "Rent", FixedAmount: 800},
				{Name: "Electricity", BudgetLimit: 120, Mandatory: true},
				{Name: "Groceries", BudgetLimit: 500, Mandatory: true},
				{Name: "Internet", FixedAmount: 30},
			},
		},
		{
			Name: "Transport", Icon: "car", Color: "#059669",
			ExpenseType: core.Monthly, DisplayOrder: 2,
			SubCategories: []core.SubCategory{
				{Name: "Fuel", BudgetLimit: 150, Mandatory: true},
				{Name: "Public transport", FixedAmount: 40},
			},
		},
		{
			Name: "Leisure", Icon: "ticket", Color: "#d97706",
			ExpenseType: core.Monthly, DisplayOrder: 3,
			SubCategories: []core.SubCategory{
				{Name: "Dining out", BudgetLimit: 200},
				{Name: "Subscriptions", FixedAmount: 25},
			},
		},
		{
			Name: "Taxes", Icon: "bank", Color: "#dc2626",
			ExpenseType: core.Annual, DisplayOrder: 1,
			SubCategories: []core.SubCategory{
				{Name: "Property tax", FixedAmount: 1200},
				{Name: "Car insurance", FixedAmount: 600},
			},
		},
	}
}

func runSeed(_ *cobra.Command, _ []string) error {
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

	existing, err := result.Backend.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("backend already has %d categories, refusing to seed", len(existing))
	}

	for _, cat := range starterCategories() {
		id, err := result.Backend.SaveCategory(ctx, cat)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", cat.Name, err)
		}
		if !flagQuiet {
			fmt.Printf("  seeded %-12s %s\n", cat.Name, id)
		}
	}

	return nil
}
