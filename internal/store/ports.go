package store

import (
	"context"

	"casaspese/internal/core"
)

// Ports for outbound adapters. The dashboard core consumes these; the memory
// and sqlite backends implement them.
type (
	CategoryReader interface {
		// ListCategories returns all categories with nested subcategories,
		// ordered by expense type then display order.
		ListCategories(ctx context.Context) ([]core.Category, error)
	}

	CategoryWriter interface {
		SaveCategory(ctx context.Context, c core.Category) (id string, err error)
	}

	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (id string, err error)
	}

	// ExpenseLister returns all expenses recorded within a calendar year.
	// Annual matching windows need the whole year even when the dashboard is
	// showing a single month, so the year is the listing granularity.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, year int) ([]core.Expense, error)
	}

	ExpenseDeleter interface {
		DeleteExpense(ctx context.Context, id string) error
	}

	// ProfileReader supplies the user-level budget limits. A nil limit means
	// not configured.
	ProfileReader interface {
		BudgetLimits(ctx context.Context) (monthly, annual *float64, err error)
	}

	// CursorStore persists small string cursors across sessions, such as the
	// rollover detector's last-checked period key. Reads of an absent key
	// return an empty string, not an error.
	CursorStore interface {
		ReadCursor(ctx context.Context, key string) (string, error)
		WriteCursor(ctx context.Context, key, value string) error
	}
)
