package memory

import (
	"context"
	"testing"

	"casaspese/internal/core"
)

func TestStore_CategoryRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.SaveCategory(ctx, core.Category{
		Name:        "Home",
		ExpenseType: core.Monthly,
		SubCategories: []core.SubCategory{
			{ID: "rent", Name: "Rent", FixedAmount: 800},
		},
	})
	if err != nil {
		t.Fatalf("SaveCategory() error = %v", err)
	}
	if id == "" {
		t.Fatal("SaveCategory() returned empty id")
	}

	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Home" {
		t.Fatalf("ListCategories() = %+v, want single Home category", cats)
	}

	cats[0].Name = "Mutated"
	again, _ := s.ListCategories(ctx)
	if again[0].Name != "Home" {
		t.Error("ListCategories() returned a shared slice")
	}
}

func TestStore_SaveCategoryUpdatesExisting(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, _ := s.SaveCategory(ctx, core.Category{Name: "Bills", ExpenseType: core.Monthly})
	if _, err := s.SaveCategory(ctx, core.Category{ID: id, Name: "Utilities", ExpenseType: core.Monthly}); err != nil {
		t.Fatalf("SaveCategory(update) error = %v", err)
	}

	cats, _ := s.ListCategories(ctx)
	if len(cats) != 1 || cats[0].Name != "Utilities" {
		t.Fatalf("update did not replace in place: %+v", cats)
	}
}

func TestStore_ListCategoriesOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.SaveCategory(ctx, core.Category{Name: "Taxes", ExpenseType: core.Annual, DisplayOrder: 1})
	s.SaveCategory(ctx, core.Category{Name: "Leisure", ExpenseType: core.Monthly, DisplayOrder: 2})
	s.SaveCategory(ctx, core.Category{Name: "Home", ExpenseType: core.Monthly, DisplayOrder: 1})

	cats, _ := s.ListCategories(ctx)
	var names []string
	for _, c := range cats {
		names = append(names, c.Name)
	}
	want := []string{"Home", "Leisure", "Taxes"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestStore_ExpensesByYear(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, e := range []core.Expense{
		{Amount: 50, Date: "2026-01-10", CategoryID: "home"},
		{Amount: 60, Date: "2026-07-02", CategoryID: "home"},
		{Amount: 70, Date: "2025-12-31", CategoryID: "home"},
	} {
		if _, err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := s.ListExpenses(ctx, 2026)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListExpenses(2026) returned %d expenses, want 2", len(got))
	}
}

func TestStore_AppendRejectsInvalid(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.Expense{Amount: -1, Date: "2026-01-01", CategoryID: "c"}); err == nil {
		t.Error("Append() accepted a negative amount")
	}
}

func TestStore_DeleteExpense(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.Append(ctx, core.Expense{Amount: 5, Date: "2026-03-03", CategoryID: "c"})

	if err := s.DeleteExpense(ctx, id); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if err := s.DeleteExpense(ctx, id); err == nil {
		t.Error("DeleteExpense() succeeded twice for the same id")
	}
}

func TestStore_Cursor(t *testing.T) {
	s := New()
	ctx := context.Background()

	v, err := s.ReadCursor(ctx, "lastCheckedMonth")
	if err != nil || v != "" {
		t.Fatalf("ReadCursor(absent) = %q, %v; want empty, nil", v, err)
	}
	if err := s.WriteCursor(ctx, "lastCheckedMonth", "2026-8"); err != nil {
		t.Fatalf("WriteCursor() error = %v", err)
	}
	v, _ = s.ReadCursor(ctx, "lastCheckedMonth")
	if v != "2026-8" {
		t.Errorf("ReadCursor() = %q, want 2026-8", v)
	}
}

func TestStore_BudgetLimits(t *testing.T) {
	s := New()
	ctx := context.Background()

	m, a, err := s.BudgetLimits(ctx)
	if err != nil || m != nil || a != nil {
		t.Fatalf("BudgetLimits(unset) = %v, %v, %v; want nil, nil, nil", m, a, err)
	}

	monthly := 1500.0
	s.SetBudgetLimits(&monthly, nil)
	m, a, _ = s.BudgetLimits(ctx)
	if m == nil || *m != 1500 || a != nil {
		t.Errorf("BudgetLimits() = %v, %v; want 1500, nil", m, a)
	}
}
