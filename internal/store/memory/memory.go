package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"casaspese/internal/core"
)

// Store is an in-memory backend used as the default data backend and as the
// test double for the sqlite repository. All methods are safe for concurrent
// use.
type Store struct {
	mu       sync.Mutex
	cats     []core.Category
	expenses []core.Expense
	cursors  map[string]string
	monthly  *float64
	annual   *float64
	nextID   int
}

func New() *Store {
	return &Store{cursors: make(map[string]string)}
}

// NewSeeded builds a store pre-populated with categories and expenses.
func NewSeeded(cats []core.Category, expenses []core.Expense) *Store {
	s := New()
	s.cats = append(s.cats, cats...)
	s.expenses = append(s.expenses, expenses...)
	return s
}

// SetBudgetLimits configures the user-level limits. Nil means not configured.
func (s *Store) SetBudgetLimits(monthly, annual *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monthly = monthly
	s.annual = annual
}

func (s *Store) BudgetLimits(_ context.Context) (*float64, *float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monthly, s.annual, nil
}

func (s *Store) SaveCategory(_ context.Context, c core.Category) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		s.nextID++
		c.ID = "cat-" + strconv.Itoa(s.nextID)
	}
	for i := range s.cats {
		if s.cats[i].ID == c.ID {
			s.cats[i] = c
			return c.ID, nil
		}
	}
	s.cats = append(s.cats, c)
	return c.ID, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Category(nil), s.cats...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ExpenseType != out[j].ExpenseType {
			return out[i].ExpenseType == core.Monthly
		}
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		s.nextID++
		e.ID = "exp-" + strconv.Itoa(s.nextID)
	}
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) ListExpenses(_ context.Context, year int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		y, _, ok := core.ParseDate(e.Date)
		if ok && y == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense %s not found", id)
}

func (s *Store) ReadCursor(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[key], nil
}

func (s *Store) WriteCursor(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[key] = value
	return nil
}
