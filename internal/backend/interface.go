package backend

import (
	"context"

	"casaspese/internal/store"
)

// Backend bundles every store port the application needs from one data
// source.
type Backend interface {
	store.CategoryReader
	store.CategoryWriter
	store.ExpenseWriter
	store.ExpenseLister
	store.ExpenseDeleter
	store.ProfileReader
	store.CursorStore
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the backend instance and optional cleanup function.
type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Default profile limits seeded into a fresh backend. Zero means unset.
	MonthlyBudgetLimit float64
	AnnualBudgetLimit  float64
}

// BackendType represents the type of backend.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid.
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
