package backend

import (
	"context"
	"fmt"

	"casaspese/internal/config"
	"casaspese/internal/log"
	"casaspese/internal/storage"
	"casaspese/internal/store/memory"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, cfg)
	case MemoryBackend:
		return f.createMemoryBackend(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}

	// Seed configured default limits only where the store has none.
	if cfg.MonthlyBudgetLimit > 0 || cfg.AnnualBudgetLimit > 0 {
		monthly, annual, err := repo.BudgetLimits(ctx)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("read budget limits: %w", err)
		}
		if monthly == nil && cfg.MonthlyBudgetLimit > 0 {
			monthly = &cfg.MonthlyBudgetLimit
		}
		if annual == nil && cfg.AnnualBudgetLimit > 0 {
			annual = &cfg.AnnualBudgetLimit
		}
		if err := repo.SetBudgetLimits(ctx, monthly, annual); err != nil {
			repo.Close()
			return nil, fmt.Errorf("seed budget limits: %w", err)
		}
	}

	f.logger.Info("Initialized SQLite backend", log.FieldBackend, SQLiteBackend.String(), "db_path", cfg.SQLiteDBPath)

	return &Result{Backend: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createMemoryBackend(cfg Config) (*Result, error) {
	store := memory.New()

	var monthly, annual *float64
	if cfg.MonthlyBudgetLimit > 0 {
		monthly = &cfg.MonthlyBudgetLimit
	}
	if cfg.AnnualBudgetLimit > 0 {
		annual = &cfg.AnnualBudgetLimit
	}
	store.SetBudgetLimits(monthly, annual)

	f.logger.Info("Initialized memory backend", log.FieldBackend, MemoryBackend.String())

	return &Result{Backend: store, Cleanup: nil}, nil
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:               backendType,
		SQLiteDBPath:       appConfig.SQLiteDBPath,
		MonthlyBudgetLimit: appConfig.MonthlyBudgetLimit,
		AnnualBudgetLimit:  appConfig.AnnualBudgetLimit,
	}, nil
}
