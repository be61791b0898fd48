package services

import (
	"context"
	"fmt"

	"casaspese/internal/core"
	"casaspese/internal/log"
	"casaspese/internal/store"
)

// Summary is the dashboard payload for one period: the pending-payments feed
// plus the budget-limit gauges. Computed from scratch on every request.
type Summary struct {
	Period          core.Period             `json:"period"`
	Pending         []core.PaymentStatus    `json:"pendingPayments"`
	TotalRemaining  float64                 `json:"totalRemaining"`
	MonthlySpending float64                 `json:"monthlySpending"`
	AnnualSpending  float64                 `json:"annualSpending"`
	MonthlyBudget   *core.BudgetLimitStatus `json:"monthlyBudget,omitempty"`
	AnnualBudget    *core.BudgetLimitStatus `json:"annualBudget,omitempty"`
}

// DashboardService assembles the summary from the stored categories,
// expenses, and profile limits.
type DashboardService struct {
	cats     store.CategoryReader
	expenses store.ExpenseLister
	profile  store.ProfileReader
	logger   *log.Logger
}

func NewDashboardService(cats store.CategoryReader, expenses store.ExpenseLister, profile store.ProfileReader, logger *log.Logger) *DashboardService {
	return &DashboardService{
		cats:     cats,
		expenses: expenses,
		profile:  profile,
		logger:   logger.WithComponent(log.ComponentDashboard),
	}
}

// Summary builds the dashboard for the given period. The expense listing is
// year-wide so annual categories can match their full-year window even when
// the period is a single month.
func (s *DashboardService) Summary(ctx context.Context, p core.Period) (*Summary, error) {
	cats, err := s.cats.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	expenses, err := s.expenses.ListExpenses(ctx, p.Year)
	if err != nil {
		return nil, fmt.Errorf("loading expenses for %d: %w", p.Year, err)
	}

	feed := core.AggregateMandatoryExpenses(cats, expenses, p)
	sum := &Summary{
		Period:          p,
		Pending:         feed,
		TotalRemaining:  core.TotalRemaining(feed),
		MonthlySpending: core.TotalSpending(expenses, p),
		AnnualSpending:  core.TotalSpending(expenses, p.YearOf()),
	}

	// Missing limits leave the gauges nil rather than failing the summary.
	monthly, annual, err := s.profile.BudgetLimits(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "budget limits unavailable",
			log.FieldPeriod, p.Key(), log.FieldError, err.Error())
	} else {
		sum.MonthlyBudget = core.EvaluateBudgetLimit(monthly, sum.MonthlySpending)
		sum.AnnualBudget = core.EvaluateBudgetLimit(annual, sum.AnnualSpending)
	}

	s.logger.DebugContext(ctx, "summary built",
		log.FieldPeriod, p.Key(), "pending", len(feed))
	return sum, nil
}
