package core

// BudgetLimitStatus compares period spending against a user-configured limit.
type BudgetLimitStatus struct {
	Limit           float64
	CurrentSpending float64
	// RemainingAmount is signed: negative when the limit is exceeded.
	RemainingAmount       float64
	UtilizationPercentage float64
	Exceeded              bool
}

// EvaluateBudgetLimit returns nil when no limit is configured, in which case
// callers suppress the budget section entirely. The utilization percentage is
// not clamped here: values over 100 are the caller's rendering concern.
func EvaluateBudgetLimit(limit *float64, currentSpending float64) *BudgetLimitStatus {
	if limit == nil {
		return nil
	}
	l := *limit
	utilization := 0.0
	if l > 0 {
		utilization = currentSpending / l * 100
	}
	return &BudgetLimitStatus{
		Limit:                 l,
		CurrentSpending:       currentSpending,
		RemainingAmount:       l - currentSpending,
		UtilizationPercentage: utilization,
		Exceeded:              currentSpending > l,
	}
}

// TotalSpending sums every expense falling inside the period window,
// skipping records with malformed dates.
func TotalSpending(expenses []Expense, p Period) float64 {
	var total float64
	for _, e := range expenses {
		year, month, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		if p.Contains(year, month) {
			total += e.Amount
		}
	}
	return total
}
