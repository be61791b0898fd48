package core

// InstallmentRatio is the share of a budget ceiling treated as one monthly
// installment when deciding whether a capped subcategory has been paid.
const InstallmentRatio = 0.2

// Expected is the resolved per-period expectation for a subcategory.
// Amount drives the paid/unpaid decision; DisplayCeiling is what the
// dashboard shows (the full budget limit for capped subcategories).
type Expected struct {
	Amount         float64
	IsFixed        bool
	DisplayCeiling float64
}

// ResolveExpected computes the expected amount for the current period.
// The second return value is false when the subcategory has neither a fixed
// amount nor a budget limit configured; such subcategories are not tracked
// and callers must skip them entirely.
func ResolveExpected(sc SubCategory) (Expected, bool) {
	switch mode := sc.ChargeMode(); mode.Kind {
	case ChargeFixed:
		return Expected{Amount: mode.Amount, IsFixed: true, DisplayCeiling: mode.Amount}, true
	case ChargeCapped:
		return Expected{Amount: mode.Amount * InstallmentRatio, IsFixed: false, DisplayCeiling: mode.Amount}, true
	default:
		return Expected{}, false
	}
}
