package core

// PaymentStatus is one entry of the pending-payments feed: a mandatory
// subcategory that still needs attention in the current period. Derived
// fresh on every aggregation run, never persisted.
type PaymentStatus struct {
	SubCategoryID   string
	SubCategoryName string
	CategoryID      string
	CategoryName    string
	CategoryColor   string
	CategoryType    ExpenseType
	// ExpectedAmount follows the display rule: the exact charge for fixed
	// subcategories, the full budget ceiling for capped ones. The internal
	// installment amount only decides inclusion; callers needing it should
	// use ResolveExpected directly.
	ExpectedAmount  float64
	IsFixed         bool
	Paid            bool
	PaidAmount      float64
	PaymentCount    int
	LastPaymentDate string
}

// Remaining is the amount still owed for the period.
func (ps PaymentStatus) Remaining() float64 {
	return ps.ExpectedAmount - ps.PaidAmount
}

// AggregateMandatoryExpenses builds the pending-payments feed for a period.
// It walks every subcategory of every category in input order, resolves the
// expected amount, matches payments, and keeps only unpaid or partially paid
// entries: fully covered subcategories are deliberately excluded. Annual
// categories always match against the period's full year, whatever month the
// caller selected. Pure and deterministic over its inputs.
func AggregateMandatoryExpenses(categories []Category, expenses []Expense, p Period) []PaymentStatus {
	var feed []PaymentStatus
	for _, cat := range categories {
		window := p
		if cat.ExpenseType == Annual {
			window = p.YearOf()
		}
		for _, sc := range cat.SubCategories {
			if !sc.IsMandatory() {
				continue
			}
			expected, ok := ResolveExpected(sc)
			if !ok {
				continue
			}
			totals := MatchPayments(sc.ID, expenses, window)
			if totals.TotalPaid >= expected.Amount {
				continue
			}
			feed = append(feed, PaymentStatus{
				SubCategoryID:   sc.ID,
				SubCategoryName: sc.Name,
				CategoryID:      cat.ID,
				CategoryName:    cat.Name,
				CategoryColor:   cat.Color,
				CategoryType:    cat.ExpenseType,
				ExpectedAmount:  expected.DisplayCeiling,
				IsFixed:         expected.IsFixed,
				Paid:            false,
				PaidAmount:      totals.TotalPaid,
				PaymentCount:    totals.Count,
				LastPaymentDate: totals.LastDate,
			})
		}
	}
	return feed
}

// TotalRemaining sums what is still owed across a feed.
func TotalRemaining(feed []PaymentStatus) float64 {
	var total float64
	for _, ps := range feed {
		total += ps.Remaining()
	}
	return total
}
