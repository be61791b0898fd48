package core

// PaymentTotals summarizes the expenses matched against one subcategory for
// one period.
type PaymentTotals struct {
	TotalPaid float64
	Count     int
	// LastDate is the most recent matching date (empty when Count is zero).
	// YYYY-MM-DD strings order lexicographically the same as chronologically.
	LastDate string
}

// MatchPayments sums the expenses attributed to subCategoryID within the
// period window. Expenses with malformed dates are excluded individually; a
// single bad record never aborts the run. No matches is a valid zero result,
// not an error.
func MatchPayments(subCategoryID string, expenses []Expense, p Period) PaymentTotals {
	var totals PaymentTotals
	for _, e := range expenses {
		if e.SubCategoryID != subCategoryID {
			continue
		}
		year, month, ok := ParseDate(e.Date)
		if !ok {
			continue
		}
		if !p.Contains(year, month) {
			continue
		}
		totals.TotalPaid += e.Amount
		totals.Count++
		if e.Date > totals.LastDate {
			totals.LastDate = e.Date
		}
	}
	return totals
}
