package core

// Aggregation over a snapshot of expense records. All functions are pure and
// order-independent: the repository serves records date-descending, but
// nothing here relies on that.

// Total returns the sum of all amounts. Zero for an empty snapshot.
func Total(records []Expense) Money {
	var cents int64
	for _, e := range records {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// ByCategory groups amounts by exact category label. Matching is
// case-sensitive: "Food" and "food" are distinct keys.
func ByCategory(records []Expense) map[string]Money {
	totals := make(map[string]Money)
	for _, e := range records {
		t := totals[e.Category]
		t.Cents += e.Amount.Cents
		totals[e.Category] = t
	}
	return totals
}

// ByDate groups amounts by exact date string. Keys exist only for dates with
// at least one record.
func ByDate(records []Expense) map[string]Money {
	totals := make(map[string]Money)
	for _, e := range records {
		t := totals[e.Date]
		t.Cents += e.Amount.Cents
		totals[e.Date] = t
	}
	return totals
}
