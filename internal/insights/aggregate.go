package insights

import (
	"sort"

	"splitledger/internal/core"
)

// aggregates is the intermediate result of the grouping pass. Order
// slices track first appearance in the input so extremal picks and
// modes break ties deterministically.
type aggregates struct {
	total int64

	byPerson    map[string]int64
	personOrder []string

	byCategory    map[core.Category]int64
	categoryOrder []core.Category

	months []MonthTotal // sorted chronologically

	top []core.Expense
}

// aggregate computes grouped sums over the filtered records in a
// single pass plus one sort per derived ordering. Keys absent from the
// data are omitted, not zero-filled.
func aggregate(records []core.Expense, topN int) aggregates {
	agg := aggregates{
		byPerson:   make(map[string]int64),
		byCategory: make(map[core.Category]int64),
	}

	byMonth := make(map[string]int64)
	for _, r := range records {
		agg.total += r.Amount.Cents

		if _, seen := agg.byPerson[r.PaidBy]; !seen {
			agg.personOrder = append(agg.personOrder, r.PaidBy)
		}
		agg.byPerson[r.PaidBy] += r.Amount.Cents

		if _, seen := agg.byCategory[r.Category]; !seen {
			agg.categoryOrder = append(agg.categoryOrder, r.Category)
		}
		agg.byCategory[r.Category] += r.Amount.Cents

		byMonth[r.Date.YearMonth()] += r.Amount.Cents
	}

	agg.months = make([]MonthTotal, 0, len(byMonth))
	for month, cents := range byMonth {
		agg.months = append(agg.months, MonthTotal{Month: month, Total: core.Money{Cents: cents}})
	}
	sort.Slice(agg.months, func(i, j int) bool {
		return agg.months[i].Month < agg.months[j].Month
	})

	agg.top = topExpenses(records, topN)
	return agg
}

// topExpenses returns the n largest records by amount, descending. On
// exact amount ties the record appearing earlier in the input keeps
// the earlier rank, hence the stable sort.
func topExpenses(records []core.Expense, n int) []core.Expense {
	ranked := make([]core.Expense, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
