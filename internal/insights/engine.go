package insights

import "splitledger/internal/core"

// DefaultTopN is how many records top_expenses carries at most.
const DefaultTopN = 5

// DefaultBuckets are the histogram boundaries in cents, producing the
// ranges {<50, 50-100, 100-200, 200-500, >=500}.
var DefaultBuckets = []int64{50_00, 100_00, 200_00, 500_00}

// Engine computes insight snapshots. The zero value is usable; fields
// override the shared-party label, the top-N size and the histogram
// boundaries.
type Engine struct {
	// SharedParty is the payer whose spending counts as "shared" in
	// the shared-vs-individual ratio. Defaults to core.SharedParty.
	SharedParty string

	// TopN caps the top_expenses list. Defaults to DefaultTopN.
	TopN int

	// Buckets are ascending histogram boundaries in cents. Defaults
	// to DefaultBuckets.
	Buckets []int64
}

// Compute filters records to the window, aggregates them and derives
// the pattern statistics. It never fails: an empty filtered set yields
// a snapshot where every aggregate is its identity value. The caller's
// slice is not mutated and not retained.
func (e Engine) Compute(records []core.Expense, w Window) Snapshot {
	sharedParty := e.SharedParty
	if sharedParty == "" {
		sharedParty = core.SharedParty
	}
	topN := e.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	buckets := e.Buckets
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}

	filtered := Filter(records, w)

	snap := Snapshot{
		SpendingByPerson:   make(map[string]core.Money),
		SpendingByCategory: make(map[core.Category]core.Money),
		MonthlyTrend:       []MonthTotal{},
		TopExpenses:        []core.Expense{},
		Expenses:           filtered,
		Patterns: Patterns{
			SpendingByCategoryPercentage: make(map[core.Category]float64),
			SpendingByDayOfWeek:          []WeekdayTotal{},
			CategoryTrends:               make(map[core.Category]KeyStats),
			PersonSpendingRatio:          make(map[string]KeyStats),
		},
	}
	if len(filtered) == 0 {
		return snap
	}

	agg := aggregate(filtered, topN)

	snap.TotalSpending = core.Money{Cents: agg.total}
	for person, cents := range agg.byPerson {
		snap.SpendingByPerson[person] = core.Money{Cents: cents}
	}
	for cat, cents := range agg.byCategory {
		snap.SpendingByCategory[cat] = core.Money{Cents: cents}
	}
	snap.MonthlyTrend = agg.months
	snap.TopExpenses = agg.top
	snap.Patterns = synthesize(filtered, agg, sharedParty, buckets)

	return snap
}
