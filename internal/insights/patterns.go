package insights

import (
	"math"
	"strconv"
	"time"

	"splitledger/internal/core"
)

// synthesize derives the second-order statistics from the grouping
// pass. records must be the same filtered set the aggregates were
// computed from and must be non-empty; Compute short-circuits the
// empty case before getting here.
func synthesize(records []core.Expense, agg aggregates, sharedParty string, buckets []int64) Patterns {
	total := float64(agg.total)

	p := Patterns{
		MostExpensiveCategory:        topCategory(agg),
		HighestSpendingMonth:         topMonth(agg.months),
		SpendingByDayOfWeek:          weekdaySums(records),
		SpendingByCategoryPercentage: make(map[core.Category]float64, len(agg.byCategory)),
		AverageExpenseAmount:         total / float64(len(records)) / 100.0,
		SpendingVelocity:             velocity(records),
		CategoryTrends:               make(map[core.Category]KeyStats, len(agg.byCategory)),
		PersonSpendingRatio:          make(map[string]KeyStats, len(agg.byPerson)),
		Budget:                       budgetInsights(records, agg, buckets),
	}

	var monthSum int64
	for _, m := range agg.months {
		monthSum += m.Total.Cents
	}
	p.AverageMonthlySpend = float64(monthSum) / float64(len(agg.months)) / 100.0

	for cat, cents := range agg.byCategory {
		p.SpendingByCategoryPercentage[cat] = float64(cents) / total * 100
	}

	sharedCents := agg.byPerson[sharedParty]
	p.SharedVsIndividual = SharedRatio{
		SharedPct:     float64(sharedCents) / total * 100,
		IndividualPct: float64(agg.total-sharedCents) / total * 100,
	}

	catCounts := make(map[core.Category]int, len(agg.byCategory))
	personCounts := make(map[string]int, len(agg.byPerson))
	for _, r := range records {
		catCounts[r.Category]++
		personCounts[r.PaidBy]++
	}
	for cat, cents := range agg.byCategory {
		p.CategoryTrends[cat] = KeyStats{
			Total:      core.Money{Cents: cents},
			Percentage: float64(cents) / total * 100,
			Average:    float64(cents) / float64(catCounts[cat]) / 100.0,
			Count:      catCounts[cat],
		}
	}
	for person, cents := range agg.byPerson {
		p.PersonSpendingRatio[person] = KeyStats{
			Total:      core.Money{Cents: cents},
			Percentage: float64(cents) / total * 100,
			Average:    float64(cents) / float64(personCounts[person]) / 100.0,
			Count:      personCounts[person],
		}
	}

	return p
}

// topCategory picks the category with the largest sum; ties go to the
// category first seen in the input.
func topCategory(agg aggregates) CategoryTotal {
	var best CategoryTotal
	for i, cat := range agg.categoryOrder {
		cents := agg.byCategory[cat]
		if i == 0 || cents > best.Total.Cents {
			best = CategoryTotal{Category: cat, Total: core.Money{Cents: cents}}
		}
	}
	return best
}

// topMonth picks the month with the largest sum; the input is sorted
// chronologically so ties go to the earliest month.
func topMonth(months []MonthTotal) MonthTotal {
	var best MonthTotal
	for i, m := range months {
		if i == 0 || m.Total.Cents > best.Total.Cents {
			best = m
		}
	}
	return best
}

// weekdaySums groups spending by day of week, presented Sunday first.
// Days with no records are omitted.
func weekdaySums(records []core.Expense) []WeekdayTotal {
	sums := make(map[string]int64, 7)
	for _, r := range records {
		sums[r.Date.WeekdayName()] += r.Amount.Cents
	}
	out := make([]WeekdayTotal, 0, len(sums))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if cents, ok := sums[name]; ok {
			out = append(out, WeekdayTotal{Weekday: name, Total: core.Money{Cents: cents}})
		}
	}
	return out
}

// velocity computes the mean per-bucket spend at day, ISO-week and
// month granularity. Buckets are only created for dates that actually
// carry records, so sparse histories do not dilute the means.
func velocity(records []core.Expense) Velocity {
	days := make(map[string]int64)
	weeks := make(map[string]int64)
	months := make(map[string]int64)
	for _, r := range records {
		days[r.Date.String()] += r.Amount.Cents
		y, w := r.Date.ISOWeek()
		weeks[strconv.Itoa(y)+"-W"+strconv.Itoa(w)] += r.Amount.Cents
		months[r.Date.YearMonth()] += r.Amount.Cents
	}
	return Velocity{
		Daily:   meanCents(days),
		Weekly:  meanCents(weeks),
		Monthly: meanCents(months),
	}
}

func meanCents(buckets map[string]int64) float64 {
	if len(buckets) == 0 {
		return 0
	}
	var sum int64
	for _, v := range buckets {
		sum += v
	}
	return float64(sum) / float64(len(buckets)) / 100.0
}

// budgetInsights computes order statistics, dispersion and modes.
// Sample standard deviation is reported as 0 for fewer than 2 records.
func budgetInsights(records []core.Expense, agg aggregates, buckets []int64) BudgetInsights {
	b := BudgetInsights{
		HighestSingleExpense: records[0].Amount,
		LowestSingleExpense:  records[0].Amount,
	}
	for _, r := range records[1:] {
		if r.Amount.Cents > b.HighestSingleExpense.Cents {
			b.HighestSingleExpense = r.Amount
		}
		if r.Amount.Cents < b.LowestSingleExpense.Cents {
			b.LowestSingleExpense = r.Amount
		}
	}
	b.ExpenseRange = core.Money{Cents: b.HighestSingleExpense.Cents - b.LowestSingleExpense.Cents}
	b.ExpenseStdDev = sampleStdDev(records)
	b.MostCommonCategory = modeCategory(records, agg.categoryOrder)
	b.MostCommonDay = modeWeekday(records)
	b.ExpenseDistribution = distribution(records, buckets)
	return b
}

func sampleStdDev(records []core.Expense) float64 {
	n := len(records)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Amount.Dollars()
	}
	mean := sum / float64(n)
	var ss float64
	for _, r := range records {
		d := r.Amount.Dollars() - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// modeCategory returns the most frequent category; ties go to the one
// first seen in the input, which is what order carries.
func modeCategory(records []core.Expense, order []core.Category) core.Category {
	counts := make(map[core.Category]int, len(order))
	for _, r := range records {
		counts[r.Category]++
	}
	var best core.Category
	bestCount := -1
	for _, cat := range order {
		if counts[cat] > bestCount {
			best = cat
			bestCount = counts[cat]
		}
	}
	return best
}

func modeWeekday(records []core.Expense) string {
	counts := make(map[string]int, 7)
	var order []string
	for _, r := range records {
		name := r.Date.WeekdayName()
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}
	best := ""
	bestCount := -1
	for _, name := range order {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}

// distribution counts records into half-open [low, high) amount
// buckets; the final bucket is open-ended.
func distribution(records []core.Expense, boundaries []int64) []DistributionBucket {
	out := make([]DistributionBucket, len(boundaries)+1)
	for i := range out {
		out[i].Label = bucketLabel(boundaries, i)
	}
	for _, r := range records {
		idx := len(boundaries)
		for i, bound := range boundaries {
			if r.Amount.Cents < bound {
				idx = i
				break
			}
		}
		out[idx].Count++
	}
	return out
}

// bucketLabel renders histogram labels like "under_50", "50_to_100"
// and "over_500" from cent boundaries.
func bucketLabel(boundaries []int64, idx int) string {
	format := func(cents int64) string {
		return strconv.FormatFloat(float64(cents)/100.0, 'f', -1, 64)
	}
	switch {
	case idx == 0:
		return "under_" + format(boundaries[0])
	case idx == len(boundaries):
		return "over_" + format(boundaries[len(boundaries)-1])
	default:
		return format(boundaries[idx-1]) + "_to_" + format(boundaries[idx])
	}
}
