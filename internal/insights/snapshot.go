// Package insights turns a raw collection of expense records into a
// structured set of spending statistics over an optional date window.
//
// Every computation here is a pure function of its inputs: the engine
// keeps no state between calls and concurrent callers may share one
// Engine value freely.
package insights

import "splitledger/internal/core"

// Window is an optional inclusive [Start, End] date range. A zero
// bound means unbounded on that side.
type Window struct {
	Start core.Date
	End   core.Date
}

// MonthTotal is the summed spending for one calendar month ("2006-01").
type MonthTotal struct {
	Month string     `json:"month"`
	Total core.Money `json:"total"`
}

// CategoryTotal pairs a category with its summed spending.
type CategoryTotal struct {
	Category core.Category `json:"category"`
	Total    core.Money    `json:"total"`
}

// WeekdayTotal is the summed spending for one day of the week.
type WeekdayTotal struct {
	Weekday string     `json:"weekday"`
	Total   core.Money `json:"total"`
}

// KeyStats is the per-key breakdown used for category trends and the
// person spending ratio.
type KeyStats struct {
	Total      core.Money `json:"total"`
	Percentage float64    `json:"percentage"`
	Average    float64    `json:"average"`
	Count      int        `json:"count"`
}

// Velocity holds mean spending per bucket at three granularities. Only
// buckets with at least one record contribute to each mean.
type Velocity struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// SharedRatio splits total spending between the distinguished shared
// party and everyone else, as percentages. Both are 0 when there is no
// spending.
type SharedRatio struct {
	SharedPct     float64 `json:"shared"`
	IndividualPct float64 `json:"individual"`
}

// DistributionBucket is one bar of the fixed amount-range histogram.
type DistributionBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BudgetInsights carries the order statistics and dispersion measures.
type BudgetInsights struct {
	HighestSingleExpense core.Money           `json:"highest_single_expense"`
	LowestSingleExpense  core.Money           `json:"lowest_single_expense"`
	ExpenseRange         core.Money           `json:"expense_range"`
	ExpenseStdDev        float64              `json:"expense_std_dev"`
	MostCommonCategory   core.Category        `json:"most_common_category"`
	MostCommonDay        string               `json:"most_common_day"`
	ExpenseDistribution  []DistributionBucket `json:"expense_distribution"`
}

// Patterns holds the second-order statistics derived from the grouped
// aggregates.
type Patterns struct {
	AverageMonthlySpend          float64                    `json:"average_monthly_spend"`
	MostExpensiveCategory        CategoryTotal              `json:"most_expensive_category"`
	HighestSpendingMonth         MonthTotal                 `json:"highest_spending_month"`
	SpendingByDayOfWeek          []WeekdayTotal             `json:"spending_by_day_of_week"`
	SpendingByCategoryPercentage map[core.Category]float64  `json:"spending_by_category_percentage"`
	AverageExpenseAmount         float64                    `json:"average_expense_amount"`
	SharedVsIndividual           SharedRatio                `json:"shared_vs_individual_ratio"`
	SpendingVelocity             Velocity                   `json:"spending_velocity"`
	CategoryTrends               map[core.Category]KeyStats `json:"category_trends"`
	PersonSpendingRatio          map[string]KeyStats        `json:"person_spending_ratio"`
	Budget                       BudgetInsights             `json:"budget_insights"`
}

// Snapshot is the full set of derived statistics for one (record set,
// window) pair. It is built fresh on every Compute call, never mutated
// afterwards, and holds its own copy of the filtered records.
type Snapshot struct {
	TotalSpending      core.Money                  `json:"total_spending"`
	SpendingByPerson   map[string]core.Money       `json:"spending_by_person"`
	SpendingByCategory map[core.Category]core.Money `json:"spending_by_category"`
	MonthlyTrend       []MonthTotal                `json:"monthly_trend"`
	TopExpenses        []core.Expense              `json:"top_expenses"`
	Expenses           []core.Expense              `json:"expenses"`
	Patterns           Patterns                    `json:"spending_patterns"`
}
