package insights

import (
	"testing"

	"splitledger/internal/core"
)

func expense(desc string, cents int64, paidBy string, cat core.Category, d core.Date) core.Expense {
	return core.Expense{
		Date:        d,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		PaidBy:      paidBy,
		Category:    cat,
	}
}

func TestFilterInclusiveBounds(t *testing.T) {
	records := []core.Expense{
		expense("a", 100, "Alice", core.Groceries, core.NewDate(2024, 1, 1)),
		expense("b", 200, "Bob", core.Rent, core.NewDate(2024, 1, 15)),
		expense("c", 300, "Shared", core.Dining, core.NewDate(2024, 2, 1)),
	}

	cases := []struct {
		name string
		w    Window
		want []string
	}{
		{"no bounds", Window{}, []string{"a", "b", "c"}},
		{"start only", Window{Start: core.NewDate(2024, 1, 15)}, []string{"b", "c"}},
		{"end only", Window{End: core.NewDate(2024, 1, 15)}, []string{"a", "b"}},
		{"both bounds", Window{Start: core.NewDate(2024, 1, 2), End: core.NewDate(2024, 1, 31)}, []string{"b"}},
		{"start equals record date", Window{Start: core.NewDate(2024, 2, 1)}, []string{"c"}},
		{"empty result", Window{Start: core.NewDate(2025, 1, 1)}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(records, tc.w)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d records, want %d", len(got), len(tc.want))
			}
			for i, r := range got {
				if r.Description != tc.want[i] {
					t.Fatalf("record %d: got %q, want %q", i, r.Description, tc.want[i])
				}
			}
		})
	}
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	records := []core.Expense{
		expense("a", 100, "Alice", core.Groceries, core.NewDate(2024, 1, 1)),
	}
	got := Filter(records, Window{})
	got[0].Description = "mutated"
	if records[0].Description != "a" {
		t.Fatal("filter result aliases the input slice")
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	records := []core.Expense{
		expense("late", 100, "Alice", core.Groceries, core.NewDate(2024, 3, 1)),
		expense("early", 200, "Bob", core.Rent, core.NewDate(2024, 1, 1)),
		expense("mid", 300, "Alice", core.Dining, core.NewDate(2024, 2, 1)),
	}
	got := Filter(records, Window{Start: core.NewDate(2024, 1, 1)})
	want := []string{"late", "early", "mid"}
	for i, r := range got {
		if r.Description != want[i] {
			t.Fatalf("order not preserved: got %q at %d, want %q", r.Description, i, want[i])
		}
	}
}
