package google

import (
	"testing"
	"time"

	"splitledger/internal/core"
)

func TestParseExpenseRow(t *testing.T) {
	cols := []string{"2024-01-05", "Groceries run", "120.50", "Alice", "Groceries"}
	e, err := parseExpenseRow(cols)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.Amount.Cents != 12050 {
		t.Fatalf("amount = %d, want 12050", e.Amount.Cents)
	}
	if e.PaidBy != "Alice" || e.Category != core.Groceries {
		t.Fatalf("unexpected expense %+v", e)
	}
	if e.Date.String() != "2024-01-05" {
		t.Fatalf("date = %s", e.Date)
	}
}

func TestParseExpenseRowLegacySharedCategory(t *testing.T) {
	cols := []string{"2024-01-05", "Vacation fund", "500", "Shared", "Shared"}
	e, err := parseExpenseRow(cols)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// "Shared" stays a payer; the overlapping category folds into Other.
	if e.PaidBy != "Shared" || e.Category != core.Other {
		t.Fatalf("unexpected expense %+v", e)
	}
}

func TestParseExpenseRowRejectsBadRows(t *testing.T) {
	cases := [][]string{
		{"2024-01-05", "too short", "10"},
		{"not a date", "x", "10", "Alice", "Dining"},
		{"2024-01-05", "x", "-10", "Alice", "Dining"},
		{"2024-01-05", "x", "zero", "Alice", "Dining"},
		{"2024-01-05", "x", "10", "Alice", "Crypto"},
		{"2024-01-05", "", "10", "Alice", "Dining"},
	}
	for i, cols := range cases {
		if _, err := parseExpenseRow(cols); err == nil {
			t.Fatalf("case %d expected error for %v", i, cols)
		}
	}
}

func TestParseLooseDate(t *testing.T) {
	year := time.Now().Year()
	cases := []struct {
		in   string
		want core.Date
	}{
		{"2024-01-05", core.NewDate(2024, 1, 5)},
		{"3/28", core.NewDate(year, 3, 28)},
		{"3-28", core.NewDate(year, 3, 28)},
		{"3/28/2023", core.NewDate(2023, 3, 28)},
		{"2023/3/28", core.NewDate(2023, 3, 28)},
	}
	for i, tc := range cases {
		got, err := parseLooseDate(tc.in)
		if err != nil {
			t.Fatalf("case %d (%q): %v", i, tc.in, err)
		}
		if !got.Equal(tc.want.Time) {
			t.Fatalf("case %d (%q): got %s, want %s", i, tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"13/1", "0/5", "1/32", "garbage", ""} {
		if _, err := parseLooseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestIsHeaderRow(t *testing.T) {
	if !isHeaderRow([]string{"date", "description", "amount", "paid_by", "category"}) {
		t.Fatal("expected header row")
	}
	if isHeaderRow([]string{"2024-01-05", "x", "10", "Alice", "Dining"}) {
		t.Fatal("data row mistaken for header")
	}
}
