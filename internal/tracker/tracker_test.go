package tracker

import (
	"sync"
	"testing"

	"splitledger/internal/core"
	"splitledger/internal/insights"
)

func validExpense(desc string, cents int64) core.Expense {
	return core.Expense{
		Date:        core.NewDate(2024, 1, 5),
		Description: desc,
		Amount:      core.Money{Cents: cents},
		PaidBy:      "Alice",
		Category:    core.Groceries,
	}
}

func TestAppendValidates(t *testing.T) {
	tr := New(insights.Engine{})
	if err := tr.Append(validExpense("ok", 100)); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := validExpense("bad", 0)
	if err := tr.Append(bad); err == nil {
		t.Fatal("expected validation error for zero amount")
	}
	if tr.Len() != 1 {
		t.Fatalf("len = %d, want 1", tr.Len())
	}
}

func TestRecordsReturnsCopy(t *testing.T) {
	tr := New(insights.Engine{})
	if err := tr.Append(validExpense("a", 100)); err != nil {
		t.Fatal(err)
	}
	got := tr.Records()
	got[0].Description = "mutated"
	if tr.Records()[0].Description != "a" {
		t.Fatal("Records exposed internal state")
	}
}

func TestReplaceAllCopiesInput(t *testing.T) {
	tr := New(insights.Engine{})
	in := []core.Expense{validExpense("a", 100)}
	tr.ReplaceAll(in)
	in[0].Description = "mutated"
	if tr.Records()[0].Description != "a" {
		t.Fatal("ReplaceAll retained the caller's slice")
	}
}

func TestInsightsDerivedOnDemand(t *testing.T) {
	tr := New(insights.Engine{})
	if snap := tr.Insights(insights.Window{}); snap.TotalSpending.Cents != 0 {
		t.Fatalf("empty tracker total = %d", snap.TotalSpending.Cents)
	}
	if err := tr.Append(validExpense("a", 100_00)); err != nil {
		t.Fatal(err)
	}
	if snap := tr.Insights(insights.Window{}); snap.TotalSpending.Cents != 100_00 {
		t.Fatalf("total = %d, want 10000", snap.TotalSpending.Cents)
	}
}

func TestConcurrentAppendAndInsights(t *testing.T) {
	tr := New(insights.Engine{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = tr.Append(validExpense("x", 50))
		}()
		go func() {
			defer wg.Done()
			_ = tr.Insights(insights.Window{})
		}()
	}
	wg.Wait()
	if tr.Len() != 20 {
		t.Fatalf("len = %d, want 20", tr.Len())
	}
}
