package memory

import (
	"context"
	"errors"
	"testing"

	"splitledger/internal/core"
)

func TestAppendAndFetch(t *testing.T) {
	s := New()
	e := core.Expense{
		Date:        core.NewDate(2024, 1, 5),
		Description: "Groceries run",
		Amount:      core.Money{Cents: 100_00},
		PaidBy:      "Alice",
		Category:    core.Groceries,
	}
	ref, err := s.Append(context.Background(), e)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q", ref)
	}

	got, err := s.FetchExpenses(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].Description != "Groceries run" {
		t.Fatalf("got %+v", got)
	}

	// Fetch must hand out a copy.
	got[0].Description = "mutated"
	again, _ := s.FetchExpenses(context.Background())
	if again[0].Description != "Groceries run" {
		t.Fatal("FetchExpenses exposed internal state")
	}
}

func TestAppendValidates(t *testing.T) {
	s := New()
	bad := core.Expense{Date: core.NewDate(2024, 1, 1), Description: "x", PaidBy: "Alice", Category: core.Other}
	if _, err := s.Append(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
	if s.Len() != 0 {
		t.Fatal("invalid expense was stored")
	}
}

func TestFetchErr(t *testing.T) {
	s := New()
	s.FetchErr = errors.New("sheet unavailable")
	if _, err := s.FetchExpenses(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}
