package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"splitledger/internal/core"
	"splitledger/internal/insights"
	"splitledger/internal/tracker"
)

// fakeService backs the API with a real tracker so insight responses
// exercise the actual aggregation path.
type fakeService struct {
	tr *tracker.Tracker
}

func newFakeService(seed ...core.Expense) *fakeService {
	tr := tracker.New(insights.Engine{})
	tr.ReplaceAll(seed)
	return &fakeService{tr: tr}
}

func (f *fakeService) AddExpense(_ context.Context, e core.Expense) (string, error) {
	if err := f.tr.Append(e); err != nil {
		return "", err
	}
	return "42", nil
}

func (f *fakeService) Insights(_ context.Context, w insights.Window) (insights.Snapshot, error) {
	return f.tr.Insights(w), nil
}

func (f *fakeService) Records() []core.Expense {
	return f.tr.Records()
}

func newTestServer(t *testing.T, seed ...core.Expense) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(":0", newFakeService(seed...), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Shutdown(context.Background())
	})
	return s, ts
}

func seedExpense(desc string, cents int64, paidBy string, cat core.Category, d core.Date) core.Expense {
	return core.Expense{
		Date:        d,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		PaidBy:      paidBy,
		Category:    cat,
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestCreateExpense(t *testing.T) {
	_, ts := newTestServer(t)

	body := `{"date":"2024-01-15","description":"groceries","amount":"52.30","paid_by":"Alice","category":"Groceries"}`
	resp, err := http.Post(ts.URL+"/api/expenses", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var got expenseResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Ref != "42" {
		t.Errorf("ref = %q, want 42", got.Ref)
	}
	if got.AmountCents != 52_30 {
		t.Errorf("amount_cents = %d, want 5230", got.AmountCents)
	}
	if got.Category != "Groceries" {
		t.Errorf("category = %q, want Groceries", got.Category)
	}
}

func TestCreateExpense_Invalid(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "malformed JSON",
			body: `{not json`,
			want: http.StatusBadRequest,
		},
		{
			name: "bad amount",
			body: `{"date":"2024-01-15","description":"x","amount":"abc","paid_by":"Alice","category":"Groceries"}`,
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "zero amount",
			body: `{"date":"2024-01-15","description":"x","amount":"0","paid_by":"Alice","category":"Groceries"}`,
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad date",
			body: `{"date":"15/01/2024x","description":"x","amount":"10","paid_by":"Alice","category":"Groceries"}`,
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown category",
			body: `{"date":"2024-01-15","description":"x","amount":"10","paid_by":"Alice","category":"Crypto"}`,
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "empty description",
			body: `{"date":"2024-01-15","description":"  ","amount":"10","paid_by":"Alice","category":"Groceries"}`,
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/expenses", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestListExpenses(t *testing.T) {
	_, ts := newTestServer(t,
		seedExpense("groceries", 50_00, "Alice", core.Groceries, core.NewDate(2024, 1, 5)),
		seedExpense("rent", 900_00, "Shared", core.Rent, core.NewDate(2024, 1, 1)),
	)

	resp, err := http.Get(ts.URL + "/api/expenses")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []expenseResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	if got[1].PaidBy != "Shared" || got[1].AmountCents != 900_00 {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/expenses", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /api/expenses status = %d, want 405", resp.StatusCode)
	}

	resp, err = http.Post(ts.URL+"/api/insights", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/insights status = %d, want 405", resp.StatusCode)
	}
}

func TestInsights(t *testing.T) {
	_, ts := newTestServer(t,
		seedExpense("groceries", 100_00, "Alice", core.Groceries, core.NewDate(2024, 1, 15)),
		seedExpense("rent", 900_00, "Shared", core.Rent, core.NewDate(2024, 1, 1)),
		seedExpense("coffee", 5_00, "Bob", core.Dining, core.NewDate(2024, 2, 3)),
	)

	resp, err := http.Get(ts.URL + "/api/insights")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var snap insights.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.TotalSpending.Cents != 1005_00 {
		t.Errorf("total_spending = %d, want 100500", snap.TotalSpending.Cents)
	}
	if len(snap.MonthlyTrend) != 2 {
		t.Errorf("monthly_trend has %d entries, want 2", len(snap.MonthlyTrend))
	}
}

func TestInsights_Window(t *testing.T) {
	_, ts := newTestServer(t,
		seedExpense("january", 100_00, "Alice", core.Groceries, core.NewDate(2024, 1, 15)),
		seedExpense("february", 50_00, "Bob", core.Dining, core.NewDate(2024, 2, 3)),
	)

	resp, err := http.Get(ts.URL + "/api/insights?start=2024-02-01&end=2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snap insights.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.TotalSpending.Cents != 50_00 {
		t.Errorf("windowed total = %d, want 5000", snap.TotalSpending.Cents)
	}
}

func TestInsights_BadWindow(t *testing.T) {
	_, ts := newTestServer(t)

	for _, q := range []string{"?start=not-a-date", "?start=2024-02-01&end=2024-01-01"} {
		resp, err := http.Get(ts.URL + "/api/insights" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET /api/insights%s status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestInsights_CacheInvalidatedOnCreate(t *testing.T) {
	_, ts := newTestServer(t,
		seedExpense("first", 10_00, "Alice", core.Groceries, core.NewDate(2024, 1, 5)),
	)

	// Prime the cache.
	resp, err := http.Get(ts.URL + "/api/insights")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	body := `{"date":"2024-01-20","description":"second","amount":"20","paid_by":"Bob","category":"Dining"}`
	resp, err = http.Post(ts.URL+"/api/expenses", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/insights")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snap insights.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.TotalSpending.Cents != 30_00 {
		t.Errorf("total after create = %d, want 3000 (cache must be invalidated)", snap.TotalSpending.Cents)
	}
}
