package insights

import "splitledger/internal/core"

// Filter returns the records whose date falls within the inclusive
// window. The input is never mutated and relative order is preserved;
// downstream tie-breaking relies on it. The result is always a fresh
// slice, so callers can hand it out without aliasing their own data.
func Filter(records []core.Expense, w Window) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	for _, r := range records {
		if !w.Start.IsZero() && r.Date.Before(w.Start.Time) {
			continue
		}
		if !w.End.IsZero() && r.Date.After(w.End.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}
