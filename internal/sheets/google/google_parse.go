package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"splitledger/internal/core"
)

// parseExpenseRow converts one sheet row (date, description, amount,
// paid_by, category) into a validated expense.
func parseExpenseRow(cols []string) (core.Expense, error) {
	if len(cols) < 5 {
		return core.Expense{}, fmt.Errorf("expected 5 columns, got %d", len(cols))
	}

	date, err := parseLooseDate(cols[0])
	if err != nil {
		return core.Expense{}, err
	}

	cents, err := core.ParseDecimalToCents(cols[2])
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", cols[2], err)
	}

	category, err := core.ParseCategory(cols[4])
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Date:        date,
		Description: strings.TrimSpace(cols[1]),
		Amount:      core.Money{Cents: cents},
		PaidBy:      strings.TrimSpace(cols[3]),
		Category:    category,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// parseLooseDate accepts the canonical YYYY-MM-DD and ISO forms plus
// the loose formats the hand-edited sheet has accumulated over time:
// M/D and M-D (year assumed current), M/D/YYYY and YYYY/M/D.
func parseLooseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := core.ParseDate(s); err == nil {
		return d, nil
	}

	// Month/day without a year, e.g. "3/28"
	for _, sep := range []string{"/", "-"} {
		parts := strings.Split(s, sep)
		if len(parts) != 2 {
			continue
		}
		month, merr := strconv.Atoi(parts[0])
		day, derr := strconv.Atoi(parts[1])
		if merr != nil || derr != nil {
			continue
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		return core.NewDate(time.Now().Year(), month, day), nil
	}

	for _, layout := range []string{"1/2/2006", "2006/1/2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), nil
		}
	}

	return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
}

// isHeaderRow reports whether the first sheet row is the column header
// instead of data.
func isHeaderRow(cols []string) bool {
	if len(cols) == 0 {
		return false
	}
	return strings.EqualFold(cols[0], "date")
}
