package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Spending categories form a closed enumeration. Rows carrying the
// legacy "Shared" category (which overlapped with the Shared payer)
// are normalized to Other at ingestion.
const (
	Groceries     Category = "Groceries"
	Utilities     Category = "Utilities"
	Rent          Category = "Rent"
	Entertainment Category = "Entertainment"
	Dining        Category = "Dining"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Other         Category = "Other"
)

// SharedParty is the distinguished payer for expenses split between
// the two individuals. Party values are otherwise opaque grouping keys.
const SharedParty = "Shared"

type (
	Category string

	// Date is a calendar date. Time-of-day is not meaningful; all
	// constructors normalize to midnight UTC so the embedded
	// time.Time comparisons are exact at day precision.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is one logged expense record. Immutable once validated.
	Expense struct {
		Date        Date
		Description string
		Amount      Money
		PaidBy      string
		Category    Category
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyPaidBy      = errors.New("empty payer")
)

// Categories returns every member of the category enumeration in
// declaration order.
func Categories() []Category {
	return []Category{Groceries, Utilities, Rent, Entertainment, Dining, Transport, Shopping, Other}
}

// ParseCategory maps a raw string onto the closed enumeration. The
// legacy "Shared" category value is folded into Other.
func ParseCategory(s string) (Category, error) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, SharedParty) {
		return Other, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(v, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Validate() error {
	for _, known := range Categories() {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts the two persisted date forms: plain YYYY-MM-DD and
// full ISO-8601 timestamps (time-of-day discarded).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	// ISO without zone, as produced by some exporters
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the canonical YYYY-MM-DD form used for persistence.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// YearMonth returns the calendar month key, e.g. "2024-01".
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}

// WeekdayName returns the English weekday name used for day-of-week
// groupings.
func (d Date) WeekdayName() string {
	return d.Time.Weekday().String()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.PaidBy) == "" {
		return ErrEmptyPaidBy
	}
	return e.Category.Validate()
}
