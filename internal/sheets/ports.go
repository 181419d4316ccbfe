package sheets

import (
	"context"

	"splitledger/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseSource fetches the full record set from a spreadsheet or
	// an equivalent store. Implementations skip malformed rows rather
	// than fail the whole fetch.
	ExpenseSource interface {
		FetchExpenses(ctx context.Context) ([]core.Expense, error)
	}

	// ExpenseAppender writes one expense to the backing sheet and
	// returns an opaque row reference.
	ExpenseAppender interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}
)
