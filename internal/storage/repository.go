// Package storage is the local SQLite cache of the expense sheet. It
// keeps a synced copy of the remote rows for offline reads plus any
// locally-added expenses waiting to be pushed back to the sheet.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"splitledger/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states for the outbound queue.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

// ExpenseWithID pairs a cached expense with its database ID for sync
// operations.
type ExpenseWithID struct {
	ID      int64
	Expense core.Expense
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append stores a locally-created expense as pending sync and returns
// its ID as the row reference.
func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, description, amount_cents, paid_by, category, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Date.String(), e.Description, e.Amount.Cents, e.PaidBy, string(e.Category), SyncPending)
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite cache",
		"id", id,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.String())

	return strconv.FormatInt(id, 10), nil
}

// ListExpenses returns every cached expense in insertion order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, description, amount_cents, paid_by, category
		 FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ReplaceSynced swaps the cached copy of the sheet for a fresh fetch.
// Locally-added rows still pending sync are kept; only the previously
// synced rows are replaced.
func (r *SQLiteRepository) ReplaceSynced(ctx context.Context, records []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expenses WHERE sync_status = ?`, SyncSynced); err != nil {
		return fmt.Errorf("clear synced expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (date, description, amount_cents, paid_by, category, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range records {
		if _, err := stmt.ExecContext(ctx,
			e.Date.String(), e.Description, e.Amount.Cents, e.PaidBy, string(e.Category), SyncSynced); err != nil {
			return fmt.Errorf("insert cached expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Replaced cached sheet copy", "count", len(records))
	return nil
}

// GetExpense retrieves a single cached expense by ID.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT date, description, amount_cents, paid_by, category
		 FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// GetPendingSync returns up to limit locally-added expenses that still
// need to be written back to the sheet, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]ExpenseWithID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount_cents, paid_by, category
		 FROM expenses WHERE sync_status = ? ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}
	defer rows.Close()

	var out []ExpenseWithID
	for rows.Next() {
		var (
			id                                    int64
			dateStr, desc, paidBy, category string
			cents                                 int64
		)
		if err := rows.Scan(&id, &dateStr, &desc, &cents, &paidBy, &category); err != nil {
			return nil, fmt.Errorf("scan pending expense: %w", err)
		}
		e, err := buildExpense(dateStr, desc, cents, paidBy, category)
		if err != nil {
			return nil, err
		}
		out = append(out, ExpenseWithID{ID: id, Expense: e})
	}
	return out, rows.Err()
}

// MarkSynced marks an expense as successfully written to the sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncSynced); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

// MarkSyncError marks an expense as failed to sync.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.setSyncStatus(ctx, id, SyncError); err != nil {
		return err
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status %s for %d: %w", status, id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		dateStr, desc, paidBy, category string
		cents                           int64
	)
	if err := row.Scan(&dateStr, &desc, &cents, &paidBy, &category); err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	return buildExpense(dateStr, desc, cents, paidBy, category)
}

func buildExpense(dateStr, desc string, cents int64, paidBy, category string) (core.Expense, error) {
	// Old cache files stored ISO timestamps; ParseDate accepts both.
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, err
	}
	cat, err := core.ParseCategory(category)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Date:        date,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		PaidBy:      paidBy,
		Category:    cat,
	}, nil
}
