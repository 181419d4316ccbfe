package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"splitledger/internal/amqp"
	"splitledger/internal/core"
	"splitledger/internal/insights"
	"splitledger/internal/sheets"
	"splitledger/internal/storage"
	"splitledger/internal/tracker"
)

// TrackerService orchestrates the in-memory tracker, the sheet source,
// the SQLite cache, and the sync queue. The sheet is the source of
// truth; the cache keeps the last good copy for when the sheet is
// unreachable.
type TrackerService struct {
	tracker    *tracker.Tracker
	source     sheets.ExpenseSource
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTrackerService(
	tracker *tracker.Tracker,
	source sheets.ExpenseSource,
	storage *storage.SQLiteRepository,
	amqpClient *amqp.Client,
) *TrackerService {
	return &TrackerService{
		tracker:    tracker,
		source:     source,
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// LoadRecords refreshes the tracker from the expense sheet. When the
// sheet fetch fails the cached copy is used instead, so a Sheets outage
// degrades to stale data rather than an empty tracker.
func (s *TrackerService) LoadRecords(ctx context.Context) error {
	if s.source != nil {
		fetched, err := s.source.FetchExpenses(ctx)
		if err == nil {
			if s.storage != nil {
				if cacheErr := s.storage.ReplaceSynced(ctx, fetched); cacheErr != nil {
					slog.WarnContext(ctx, "Failed to update SQLite cache", "error", cacheErr)
				}
			}
			return s.reload(ctx, fetched)
		}
		slog.WarnContext(ctx, "Sheet fetch failed, falling back to cache", "error", err)
	}

	if s.storage == nil {
		return fmt.Errorf("no expense source and no cache configured")
	}

	cached, err := s.storage.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load cached expenses: %w", err)
	}

	s.tracker.ReplaceAll(cached)
	slog.InfoContext(ctx, "Loaded expenses from cache", "count", len(cached))
	return nil
}

// reload rebuilds the tracker from the fresh fetch plus any local rows
// still pending sync, so an expense added during a sheet outage is not
// dropped by the next refresh.
func (s *TrackerService) reload(ctx context.Context, fetched []core.Expense) error {
	records := fetched
	if s.storage != nil {
		pending, err := s.storage.GetPendingSync(ctx, 1000)
		if err != nil {
			slog.WarnContext(ctx, "Failed to load pending expenses", "error", err)
		} else {
			for _, p := range pending {
				records = append(records, p.Expense)
			}
		}
	}

	s.tracker.ReplaceAll(records)
	slog.InfoContext(ctx, "Loaded expenses from sheet",
		"count", len(fetched),
		"pending", len(records)-len(fetched))
	return nil
}

// AddExpense records an expense in the tracker and the SQLite cache,
// then queues a sync message so the worker pushes it to the sheet.
func (s *TrackerService) AddExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := s.tracker.Append(e); err != nil {
		return "", err
	}

	if s.storage == nil {
		return "", nil
	}

	// Save to SQLite first (fast, reliable)
	ref, err := s.storage.Append(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse expense ID", "ref", ref, "error", err)
		return ref, nil // SQLite save succeeded
	}

	// Publish async sync message (non-blocking)
	if err := s.publishSyncMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
		// Don't fail the request, the expense is saved locally
	}

	return ref, nil
}

// Insights computes a fresh snapshot over the optional date window.
func (s *TrackerService) Insights(ctx context.Context, w insights.Window) (insights.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return insights.Snapshot{}, err
	}
	return s.tracker.Insights(w), nil
}

// Records returns a copy of the current record set.
func (s *TrackerService) Records() []core.Expense {
	return s.tracker.Records()
}

func (s *TrackerService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishExpenseSync(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *TrackerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close tracker service: %v", errs)
	}

	return nil
}
