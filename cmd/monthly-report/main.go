// Command monthly-report prints a per-month spending summary to the
// console. It reads the same sheet (or SQLite cache) as the server and
// computes one snapshot per calendar month.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"splitledger/internal/config"
	"splitledger/internal/core"
	"splitledger/internal/insights"
	applog "splitledger/internal/log"
	ports "splitledger/internal/sheets"
	gsheet "splitledger/internal/sheets/google"
	"splitledger/internal/services"
	"splitledger/internal/storage"
	"splitledger/internal/tracker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.Setup(applog.ComponentApp)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var source ports.ExpenseSource
	if cfg.DataBackend == "sheets" {
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		source = cli
	}

	engine := insights.Engine{
		SharedParty: cfg.SharedParty,
		TopN:        cfg.TopExpenses,
		Buckets:     cfg.DistributionBuckets,
	}
	svc := services.NewTrackerService(tracker.New(engine), source, repo, nil)

	if err := svc.LoadRecords(ctx); err != nil {
		logger.Error("Record load failed", "error", err)
		os.Exit(1)
	}

	records := svc.Records()
	if len(records) == 0 {
		fmt.Println("No expenses recorded.")
		return
	}

	months := monthsOf(records)

	// One snapshot per month, computed in parallel.
	var (
		mu        sync.Mutex
		snapshots = make(map[string]insights.Snapshot, len(months))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, month := range months {
		g.Go(func() error {
			window, err := monthWindow(month)
			if err != nil {
				return err
			}
			snap, err := svc.Insights(gctx, window)
			if err != nil {
				return fmt.Errorf("insights for %s: %w", month, err)
			}
			mu.Lock()
			snapshots[month] = snap
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Report generation failed", "error", err)
		os.Exit(1)
	}

	for _, month := range months {
		printMonth(month, snapshots[month], cfg.SharedParty)
	}
}

// monthsOf returns the distinct "2006-01" keys in chronological order.
func monthsOf(records []core.Expense) []string {
	seen := make(map[string]bool)
	var months []string
	for _, r := range records {
		key := r.Date.YearMonth()
		if !seen[key] {
			seen[key] = true
			months = append(months, key)
		}
	}
	sort.Strings(months)
	return months
}

// monthWindow builds the inclusive first-to-last-day window for a
// "2006-01" key.
func monthWindow(month string) (insights.Window, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return insights.Window{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	start := core.DateOf(t)
	end := core.DateOf(t.AddDate(0, 1, -1))
	return insights.Window{Start: start, End: end}, nil
}

func printMonth(month string, snap insights.Snapshot, sharedParty string) {
	fmt.Printf("\n=== %s ===\n", month)
	fmt.Printf("Total: %s over %d expenses\n",
		formatDollars(snap.TotalSpending.Cents), len(snap.Expenses))

	people := make([]string, 0, len(snap.SpendingByPerson))
	for person := range snap.SpendingByPerson {
		people = append(people, person)
	}
	sort.Strings(people)
	for _, person := range people {
		fmt.Printf("  %-12s %s\n", person, formatDollars(snap.SpendingByPerson[person].Cents))
	}

	top := snap.Patterns.MostExpensiveCategory
	if top.Category != "" {
		fmt.Printf("Top category: %s (%s)\n", top.Category, formatDollars(top.Total.Cents))
	}
	fmt.Printf("Shared vs individual: %.1f%% / %.1f%% (%s)\n",
		snap.Patterns.SharedVsIndividual.SharedPct,
		snap.Patterns.SharedVsIndividual.IndividualPct,
		sharedParty)
	if len(snap.TopExpenses) > 0 {
		e := snap.TopExpenses[0]
		fmt.Printf("Largest expense: %s (%s, %s)\n",
			e.Description, formatDollars(e.Amount.Cents), e.PaidBy)
	}
}

func formatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	if neg {
		return "-" + s
	}
	return s
}
