// Package cache keeps an in-memory snapshot of the signed-in user's data so
// page renders never wait on the backend. RefreshAll fetches everything in
// parallel and swaps the snapshot atomically: readers either see the previous
// complete dataset or the new one, never a half-refreshed mix.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

// Gateway is the slice of the backend client the cache needs. *api.Client
// satisfies it.
type Gateway interface {
	ListTransactions(ctx context.Context) ([]api.Transaction, error)
	ListGoals(ctx context.Context) ([]api.Goal, error)
	Summary(ctx context.Context) (api.Summary, error)
	Trends(ctx context.Context) (api.Trends, error)
	DashboardStats(ctx context.Context) (api.DashboardStats, error)

	CreateTransaction(ctx context.Context, in api.TransactionInput) (api.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in api.TransactionInput) (api.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error

	CreateGoal(ctx context.Context, in api.GoalInput) (api.Goal, error)
	UpdateGoal(ctx context.Context, id int64, in api.GoalInput) (api.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error
}

// Snapshot is one complete, internally consistent view of the user's data.
type Snapshot struct {
	Transactions []core.Transaction
	Goals        []core.Goal
	Summary      core.Summary
	Trend        []core.TrendPoint
	Stats        core.Stats
	Categories   []core.CategoryShare
	FetchedAt    time.Time
}

type Store struct {
	gw        Gateway
	trendDays int

	mu   sync.RWMutex
	snap *Snapshot
}

func New(gw Gateway, trendDays int) *Store {
	return &Store{gw: gw, trendDays: trendDays}
}

// Snapshot returns the current snapshot and whether one has been loaded yet.
// The returned value must be treated as read-only.
func (s *Store) Snapshot() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.snap != nil
}

// Invalidate drops the snapshot, typically on logout.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}

// RefreshAll fetches transactions, goals and the report aggregates in
// parallel. Transactions and goals are mandatory: if either fetch fails the
// refresh fails as a whole and the previous snapshot stays in place. Report
// endpoints degrade gracefully: on failure the aggregate is recomputed
// locally from the freshly fetched transactions.
func (s *Store) RefreshAll(ctx context.Context) error {
	var (
		wireTxs   []api.Transaction
		wireGoals []api.Goal

		summary   api.Summary
		trends    api.Trends
		stats     api.DashboardStats
		haveSumm  bool
		haveTrend bool
		haveStats bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wireTxs, err = s.gw.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("fetching transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		wireGoals, err = s.gw.ListGoals(gctx)
		if err != nil {
			return fmt.Errorf("fetching goals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		summary, err = s.gw.Summary(gctx)
		if err != nil {
			if api.IsUnauthorized(err) {
				return err
			}
			slog.WarnContext(gctx, "summary endpoint unavailable, computing locally", "error", err)
			return nil
		}
		haveSumm = true
		return nil
	})
	g.Go(func() error {
		var err error
		trends, err = s.gw.Trends(gctx)
		if err != nil {
			if api.IsUnauthorized(err) {
				return err
			}
			slog.WarnContext(gctx, "trends endpoint unavailable, computing locally", "error", err)
			return nil
		}
		haveTrend = true
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = s.gw.DashboardStats(gctx)
		if err != nil {
			if api.IsUnauthorized(err) {
				return err
			}
			slog.WarnContext(gctx, "dashboard stats endpoint unavailable, computing locally", "error", err)
			return nil
		}
		haveStats = true
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	txs := make([]core.Transaction, 0, len(wireTxs))
	for _, w := range wireTxs {
		txs = append(txs, w.Domain())
	}
	goals := make([]core.Goal, 0, len(wireGoals))
	for _, w := range wireGoals {
		goals = append(goals, w.Domain())
	}

	next := &Snapshot{
		Transactions: txs,
		Goals:        goals,
		Categories:   core.BreakdownByCategory(txs),
		FetchedAt:    time.Now(),
	}
	if haveSumm {
		next.Summary = summary.Domain()
	} else {
		next.Summary = core.Summarize(txs)
	}
	if haveTrend {
		next.Trend = trends.Series()
	} else {
		next.Trend = core.TrendSeries(txs, core.DateOf(time.Now()), s.trendDays)
	}
	if haveStats {
		next.Stats = stats.Domain()
	} else {
		next.Stats = core.ComputeDashboardStats(txs, time.Now())
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	return nil
}

// Write operations go straight to the backend and then refresh the snapshot,
// so the next render reflects server-assigned IDs and recomputed aggregates.

func (s *Store) CreateTransaction(ctx context.Context, in api.TransactionInput) error {
	if _, err := s.gw.CreateTransaction(ctx, in); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

func (s *Store) UpdateTransaction(ctx context.Context, id int64, in api.TransactionInput) error {
	if _, err := s.gw.UpdateTransaction(ctx, id, in); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.gw.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

func (s *Store) CreateGoal(ctx context.Context, in api.GoalInput) error {
	if _, err := s.gw.CreateGoal(ctx, in); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

func (s *Store) UpdateGoal(ctx context.Context, id int64, in api.GoalInput) error {
	if _, err := s.gw.UpdateGoal(ctx, id, in); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.gw.DeleteGoal(ctx, id); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}
