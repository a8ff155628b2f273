package devserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

// Report endpoints run the aggregation engine over the user's full history.

func (s *Server) loadTransactions(w http.ResponseWriter, r *http.Request) ([]core.Transaction, bool) {
	txs, err := s.repo.ListTransactions(r.Context(), userID(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Listing transactions for report failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return txs, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.loadTransactions(w, r)
	if !ok {
		return
	}
	sum := core.Summarize(txs)
	writeJSON(w, http.StatusOK, api.Summary{
		Income:  sum.Income,
		Expense: sum.Expense,
		Balance: sum.Balance,
		Savings: &sum.Savings,
	})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.loadTransactions(w, r)
	if !ok {
		return
	}
	series := core.TrendSeries(txs, core.DateOf(time.Now()), s.trendDays)
	writeJSON(w, http.StatusOK, api.TrendsFromSeries(series))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.loadTransactions(w, r)
	if !ok {
		return
	}
	shares := core.BreakdownByCategory(txs)
	expenses := make(map[string]decimal.Decimal, len(shares))
	for _, sh := range shares {
		expenses[sh.Category] = sh.Amount
	}
	writeJSON(w, http.StatusOK, api.Categories{CategoryExpenses: expenses})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.loadTransactions(w, r)
	if !ok {
		return
	}
	stats := core.ComputeDashboardStats(txs, time.Now())
	writeJSON(w, http.StatusOK, api.StatsToWire(stats))
}
