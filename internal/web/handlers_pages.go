package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Shubham-711/Finance-tracker-saas/internal/cache"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

// snapshot returns the current cache snapshot, refreshing first when none is
// loaded yet. A false return means a response was already written.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*cache.Snapshot, bool) {
	if snap, ok := s.data.Snapshot(); ok {
		return snap, true
	}
	if err := s.data.RefreshAll(r.Context()); err != nil {
		if s.handleExpired(w, r, err) {
			return nil, false
		}
		slog.ErrorContext(r.Context(), "Data refresh failed", "error", err)
		s.render(w, r, "error.html", struct{ Message string }{"Could not load your data from the backend. Please try again."})
		return nil, false
	}
	snap, _ := s.data.Snapshot()
	return snap, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	summary := snapshotSummary(snap)
	data := struct {
		Section     string
		DisplayName string
		Stats       []statCard
		Income      string
		Expense     string
		Balance     string
		Savings     string
		Recent      []transactionRow
		Goals       []goalCard
		Trend       []trendRow
		Categories  []categoryRow
		QuickTip    string
	}{
		Section:     "dashboard",
		DisplayName: s.sessions.DisplayName(),
		Stats:       statCards(snap.Stats),
		Income:      core.FormatAmount(summary.Income),
		Expense:     core.FormatAmount(summary.Expense),
		Balance:     core.FormatAmount(summary.Balance),
		Savings:     core.FormatAmount(summary.Savings),
		Recent:      transactionRows(recentTransactions(snap.Transactions, 5)),
		Goals:       goalCards(snap.Goals),
		Trend:       trendRows(snap.Trend),
		Categories:  categoryRows(snap.Categories),
		QuickTip:    quickTip(snap.Categories),
	}
	s.render(w, r, "dashboard.html", data)
}

func (s *Server) handleTransactionsPage(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	data := struct {
		Section      string
		DisplayName  string
		Transactions []transactionRow
		Error        string
	}{
		Section:      "transactions",
		DisplayName:  s.sessions.DisplayName(),
		Transactions: transactionRows(core.SortByDateDesc(snap.Transactions)),
		Error:        r.URL.Query().Get("error"),
	}
	s.render(w, r, "transactions.html", data)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := parseTransactionForm(r)
	if err != nil {
		redirectWithError(w, r, "/transactions", err)
		return
	}
	if err := s.data.CreateTransaction(r.Context(), in); err != nil {
		if s.handleExpired(w, r, err) {
			return
		}
		redirectWithError(w, r, "/transactions", err)
		return
	}
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	in, err := parseTransactionForm(r)
	if err != nil {
		redirectWithError(w, r, "/transactions", err)
		return
	}
	if err := s.data.UpdateTransaction(r.Context(), id, in); err != nil {
		if s.handleExpired(w, r, err) {
			return
		}
		redirectWithError(w, r, "/transactions", err)
		return
	}
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	if err := s.data.DeleteTransaction(r.Context(), id); err != nil {
		if s.handleExpired(w, r, err) {
			return
		}
		redirectWithError(w, r, "/transactions", err)
		return
	}
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (s *Server) handleGoalsPage(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	data := struct {
		Section     string
		DisplayName string
		Goals       []goalCard
		Error       string
	}{
		Section:     "goals",
		DisplayName: s.sessions.DisplayName(),
		Goals:       goalCards(snap.Goals),
		Error:       r.URL.Query().Get("error"),
	}
	s.render(w, r, "goals.html", data)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	in, err := parseGoalForm(r)
	if err != nil {
		redirectWithError(w, r, "/goals", err)
		return
	}
	if err := s.data.CreateGoal(r.Context(), in); err != nil {
		if s.handleExpired(w, r, err) {
			return
		}
		redirectWithError(w, r, "/goals", err)
		return
	}
	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	in, err := parseGoalForm(r)
	if err != nil {
		redirectWithError(w, r, "/goals", err)
		return
	}
	if err := s.data.UpdateGoal(r.Context(), id, in); err != nil {
		if s.handleExpired(w, r, err) {
			return
		}
		redirectWithError(w, r, "/goals", err)
		return
	}
	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	if err := s.data.DeleteGoal(r.Context(), id); err != nil {
		if s.handleExpired(w, r, err) {
			return
		}
		redirectWithError(w, r, "/goals", err)
		return
	}
	http.Redirect(w, r, "/goals", http.StatusSeeOther)
}

func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	summary := snapshotSummary(snap)
	data := struct {
		Section     string
		DisplayName string
		Income      string
		Expense     string
		Balance     string
		Savings     string
		Trend       []trendRow
		Categories  []categoryRow
		TrendDays   int
	}{
		Section:     "reports",
		DisplayName: s.sessions.DisplayName(),
		Income:      core.FormatAmount(summary.Income),
		Expense:     core.FormatAmount(summary.Expense),
		Balance:     core.FormatAmount(summary.Balance),
		Savings:     core.FormatAmount(summary.Savings),
		Trend:       trendRows(lastN(snap.Trend, s.reportsTrendDays)),
		Categories:  categoryRows(snap.Categories),
		TrendDays:   s.reportsTrendDays,
	}
	s.render(w, r, "reports.html", data)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path string, err error) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
}
