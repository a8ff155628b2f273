package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tx(amount float64, category string, date Date, tt TransactionType) Transaction {
	return Transaction{Amount: decimal.NewFromFloat(amount), Category: category, Date: date, Type: tt}
}

func TestSummarizeBalanceIdentity(t *testing.T) {
	txs := []Transaction{
		tx(1000, "salary", NewDate(2024, 3, 1), Income),
		tx(250.50, "food", NewDate(2024, 3, 2), Expense),
		tx(49.50, "transport", NewDate(2024, 3, 3), Expense),
	}
	s := Summarize(txs)
	if !s.Income.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("income = %s", s.Income)
	}
	if !s.Expense.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expense = %s", s.Expense)
	}
	if !s.Balance.Equal(s.Income.Sub(s.Expense)) {
		t.Fatalf("balance identity broken: %s", s.Balance)
	}
	if !s.Savings.Equal(s.Balance) {
		t.Fatalf("savings should default to balance, got %s", s.Savings)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Income.Sign() != 0 || s.Expense.Sign() != 0 || s.Balance.Sign() != 0 {
		t.Fatalf("empty set should be all-zero, got %+v", s)
	}
}

func TestBreakdownPercentagesSumToHundred(t *testing.T) {
	txs := []Transaction{
		tx(300, "food", NewDate(2024, 3, 1), Expense),
		tx(200, "rent", NewDate(2024, 3, 2), Expense),
		tx(100, "transport", NewDate(2024, 3, 3), Expense),
		tx(5000, "salary", NewDate(2024, 3, 1), Income), // ignored
	}
	shares := BreakdownByCategory(txs)
	if len(shares) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(shares))
	}
	if shares[0].Category != "food" {
		t.Fatalf("expected food on top, got %s", shares[0].Category)
	}
	sum := 0
	for _, s := range shares {
		sum += s.Percent
	}
	if sum < 99 || sum > 101 {
		t.Fatalf("percentages sum to %d, want 100 +/- rounding", sum)
	}
}

func TestBreakdownZeroTotal(t *testing.T) {
	if shares := BreakdownByCategory(nil); shares != nil {
		t.Fatalf("expected empty breakdown, got %v", shares)
	}
	// Income-only sets have no expense buckets either.
	txs := []Transaction{tx(100, "salary", NewDate(2024, 3, 1), Income)}
	if shares := BreakdownByCategory(txs); len(shares) != 0 {
		t.Fatalf("expected empty breakdown, got %v", shares)
	}
}

func TestBreakdownSortedDescending(t *testing.T) {
	txs := []Transaction{
		tx(10, "a", NewDate(2024, 3, 1), Expense),
		tx(30, "b", NewDate(2024, 3, 1), Expense),
		tx(20, "c", NewDate(2024, 3, 1), Expense),
	}
	shares := BreakdownByCategory(txs)
	for i := 1; i < len(shares); i++ {
		if shares[i].Amount.GreaterThan(shares[i-1].Amount) {
			t.Fatalf("not sorted descending at %d: %v", i, shares)
		}
	}
}

func TestTrendSeriesZeroFill(t *testing.T) {
	end := NewDate(2024, 3, 3)
	txs := []Transaction{
		tx(100, "salary", NewDate(2024, 3, 1), Income),
		tx(40, "food", NewDate(2024, 3, 3), Expense),
	}
	series := TrendSeries(txs, end, 3)
	if len(series) != 3 {
		t.Fatalf("expected exactly 3 entries, got %d", len(series))
	}
	if series[0].Date.String() != "2024-03-01" || series[2].Date.String() != "2024-03-03" {
		t.Fatalf("bad bucket order: %s .. %s", series[0].Date, series[2].Date)
	}
	if !series[0].Income.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("day 1 income = %s", series[0].Income)
	}
	// Day 2 has no transactions and must still be present, zero-filled.
	if series[1].Income.Sign() != 0 || series[1].Expense.Sign() != 0 {
		t.Fatalf("day 2 should be zero-filled, got %+v", series[1])
	}
	if !series[2].Expense.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("day 3 expense = %s", series[2].Expense)
	}
}

func TestTrendSeriesWindowLength(t *testing.T) {
	series := TrendSeries(nil, NewDate(2024, 3, 31), 14)
	if len(series) != 14 {
		t.Fatalf("expected 14 entries for an empty set, got %d", len(series))
	}
	for i, p := range series {
		if p.Income.Sign() != 0 || p.Expense.Sign() != 0 {
			t.Fatalf("entry %d should be zero, got %+v", i, p)
		}
	}
	if TrendSeries(nil, NewDate(2024, 3, 31), 0) != nil {
		t.Fatalf("zero-day window should produce nil")
	}
}

func TestGoalProgressClamped(t *testing.T) {
	over := Goal{Target: decimal.NewFromInt(100), Current: decimal.NewFromInt(150)}
	p := GoalProgress(over)
	if p.Percent != 100 {
		t.Fatalf("overfunded goal should clamp to 100, got %d", p.Percent)
	}
	if p.Remaining.Sign() != 0 {
		t.Fatalf("remaining should clamp to 0, got %s", p.Remaining)
	}

	half := Goal{Target: decimal.NewFromInt(200), Current: decimal.NewFromInt(50)}
	p = GoalProgress(half)
	if p.Percent != 25 {
		t.Fatalf("got %d, want 25", p.Percent)
	}
	if !p.Remaining.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("remaining = %s, want 150", p.Remaining)
	}

	// Zero target must not divide by zero.
	p = GoalProgress(Goal{Target: decimal.Zero, Current: decimal.NewFromInt(10)})
	if p.Percent != 0 {
		t.Fatalf("zero target should report 0%%, got %d", p.Percent)
	}
}

func TestComputeDashboardStats(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx(1000, "salary", NewDate(2024, 2, 10), Income),
		tx(400, "rent", NewDate(2024, 2, 11), Expense),
		tx(1500, "salary", NewDate(2024, 3, 10), Income),
		tx(200, "rent", NewDate(2024, 3, 11), Expense),
	}
	stats := ComputeDashboardStats(txs, now)
	if !stats.Income.Amount.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("income amount = %s", stats.Income.Amount)
	}
	if stats.Income.Change != 50 {
		t.Fatalf("income change = %d, want 50", stats.Income.Change)
	}
	if !stats.Income.IsPositive {
		t.Fatalf("rising income should be positive")
	}
	// Expenses halved: change is -50 and that is good news.
	if stats.Expenses.Change != -50 || !stats.Expenses.IsPositive {
		t.Fatalf("expenses stat = %+v", stats.Expenses)
	}
	// Balance is all-time: 2500 income - 600 expense.
	if !stats.Balance.Amount.Equal(decimal.NewFromInt(1900)) {
		t.Fatalf("balance = %s", stats.Balance.Amount)
	}
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	stats := ComputeDashboardStats(nil, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if stats.Income.Amount.Sign() != 0 || stats.Income.Change != 0 {
		t.Fatalf("empty set should produce zero stats, got %+v", stats.Income)
	}
}
