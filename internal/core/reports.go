package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Summary holds aggregated income/expense figures for a set of
	// transactions. Balance is always income minus expense; Savings equals
	// Balance unless the backend supplied an explicit figure.
	Summary struct {
		Income  decimal.Decimal
		Expense decimal.Decimal
		Balance decimal.Decimal
		Savings decimal.Decimal
	}

	// CategoryShare is one slice of the expense breakdown.
	CategoryShare struct {
		Category string
		Amount   decimal.Decimal
		Percent  int
	}

	// TrendPoint is one day of the income/expense time series.
	TrendPoint struct {
		Date    Date
		Income  decimal.Decimal
		Expense decimal.Decimal
	}

	// Progress is a goal's completion state, clamped for display.
	Progress struct {
		Percent   int
		Remaining decimal.Decimal
	}

	// Stat is one dashboard figure with its month-over-month change.
	Stat struct {
		Amount     decimal.Decimal
		Change     int
		IsPositive bool
	}

	// Stats groups the four dashboard stat cards.
	Stats struct {
		Balance  Stat
		Income   Stat
		Expenses Stat
		Savings  Stat
	}
)

var hundred = decimal.NewFromInt(100)

// Summarize derives income, expense, balance and savings totals.
// Savings defaults to the balance; callers that receive an explicit savings
// figure from the backend overwrite it.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Expense:
			s.Expense = s.Expense.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	s.Savings = s.Balance
	return s
}

// BreakdownByCategory groups expense transactions by category, sums the
// amounts, and computes each category's percentage of the total expense.
// When the total is zero every share reports 0% rather than dividing by
// zero. The result is sorted descending by amount (name ascending on ties),
// so the first entry is the quick-tip candidate.
func BreakdownByCategory(txs []Transaction) []CategoryShare {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}
	if len(sums) == 0 {
		return nil
	}

	total := decimal.Zero
	for _, amt := range sums {
		total = total.Add(amt)
	}

	shares := make([]CategoryShare, 0, len(sums))
	for cat, amt := range sums {
		pct := 0
		if total.Sign() > 0 {
			pct = int(amt.Mul(hundred).Div(total).Round(0).IntPart())
		}
		shares = append(shares, CategoryShare{Category: cat, Amount: amt, Percent: pct})
	}
	sort.Slice(shares, func(i, j int) bool {
		if !shares[i].Amount.Equal(shares[j].Amount) {
			return shares[i].Amount.GreaterThan(shares[j].Amount)
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// TrendSeries buckets transactions into exactly `days` ordered daily
// entries ending at `end`. Days with no activity get zero income and zero
// expense; the series is keyed by calendar date, not by whatever dates the
// records happen to cover, so chart axes never skip quiet days.
func TrendSeries(txs []Transaction, end Date, days int) []TrendPoint {
	if days <= 0 {
		return nil
	}

	type bucket struct{ income, expense decimal.Decimal }
	byDay := make(map[string]bucket)
	for _, t := range txs {
		key := t.Date.String()
		b := byDay[key]
		switch t.Type {
		case Income:
			b.income = b.income.Add(t.Amount)
		case Expense:
			b.expense = b.expense.Add(t.Amount)
		}
		byDay[key] = b
	}

	series := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDays(-i)
		b := byDay[day.String()]
		series = append(series, TrendPoint{
			Date:    day,
			Income:  b.income,
			Expense: b.expense,
		})
	}
	return series
}

// GoalProgress computes the display progress of a goal. Percent is clamped
// to [0, 100] when the goal is overfunded, and Remaining never goes
// negative. A zero target reports 0% so rendering never divides by zero.
func GoalProgress(g Goal) Progress {
	var p Progress
	if g.Target.Sign() > 0 {
		pct := int(g.Current.Mul(hundred).Div(g.Target).Round(0).IntPart())
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		p.Percent = pct
	}
	p.Remaining = g.Target.Sub(g.Current)
	if p.Remaining.IsNegative() {
		p.Remaining = decimal.Zero
	}
	return p
}

// ComputeDashboardStats produces the four stat cards: current-month income,
// expenses and savings plus the all-time balance, each with a percent
// change versus the previous calendar month.
func ComputeDashboardStats(txs []Transaction, now time.Time) Stats {
	monthStart := NewDate(now.Year(), int(now.Month()), 1)
	prevStart := Date{Time: monthStart.AddDate(0, -1, 0)}

	var cur, prev Summary
	all := Summarize(txs)
	cur = Summarize(filterByRange(txs, monthStart, monthStart.AddDate(0, 1, 0)))
	prev = Summarize(filterByRange(txs, prevStart, monthStart.Time))

	return Stats{
		Balance:  newStat(all.Balance, prev.Balance, false),
		Income:   newStat(cur.Income, prev.Income, false),
		Expenses: newStat(cur.Expense, prev.Expense, true),
		Savings:  newStat(cur.Savings, prev.Savings, false),
	}
}

func filterByRange(txs []Transaction, from Date, before time.Time) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if t.Date.Before(from.Time) || !t.Date.Before(before) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// newStat computes the percent change of cur versus prev. When prev is zero
// the change is 0 rather than undefined. For cost-like figures a decrease
// counts as positive.
func newStat(cur, prev decimal.Decimal, lowerIsBetter bool) Stat {
	change := 0
	if prev.Sign() != 0 {
		change = int(cur.Sub(prev).Mul(hundred).Div(prev.Abs()).Round(0).IntPart())
	}
	positive := change >= 0
	if lowerIsBetter {
		positive = change <= 0
	}
	return Stat{Amount: cur, Change: change, IsPositive: positive}
}
