package web

import (
	"github.com/shopspring/decimal"

	"github.com/Shubham-711/Finance-tracker-saas/internal/cache"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

type (
	statCard struct {
		Label      string
		Amount     string
		Change     int
		IsPositive bool
	}

	transactionRow struct {
		ID          int64
		Date        string
		Category    string
		Type        string
		Amount      string
		Signed      string
		Description string
		IsExpense   bool
	}

	goalCard struct {
		ID        int64
		Title     string
		Target    string
		Current   string
		Deadline  string
		Percent   int
		Remaining string
	}

	categoryRow struct {
		Category string
		Amount   string
		Percent  int
		Width    int
	}

	trendRow struct {
		Date         string
		Income       string
		Expense      string
		IncomeWidth  int
		ExpenseWidth int
	}
)

func statCards(st core.Stats) []statCard {
	card := func(label string, s core.Stat) statCard {
		return statCard{Label: label, Amount: core.FormatAmount(s.Amount), Change: s.Change, IsPositive: s.IsPositive}
	}
	return []statCard{
		card("Balance", st.Balance),
		card("Income", st.Income),
		card("Expenses", st.Expenses),
		card("Savings", st.Savings),
	}
}

func transactionRows(txs []core.Transaction) []transactionRow {
	rows := make([]transactionRow, 0, len(txs))
	for _, t := range txs {
		row := transactionRow{
			ID:          t.ID,
			Date:        t.Date.String(),
			Category:    t.Category,
			Type:        string(t.Type),
			Amount:      core.FormatAmount(t.Amount),
			Description: t.Description,
			IsExpense:   t.Type == core.Expense,
		}
		if row.IsExpense {
			row.Signed = "-" + row.Amount
		} else {
			row.Signed = "+" + row.Amount
		}
		rows = append(rows, row)
	}
	return rows
}

// recentTransactions returns the newest n by date. The snapshot keeps backend
// order, so sort locally by date descending, stable over IDs.
func recentTransactions(txs []core.Transaction, n int) []core.Transaction {
	sorted := core.SortByDateDesc(txs)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func goalCards(goals []core.Goal) []goalCard {
	cards := make([]goalCard, 0, len(goals))
	for _, g := range goals {
		p := core.GoalProgress(g)
		cards = append(cards, goalCard{
			ID:        g.ID,
			Title:     g.DisplayTitle(),
			Target:    core.FormatAmount(g.Target),
			Current:   core.FormatAmount(g.Current),
			Deadline:  g.Deadline.String(),
			Percent:   p.Percent,
			Remaining: core.FormatAmount(p.Remaining),
		})
	}
	return cards
}

func categoryRows(shares []core.CategoryShare) []categoryRow {
	var max decimal.Decimal
	for _, sh := range shares {
		if sh.Amount.GreaterThan(max) {
			max = sh.Amount
		}
	}
	rows := make([]categoryRow, 0, len(shares))
	for _, sh := range shares {
		width := 0
		if max.Sign() > 0 {
			width = int(sh.Amount.Mul(decimal.NewFromInt(100)).Div(max).Round(0).IntPart())
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		rows = append(rows, categoryRow{
			Category: sh.Category,
			Amount:   core.FormatAmount(sh.Amount),
			Percent:  sh.Percent,
			Width:    width,
		})
	}
	return rows
}

// quickTip names the heaviest expense category; empty when there are no
// expenses yet.
func quickTip(shares []core.CategoryShare) string {
	if len(shares) == 0 {
		return ""
	}
	top := shares[0]
	return "Most of your spending goes to " + top.Category + ", which accounts for " +
		core.FormatAmount(top.Amount) + " of your expenses."
}

func trendRows(series []core.TrendPoint) []trendRow {
	var max decimal.Decimal
	for _, p := range series {
		if p.Income.GreaterThan(max) {
			max = p.Income
		}
		if p.Expense.GreaterThan(max) {
			max = p.Expense
		}
	}
	width := func(v decimal.Decimal) int {
		if max.Sign() <= 0 || v.Sign() <= 0 {
			return 0
		}
		w := int(v.Mul(decimal.NewFromInt(100)).Div(max).Round(0).IntPart())
		if w < 2 {
			w = 2
		}
		if w > 100 {
			w = 100
		}
		return w
	}
	rows := make([]trendRow, 0, len(series))
	for _, p := range series {
		rows = append(rows, trendRow{
			Date:         p.Date.String(),
			Income:       core.FormatAmount(p.Income),
			Expense:      core.FormatAmount(p.Expense),
			IncomeWidth:  width(p.Income),
			ExpenseWidth: width(p.Expense),
		})
	}
	return rows
}

// lastN clips a trend series to its most recent n points.
func lastN(series []core.TrendPoint, n int) []core.TrendPoint {
	if len(series) > n {
		return series[len(series)-n:]
	}
	return series
}

func snapshotSummary(snap *cache.Snapshot) core.Summary {
	if snap == nil {
		return core.Summary{}
	}
	return snap.Summary
}
