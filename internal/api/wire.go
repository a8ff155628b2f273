package api

import (
	"github.com/shopspring/decimal"

	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

// Wire shapes shared between this client and the development backend. Field
// names follow the backend contract; the cache projects them onto the
// view-facing domain types exactly once.
type (
	Transaction struct {
		ID          int64           `json:"id"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Date        core.Date       `json:"date"`
		Type        string          `json:"transaction_type"`
		Description string          `json:"description,omitempty"`
	}

	TransactionInput struct {
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Date        core.Date       `json:"date"`
		Type        string          `json:"transaction_type"`
		Description string          `json:"description,omitempty"`
	}

	Goal struct {
		ID       int64           `json:"id"`
		Title    string          `json:"title,omitempty"`
		Target   decimal.Decimal `json:"target_amount"`
		Current  decimal.Decimal `json:"current_amount"`
		Deadline core.Date       `json:"deadline"`
	}

	GoalInput struct {
		Title    string          `json:"title,omitempty"`
		Target   decimal.Decimal `json:"target_amount"`
		Current  decimal.Decimal `json:"current_amount"`
		Deadline core.Date       `json:"deadline"`
	}

	Summary struct {
		Income  decimal.Decimal  `json:"income"`
		Expense decimal.Decimal  `json:"expense"`
		Balance decimal.Decimal  `json:"balance"`
		Savings *decimal.Decimal `json:"savings,omitempty"`
	}

	Trends struct {
		Labels      []string          `json:"labels"`
		IncomeData  []decimal.Decimal `json:"income_data"`
		ExpenseData []decimal.Decimal `json:"expense_data"`
	}

	StatEntry struct {
		Amount     decimal.Decimal `json:"amount"`
		Change     int             `json:"change"`
		IsPositive bool            `json:"isPositive"`
	}

	DashboardStats struct {
		Balance  StatEntry `json:"balance"`
		Income   StatEntry `json:"income"`
		Expenses StatEntry `json:"expenses"`
		Savings  StatEntry `json:"savings"`
	}

	Categories struct {
		CategoryExpenses map[string]decimal.Decimal `json:"category_expenses"`
	}
)

// Domain converts a wire transaction into the domain type.
func (t Transaction) Domain() core.Transaction {
	return core.Transaction{
		ID:          t.ID,
		Amount:      t.Amount,
		Category:    t.Category,
		Date:        t.Date,
		Type:        core.NormalizeType(t.Type),
		Description: t.Description,
	}
}

// Domain converts a wire goal into the domain type. A missing
// current_amount unmarshals as zero, which is the documented default.
func (g Goal) Domain() core.Goal {
	return core.Goal{
		ID:       g.ID,
		Title:    g.Title,
		Target:   g.Target,
		Current:  g.Current,
		Deadline: g.Deadline,
	}
}

// Domain applies the savings fallback: balance stands in when the backend
// omits an explicit savings figure.
func (s Summary) Domain() core.Summary {
	out := core.Summary{
		Income:  s.Income,
		Expense: s.Expense,
		Balance: s.Balance,
		Savings: s.Balance,
	}
	if s.Savings != nil {
		out.Savings = *s.Savings
	}
	return out
}

// Series zips the parallel label/value arrays into ordered trend points.
// Labels that do not parse as dates are skipped rather than failing the
// whole series.
func (t Trends) Series() []core.TrendPoint {
	points := make([]core.TrendPoint, 0, len(t.Labels))
	for i, label := range t.Labels {
		day, err := core.ParseDate(label)
		if err != nil {
			continue
		}
		p := core.TrendPoint{Date: day}
		if i < len(t.IncomeData) {
			p.Income = t.IncomeData[i]
		}
		if i < len(t.ExpenseData) {
			p.Expense = t.ExpenseData[i]
		}
		points = append(points, p)
	}
	return points
}

func (e StatEntry) domain() core.Stat {
	return core.Stat{Amount: e.Amount, Change: e.Change, IsPositive: e.IsPositive}
}

// Domain converts the dashboard stat cards into domain stats.
func (d DashboardStats) Domain() core.Stats {
	return core.Stats{
		Balance:  d.Balance.domain(),
		Income:   d.Income.domain(),
		Expenses: d.Expenses.domain(),
		Savings:  d.Savings.domain(),
	}
}

func statEntry(s core.Stat) StatEntry {
	return StatEntry{Amount: s.Amount, Change: s.Change, IsPositive: s.IsPositive}
}

// StatsToWire builds the wire representation of the dashboard stat cards.
func StatsToWire(s core.Stats) DashboardStats {
	return DashboardStats{
		Balance:  statEntry(s.Balance),
		Income:   statEntry(s.Income),
		Expenses: statEntry(s.Expenses),
		Savings:  statEntry(s.Savings),
	}
}

// TrendsFromSeries builds the wire representation from trend points.
func TrendsFromSeries(series []core.TrendPoint) Trends {
	t := Trends{
		Labels:      make([]string, 0, len(series)),
		IncomeData:  make([]decimal.Decimal, 0, len(series)),
		ExpenseData: make([]decimal.Decimal, 0, len(series)),
	}
	for _, p := range series {
		t.Labels = append(t.Labels, p.Date.String())
		t.IncomeData = append(t.IncomeData, p.Income)
		t.ExpenseData = append(t.ExpenseData, p.Expense)
	}
	return t
}
