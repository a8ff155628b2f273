package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	// TransactionType carries the direction of a transaction. Amounts are
	// always non-negative; the sign lives here, never in the amount.
	TransactionType string

	// Date is a calendar day without a time component.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Amount      decimal.Decimal
		Category    string
		Date        Date
		Type        TransactionType
		Description string
	}

	Goal struct {
		ID       int64
		Title    string
		Target   decimal.Decimal
		Current  decimal.Decimal
		Deadline Date
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidType    = errors.New("invalid transaction type")
	ErrEmptyCategory  = errors.New("empty category")
	ErrInvalidTarget  = errors.New("invalid target amount")
	ErrNegativeAmount = errors.New("negative amount")
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day (UTC midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (tt TransactionType) Valid() bool {
	switch tt {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// NormalizeType lowercases and trims a raw type label.
func NormalizeType(s string) TransactionType {
	return TransactionType(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeCategory lowercases and trims a raw category label before
// submission, so "Food" and "food" aggregate as one bucket.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (g Goal) Validate() error {
	if g.Target.Sign() <= 0 {
		return ErrInvalidTarget
	}
	if g.Current.IsNegative() {
		return ErrNegativeAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return err
	}
	return nil
}

// SortByDateDesc returns a copy of txs ordered newest first, falling back to
// descending ID for same-day entries so ordering is deterministic.
func SortByDateDesc(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// DisplayTitle returns the goal title, synthesizing a label from the
// identifier when the backend did not send one.
func (g Goal) DisplayTitle() string {
	if strings.TrimSpace(g.Title) != "" {
		return g.Title
	}
	return fmt.Sprintf("Goal #%d", g.ID)
}
