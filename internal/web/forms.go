package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

// parseTransactionForm maps the submitted form onto the backend input shape.
// Category and type are normalized to lowercase before submission so the
// aggregates never split on casing.
func parseTransactionForm(r *http.Request) (api.TransactionInput, error) {
	var in api.TransactionInput
	if err := r.ParseForm(); err != nil {
		return in, errors.New("invalid form submission")
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		return in, err
	}
	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		return in, err
	}
	typ := core.NormalizeType(r.Form.Get("transaction_type"))
	if !typ.Valid() {
		return in, core.ErrInvalidType
	}
	category := core.NormalizeCategory(r.Form.Get("category"))
	if category == "" {
		return in, core.ErrEmptyCategory
	}

	in = api.TransactionInput{
		Amount:      amount,
		Category:    category,
		Date:        date,
		Type:        string(typ),
		Description: sanitizeInput(r.Form.Get("description")),
	}
	return in, nil
}

func parseGoalForm(r *http.Request) (api.GoalInput, error) {
	var in api.GoalInput
	if err := r.ParseForm(); err != nil {
		return in, errors.New("invalid form submission")
	}

	target, err := core.ParseAmount(r.Form.Get("target_amount"))
	if err != nil {
		return in, core.ErrInvalidTarget
	}
	in.Target = target
	in.Title = sanitizeInput(r.Form.Get("title"))

	// current_amount is optional; it defaults to zero on a new goal.
	if raw := strings.TrimSpace(r.Form.Get("current_amount")); raw != "" {
		current, err := core.ParseNonNegativeAmount(raw)
		if err != nil {
			return in, err
		}
		in.Current = current
	}

	deadline, err := core.ParseDate(r.Form.Get("deadline"))
	if err != nil {
		return in, err
	}
	in.Deadline = deadline
	return in, nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
