package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-03-01" {
		t.Fatalf("round trip mismatch: %s", d)
	}
	if _, err := ParseDate("01/03/2024"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty string")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, 3, 1)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-01"` {
		t.Fatalf("got %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %s != %s", back, d)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Amount:   decimal.NewFromFloat(250.50),
		Category: "food",
		Date:     NewDate(2024, 3, 1),
		Type:     Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Amount: decimal.NewFromInt(1), Category: "food", Type: Expense},                                                    // zero date
		{Amount: decimal.NewFromInt(-5), Category: "food", Date: NewDate(2024, 3, 1), Type: Expense},                        // negative
		{Amount: decimal.Zero, Category: "food", Date: NewDate(2024, 3, 1), Type: Expense},                                  // zero amount
		{Amount: decimal.NewFromInt(1), Category: "  ", Date: NewDate(2024, 3, 1), Type: Expense},                           // blank category
		{Amount: decimal.NewFromInt(1), Category: "food", Date: NewDate(2024, 3, 1), Type: TransactionType("transfer")},     // bad type
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidate(t *testing.T) {
	good := Goal{Target: decimal.NewFromInt(1000), Current: decimal.Zero, Deadline: NewDate(2025, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Goal{
		{Target: decimal.Zero, Deadline: NewDate(2025, 1, 1)},
		{Target: decimal.NewFromInt(100), Current: decimal.NewFromInt(-1), Deadline: NewDate(2025, 1, 1)},
		{Target: decimal.NewFromInt(100)}, // zero deadline
	}
	for i, g := range bads {
		if err := g.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalDisplayTitle(t *testing.T) {
	if got := (Goal{ID: 7}).DisplayTitle(); got != "Goal #7" {
		t.Fatalf("got %q", got)
	}
	if got := (Goal{ID: 7, Title: "Emergency fund"}).DisplayTitle(); got != "Emergency fund" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := NormalizeCategory("  Food "); got != "food" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeType(" Income "); got != Income {
		t.Fatalf("got %q", got)
	}
	if NormalizeType("transfer").Valid() {
		t.Fatalf("transfer should not be a valid type")
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{"250.50", "250.5", true},
		{"0", "", false},
		{"-5", "", false},
		{"+5", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d expected ok, got %v", i, err)
			}
			if got.String() != tc.want {
				t.Fatalf("case %d got %s want %s", i, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
