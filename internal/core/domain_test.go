package core

import (
	"math"
	"strings"
	"testing"
)

func TestBudgetValidate(t *testing.T) {
	cases := []struct {
		b  Budget
		ok bool
	}{
		{Budget{Income: 1000, FixedExpenses: 400}, true},
		{Budget{Income: 0, FixedExpenses: 0}, true},
		{Budget{Income: 100, FixedExpenses: 500}, true}, // overspending is allowed
		{Budget{Income: -1, FixedExpenses: 0}, false},
		{Budget{Income: 10, FixedExpenses: -5}, false},
		{Budget{Income: math.NaN(), FixedExpenses: 0}, false},
		{Budget{Income: math.Inf(1), FixedExpenses: 0}, false},
	}
	for i, tc := range cases {
		err := tc.b.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestReceiptValidate(t *testing.T) {
	good := Receipt{Title: "Super", Amount: 12.5, Category: "Alimentación"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Receipt{Title: "Gratis", Amount: 0, Category: "Otros"}).Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}

	bads := []Receipt{
		{Title: "", Amount: 1, Category: "c"},
		{Title: "   ", Amount: 1, Category: "c"},
		{Title: strings.Repeat("x", 201), Amount: 1, Category: "c"},
		{Title: "a", Amount: -1, Category: "c"},
		{Title: "a", Amount: math.NaN(), Category: "c"},
		{Title: "a", Amount: 1, Category: " "},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestReceiptGuessToReceipt(t *testing.T) {
	r := ReceiptGuess{Title: " Farmacia Sol ", Amount: 9.99, Category: "Salud "}.ToReceipt(" file:///r.jpg ")
	if r.Title != "Farmacia Sol" || r.Category != "Salud" || r.ImageURI != "file:///r.jpg" {
		t.Fatalf("unexpected receipt: %+v", r)
	}
	if r.Amount != 9.99 {
		t.Fatalf("amount: got %v", r.Amount)
	}
}
