package breakdown

import (
	"encoding/json"
	"math"
	"testing"

	"smartfinance/internal/core"
)

var cols = Columns{Category: "Categoria", Amount: "Monto"}

func TestAggregateSumsPerCategory(t *testing.T) {
	rows := []core.Row{
		{"Categoria": "Comida", "Monto": 500.0},
		{"Categoria": "Transporte", "Monto": "180"},
		{"Categoria": " Comida ", "Monto": 70.5},
	}
	totals := Aggregate(cols, rows)

	if totals.Len() != 2 {
		t.Fatalf("Len = %d, want 2", totals.Len())
	}
	if got, _ := totals.Get("Comida"); got != 570.5 {
		t.Errorf("Comida = %v, want 570.5", got)
	}
	if got, _ := totals.Get("Transporte"); got != 180 {
		t.Errorf("Transporte = %v, want 180", got)
	}
	labels := totals.Labels()
	if labels[0] != "Comida" || labels[1] != "Transporte" {
		t.Errorf("Labels = %v, want discovery order", labels)
	}
}

func TestAggregateMalformedRows(t *testing.T) {
	rows := []core.Row{
		{"Monto": "abc"},
		{"Categoria": "", "Monto": nil},
		{"Categoria": "   "},
		{"Categoria": "Ocio", "Monto": "$10"},
		{"Categoria": "Ocio", "Monto": "NaN"},
		{"Categoria": "Ocio", "Monto": true},
	}
	totals := Aggregate(cols, rows)

	if totals.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (%v)", totals.Len(), totals.Labels())
	}
	if got, ok := totals.Get(DefaultCategory); !ok || got != 0 {
		t.Errorf("%s = %v (present %v), want 0", DefaultCategory, got, ok)
	}
	if got, ok := totals.Get("Ocio"); !ok || got != 0 {
		t.Errorf("Ocio = %v (present %v), want 0", got, ok)
	}
}

func TestAmountValue(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{12.5, 12.5},
		{float32(2.5), 2.5},
		{7, 7},
		{int64(-3), -3},
		{json.Number("4.25"), 4.25},
		{"  99.9 ", 99.9},
		{"-15", -15},
		{"1e2", 100},
		{"12,50", 0},
		{"Inf", 0},
		{math.Inf(1), 0},
		{nil, 0},
		{[]int{1}, 0},
	}
	for _, tt := range tests {
		if got := amountValue(tt.in); got != tt.want {
			t.Errorf("amountValue(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCategoryLabelNonString(t *testing.T) {
	if got := categoryLabel(2024.0); got != "2024" {
		t.Errorf("categoryLabel(2024.0) = %q", got)
	}
	if got := categoryLabel(nil); got != DefaultCategory {
		t.Errorf("categoryLabel(nil) = %q", got)
	}
}
