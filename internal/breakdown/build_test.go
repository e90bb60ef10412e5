package breakdown

import (
	"math"
	"testing"
)

func totalsOf(pairs ...any) *Totals {
	t := NewTotals()
	for i := 0; i < len(pairs); i += 2 {
		t.Add(pairs[i].(string), pairs[i+1].(float64))
	}
	return t
}

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestBuildSortsAndComputesPercentages(t *testing.T) {
	entries := Build(totalsOf("Transporte", 180.0, "Comida", 570.5))

	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Category != "Comida" || entries[1].Category != "Transporte" {
		t.Fatalf("order = %v", entries)
	}
	if !approx(entries[0].Percentage, 76.02) || !approx(entries[1].Percentage, 23.98) {
		t.Errorf("percentages = %v, %v", entries[0].Percentage, entries[1].Percentage)
	}
}

func TestBuildPercentagesSumTo100(t *testing.T) {
	entries := Build(totalsOf("a", 1.0, "b", 2.0, "c", 3.0, "d", 0.1))
	var sum float64
	for _, e := range entries {
		sum += e.Percentage
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("sum of percentages = %v, want 100", sum)
	}
}

func TestBuildZeroTotal(t *testing.T) {
	entries := Build(totalsOf(DefaultCategory, 0.0))
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Amount != 0 || e.Percentage != 0 || math.IsNaN(e.Percentage) {
		t.Errorf("entry = %+v, want zero amount and percentage", e)
	}
}

func TestBuildStableTies(t *testing.T) {
	entries := Build(totalsOf("x", 5.0, "y", 10.0, "z", 5.0, "w", 5.0))
	want := []string{"y", "x", "z", "w"}
	for i, w := range want {
		if entries[i].Category != w {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Category, w)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	if got := Build(NewTotals()); len(got) != 0 {
		t.Errorf("Build(empty) = %v", got)
	}
}
