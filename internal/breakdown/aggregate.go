package breakdown

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"smartfinance/internal/core"
)

// DefaultCategory labels rows whose category cell is missing or blank.
const DefaultCategory = "Sin categoría"

// Totals accumulates amounts per category label and remembers the order in
// which labels were first seen.
type Totals struct {
	order []string
	sums  map[string]float64
}

func NewTotals() *Totals {
	return &Totals{sums: make(map[string]float64)}
}

// Add accumulates amount under label, creating the entry when unseen.
// Zero amounts still create the entry.
func (t *Totals) Add(label string, amount float64) {
	if _, ok := t.sums[label]; !ok {
		t.order = append(t.order, label)
	}
	t.sums[label] += amount
}

// Len is the number of distinct labels.
func (t *Totals) Len() int { return len(t.order) }

// Labels returns the labels in discovery order.
func (t *Totals) Labels() []string {
	return append([]string(nil), t.order...)
}

// Get returns the accumulated amount for label.
func (t *Totals) Get(label string) (float64, bool) {
	v, ok := t.sums[label]
	return v, ok
}

// Aggregate folds every row into per-category totals. Malformed rows never
// abort the pass: a blank or missing category falls back to DefaultCategory
// and an unparseable amount counts as zero.
func Aggregate(cols Columns, rows []core.Row) *Totals {
	totals := NewTotals()
	for _, row := range rows {
		totals.Add(categoryLabel(row[cols.Category]), amountValue(row[cols.Amount]))
	}
	return totals
}

func categoryLabel(v any) string {
	label := strings.TrimSpace(cellString(v))
	if label == "" {
		return DefaultCategory
	}
	return label
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// amountValue parses the amount cell. Currency symbols are not stripped:
// "$10" is unparseable and yields zero.
func amountValue(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
