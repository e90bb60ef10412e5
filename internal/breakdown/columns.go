// Package breakdown turns loosely-shaped spreadsheet rows into a sorted,
// percentage-annotated category breakdown and the chart data derived from it.
//
// The pipeline runs in four one-way steps: resolve the category and amount
// columns from one representative row, aggregate every row into per-category
// totals, build the sorted breakdown against the grand total, and project it
// into pie and bar chart data. Every step is a pure function; nothing is kept
// between runs.
package breakdown

import (
	"sort"
	"strings"

	"smartfinance/internal/core"
)

// Columns names the fields holding the category label and the amount.
type Columns struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

var (
	categoryMarkers = []string{"categor"}
	amountMarkers   = []string{"monto", "precio", "total"}
)

// ResolveColumns resolves the columns of a representative row. Map rows
// carry no column order, so field names are tried in sorted order.
func ResolveColumns(row core.Row) (Columns, bool) {
	return ResolveColumnsOrdered(FieldsOf(row))
}

// ResolveColumnsOrdered scans field names in order and returns the first
// field that looks like a category and the first that looks like an amount.
// Matching is case-insensitive on substrings, so "Categoria", "Categoría" and
// "CATEGORIA" all resolve. A field claimed as category is never reused as
// amount. The second return value is false when either role stays unresolved.
func ResolveColumnsOrdered(fields []string) (Columns, bool) {
	var cols Columns
	for _, f := range fields {
		name := strings.ToLower(strings.TrimSpace(f))
		switch {
		case cols.Category == "" && containsAny(name, categoryMarkers):
			cols.Category = f
		case cols.Amount == "" && containsAny(name, amountMarkers):
			cols.Amount = f
		}
	}
	return cols, cols.Category != "" && cols.Amount != ""
}

// FieldsOf lists the field names of a row in sorted order.
func FieldsOf(row core.Row) []string {
	fields := make([]string, 0, len(row))
	for k := range row {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
