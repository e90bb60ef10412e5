package breakdown

import (
	"slices"

	"smartfinance/internal/core"
)

// Status tells the caller how a run ended. Only StatusOK carries entries.
type Status string

const (
	StatusOK                 Status = "ok"
	StatusEmptyInput         Status = "empty_input"
	StatusUnrecognizedFormat Status = "unrecognized_format"
)

// Input is a decoded dataset. Header, when present, gives the column order
// used for resolution; otherwise the fields of the first row are used.
type Input struct {
	Header []string
	Rows   []core.Row
}

// Result is the outcome of one pipeline run.
type Result struct {
	Status  Status  `json:"status"`
	Columns Columns `json:"columns"`
	Total   float64 `json:"total"`
	Entries []Entry `json:"entries"`
	Pie     []Datum `json:"pie"`
	Bar     []Datum `json:"bar"`
}

// Clone returns a copy that shares no slices with r.
func (r Result) Clone() Result {
	r.Entries = slices.Clone(r.Entries)
	r.Pie = slices.Clone(r.Pie)
	r.Bar = slices.Clone(r.Bar)
	return r
}

// OK reports whether the run produced a breakdown.
func (r Result) OK() bool { return r.Status == StatusOK }

// Notice is the user-facing message for a failed run.
func (r Result) Notice() string {
	switch r.Status {
	case StatusEmptyInput:
		return "El archivo está vacío."
	case StatusUnrecognizedFormat:
		return `El archivo debe tener columnas "Categoria" y "Monto" (o "Precio"/"Total").`
	default:
		return ""
	}
}

// Run executes the whole pipeline over in.
func Run(in Input) Result {
	if len(in.Rows) == 0 {
		return Result{Status: StatusEmptyInput}
	}
	var (
		cols Columns
		ok   bool
	)
	if len(in.Header) > 0 {
		cols, ok = ResolveColumnsOrdered(in.Header)
	} else {
		cols, ok = ResolveColumns(in.Rows[0])
	}
	if !ok {
		return Result{Status: StatusUnrecognizedFormat, Columns: cols}
	}
	res := project(Aggregate(cols, in.Rows))
	res.Columns = cols
	return res
}

// FromCategoryTotals builds a breakdown from sums that were already grouped,
// such as the per-category receipt totals kept in storage.
func FromCategoryTotals(sums []core.CategoryTotal) Result {
	totals := NewTotals()
	for _, s := range sums {
		totals.Add(categoryLabel(s.Category), s.Total)
	}
	return project(totals)
}

func project(totals *Totals) Result {
	entries := Build(totals)
	return Result{
		Status:  StatusOK,
		Total:   GrandTotal(totals),
		Entries: entries,
		Pie:     Pie(entries),
		Bar:     Bar(entries),
	}
}
