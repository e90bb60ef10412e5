package breakdown

import "sort"

// Entry is one category of the breakdown.
type Entry struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// GrandTotal sums every category amount.
func GrandTotal(t *Totals) float64 {
	var total float64
	for _, label := range t.order {
		total += t.sums[label]
	}
	return total
}

// Build converts totals into entries sorted by descending amount. Ties keep
// discovery order. The grand total is recomputed from the finished totals;
// when it is zero every percentage is zero.
func Build(t *Totals) []Entry {
	total := GrandTotal(t)
	entries := make([]Entry, 0, t.Len())
	for _, label := range t.order {
		amount := t.sums[label]
		var pct float64
		if total != 0 {
			pct = amount / total * 100
		}
		entries = append(entries, Entry{Category: label, Amount: amount, Percentage: pct})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount > entries[j].Amount
	})
	return entries
}
