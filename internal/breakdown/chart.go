package breakdown

import "fmt"

const (
	// BarLimit caps the number of bars in the comparative chart.
	BarLimit = 8
	// LabelLimit is the longest bar label kept intact, in characters.
	LabelLimit = 10
	Ellipsis   = "..."
)

// Datum is a single chart point.
type Datum struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Display is presentation text only, set on pie data.
	Display string `json:"display,omitempty"`
}

// Pie maps every entry to a datum, unmodified, with a display label such as
// "Comida\n$570.50".
func Pie(entries []Entry) []Datum {
	out := make([]Datum, len(entries))
	for i, e := range entries {
		out[i] = Datum{
			Label:   e.Category,
			Value:   e.Amount,
			Display: fmt.Sprintf("%s\n$%.2f", e.Category, e.Amount),
		}
	}
	return out
}

// Bar keeps the first BarLimit entries and shortens long labels.
func Bar(entries []Entry) []Datum {
	n := len(entries)
	if n > BarLimit {
		n = BarLimit
	}
	out := make([]Datum, n)
	for i, e := range entries[:n] {
		out[i] = Datum{Label: truncateLabel(e.Category), Value: e.Amount}
	}
	return out
}

func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= LabelLimit {
		return s
	}
	return string(r[:LabelLimit]) + Ellipsis
}
