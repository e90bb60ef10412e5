package vision

import (
	"regexp"
	"strings"

	"smartfinance/internal/core"
)

const (
	defaultTitle  = "Recibo"
	titleLimit    = 40
	otherCategory = "Otros"
)

var amountPattern = regexp.MustCompile(`\b(\d+[.,]\d{2})\b`)

// Category keywords, checked in order against the lower-cased text.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Transporte", []string{"uber", "taxi", "bus"}},
	{"Salud", []string{"farmacia", "salud"}},
	{"Entretenimiento", []string{"cine", "netflix", "spotify"}},
	{"Alimentación", []string{"super", "market", "tienda", "rest"}},
}

// GuessFromText extracts a receipt guess from OCR text. The amount is the
// first number with two decimals, the title the first line, and the category
// comes from keywords. Nothing here fails: missing data gets defaults.
func GuessFromText(text string) core.ReceiptGuess {
	return core.ReceiptGuess{
		Title:    guessTitle(text),
		Amount:   guessAmount(text),
		Category: guessCategory(text),
	}
}

func guessAmount(text string) float64 {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	f, err := core.ParseAmount(m[1])
	if err != nil {
		return 0
	}
	return f
}

func guessTitle(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultTitle
	}
	if r := []rune(line); len(r) > titleLimit {
		line = strings.TrimSpace(string(r[:titleLimit]))
	}
	return line
}

func guessCategory(text string) string {
	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(lower, w) {
				return ck.category
			}
		}
	}
	return otherCategory
}
