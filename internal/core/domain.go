package core

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

type (
	// Row is one decoded spreadsheet row: field name to raw cell value.
	// Field names are not fixed and must be discovered at runtime.
	Row map[string]any

	Budget struct {
		ID            int64     `json:"id"`
		Income        float64   `json:"income"`
		FixedExpenses float64   `json:"fixedExpenses"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	Receipt struct {
		ID         int64      `json:"id"`
		Title      string     `json:"title"`
		Amount     float64    `json:"amount"`
		Category   string     `json:"category"`
		ImageURI   string     `json:"imageUri,omitempty"`
		CreatedAt  time.Time  `json:"createdAt"`
		ExportedAt *time.Time `json:"exportedAt,omitempty"` // nil until appended to the spreadsheet
	}

	// ReceiptGuess is the best-effort result of reading a receipt image.
	ReceiptGuess struct {
		Title    string  `json:"title"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}

	// CategoryTotal is a stored category sum, as returned by the receipt store.
	CategoryTotal struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidBudget  = errors.New("invalid budget")
	ErrEmptyTitle     = errors.New("empty title")
	ErrEmptyCategory  = errors.New("empty category")
	ErrTitleTooLong   = errors.New("title too long (max 200 characters)")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

// Available is what is left of the income once fixed expenses are paid.
func (b Budget) Available() float64 {
	return b.Income - b.FixedExpenses
}

func (b Budget) Validate() error {
	if !finite(b.Income) || !finite(b.FixedExpenses) {
		return ErrInvalidBudget
	}
	if b.Income < 0 || b.FixedExpenses < 0 {
		return ErrInvalidBudget
	}
	return nil
}

func (r Receipt) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(r.Title) > 200 {
		return ErrTitleTooLong
	}
	if !finite(r.Amount) {
		return ErrInvalidAmount
	}
	if r.Amount < 0 {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// ToReceipt turns a recognition result into a receipt ready to be stored.
func (g ReceiptGuess) ToReceipt(imageURI string) Receipt {
	return Receipt{
		Title:    strings.TrimSpace(g.Title),
		Amount:   g.Amount,
		Category: strings.TrimSpace(g.Category),
		ImageURI: strings.TrimSpace(imageURI),
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
