// Package vision reads receipt photos and guesses title, total and category.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"smartfinance/internal/core"
)

var (
	ErrNotConfigured = errors.New("vision provider not configured")
	ErrInvalidImage  = errors.New("invalid image: expected base64 content")
)

// Provider recognizes a receipt from base64 encoded image bytes.
type Provider interface {
	ParseReceipt(ctx context.Context, imageBase64 string) (core.ReceiptGuess, error)
}

// MockProvider returns the same supermarket receipt for any image.
type MockProvider struct{}

var _ Provider = MockProvider{}

func (MockProvider) ParseReceipt(_ context.Context, imageBase64 string) (core.ReceiptGuess, error) {
	if _, err := NormalizeImage(imageBase64); err != nil {
		return core.ReceiptGuess{}, err
	}
	return core.ReceiptGuess{Title: "Compra Supermercado", Amount: 42.5, Category: "Alimentación"}, nil
}

// NormalizeImage strips an optional data URL prefix and whitespace and checks
// that what remains is standard base64.
func NormalizeImage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return "", ErrInvalidImage
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return "", ErrInvalidImage
	}
	return s, nil
}
