package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"smartfinance/internal/breakdown"
	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"
	"smartfinance/internal/vision"
)

// ErrRecognitionFailed wraps provider failures other than bad input or a
// missing configuration.
var ErrRecognitionFailed = errors.New("receipt recognition failed")

// Publisher announces newly stored receipts.
type Publisher interface {
	PublishReceiptCreated(ctx context.Context, id int64) error
}

// ReceiptService recognizes receipt photos, stores them and publishes an
// export event for each.
type ReceiptService struct {
	store     ports.ReceiptStore
	vision    vision.Provider
	publisher Publisher
	now       func() time.Time
}

// NewReceiptService creates the service; publisher may be nil.
func NewReceiptService(store ports.ReceiptStore, v vision.Provider, publisher Publisher) *ReceiptService {
	return &ReceiptService{store: store, vision: v, publisher: publisher, now: time.Now}
}

// Scan recognizes the image, stores the receipt and returns it. A failed
// publish is logged: the receipt is already saved and will be picked up by
// the pending export sweep.
func (s *ReceiptService) Scan(ctx context.Context, imageBase64, imageURI string) (core.Receipt, error) {
	guess, err := s.vision.ParseReceipt(ctx, imageBase64)
	if err != nil {
		if errors.Is(err, vision.ErrInvalidImage) || errors.Is(err, vision.ErrNotConfigured) {
			return core.Receipt{}, fmt.Errorf("recognize receipt: %w", err)
		}
		return core.Receipt{}, fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
	}

	r := guess.ToReceipt(imageURI)
	if r.Title == "" {
		r.Title = "Recibo"
	}
	if r.Category == "" {
		r.Category = "Otros"
	}
	if r.Amount < 0 {
		r.Amount = 0
	}
	if runes := []rune(r.Title); len(runes) > 200 {
		r.Title = strings.TrimSpace(string(runes[:200]))
	}
	r.CreatedAt = s.now()

	id, err := s.store.AddReceipt(ctx, r)
	if err != nil {
		return core.Receipt{}, fmt.Errorf("save receipt: %w", err)
	}
	r.ID = id

	if err := s.publish(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish receipt event",
			"component", "receipt",
			"id", id,
			"error", err)
	}
	return r, nil
}

func (s *ReceiptService) List(ctx context.Context, limit int) ([]core.Receipt, error) {
	return s.store.ListReceipts(ctx, limit)
}

func (s *ReceiptService) ByCategory(ctx context.Context) ([]core.CategoryTotal, error) {
	return s.store.ListExpensesByCategory(ctx)
}

// Breakdown projects stored category sums through the same breakdown and
// chart steps used for imported files.
func (s *ReceiptService) Breakdown(ctx context.Context) (breakdown.Result, error) {
	sums, err := s.store.ListExpensesByCategory(ctx)
	if err != nil {
		return breakdown.Result{}, fmt.Errorf("list category totals: %w", err)
	}
	if len(sums) == 0 {
		return breakdown.Result{Status: breakdown.StatusEmptyInput}, nil
	}
	return breakdown.FromCategoryTotals(sums), nil
}

func (s *ReceiptService) publish(ctx context.Context, id int64) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not available, skipping receipt event", "component", "receipt", "id", id)
		return nil
	}
	return s.publisher.PublishReceiptCreated(ctx, id)
}
