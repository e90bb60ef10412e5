package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"smartfinance/internal/amqp"
	"smartfinance/internal/sheets"
)

// ExportConfig holds configuration for the export worker.
type ExportConfig struct {
	// PollInterval is how often pending receipts are swept (default: 1m).
	PollInterval time.Duration

	// BatchSize is the max number of receipts exported per sweep (default: 20).
	BatchSize int

	// Concurrency bounds parallel sheet appends within a sweep (default: 4).
	Concurrency int
}

func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		PollInterval: time.Minute,
		BatchSize:    20,
		Concurrency:  4,
	}
}

// ExportWorker copies stored receipts to the external ledger. Events from
// AMQP drive it; the periodic sweep catches receipts whose event was lost.
type ExportWorker struct {
	store    sheets.ReceiptStore
	exporter sheets.ReceiptExporter
	config   ExportConfig
	now      func() time.Time

	// inflight collapses concurrent exports of one receipt into one append.
	inflight singleflight.Group

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewExportWorker(store sheets.ReceiptStore, exporter sheets.ReceiptExporter, config ExportConfig) *ExportWorker {
	def := DefaultExportConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.Concurrency <= 0 {
		config.Concurrency = def.Concurrency
	}
	return &ExportWorker{
		store:    store,
		exporter: exporter,
		config:   config,
		now:      time.Now,
	}
}

// Handle processes a single receipt.created message.
func (w *ExportWorker) Handle(ctx context.Context, msg *amqp.ReceiptCreatedMessage) error {
	slog.InfoContext(ctx, "Processing receipt event",
		"component", "worker",
		"id", msg.ID,
		"timestamp", msg.Timestamp)

	err := w.Export(ctx, msg.ID)
	if errors.Is(err, sheets.ErrNotFound) {
		// Requeueing cannot make a deleted receipt appear.
		slog.WarnContext(ctx, "Receipt no longer exists, dropping event",
			"component", "worker",
			"id", msg.ID)
		return nil
	}
	return err
}

// Export appends one receipt to the ledger and marks it exported. Receipts
// already exported are skipped, so redelivered events are harmless. An event
// and a sweep exporting the same receipt at once share a single append.
func (w *ExportWorker) Export(ctx context.Context, id int64) error {
	_, err, _ := w.inflight.Do(strconv.FormatInt(id, 10), func() (any, error) {
		return nil, w.export(ctx, id)
	})
	return err
}

func (w *ExportWorker) export(ctx context.Context, id int64) error {
	receipt, err := w.store.GetReceipt(ctx, id)
	if err != nil {
		return fmt.Errorf("get receipt %d: %w", id, err)
	}
	if receipt.ExportedAt != nil {
		slog.DebugContext(ctx, "Receipt already exported",
			"component", "worker",
			"id", id,
			"exported_at", receipt.ExportedAt.Format(time.RFC3339))
		return nil
	}

	ref, err := w.exporter.AppendReceipt(ctx, receipt)
	if err != nil {
		return fmt.Errorf("append receipt %d: %w", id, err)
	}

	if err := w.store.MarkReceiptExported(ctx, id, w.now()); err != nil {
		// The row is in the sheet; a later sweep would append it twice.
		slog.ErrorContext(ctx, "Failed to mark receipt as exported",
			"component", "worker",
			"id", id,
			"row_ref", ref,
			"error", err)
		return fmt.Errorf("mark receipt %d exported: %w", id, err)
	}

	slog.InfoContext(ctx, "Exported receipt",
		"component", "worker",
		"id", id,
		"row_ref", ref,
		"amount", receipt.Amount,
		"category", receipt.Category)
	return nil
}

// ExportPending exports up to BatchSize unexported receipts in parallel and
// returns how many succeeded. Individual failures do not stop the batch.
func (w *ExportWorker) ExportPending(ctx context.Context) (int, error) {
	pending, err := w.store.ListUnexported(ctx, w.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list unexported receipts: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Exporting pending receipts", "component", "worker", "count", len(pending))

	var exported, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.config.Concurrency)
	for _, r := range pending {
		g.Go(func() error {
			if err := w.Export(gctx, r.ID); err != nil {
				slog.ErrorContext(gctx, "Failed to export receipt",
					"component", "worker",
					"id", r.ID,
					"error", err)
				failed.Add(1)
				return nil
			}
			exported.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	slog.InfoContext(ctx, "Pending export completed",
		"component", "worker",
		"total", len(pending),
		"exported", exported.Load(),
		"errors", failed.Load())

	if n := failed.Load(); n > 0 {
		return int(exported.Load()), fmt.Errorf("%d of %d receipts failed to export", n, len(pending))
	}
	return int(exported.Load()), nil
}

// Start begins the periodic sweep. Returns an error if already running.
func (w *ExportWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("export worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Export worker started",
		"component", "worker",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize,
		"concurrency", w.config.Concurrency)
	return nil
}

// Stop signals the sweep loop and waits for it to finish.
func (w *ExportWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.running = false
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Export worker stopped gracefully", "component", "worker")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Export worker stop timed out", "component", "worker")
		return ctx.Err()
	}
}

func (w *ExportWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *ExportWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExportWorker) sweep(ctx context.Context) {
	if _, err := w.ExportPending(ctx); err != nil {
		slog.WarnContext(ctx, "Pending export sweep incomplete", "component", "worker", "error", err)
	}
}
