package sheets

import (
	"context"
	"errors"
	"io"
	"time"

	"smartfinance/internal/core"
)

var (
	ErrEmptyFile         = errors.New("empty file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNotFound          = errors.New("not found")
)

// Ports for inbound row sources and outbound stores.
type (
	// RowSource decodes an uploaded spreadsheet into a table of raw rows.
	RowSource interface {
		Decode(ctx context.Context, filename string, r io.Reader) (Table, error)
	}

	// TableReader reads a range of a remote spreadsheet as a table.
	TableReader interface {
		ReadTable(ctx context.Context, rng string) (Table, error)
	}

	// ReceiptExporter appends a stored receipt to an external ledger.
	ReceiptExporter interface {
		AppendReceipt(ctx context.Context, r core.Receipt) (rowRef string, err error)
	}

	BudgetStore interface {
		// UpsertBudget replaces the stored budget with b.
		UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		// GetBudget returns the latest budget, or nil when none was saved.
		GetBudget(ctx context.Context) (*core.Budget, error)
	}

	ReceiptStore interface {
		AddReceipt(ctx context.Context, r core.Receipt) (int64, error)
		GetReceipt(ctx context.Context, id int64) (core.Receipt, error)
		// ListReceipts returns receipts newest first; limit <= 0 means all.
		ListReceipts(ctx context.Context, limit int) ([]core.Receipt, error)
		// ListExpensesByCategory sums receipt amounts per category, largest first.
		ListExpensesByCategory(ctx context.Context) ([]core.CategoryTotal, error)
		ListUnexported(ctx context.Context, limit int) ([]core.Receipt, error)
		MarkReceiptExported(ctx context.Context, id int64, at time.Time) error
	}

	// Store is the full persistence surface used by the services.
	Store interface {
		BudgetStore
		ReceiptStore
	}
)
