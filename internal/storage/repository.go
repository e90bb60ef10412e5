package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a receipt id does not exist.
var ErrNotFound = ports.ErrNotFound

// Fixed-width UTC layout so that created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// UpsertBudget replaces the stored budget in a single transaction.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	b.CreatedAt = r.now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Budget{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget`); err != nil {
		return core.Budget{}, fmt.Errorf("clear budget: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO budget (income, fixed_expenses, created_at) VALUES (?, ?, ?)`,
		b.Income, b.FixedExpenses, b.CreatedAt.Format(timeLayout))
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Budget{}, fmt.Errorf("commit budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved to SQLite",
		"component", "storage",
		"id", b.ID,
		"income", b.Income,
		"fixed_expenses", b.FixedExpenses)
	return b, nil
}

// GetBudget returns the latest budget, or nil when none exists.
func (r *SQLiteRepository) GetBudget(ctx context.Context) (*core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, income, fixed_expenses, created_at FROM budget ORDER BY created_at DESC, id DESC LIMIT 1`)
	var (
		b       core.Budget
		created string
	)
	if err := row.Scan(&b.ID, &b.Income, &b.FixedExpenses, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	var err error
	if b.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *SQLiteRepository) AddReceipt(ctx context.Context, rc core.Receipt) (int64, error) {
	if err := rc.Validate(); err != nil {
		return 0, err
	}
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = r.now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO receipts (title, amount, category, image_uri, created_at) VALUES (?, ?, ?, ?, ?)`,
		rc.Title, rc.Amount, rc.Category, rc.ImageURI, rc.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("insert receipt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("receipt id: %w", err)
	}

	slog.InfoContext(ctx, "Receipt saved to SQLite",
		"component", "storage",
		"id", id,
		"title", rc.Title,
		"amount", rc.Amount,
		"category", rc.Category)
	return id, nil
}

const receiptColumns = `id, title, amount, category, image_uri, created_at, exported_at`

func (r *SQLiteRepository) GetReceipt(ctx context.Context, id int64) (core.Receipt, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = ?`, id)
	rc, err := scanReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Receipt{}, fmt.Errorf("receipt %d: %w", id, ErrNotFound)
	}
	return rc, err
}

func (r *SQLiteRepository) ListReceipts(ctx context.Context, limit int) ([]core.Receipt, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.queryReceipts(ctx,
		`SELECT `+receiptColumns+` FROM receipts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
}

func (r *SQLiteRepository) ListUnexported(ctx context.Context, limit int) ([]core.Receipt, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.queryReceipts(ctx,
		`SELECT `+receiptColumns+` FROM receipts WHERE exported_at IS NULL ORDER BY id LIMIT ?`, limit)
}

func (r *SQLiteRepository) ListExpensesByCategory(ctx context.Context) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount) AS total FROM receipts GROUP BY category ORDER BY total DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("list expenses by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkReceiptExported(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET exported_at = ? WHERE id = ?`, at.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("mark receipt %d exported: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark receipt %d exported: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("receipt %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) queryReceipts(ctx context.Context, query string, args ...any) ([]core.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []core.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(s scanner) (core.Receipt, error) {
	var (
		rc       core.Receipt
		created  string
		exported sql.NullString
	)
	if err := s.Scan(&rc.ID, &rc.Title, &rc.Amount, &rc.Category, &rc.ImageURI, &created, &exported); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Receipt{}, err
		}
		return core.Receipt{}, fmt.Errorf("scan receipt: %w", err)
	}
	var err error
	if rc.CreatedAt, err = parseTime(created); err != nil {
		return core.Receipt{}, err
	}
	if exported.Valid {
		at, err := parseTime(exported.String)
		if err != nil {
			return core.Receipt{}, err
		}
		rc.ExportedAt = &at
	}
	return rc, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
