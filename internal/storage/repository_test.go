package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"smartfinance/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestBudgetUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	b, err := repo.GetBudget(ctx)
	if err != nil || b != nil {
		t.Fatalf("expected empty budget, got %+v err=%v", b, err)
	}

	if _, err := repo.UpsertBudget(ctx, core.Budget{Income: 1000, FixedExpenses: 300}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	saved, err := repo.UpsertBudget(ctx, core.Budget{Income: 1500, FixedExpenses: 500})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budget`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("budget rows = %d, want 1", count)
	}

	b, err = repo.GetBudget(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.ID != saved.ID || b.Income != 1500 || b.FixedExpenses != 500 || b.Available() != 1000 {
		t.Errorf("budget = %+v", b)
	}
	if !b.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("created_at = %v, want %v", b.CreatedAt, saved.CreatedAt)
	}
}

func TestBudgetUpsertValidates(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.UpsertBudget(context.Background(), core.Budget{Income: -5}); !errors.Is(err, core.ErrInvalidBudget) {
		t.Fatalf("err = %v, want ErrInvalidBudget", err)
	}
}

func TestReceiptsLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	seed := []core.Receipt{
		{Title: "Uber", Amount: 12.3, Category: "Transporte", CreatedAt: base},
		{Title: "Supermercado", Amount: 80, Category: "Alimentación", ImageURI: "file:///r.jpg", CreatedAt: base.Add(time.Hour)},
		{Title: "Bus", Amount: 2.7, Category: "Transporte", CreatedAt: base.Add(2 * time.Hour)},
	}
	var ids []int64
	for _, rc := range seed {
		id, err := repo.AddReceipt(ctx, rc)
		if err != nil {
			t.Fatalf("add %s: %v", rc.Title, err)
		}
		ids = append(ids, id)
	}

	list, err := repo.ListReceipts(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Title != "Bus" || list[2].Title != "Uber" {
		t.Fatalf("unexpected order: %+v", list)
	}
	if list[1].ImageURI != "file:///r.jpg" || !list[1].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("receipt fields not round-tripped: %+v", list[1])
	}

	limited, _ := repo.ListReceipts(ctx, 1)
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d", len(limited))
	}

	sums, err := repo.ListExpensesByCategory(ctx)
	if err != nil {
		t.Fatalf("sums: %v", err)
	}
	if len(sums) != 2 || sums[0].Category != "Alimentación" || sums[0].Total != 80 {
		t.Fatalf("sums = %+v", sums)
	}
	if d := sums[1].Total - 15; d > 1e-9 || d < -1e-9 {
		t.Errorf("Transporte total = %v, want 15", sums[1].Total)
	}

	if err := repo.MarkReceiptExported(ctx, ids[0], base); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, err := repo.ListUnexported(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != ids[1] {
		t.Fatalf("pending = %+v", pending)
	}

	got, err := repo.GetReceipt(ctx, ids[0])
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ExportedAt == nil || !got.ExportedAt.Equal(base) {
		t.Errorf("exported_at = %v", got.ExportedAt)
	}
}

func TestReceiptNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.GetReceipt(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err = %v, want ErrNotFound", err)
	}
	if err := repo.MarkReceiptExported(ctx, 404, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("mark err = %v, want ErrNotFound", err)
	}
}

func TestAddReceiptValidates(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.AddReceipt(context.Background(), core.Receipt{Title: " ", Amount: 1, Category: "x"}); !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	for i := 0; i < 2; i++ {
		if err := RunMigrations(path); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}
