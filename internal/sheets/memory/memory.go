package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"
)

// Store keeps budget and receipts in process memory. It backs the memory
// data backend and the service tests.
type Store struct {
	mu       sync.Mutex
	budget   *core.Budget
	budgetID int64
	receipts []core.Receipt
	nextID   int64
	now      func() time.Time
}

var _ ports.Store = (*Store)(nil)

func New() *Store {
	return &Store{now: time.Now}
}

// UpsertBudget replaces the stored budget, like the SQL store does.
func (s *Store) UpsertBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgetID++
	b.ID = s.budgetID
	b.CreatedAt = s.now()
	s.budget = &b
	return b, nil
}

func (s *Store) GetBudget(_ context.Context) (*core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.budget == nil {
		return nil, nil
	}
	b := *s.budget
	return &b, nil
}

func (s *Store) AddReceipt(_ context.Context, r core.Receipt) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.ExportedAt = nil
	s.receipts = append(s.receipts, r)
	return r.ID, nil
}

func (s *Store) GetReceipt(_ context.Context, id int64) (core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.receipts {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Receipt{}, fmt.Errorf("receipt %d: %w", id, ports.ErrNotFound)
}

// ListReceipts returns receipts newest first; ties keep the newest id first.
func (s *Store) ListReceipts(_ context.Context, limit int) ([]core.Receipt, error) {
	s.mu.Lock()
	out := append([]core.Receipt(nil), s.receipts...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListExpensesByCategory(_ context.Context) ([]core.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := map[string]float64{}
	var order []string
	for _, r := range s.receipts {
		if _, ok := sums[r.Category]; !ok {
			order = append(order, r.Category)
		}
		sums[r.Category] += r.Amount
	}
	out := make([]core.CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, core.CategoryTotal{Category: c, Total: sums[c]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func (s *Store) ListUnexported(_ context.Context, limit int) ([]core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Receipt
	for _, r := range s.receipts {
		if r.ExportedAt != nil {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkReceiptExported(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.receipts {
		if s.receipts[i].ID == id {
			t := at
			s.receipts[i].ExportedAt = &t
			return nil
		}
	}
	return fmt.Errorf("receipt %d: %w", id, ports.ErrNotFound)
}
