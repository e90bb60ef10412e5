package services

import (
	"context"
	"errors"
	"testing"

	"smartfinance/internal/core"
	"smartfinance/internal/sheets/memory"
)

func TestBudgetServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(memory.New())

	if _, err := svc.Get(ctx); !errors.Is(err, ErrNoBudget) {
		t.Fatalf("get err = %v, want ErrNoBudget", err)
	}
	if _, err := svc.Recommend(ctx); !errors.Is(err, ErrNoBudget) {
		t.Fatalf("recommend err = %v, want ErrNoBudget", err)
	}

	if _, err := svc.Save(ctx, 3000.004, 1000); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Income != 3000 {
		t.Errorf("income = %v, want 3000", b.Income)
	}

	rec, err := svc.Recommend(ctx)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Save != 400 || rec.Invest != 200 || rec.Variable != 1400 {
		t.Errorf("recommendation = %+v", rec)
	}
}

func TestBudgetServiceSaveInvalid(t *testing.T) {
	svc := NewBudgetService(memory.New())
	if _, err := svc.Save(context.Background(), -10, 0); !errors.Is(err, core.ErrInvalidBudget) {
		t.Fatalf("err = %v, want ErrInvalidBudget", err)
	}
}

func TestBudgetServicePlan(t *testing.T) {
	ctx := context.Background()
	svc := NewBudgetService(memory.New())

	if _, err := svc.Plan(ctx, 1000, 0); !errors.Is(err, ErrNoBudget) {
		t.Fatalf("plan without budget err = %v", err)
	}
	if _, err := svc.Save(ctx, 2000, 1000); err != nil {
		t.Fatalf("save: %v", err)
	}

	plan, err := svc.Plan(ctx, 6000, 12)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.RecommendedSave != 200 || plan.MonthsToGoal != 30 || plan.MonthlyNeeded != 500 || !plan.Viable {
		t.Errorf("plan = %+v", plan)
	}

	for _, tc := range []struct {
		goal   float64
		months int
	}{{0, 1}, {-5, 1}, {100, -1}} {
		if _, err := svc.Plan(ctx, tc.goal, tc.months); err == nil {
			t.Errorf("Plan(%v, %d) expected error", tc.goal, tc.months)
		}
	}
}
