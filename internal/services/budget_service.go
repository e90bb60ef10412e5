package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"
)

var (
	ErrNoBudget    = errors.New("no budget saved")
	ErrInvalidGoal = errors.New("goal must be a positive amount")
)

type BudgetService struct {
	store ports.BudgetStore
}

func NewBudgetService(store ports.BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

// Save replaces the stored budget.
func (s *BudgetService) Save(ctx context.Context, income, fixedExpenses float64) (core.Budget, error) {
	b, err := s.store.UpsertBudget(ctx, core.Budget{
		Income:        core.Round2(income),
		FixedExpenses: core.Round2(fixedExpenses),
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return b, nil
}

// Get returns the stored budget or ErrNoBudget.
func (s *BudgetService) Get(ctx context.Context) (core.Budget, error) {
	b, err := s.store.GetBudget(ctx)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load budget: %w", err)
	}
	if b == nil {
		return core.Budget{}, ErrNoBudget
	}
	return *b, nil
}

func (s *BudgetService) Recommend(ctx context.Context) (core.Recommendation, error) {
	b, err := s.Get(ctx)
	if err != nil {
		return core.Recommendation{}, err
	}
	return core.Recommend(b), nil
}

// Plan evaluates a savings goal against the stored budget. months may be
// zero when the user has no deadline.
func (s *BudgetService) Plan(ctx context.Context, goal float64, months int) (core.SavingsPlan, error) {
	if goal <= 0 || math.IsNaN(goal) || math.IsInf(goal, 0) {
		return core.SavingsPlan{}, ErrInvalidGoal
	}
	if months < 0 {
		return core.SavingsPlan{}, fmt.Errorf("months cannot be negative: %w", core.ErrInvalidAmount)
	}
	b, err := s.Get(ctx)
	if err != nil {
		return core.SavingsPlan{}, err
	}
	return core.PlanSavings(goal, months, b.Available()), nil
}
