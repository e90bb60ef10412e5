package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"
)

// Reply is the answer to one chat turn. Fallback is set when the configured
// provider failed and the rule-based answer was used instead.
type Reply struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

// Service gathers the user's data and asks the provider.
type Service struct {
	provider Provider
	budgets  ports.BudgetStore
	receipts ports.ReceiptStore
	timeout  time.Duration
}

func NewService(p Provider, budgets ports.BudgetStore, receipts ports.ReceiptStore, timeout time.Duration) *Service {
	if p == nil {
		p = RuleProvider{}
	}
	return &Service{provider: p, budgets: budgets, receipts: receipts, timeout: timeout}
}

// Ask answers the last user message of history.
func (s *Service) Ask(ctx context.Context, history []Message) (Reply, error) {
	if strings.TrimSpace(lastUserMessage(history)) == "" {
		return Reply{}, ErrEmptyQuestion
	}

	c, err := s.gather(ctx)
	if err != nil {
		return Reply{}, err
	}

	askCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		askCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.provider.Chat(askCtx, history, c)
	if err != nil {
		slog.WarnContext(ctx, "Advisor provider failed, using rule-based reply",
			"component", "advisor",
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		text = RuleProvider{}.Answer(history, c)
		return Reply{Reply: text, Fallback: true}, nil
	}
	slog.DebugContext(ctx, "Advisor replied", "component", "advisor", "elapsed_ms", time.Since(start).Milliseconds())
	return Reply{Reply: text}, nil
}

// Context loads the budget and per-category sums concurrently.
func (s *Service) Context(ctx context.Context) (*Context, error) {
	return s.gather(ctx)
}

func (s *Service) gather(ctx context.Context) (*Context, error) {
	var (
		budget *core.Budget
		sums   []core.CategoryTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.budgets.GetBudget(gctx)
		if err != nil {
			return fmt.Errorf("load budget: %w", err)
		}
		budget = b
		return nil
	})
	g.Go(func() error {
		ts, err := s.receipts.ListExpensesByCategory(gctx)
		if err != nil {
			return fmt.Errorf("load category totals: %w", err)
		}
		sums = ts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewContext(budget, sums), nil
}
