// Package advisor answers financial questions about the user's budget,
// either with a keyword-driven rule set or through a chat completion model.
package advisor

import (
	"context"
	"errors"

	"smartfinance/internal/core"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNotConfigured = errors.New("advisor provider not configured")
	ErrEmptyQuestion = errors.New("empty question")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BudgetFacts is the part of the budget shared with a provider.
type BudgetFacts struct {
	Income        float64 `json:"income"`
	FixedExpenses float64 `json:"fixedExpenses"`
}

// Context is what a provider knows about the user when answering.
type Context struct {
	Budget             *BudgetFacts         `json:"budget"`
	ExpensesByCategory []core.CategoryTotal `json:"expensesByCategory,omitempty"`
}

// Provider produces the assistant reply for a conversation.
type Provider interface {
	Chat(ctx context.Context, messages []Message, c *Context) (string, error)
}

// NewContext builds a provider context from stored data; b may be nil.
func NewContext(b *core.Budget, byCategory []core.CategoryTotal) *Context {
	c := &Context{ExpensesByCategory: byCategory}
	if b != nil {
		c.Budget = &BudgetFacts{Income: b.Income, FixedExpenses: b.FixedExpenses}
	}
	return c
}

func (c *Context) budget() core.Budget {
	if c == nil || c.Budget == nil {
		return core.Budget{}
	}
	return core.Budget{Income: c.Budget.Income, FixedExpenses: c.Budget.FixedExpenses}
}

// topCategory returns the category with the largest total.
func (c *Context) topCategory() (core.CategoryTotal, bool) {
	if c == nil || len(c.ExpensesByCategory) == 0 {
		return core.CategoryTotal{}, false
	}
	top := c.ExpensesByCategory[0]
	for _, ct := range c.ExpensesByCategory[1:] {
		if ct.Total > top.Total {
			top = ct
		}
	}
	return top, true
}

// lastUserMessage returns the content of the most recent user turn.
func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
