package advisor

import (
	"context"
	"strings"
	"testing"

	"smartfinance/internal/core"
)

func TestRuleProviderKeywords(t *testing.T) {
	c := &Context{
		Budget: &BudgetFacts{Income: 3000, FixedExpenses: 1000},
		ExpensesByCategory: []core.CategoryTotal{
			{Category: "Transporte", Total: 40},
			{Category: "Alimentación", Total: 250},
		},
	}
	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{"savings", "¿Cómo puedo AHORRAR más?", []string{"$2000.00", "20% ($400.00)", "fondo de emergencia"}},
		{"invest", "¿Dónde debería invertir?", []string{"10% ($200.00)", "60% acciones"}},
		{"debt", "Tengo un préstamo", []string{"$600.00 extra"}},
		{"debt without accent", "mis deudas", []string{"$600.00 extra"}},
		{"expenses", "¿Cómo reduzco gastos?", []string{"$1000.00", "Alimentación ($250.00)"}},
		{"default", "hola", []string{"Ingresos: $3000.00", "Ahorra 20% ($400.00)", "Invierte 10% ($200.00)", "70% ($1400.00)", "Alimentación"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RuleProvider{}.Chat(context.Background(), []Message{{Role: RoleUser, Content: tt.question}}, c)
			if err != nil {
				t.Fatalf("chat: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("reply missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestRuleProviderUsesLastUserMessage(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "quiero invertir"},
		{Role: RoleAssistant, Content: "claro, ahorra primero"},
		{Role: RoleUser, Content: "y mis deudas?"},
	}
	got, _ := RuleProvider{}.Chat(context.Background(), history, nil)
	if !strings.Contains(got, "deudas") {
		t.Errorf("expected debt reply, got:\n%s", got)
	}
}

func TestRuleProviderWithoutBudget(t *testing.T) {
	got, err := RuleProvider{}.Chat(context.Background(), []Message{{Role: RoleUser, Content: "ahorro"}}, nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(got, "$0.00") {
		t.Errorf("reply = %q", got)
	}
}

func TestSuggestion(t *testing.T) {
	tests := []struct {
		name string
		c    *Context
		want string
	}{
		{"rounded", &Context{Budget: &BudgetFacts{Income: 1000, FixedExpenses: 402.5}}, "ahorra $120 y considera invertir $60"},
		{"negative balance", &Context{Budget: &BudgetFacts{Income: 100, FixedExpenses: 500}}, "ahorra $0 y considera invertir $0"},
		{"no budget", nil, "ahorra $0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggestion(tt.c); !strings.Contains(got, tt.want) {
				t.Errorf("Suggestion = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
