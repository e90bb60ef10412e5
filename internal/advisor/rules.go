package advisor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"smartfinance/internal/core"
)

// RuleProvider answers from fixed keyword rules and the budget split. It
// needs no network access and is also the fallback when a model fails.
type RuleProvider struct{}

var _ Provider = RuleProvider{}

type rule struct {
	keywords []string
	reply    func(rec core.Recommendation, c *Context) string
}

var rules = []rule{
	{[]string{"ahorr"}, savingsReply},
	{[]string{"inver"}, investReply},
	{[]string{"deud", "préstam", "prestam"}, debtReply},
	{[]string{"gasto", "reducir"}, expensesReply},
}

func (p RuleProvider) Chat(_ context.Context, messages []Message, c *Context) (string, error) {
	return p.Answer(messages, c), nil
}

// Answer picks the first rule matching the last user message, or the budget
// summary when none does. It never returns an empty reply.
func (RuleProvider) Answer(messages []Message, c *Context) string {
	question := strings.ToLower(lastUserMessage(messages))
	rec := core.Recommend(c.budget())
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(question, k) {
				return r.reply(rec, c)
			}
		}
	}
	return summaryReply(rec, c)
}

func savingsReply(rec core.Recommendation, _ *Context) string {
	return fmt.Sprintf("Basado en tu presupuesto disponible de $%.2f, te recomiendo:\n\n"+
		"1. Ahorra el 20%% ($%.2f) automáticamente cada mes\n"+
		"2. Crea un fondo de emergencia de 3-6 meses de gastos\n"+
		"3. Considera abrir una cuenta de ahorros de alto rendimiento\n\n"+
		"¿Quieres saber más sobre algún punto específico?",
		rec.Available, rec.Save)
}

func investReply(rec core.Recommendation, _ *Context) string {
	return fmt.Sprintf("Para inversión con tu presupuesto:\n\n"+
		"1. Destina el 10%% ($%.2f) para inversiones\n"+
		"2. Considera fondos indexados para comenzar (bajo riesgo)\n"+
		"3. Diversifica: 60%% acciones, 30%% bonos, 10%% efectivo\n"+
		"4. Piensa a largo plazo (5+ años)\n\n"+
		"Recuerda: primero asegura tu fondo de emergencia antes de invertir.",
		rec.Invest)
}

func debtReply(rec core.Recommendation, _ *Context) string {
	return fmt.Sprintf("Estrategia para manejar deudas:\n\n"+
		"1. Lista todas tus deudas con sus tasas de interés\n"+
		"2. Prioriza pagar las de mayor interés primero\n"+
		"3. Mantén pagos mínimos en todas, pero extra en la prioritaria\n"+
		"4. Considera consolidar si las tasas son muy altas\n\n"+
		"Con $%.2f disponible, podrías destinar $%.2f extra a pagar deudas.",
		rec.Available, rec.DebtExtra)
}

func expensesReply(rec core.Recommendation, c *Context) string {
	var b strings.Builder
	b.WriteString("Tips para reducir gastos:\n\n" +
		"1. Revisa suscripciones que no uses\n" +
		"2. Compara precios antes de comprar\n" +
		"3. Cocina en casa (ahorra hasta 40%)\n" +
		"4. Usa transporte público cuando sea posible\n" +
		"5. Aplica la regla de 24 horas para compras no esenciales\n\n")
	fmt.Fprintf(&b, "Tus gastos fijos son $%.2f. ¿Hay alguno que puedas negociar o eliminar?", rec.FixedExpenses)
	if top, ok := c.topCategory(); ok {
		fmt.Fprintf(&b, "\n\nTu categoría con más gasto es %s ($%.2f).", top.Category, top.Total)
	}
	return b.String()
}

func summaryReply(rec core.Recommendation, c *Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Con tu presupuesto actual:\n\n"+
		"Ingresos: $%.2f\nGastos fijos: $%.2f\nDisponible: $%.2f\n\n"+
		"Te recomiendo:\n"+
		"1. Ahorra 20%% ($%.2f)\n"+
		"2. Invierte 10%% ($%.2f)\n"+
		"3. Gastos variables 70%% ($%.2f)\n\n"+
		"¿Quieres consejos específicos sobre ahorro, inversión o reducción de gastos?",
		rec.Income, rec.FixedExpenses, rec.Available, rec.Save, rec.Invest, rec.Variable)
	if top, ok := c.topCategory(); ok {
		fmt.Fprintf(&b, "\n\nPrioriza reducir gastos en %s, tu categoría más alta.", top.Category)
	}
	return b.String()
}

// Suggestion is the one-line advice shown when no conversation is needed:
// whole-dollar amounts to save and invest from what is available.
func Suggestion(c *Context) string {
	net := c.budget().Available()
	save := math.Max(0, math.Round(net*0.2))
	invest := math.Max(0, math.Round(net*0.1))
	return fmt.Sprintf("Sugerencia: ahorra $%.0f y considera invertir $%.0f. Prioriza reducir gastos en la categoría más alta.", save, invest)
}
