package core

import (
	"github.com/shopspring/decimal"
)

// Allocation shares of the available money.
var (
	SaveShare     = decimal.RequireFromString("0.20")
	InvestShare   = decimal.RequireFromString("0.10")
	VariableShare = decimal.RequireFromString("0.70")
	DebtShare     = decimal.RequireFromString("0.30")
)

// Recommendation splits the available money into suggested buckets.
type Recommendation struct {
	Income        float64 `json:"income"`
	FixedExpenses float64 `json:"fixedExpenses"`
	Available     float64 `json:"available"`
	Save          float64 `json:"save"`
	Invest        float64 `json:"invest"`
	Variable      float64 `json:"variable"`
	DebtExtra     float64 `json:"debtExtra"`
}

// Recommend computes the 20/10/70 split (plus the 30% debt suggestion).
// Save and invest never go below zero, even with a negative balance.
func Recommend(b Budget) Recommendation {
	avail := decimal.NewFromFloat(b.Available())
	return Recommendation{
		Income:        b.Income,
		FixedExpenses: b.FixedExpenses,
		Available:     avail.Round(2).InexactFloat64(),
		Save:          nonNegative(avail.Mul(SaveShare)),
		Invest:        nonNegative(avail.Mul(InvestShare)),
		Variable:      avail.Mul(VariableShare).Round(2).InexactFloat64(),
		DebtExtra:     avail.Mul(DebtShare).Round(2).InexactFloat64(),
	}
}

// SavingsPlan answers the two goal questions: how long at the recommended
// rate, and how much per month for a chosen deadline.
type SavingsPlan struct {
	Goal            float64 `json:"goal"`
	Months          int     `json:"months"`
	RecommendedSave float64 `json:"recommendedSave"`
	MonthsToGoal    int     `json:"monthsToGoal"`
	MonthlyNeeded   float64 `json:"monthlyNeeded"`
	Viable          bool    `json:"viable"`
}

// PlanSavings amortizes goal linearly. MonthsToGoal is 0 when the goal or the
// recommended saving is not positive; MonthlyNeeded is 0 when the goal or
// months is not positive.
func PlanSavings(goal float64, months int, available float64) SavingsPlan {
	g := decimal.NewFromFloat(goal)
	save := decimal.NewFromFloat(available).Mul(SaveShare)

	plan := SavingsPlan{
		Goal:            goal,
		Months:          months,
		RecommendedSave: save.Round(2).InexactFloat64(),
	}
	if g.IsPositive() && save.IsPositive() {
		plan.MonthsToGoal = int(g.Div(save).Ceil().IntPart())
	}
	if g.IsPositive() && months > 0 {
		plan.MonthlyNeeded = g.Div(decimal.NewFromInt(int64(months))).Round(2).InexactFloat64()
	}
	plan.Viable = plan.MonthlyNeeded <= available
	return plan
}

func nonNegative(d decimal.Decimal) float64 {
	if d.IsNegative() {
		return 0
	}
	return d.Round(2).InexactFloat64()
}
