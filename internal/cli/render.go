package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smartfinance/internal/breakdown"
	"smartfinance/internal/core"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Slice colors cycle through the pie list.
var sliceColors = []lipgloss.Color{
	"#3AA99F", "#4385BE", "#8B7EC8", "#CE5D97", "#DA702C", "#D0A215", "#879A39", "#D14D41",
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table. The first column is left aligned,
// the others right aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}
	line := func(cells []string, style lipgloss.Style) {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Render(" " + pad(cell, widths[i], i > 0) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, headerStyle)
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		line(row, valueStyle)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// RenderHorizontalBar renders one labelled bar scaled against maxValue.
func RenderHorizontalBar(label string, labelWidth int, value, maxValue float64, maxWidth int) string {
	barLen := 0
	if maxValue > 0 && value > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	return fmt.Sprintf("  %s %s %s",
		pad(label, labelWidth, false),
		moneyStyle.Render(strings.Repeat("█", barLen)),
		mutedStyle.Render(FormatMoney(value)))
}

// RenderBreakdown renders an import result: total summary, the pie list, the
// top bars and a detail list with percentage bars. Failed runs render their
// notice only.
func RenderBreakdown(title string, res breakdown.Result) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n\n")

	if !res.OK() {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render(res.Notice()))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  %s %s   %s %d\n\n",
		mutedStyle.Render("Total gastado:"), moneyStyle.Render(FormatMoney(res.Total)),
		mutedStyle.Render("Categorías:"), len(res.Entries))

	b.WriteString("  ")
	b.WriteString(headerStyle.Render("Distribución"))
	b.WriteString("\n")
	for i, d := range res.Pie {
		swatch := lipgloss.NewStyle().Foreground(sliceColors[i%len(sliceColors)]).Render("●")
		label, _, _ := strings.Cut(d.Display, "\n")
		pct := 0.0
		if i < len(res.Entries) {
			pct = res.Entries[i].Percentage
		}
		fmt.Fprintf(&b, "  %s %s %s %s\n", swatch, valueStyle.Render(label),
			moneyStyle.Render(FormatMoney(d.Value)), mutedStyle.Render(FormatPercent(pct)))
	}
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Top %d categorías", breakdown.BarLimit)))
	b.WriteString("\n")
	labelWidth, top := 0, 0.0
	for _, d := range res.Bar {
		labelWidth = max(labelWidth, lipgloss.Width(d.Label))
		top = max(top, d.Value)
	}
	for _, d := range res.Bar {
		b.WriteString(RenderHorizontalBar(d.Label, labelWidth, d.Value, top, 30))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		rows = append(rows, []string{e.Category, FormatMoney(e.Amount), FormatPercent(e.Percentage), PercentBar(e.Percentage, 20)})
	}
	b.WriteString(RenderTable(Table{
		Title:   "Detalle",
		Headers: []string{"Categoría", "Monto", "%", ""},
		Rows:    rows,
	}))
	return b.String()
}

// RenderBudget renders the stored budget and its allocation suggestion.
func RenderBudget(b core.Budget, rec core.Recommendation) string {
	var sb strings.Builder
	sb.WriteString(RenderTitle("PRESUPUESTO"))
	sb.WriteString("\n\n")
	sb.WriteString(RenderTable(Table{
		Headers: []string{"Concepto", "Monto"},
		Rows: [][]string{
			{"Ingresos", FormatMoney(b.Income)},
			{"Gastos fijos", FormatMoney(b.FixedExpenses)},
			{"Disponible", FormatMoney(rec.Available)},
		},
	}))
	sb.WriteString("\n")
	sb.WriteString(RenderTable(Table{
		Title:   "Recomendación",
		Headers: []string{"Destino", "Monto"},
		Rows: [][]string{
			{"Ahorro (20%)", FormatMoney(rec.Save)},
			{"Inversión (10%)", FormatMoney(rec.Invest)},
			{"Gastos variables (70%)", FormatMoney(rec.Variable)},
			{"Pago extra de deudas (30%)", FormatMoney(rec.DebtExtra)},
		},
	}))
	if rec.Available < 0 {
		sb.WriteString("  ")
		sb.WriteString(warnStyle.Render("Tus gastos fijos superan tus ingresos."))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderPlan renders a savings goal plan.
func RenderPlan(p core.SavingsPlan) string {
	rows := [][]string{
		{"Meta", FormatMoney(p.Goal)},
		{"Ahorro recomendado / mes", FormatMoney(p.RecommendedSave)},
	}
	if p.MonthsToGoal > 0 {
		rows = append(rows, []string{"Meses al ritmo recomendado", fmt.Sprintf("%d", p.MonthsToGoal)})
	}
	if p.Months > 0 {
		viable := "sí"
		if !p.Viable {
			viable = "no"
		}
		rows = append(rows,
			[]string{fmt.Sprintf("Necesario en %d meses", p.Months), FormatMoney(p.MonthlyNeeded)},
			[]string{"Alcanzable", viable})
	}
	return RenderTable(Table{Title: "Plan de ahorro", Headers: []string{"Concepto", "Valor"}, Rows: rows})
}

// RenderReceipts renders stored receipts, newest first.
func RenderReceipts(list []core.Receipt) string {
	if len(list) == 0 {
		return "  " + mutedStyle.Render("No hay recibos guardados.") + "\n"
	}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		exported := "-"
		if r.ExportedAt != nil {
			exported = r.ExportedAt.Local().Format("2006-01-02")
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Title,
			r.Category,
			FormatMoney(r.Amount),
			exported,
		})
	}
	return RenderTable(Table{
		Title:   "Recibos",
		Headers: []string{"Fecha", "Título", "Categoría", "Monto", "Exportado"},
		Rows:    rows,
	})
}
