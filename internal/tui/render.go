package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/finance"
)

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle    = lipgloss.NewStyle().Faint(true)
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1)
	activeTab     = tabStyle.Bold(true).Reverse(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	fallbackStyle = lipgloss.NewStyle().Italic(true).Faint(true)
)

const barWidth = 20

// RenderSummary draws totals and per-category bars for one date range.
func RenderSummary(rng finance.DateRange, s finance.Summary, currency string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Resumen " + rng.String()))
	b.WriteString("\n")

	balance := incomeStyle
	if !s.Totals.Balance.IsPositive() {
		balance = expenseStyle
	}
	totals := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(labelStyle.Render("Ingresos")+"\n"+incomeStyle.Render(currency+finance.FormatAmount(s.Totals.Income))),
		boxStyle.Render(labelStyle.Render("Gastos")+"\n"+expenseStyle.Render(currency+finance.FormatAmount(s.Totals.Expenses))),
		boxStyle.Render(labelStyle.Render("Balance")+"\n"+balance.Render(currency+finance.FormatAmount(s.Totals.Balance))),
	)
	b.WriteString(totals)
	b.WriteString("\n")

	writeSection(&b, "Gastos por categoría", finance.SortedCategories(s.ExpensesByCategory), currency, expenseStyle)
	writeSection(&b, "Ingresos por categoría", finance.SortedCategories(s.IncomeByCategory), currency, incomeStyle)
	return b.String()
}

func writeSection(b *strings.Builder, title string, rows []finance.CategoryAmount, currency string, style lipgloss.Style) {
	b.WriteString("\n" + labelStyle.Render(title) + "\n")
	if len(rows) == 0 {
		b.WriteString("  (sin movimientos)\n")
		return
	}
	top := rows[0].Amount
	for _, r := range rows {
		width := 0
		if top.IsPositive() {
			width = int(r.Amount.Mul(decimal.NewFromInt(barWidth)).Div(top).IntPart())
		}
		if width < 1 {
			width = 1
		}
		fmt.Fprintf(b, "  %-18s %12s %s\n", r.Category, currency+finance.FormatAmount(r.Amount), style.Render(strings.Repeat("█", width)))
	}
}

// RenderAdvice draws generated or fallback advisory text under a heading.
func RenderAdvice(title string, res advisor.Result) string {
	out := titleStyle.Render(title) + "\n\n" + strings.TrimSpace(res.Text) + "\n"
	if res.Source == advisor.SourceFallback {
		out += "\n" + fallbackStyle.Render("(respuesta local: servicio de IA no disponible)") + "\n"
	}
	return out
}

func renderTabs(labels []string, active int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			parts[i] = activeTab.Render(l)
		} else {
			parts[i] = tabStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
