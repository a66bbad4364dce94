package advisor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/finadvisor/internal/finance"
)

const (
	recentLimit       = 10
	predictionMonths  = 3
	noHistoryMarker   = "No hay transacciones históricas suficientes para análisis"
	noExpensesMarker  = "- No hay gastos registrados"
	noIncomeMarker    = "- No hay ingresos registrados"
	noRecentTxsMarker = "- No hay transacciones recientes"
)

// BuildPrompt renders the user prompt for kind. now only bounds the prediction window.
func BuildPrompt(kind Kind, txs []finance.Transaction, summary finance.Summary, now time.Time) string {
	switch kind {
	case KindAnalysis:
		return analysisPrompt(txs, summary)
	case KindPrediction:
		return predictionPrompt(txs, now)
	default:
		return tipsPrompt(summary)
	}
}

func analysisPrompt(txs []finance.Transaction, summary finance.Summary) string {
	expenses, income := categoryMaps(txs, summary)
	t := summary.Totals

	var b strings.Builder
	b.WriteString("Analiza los siguientes datos financieros y proporciona recomendaciones específicas:\n\n")
	b.WriteString("RESUMEN FINANCIERO:\n")
	fmt.Fprintf(&b, "- Ingresos totales: $%s\n", finance.FormatAmount(t.Income))
	fmt.Fprintf(&b, "- Gastos totales: $%s\n", finance.FormatAmount(t.Expenses))
	fmt.Fprintf(&b, "- Balance: $%s\n\n", finance.FormatAmount(t.Balance))

	b.WriteString("GASTOS POR CATEGORÍA:\n")
	writeCategories(&b, expenses, noExpensesMarker)
	b.WriteString("\nINGRESOS POR CATEGORÍA:\n")
	writeCategories(&b, income, noIncomeMarker)

	fmt.Fprintf(&b, "\nÚLTIMAS TRANSACCIONES (máximo %d):\n", recentLimit)
	recent := Recent(txs, recentLimit)
	if len(recent) == 0 {
		b.WriteString(noRecentTxsMarker + "\n")
	}
	for _, tx := range recent {
		fmt.Fprintf(&b, "- %s: %s - $%s (%s)\n",
			tx.Date.Format(finance.DateLayout), tx.Description, finance.FormatAmount(tx.Amount), tx.Category)
	}

	b.WriteString("\nPor favor analiza:\n")
	b.WriteString("1. Patrones de gasto problemáticos\n")
	b.WriteString("2. Oportunidades de ahorro\n")
	b.WriteString("3. Recomendaciones específicas para mejorar\n")
	b.WriteString("4. Alertas si hay gastos excesivos en alguna categoría\n\n")
	b.WriteString("Responde en español de manera clara y práctica.\n")
	return b.String()
}

func predictionPrompt(txs []finance.Transaction, now time.Time) string {
	cutoff := finance.Day(now).AddDate(0, -predictionMonths, 0)
	var history []finance.Transaction
	for _, tx := range txs {
		if !finance.Day(tx.Date).Before(cutoff) {
			history = append(history, tx)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Basándote en estos datos históricos de los últimos %d meses, predice los gastos probables para el próximo mes:\n\n", predictionMonths)
	fmt.Fprintf(&b, "TRANSACCIONES HISTÓRICAS (últimos %d meses):\n", predictionMonths)
	if len(history) == 0 {
		b.WriteString(noHistoryMarker + "\n")
	}
	for _, tx := range history {
		label := "INGRESO"
		if tx.Type == finance.Expense {
			label = "GASTO"
		}
		fmt.Fprintf(&b, "- %s: %s - %s: $%s\n",
			tx.Date.Format(finance.DateLayout), label, tx.Category, finance.FormatAmount(tx.Amount))
	}

	b.WriteString("\nProporciona:\n")
	b.WriteString("1. Estimación de gastos totales para el próximo mes\n")
	b.WriteString("2. Categorías que probablemente tendrán mayor gasto\n")
	b.WriteString("3. Recomendaciones para prepararse financieramente\n\n")
	b.WriteString("Responde en español de manera concisa.\n")
	return b.String()
}

func tipsPrompt(summary finance.Summary) string {
	t := summary.Totals
	var b strings.Builder
	b.WriteString("Basándote en esta situación financiera:\n")
	fmt.Fprintf(&b, "- Balance actual: $%s\n", finance.FormatAmount(t.Balance))
	fmt.Fprintf(&b, "- Ingresos mensuales: $%s\n", finance.FormatAmount(t.Income))
	fmt.Fprintf(&b, "- Gastos mensuales: $%s\n\n", finance.FormatAmount(t.Expenses))
	b.WriteString("Proporciona 3-5 consejos financieros prácticos y específicos para mejorar esta situación.\n")
	b.WriteString("Enfócate en acciones concretas que pueda implementar inmediatamente.\n\n")
	b.WriteString("Responde en español de manera clara y directa.\n")
	return b.String()
}

func writeCategories(b *strings.Builder, m map[string]decimal.Decimal, empty string) {
	sorted := finance.SortedCategories(m)
	if len(sorted) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for _, c := range sorted {
		fmt.Fprintf(b, "- %s: $%s\n", c.Category, finance.FormatAmount(c.Amount))
	}
}

// categoryMaps prefers the summary breakdown. A summary built from no rows while
// transactions exist (for example after a degraded summary fetch) is rebuilt from
// the transactions so the category sections stay populated.
func categoryMaps(txs []finance.Transaction, summary finance.Summary) (expenses, income map[string]decimal.Decimal) {
	if summary.Empty() && len(txs) > 0 {
		derived := finance.SummarizeTransactions(txs)
		return derived.ExpensesByCategory, derived.IncomeByCategory
	}
	return summary.ExpensesByCategory, summary.IncomeByCategory
}

// Recent returns up to n transactions, newest date first. Same-day transactions
// keep their creation order, newest first, then input order.
func Recent(txs []finance.Transaction, n int) []finance.Transaction {
	out := make([]finance.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := finance.Day(out[i].Date), finance.Day(out[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
