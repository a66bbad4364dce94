package advisor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/finance"
)

func TestTipsPromptRendersZeroTotals(t *testing.T) {
	t.Parallel()

	p := BuildPrompt(KindTips, nil, finance.Summarize(nil), fixedNow)
	require.Contains(t, p, "- Balance actual: $0.00")
	require.Contains(t, p, "- Ingresos mensuales: $0.00")
	require.Contains(t, p, "- Gastos mensuales: $0.00")
	require.Contains(t, p, "3-5 consejos")
}

func TestAnalysisPrompt(t *testing.T) {
	t.Parallel()

	var txs []finance.Transaction
	base := fixedNow.AddDate(0, 0, -20)
	for i := 0; i < 12; i++ {
		txs = append(txs, finance.Transaction{
			Description: fmt.Sprintf("gasto %02d", i),
			Category:    "Alimentación",
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Type:        finance.Expense,
			Date:        base.AddDate(0, 0, i),
		})
	}
	summary := finance.SummarizeTransactions(txs)
	p := BuildPrompt(KindAnalysis, txs, summary, fixedNow)

	require.Contains(t, p, "- Gastos totales: $78.00")
	require.Contains(t, p, "GASTOS POR CATEGORÍA:\n- Alimentación: $78.00\n")
	require.Contains(t, p, "INGRESOS POR CATEGORÍA:\n- No hay ingresos registrados\n")
	require.Contains(t, p, "gasto 11")
	require.Contains(t, p, "gasto 02")
	require.NotContains(t, p, "gasto 01")
	require.NotContains(t, p, "gasto 00")
	require.Less(t, strings.Index(p, "gasto 11"), strings.Index(p, "gasto 10"))
	require.Contains(t, p, "Alertas si hay gastos excesivos")

	require.Equal(t, p, BuildPrompt(KindAnalysis, txs, summary, fixedNow.Add(5*time.Hour)))
}

func TestRecentKeepsSameDayOrder(t *testing.T) {
	t.Parallel()

	day := fixedNow
	created := fixedNow.Add(-time.Hour)
	txs := []finance.Transaction{
		{ID: "a", Date: day, CreatedAt: created},
		{ID: "b", Date: day, CreatedAt: created.Add(time.Minute)},
		{ID: "c", Date: day.AddDate(0, 0, -1), CreatedAt: created.Add(time.Hour)},
		{ID: "d", Date: day, CreatedAt: created},
	}
	got := Recent(txs, 10)
	var ids []string
	for _, tx := range got {
		ids = append(ids, tx.ID)
	}
	require.Equal(t, []string{"b", "a", "d", "c"}, ids)
}

func TestPredictionPromptWindow(t *testing.T) {
	t.Parallel()

	txs := []finance.Transaction{
		{Category: "Vivienda", Amount: decimal.NewFromInt(800), Type: finance.Expense, Date: fixedNow.AddDate(0, -1, 0)},
		{Category: "Salario", Amount: decimal.NewFromInt(3000), Type: finance.Income, Date: fixedNow.AddDate(0, -2, 0)},
		{Category: "Antiguo", Amount: decimal.NewFromInt(10), Type: finance.Expense, Date: fixedNow.AddDate(0, -4, 0)},
	}
	p := BuildPrompt(KindPrediction, txs, finance.Summary{}, fixedNow)
	require.Contains(t, p, "- 2026-09-16: GASTO - Vivienda: $800.00")
	require.Contains(t, p, "- 2026-08-16: INGRESO - Salario: $3000.00")
	require.NotContains(t, p, "Antiguo")
	require.NotContains(t, p, noHistoryMarker)

	p = BuildPrompt(KindPrediction, txs[2:], finance.Summary{}, fixedNow)
	require.Contains(t, p, noHistoryMarker)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := ParseKind("Prediction")
	require.NoError(t, err)
	require.Equal(t, KindPrediction, k)
	_, err = ParseKind("forecast")
	require.Error(t, err)
}
