package advisor

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/finance"
)

func TestFallbackAnalysisTopExpenses(t *testing.T) {
	t.Parallel()

	txs := sampleTxs()
	for _, summary := range []finance.Summary{finance.SummarizeTransactions(txs), {}} {
		text := Fallback(KindAnalysis, txs, summary)
		food := strings.Index(text, "- Food: $100.00")
		transport := strings.Index(text, "- Transport: $50.00")
		require.GreaterOrEqual(t, food, 0, text)
		require.Greater(t, transport, food, text)
		require.NotContains(t, text, "Salary")
		require.Contains(t, text, "Considera crear un fondo de emergencia")
	}
}

func TestFallbackAnalysisBalanceFraming(t *testing.T) {
	t.Parallel()

	txs := sampleTxs()
	text := Fallback(KindAnalysis, txs, finance.SummarizeTransactions(txs))
	require.Contains(t, text, "balance positivo de $350.00")

	negative := finance.Summary{Totals: finance.Totals{Balance: decimal.NewFromInt(-75)}}
	text = Fallback(KindAnalysis, txs, negative)
	require.Contains(t, text, "Tu balance es negativo ($75.00)")
}

func TestFallbackAnalysisTopThreeTieBreak(t *testing.T) {
	t.Parallel()

	day := fixedNow
	var txs []finance.Transaction
	for _, cat := range []string{"Salud", "Educación", "Vivienda", "Alimentación"} {
		txs = append(txs, finance.Transaction{Category: cat, Amount: decimal.NewFromInt(20), Type: finance.Expense, Date: day})
	}
	text := Fallback(KindAnalysis, txs, finance.SummarizeTransactions(txs))
	require.Contains(t, text, "- Alimentación: $20.00\n- Educación: $20.00\n- Salud: $20.00\n")
	require.NotContains(t, text, "Vivienda")
}

func TestFallbackStaticKinds(t *testing.T) {
	t.Parallel()

	require.Equal(t, onboardingText, Fallback(KindAnalysis, nil, finance.Summary{}))
	require.Equal(t, predictionText, Fallback(KindPrediction, sampleTxs(), finance.Summary{}))
	require.Equal(t, tipsText, Fallback(KindTips, nil, finance.Summary{}))
	require.Equal(t, tipsText, Fallback(Kind("unknown"), nil, finance.Summary{}))
}

func TestCategorySectionsFollowSummaryWindow(t *testing.T) {
	t.Parallel()

	recent := sampleTxs()
	old := finance.Transaction{ID: "4", Category: "Viajes", Description: "Vuelo", Amount: decimal.NewFromInt(900), Type: finance.Expense, Date: fixedNow.AddDate(0, -3, 0)}
	txs := append(append([]finance.Transaction{}, recent...), old)
	windowed := finance.SummarizeTransactions(recent)

	text := Fallback(KindAnalysis, txs, windowed)
	require.Contains(t, text, "- Food: $100.00")
	require.NotContains(t, text, "Viajes")
	require.NotContains(t, BuildPrompt(KindAnalysis, txs, windowed, fixedNow), "- Viajes:")

	text = Fallback(KindAnalysis, txs, finance.Summary{})
	require.Contains(t, text, "- Viajes: $900.00")
}
