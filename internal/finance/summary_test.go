package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	require.True(t, s.Totals.Income.IsZero())
	require.True(t, s.Totals.Expenses.IsZero())
	require.True(t, s.Totals.Balance.IsZero())
	require.Empty(t, s.ExpensesByCategory)
	require.Empty(t, s.IncomeByCategory)
	require.NotNil(t, s.Groups)
	require.True(t, s.Empty())
}

func TestSummarizeBalanceExact(t *testing.T) {
	t.Parallel()

	var groups []GroupTotal
	for i := 0; i < 1500; i++ {
		groups = append(groups,
			GroupTotal{Type: Income, Category: "Salario", Total: dec("0.10"), Count: 1},
			GroupTotal{Type: Expense, Category: "Alimentación", Total: dec("0.07"), Count: 1},
		)
	}
	s := Summarize(groups)
	require.True(t, s.Totals.Income.Equal(dec("150")), s.Totals.Income.String())
	require.True(t, s.Totals.Expenses.Equal(dec("105")), s.Totals.Expenses.String())
	require.True(t, s.Totals.Balance.Equal(s.Totals.Income.Sub(s.Totals.Expenses)))
	require.Equal(t, "45.00", FormatAmount(s.Totals.Balance))
}

func TestSummarizeByCategory(t *testing.T) {
	t.Parallel()

	s := Summarize([]GroupTotal{
		{Type: Expense, Category: "Food", Total: dec("100"), Count: 2},
		{Type: Expense, Category: "Transport", Total: dec("50"), Count: 1},
		{Type: Income, Category: "Salary", Total: dec("500"), Count: 1},
	})
	require.Len(t, s.ExpensesByCategory, 2)
	require.Len(t, s.IncomeByCategory, 1)
	require.True(t, s.IncomeByCategory["Salary"].Equal(dec("500")))
	require.True(t, s.Totals.Balance.Equal(dec("350")))

	top := s.TopExpenses(3)
	require.Len(t, top, 2)
	require.Equal(t, "Food", top[0].Category)
	require.Equal(t, "Transport", top[1].Category)
}

func TestSortedCategoriesTieBreak(t *testing.T) {
	t.Parallel()

	got := SortedCategories(map[string]decimal.Decimal{
		"Salud":      dec("20"),
		"Educación":  dec("20"),
		"Transporte": dec("30"),
	})
	require.Equal(t, []string{"Transporte", "Educación", "Salud"},
		[]string{got[0].Category, got[1].Category, got[2].Category})
}

func TestGroupTransactionsOrdering(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Amount: dec("10"), Category: "Transporte", Type: Expense, Date: day},
		{Amount: dec("45.5"), Category: "Alimentación", Type: Expense, Date: day},
		{Amount: dec("3000"), Category: "Salario", Type: Income, Date: day},
		{Amount: dec("5"), Category: "Transporte", Type: Expense, Date: day},
	}
	groups := GroupTransactions(txs)
	require.Len(t, groups, 3)
	require.Equal(t, Expense, groups[0].Type)
	require.Equal(t, "Alimentación", groups[0].Category)
	require.Equal(t, "Transporte", groups[1].Category)
	require.Equal(t, 2, groups[1].Count)
	require.True(t, groups[1].Total.Equal(dec("15")))
	require.Equal(t, Income, groups[2].Type)

	s := SummarizeTransactions(txs)
	require.True(t, s.Totals.Balance.Equal(dec("2939.5")))
}
