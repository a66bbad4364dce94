package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/finance"
)

func TestImportCSV(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	svc := &ImportService{Transactions: env.transactionService()}

	data := strings.Join([]string{
		"date,amount,description,category,type",
		"2026-10-01,-45.67,Supermercado,alimentacion,",
		"2026-10-02,2500,Salario mensual,Salario,income",
		"2026-10-03,80,Netflix,Entretenimiento,expense",
		"2026-10-04,0,Nada,Salud,",
		"bad-date,10,x,Salud,expense",
		"2026-10-05,abc,x,Salud,expense",
		"2026-10-06,10,x",
	}, "\n")

	res, err := svc.ImportCSV(env.ctx, env.user.ID, strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 3, res.Imported)
	require.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 3)

	txs, err := env.txs.List(env.ctx, env.user.ID, finance.Filter{Type: finance.Expense})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "Entretenimiento", txs[0].Category)
	require.Equal(t, "Alimentación", txs[1].Category)
	require.Equal(t, "45.67", finance.FormatAmount(txs[1].Amount))
}
