package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/finance"
)

type failingSummaryStore struct {
	TransactionStore
	listErr error
}

func (s failingSummaryStore) SummarizeByCategory(context.Context, string, finance.DateRange) ([]finance.GroupTotal, error) {
	return nil, errors.New("connection refused")
}

func (s failingSummaryStore) List(ctx context.Context, userID string, f finance.Filter) ([]finance.Transaction, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.TransactionStore.List(ctx, userID, f)
}

func addTx(t *testing.T, env testEnv, svc *TransactionService, cat string, typ finance.Type, amount int64, daysAgo int) {
	t.Helper()
	_, err := svc.Create(env.ctx, env.user.ID, TransactionInput{
		Amount:      decimal.NewFromInt(amount),
		Description: cat,
		Category:    cat,
		Type:        typ,
		Date:        testNow.AddDate(0, 0, -daysAgo),
	})
	require.NoError(t, err)
}

func advisoryService(env testEnv, store TransactionStore) *AdvisoryService {
	return &AdvisoryService{
		Transactions: store,
		Generator:    &advisor.Generator{Now: func() time.Time { return testNow }},
		Now:          func() time.Time { return testNow },
	}
}

func TestPredictionNeedsThreeTransactions(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	txSvc := env.transactionService()
	svc := advisoryService(env, env.txs)

	addTx(t, env, txSvc, "Alimentación", finance.Expense, 100, 1)
	addTx(t, env, txSvc, "Transporte", finance.Expense, 50, 2)

	_, err := svc.GetPrediction(env.ctx, env.user.ID)
	require.ErrorIs(t, err, ErrInsufficientData)
	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, 2, insufficient.Have)
	require.Equal(t, 3, insufficient.Need)
	require.Contains(t, err.Error(), "al menos 3 transacciones")

	addTx(t, env, txSvc, "Salario", finance.Income, 500, 3)
	pred, err := svc.GetPrediction(env.ctx, env.user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, pred.HistoricalDataPoints)
	require.Equal(t, advisor.SourceFallback, pred.Source)
	require.NotEmpty(t, pred.Text)
}

func TestAnalysis(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	txSvc := env.transactionService()
	svc := advisoryService(env, env.txs)

	_, err := svc.GetAnalysis(env.ctx, env.user.ID)
	require.ErrorIs(t, err, ErrInsufficientData)
	require.Equal(t, "Necesitas tener transacciones para generar un análisis", err.Error())

	addTx(t, env, txSvc, "Alimentación", finance.Expense, 100, 1)
	addTx(t, env, txSvc, "Transporte", finance.Expense, 50, 2)
	addTx(t, env, txSvc, "Salario", finance.Income, 500, 3)
	addTx(t, env, txSvc, "Vivienda", finance.Expense, 900, 60)

	a, err := svc.GetAnalysis(env.ctx, env.user.ID)
	require.NoError(t, err)
	require.Equal(t, 4, a.TransactionsAnalyzed)
	require.Equal(t, "500.00", finance.FormatAmount(a.Totals.Income))
	require.Equal(t, "150.00", finance.FormatAmount(a.Totals.Expenses))
	require.Equal(t, "350.00", finance.FormatAmount(a.Totals.Balance))
	require.Contains(t, a.Text, "balance positivo de $350.00")
}

func TestSummaryFailureDegradesToZero(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	txSvc := env.transactionService()
	addTx(t, env, txSvc, "Alimentación", finance.Expense, 100, 1)
	addTx(t, env, txSvc, "Transporte", finance.Expense, 50, 1)

	svc := advisoryService(env, failingSummaryStore{TransactionStore: env.txs})
	a, err := svc.GetAnalysis(env.ctx, env.user.ID)
	require.NoError(t, err)
	require.True(t, a.Totals.Balance.IsZero())
	require.Equal(t, 2, a.TransactionsAnalyzed)
	require.Contains(t, a.Text, "- Alimentación: $100.00")

	tips, err := svc.GetTips(env.ctx, env.user.ID)
	require.NoError(t, err)
	require.True(t, tips.BasedOn.Income.IsZero())

	_, err = svc.GetSummary(env.ctx, env.user.ID, finance.DefaultWindow(testNow))
	require.Error(t, err)

	svc = advisoryService(env, failingSummaryStore{TransactionStore: env.txs, listErr: errors.New("db down")})
	_, err = svc.GetAnalysis(env.ctx, env.user.ID)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInsufficientData)
}

func TestTipsWithEmptyHistory(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	svc := advisoryService(env, env.txs)

	tips, err := svc.GetTips(env.ctx, env.user.ID)
	require.NoError(t, err)
	require.True(t, tips.BasedOn.Balance.IsZero())
	require.Equal(t, advisor.SourceFallback, tips.Source)
	require.NotEmpty(t, tips.Text)
}

func TestGetSummarySingleDay(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	txSvc := env.transactionService()
	svc := advisoryService(env, env.txs)

	addTx(t, env, txSvc, "Alimentación", finance.Expense, 100, 1)
	addTx(t, env, txSvc, "Alimentación", finance.Expense, 40, 2)
	addTx(t, env, txSvc, "Salario", finance.Income, 500, 2)
	addTx(t, env, txSvc, "Salud", finance.Expense, 70, 45)

	day := finance.Day(testNow.AddDate(0, 0, -2))
	rep, err := svc.GetSummary(env.ctx, env.user.ID, finance.DateRange{Start: day, End: day})
	require.NoError(t, err)
	require.Len(t, rep.Summary.Groups, 2)
	require.Equal(t, "460.00", finance.FormatAmount(rep.Summary.Totals.Balance))

	rep, err = svc.GetSummary(env.ctx, env.user.ID, finance.DefaultWindow(testNow))
	require.NoError(t, err)
	require.Equal(t, "140.00", finance.FormatAmount(rep.Summary.Totals.Expenses))
}
