package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/finance"
)

func TestMatchCategory(t *testing.T) {
	t.Parallel()

	catalog := database.DefaultCategories
	cases := []struct {
		in   string
		typ  finance.Type
		want string
	}{
		{"alimentación", finance.Expense, "Alimentación"},
		{" Alimentacion ", finance.Expense, "Alimentación"},
		{"Transprte", finance.Expense, "Transporte"},
		{"Salarios", finance.Income, "Salario"},
		{"Salarios", finance.Expense, "Salarios"},
		{"Cine", finance.Expense, "Cine"},
		{"Mascotas", finance.Expense, "Mascotas"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MatchCategory(tc.in, tc.typ, catalog), tc.in)
	}
}

func TestTransactionServiceCRUD(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	svc := env.transactionService()

	created, err := svc.Create(env.ctx, env.user.ID, TransactionInput{
		Amount:      decimal.RequireFromString("45.50"),
		Description: "  Supermercado ",
		Category:    "alimentacion",
		Type:        finance.Expense,
	})
	require.NoError(t, err)
	require.Equal(t, "Alimentación", created.Category)
	require.Equal(t, "Supermercado", created.Description)
	require.Equal(t, "2026-10-16", created.Date.Format(finance.DateLayout))

	_, err = svc.Create(env.ctx, env.user.ID, TransactionInput{
		Amount: decimal.Zero, Description: "x", Category: "Salud", Type: finance.Expense,
	})
	require.ErrorIs(t, err, finance.ErrInvalidTransaction)

	amount := decimal.RequireFromString("60")
	cat := "Entretenimiento"
	updated, err := svc.Update(env.ctx, env.user.ID, created.ID, TransactionPatch{Amount: &amount, Category: &cat})
	require.NoError(t, err)
	require.Equal(t, "Supermercado", updated.Description)
	require.True(t, updated.Amount.Equal(amount))

	got, err := svc.Get(env.ctx, env.user.ID, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Entretenimiento", got.Category)

	bad := "transfer"
	typ := finance.Type(bad)
	_, err = svc.Update(env.ctx, env.user.ID, created.ID, TransactionPatch{Type: &typ})
	require.ErrorIs(t, err, finance.ErrInvalidTransaction)

	_, err = svc.Update(env.ctx, env.user.ID, uuid.NewString(), TransactionPatch{Amount: &amount})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(env.ctx, env.user.ID, "not-a-uuid")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(env.ctx, uuid.NewString(), created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(env.ctx, env.user.ID, finance.Filter{Type: finance.Expense})
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = svc.List(env.ctx, env.user.ID, finance.Filter{Type: "other"})
	require.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Delete(env.ctx, env.user.ID, created.ID))
	require.ErrorIs(t, svc.Delete(env.ctx, env.user.ID, created.ID), ErrNotFound)

	cats, err := svc.ListCategories(env.ctx)
	require.NoError(t, err)
	require.Len(t, cats, len(database.DefaultCategories))
}

func TestCreateKeepsExplicitDate(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	svc := env.transactionService()

	day := time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC)
	tx, err := svc.Create(env.ctx, env.user.ID, TransactionInput{
		Amount: decimal.NewFromInt(2500), Description: "Salario mensual", Category: "Salario",
		Type: finance.Income, Date: day,
	})
	require.NoError(t, err)
	require.Equal(t, "2024-01-15", tx.Date.Format(finance.DateLayout))
}

func TestAmountsRoundToCents(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	svc := env.transactionService()

	_, err := svc.Create(env.ctx, env.user.ID, TransactionInput{
		Amount: decimal.RequireFromString("0.004"), Description: "Chicle", Category: "Alimentación", Type: finance.Expense,
	})
	require.ErrorIs(t, err, finance.ErrInvalidTransaction)

	created, err := svc.Create(env.ctx, env.user.ID, TransactionInput{
		Amount: decimal.RequireFromString("10.005"), Description: "Café", Category: "Alimentación", Type: finance.Expense,
	})
	require.NoError(t, err)
	require.Equal(t, "10.01", created.Amount.StringFixed(2))

	got, err := svc.Get(env.ctx, env.user.ID, created.ID)
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(created.Amount), "%s != %s", got.Amount, created.Amount)

	tiny := decimal.RequireFromString("0.001")
	_, err = svc.Update(env.ctx, env.user.ID, created.ID, TransactionPatch{Amount: &tiny})
	require.ErrorIs(t, err, finance.ErrInvalidTransaction)

	odd := decimal.RequireFromString("7.499")
	updated, err := svc.Update(env.ctx, env.user.ID, created.ID, TransactionPatch{Amount: &odd})
	require.NoError(t, err)
	require.True(t, updated.Amount.Equal(decimal.RequireFromString("7.50")))
}
