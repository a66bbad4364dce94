package pgstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/domain"
	"github.com/jask/finadvisor/internal/finance"
)

// Set FINADVISOR_TEST_PG_URL to a disposable database to run these tests.
func testPool(t *testing.T) (context.Context, *TransactionRepo, *UserRepo, *CategoryRepo) {
	t.Helper()
	url := os.Getenv("FINADVISOR_TEST_PG_URL")
	if url == "" {
		t.Skip("FINADVISOR_TEST_PG_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	t.Cleanup(cancel)

	require.NoError(t, database.RunPostgresMigrations(url, ""))
	pool, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return ctx, NewTransactionRepo(pool), NewUserRepo(pool), NewCategoryRepo(pool)
}

func TestPostgresStores(t *testing.T) {
	ctx, txs, users, cats := testPool(t)

	u := domain.User{ID: uuid.NewString(), Name: "Demo", Email: uuid.NewString() + "@example.com", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	require.NoError(t, users.Create(ctx, u))
	require.ErrorIs(t, users.Create(ctx, domain.User{ID: uuid.NewString(), Name: "Dup", Email: u.Email, PasswordHash: "x", CreatedAt: u.CreatedAt}), domain.ErrEmailTaken)

	got, err := users.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	day := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	for i, amount := range []string{"10.10", "20.20"} {
		require.NoError(t, txs.Insert(ctx, finance.Transaction{
			ID: uuid.NewString(), UserID: u.ID, Amount: decimal.RequireFromString(amount),
			Description: "gasto", Category: "Alimentación", Type: finance.Expense,
			Date: day, CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}
	list, err := txs.List(ctx, u.ID, finance.Filter{Start: day, End: day})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "20.20", finance.FormatAmount(list[0].Amount))

	groups, err := txs.SummarizeByCategory(ctx, u.ID, finance.DateRange{Start: day, End: day})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, 2, groups[0].Count)
	require.Equal(t, "30.30", finance.FormatAmount(groups[0].Total))

	n, err := txs.Count(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	ok, err := txs.Delete(ctx, u.ID, list[0].ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, database.SeedDefaults(ctx, cats))
	all, err := cats.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, all)
}
