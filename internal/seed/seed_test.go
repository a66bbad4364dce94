package seed

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/database/repository"
	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/service"
)

var now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (Services, *repository.TransactionRepo) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	require.NoError(t, database.RunMigrations(dbPath, ""))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	txRepo := repository.NewTransactionRepo(db)
	cats := repository.NewCategoryRepo(db)
	require.NoError(t, database.SeedDefaults(context.Background(), cats))
	clock := func() time.Time { return now }
	return Services{
		Auth:         &service.AuthService{Users: repository.NewUserRepo(db), Secret: []byte("test"), Now: clock},
		Transactions: &service.TransactionService{Transactions: txRepo, Categories: cats, Now: clock},
	}, txRepo
}

func TestDemoIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, txRepo := setup(t)

	res, err := Demo(ctx, svc, now)
	require.NoError(t, err)
	require.Equal(t, len(demoTransactions), res.Created)
	require.Equal(t, DemoEmail, res.User.Email)

	again, err := Demo(ctx, svc, now)
	require.NoError(t, err)
	require.Zero(t, again.Created)
	require.Equal(t, res.User.ID, again.User.ID)

	groups, err := txRepo.SummarizeByCategory(ctx, res.User.ID, finance.DefaultWindow(now))
	require.NoError(t, err)
	sum := finance.Summarize(groups)
	require.Equal(t, "3300.00", finance.FormatAmount(sum.Totals.Income))
	require.Equal(t, "2280.00", finance.FormatAmount(sum.Totals.Expenses))
	require.Equal(t, "1020.00", finance.FormatAmount(sum.Totals.Balance))
}

func TestDemoNeedsNoJWTSecret(t *testing.T) {
	ctx := context.Background()
	svc, txRepo := setup(t)
	svc.Auth.Secret = nil

	res, err := Demo(ctx, svc, now)
	require.NoError(t, err)
	require.Equal(t, len(demoTransactions), res.Created)

	count, err := txRepo.Count(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, len(demoTransactions), count)
}

func TestDemoFillsEmptyExistingUser(t *testing.T) {
	ctx := context.Background()
	svc, txRepo := setup(t)

	u, err := svc.Auth.CreateUser(ctx, DemoName, DemoEmail, DemoPassword)
	require.NoError(t, err)

	res, err := Demo(ctx, svc, now)
	require.NoError(t, err)
	require.Equal(t, u.ID, res.User.ID)
	require.Equal(t, len(demoTransactions), res.Created)

	count, err := txRepo.Count(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, len(demoTransactions), count)
}

func TestRandomIsReproducible(t *testing.T) {
	ctx := context.Background()
	svc, txRepo := setup(t)
	res, err := Demo(ctx, svc, now)
	require.NoError(t, err)

	n, err := Random(ctx, svc.Transactions, res.User.ID, 25, rand.New(rand.NewSource(7)), now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 26)

	count, err := txRepo.Count(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, len(demoTransactions)+n, count)
}
