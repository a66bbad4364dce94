package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/database/repository"
	"github.com/jask/finadvisor/internal/domain"
)

var testNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	ctx   context.Context
	db    *sql.DB
	txs   *repository.TransactionRepo
	users *repository.UserRepo
	cats  *repository.CategoryRepo
	user  domain.User
}

func setupServiceTest(t *testing.T) testEnv {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := testEnv{
		ctx:   ctx,
		db:    db,
		txs:   repository.NewTransactionRepo(db),
		users: repository.NewUserRepo(db),
		cats:  repository.NewCategoryRepo(db),
	}
	require.NoError(t, database.SeedDefaults(ctx, env.cats))
	env.user = domain.User{ID: "6f1c7a52-9a8e-4f3e-9f43-0d3c1b2a9e10", Name: "Demo", Email: "demo@finanzas.com", PasswordHash: "x", CreatedAt: testNow}
	require.NoError(t, env.users.Create(ctx, env.user))
	return env
}

func (e testEnv) transactionService() *TransactionService {
	return &TransactionService{Transactions: e.txs, Categories: e.cats, Now: func() time.Time { return testNow }}
}
