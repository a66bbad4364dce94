package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/database/repository"
	"github.com/jask/finadvisor/internal/domain"
	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/service"
)

var testNow = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

const userID = "0b8f5f0e-3b7a-4c1e-9d55-5c0f3c2c7a11"

func newTestApp(t *testing.T) (*App, *service.TransactionService) {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tui.db")
	require.NoError(t, database.RunMigrations(dbPath, ""))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repository.NewUserRepo(db).Create(ctx, domain.User{
		ID: userID, Name: "Ana", Email: "ana@example.com", PasswordHash: "x", CreatedAt: testNow,
	}))
	clock := func() time.Time { return testNow }
	txRepo := repository.NewTransactionRepo(db)
	txSvc := &service.TransactionService{Transactions: txRepo, Categories: repository.NewCategoryRepo(db), Now: clock}
	app := New(ctx, Services{
		Transactions: txSvc,
		Advisory:     &service.AdvisoryService{Transactions: txRepo, Generator: &advisor.Generator{}, Now: clock},
		Importer:     &service.ImportService{Transactions: txSvc},
	}, Options{UserID: userID, UserName: "Ana", Now: clock})
	return app, txSvc
}

func addTx(t *testing.T, svc *service.TransactionService, amount int64, desc, cat string, typ finance.Type, daysAgo int) {
	t.Helper()
	_, err := svc.Create(context.Background(), userID, service.TransactionInput{
		Amount: decimal.NewFromInt(amount), Description: desc, Category: cat, Type: typ,
		Date: testNow.AddDate(0, 0, -daysAgo),
	})
	require.NoError(t, err)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDashboardShowsSummary(t *testing.T) {
	app, svc := newTestApp(t)
	addTx(t, svc, 2500, "Salario mensual", "Salario", finance.Income, 1)
	addTx(t, svc, 350, "Supermercado", "Alimentación", finance.Expense, 2)

	require.Contains(t, app.View(), "cargando resumen")
	app.Update(app.loadSummary()())
	app.Update(app.loadTransactions()())

	view := app.View()
	require.Contains(t, view, "Finanzas de Ana")
	require.Contains(t, view, "$2150.00")
	require.Contains(t, view, "Alimentación")
	require.Contains(t, view, "Transacciones registradas: 2")
}

func TestAdviceTabs(t *testing.T) {
	app, svc := newTestApp(t)

	app.Update(app.loadAdvice(advisor.KindAnalysis)())
	app.Update(key("1"))
	require.Equal(t, viewAdvice, app.state)
	require.Contains(t, app.View(), "Necesitas tener transacciones")

	addTx(t, svc, 80, "Netflix", "Entretenimiento", finance.Expense, 3)
	app.Update(app.loadAdvice(advisor.KindAnalysis)())
	view := app.View()
	require.Contains(t, view, "Análisis de tus Finanzas")
	require.Contains(t, view, "respuesta local")

	app.loading[advisor.KindPrediction] = true
	app.Update(key("tab"))
	require.Equal(t, 1, app.adviceTab)
	require.Contains(t, app.View(), "generando...")

	app.Update(key("3"))
	app.Update(app.loadAdvice(advisor.KindTips)())
	require.Contains(t, app.View(), "Consejos Financieros")
}

func TestDeleteFromTransactions(t *testing.T) {
	app, svc := newTestApp(t)
	addTx(t, svc, 80, "Netflix", "Entretenimiento", finance.Expense, 3)
	app.Update(app.loadTransactions()())

	app.Update(key("t"))
	app.Update(key("x"))
	require.Equal(t, modalConfirmDelete, app.modal)
	require.Contains(t, app.View(), "Netflix")

	_, cmd := app.Update(key("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.Equal(t, changedMsg("transacción eliminada"), msg)

	list, err := svc.List(context.Background(), userID, finance.Filter{})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestImportView(t *testing.T) {
	app, svc := newTestApp(t)
	csvPath := filepath.Join(t.TempDir(), "movs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("date,amount,description,category\n2026-10-10,-45.50,Taxi,Transporte\n2026-10-11,1200,Proyecto,Freelance\n"), 0o600))

	app.Update(key("i"))
	for _, r := range csvPath {
		app.Update(key(string(r)))
	}
	_, cmd := app.Update(key("enter"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, viewTransactions, app.state)
	require.True(t, strings.HasPrefix(app.status, "importadas 2"))

	list, err := svc.List(context.Background(), userID, finance.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestSaveAPIKeyModal(t *testing.T) {
	app, _ := newTestApp(t)
	var saved string
	app.services.SaveAPIKey = func(k string) error { saved = k; return nil }

	app.Update(key("e"))
	require.Equal(t, modalEditAPIKey, app.modal)
	app.Update(key("gsk_123"))
	require.Contains(t, app.View(), "*******")
	_, cmd := app.Update(key("enter"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, "gsk_123", saved)
	require.Contains(t, app.status, "clave guardada")
}

func TestQuit(t *testing.T) {
	app, _ := newTestApp(t)
	_, cmd := app.Update(key("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}
