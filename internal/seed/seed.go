// Package seed loads demo data into a fresh database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/finadvisor/internal/domain"
	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/service"
)

const (
	DemoEmail    = "demo@finanzas.com"
	DemoPassword = "password123"
	DemoName     = "Usuario Demo"
)

// Services bundles what Demo writes through.
type Services struct {
	Auth         *service.AuthService
	Transactions *service.TransactionService
}

// Result reports the demo user and how many transactions were added.
type Result struct {
	User    domain.User
	Created int
}

type sample struct {
	amount   int64
	desc     string
	category string
	typ      finance.Type
	daysAgo  int
}

var demoTransactions = []sample{
	{2500, "Salario mensual", "Salario", finance.Income, 0},
	{800, "Trabajo freelance", "Freelance", finance.Income, 5},
	{350, "Supermercado", "Alimentación", finance.Expense, 1},
	{150, "Gasolina", "Transporte", finance.Expense, 2},
	{200, "Cena restaurante", "Alimentación", finance.Expense, 3},
	{80, "Netflix", "Entretenimiento", finance.Expense, 4},
	{300, "Gimnasio", "Salud", finance.Expense, 5},
	{1200, "Renta departamento", "Vivienda", finance.Expense, 10},
}

// Demo creates the demo user with a handful of recent transactions. When the
// user already exists with transactions nothing is written and Created is zero;
// an existing demo user without any transactions gets the samples added.
func Demo(ctx context.Context, s Services, now time.Time) (Result, error) {
	u, err := s.Auth.CreateUser(ctx, DemoName, DemoEmail, DemoPassword)
	if errors.Is(err, service.ErrEmailTaken) {
		existing, lookupErr := s.Auth.Users.GetByEmail(ctx, DemoEmail)
		if lookupErr != nil || existing == nil {
			return Result{}, fmt.Errorf("seed: lookup demo user: %w", errors.Join(err, lookupErr))
		}
		n, countErr := s.Transactions.Transactions.Count(ctx, existing.ID)
		if countErr != nil {
			return Result{}, fmt.Errorf("seed: count demo transactions: %w", countErr)
		}
		if n > 0 {
			return Result{User: *existing}, nil
		}
		u, err = *existing, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("seed: create demo user: %w", err)
	}

	res := Result{User: u}
	for _, smp := range demoTransactions {
		_, err := s.Transactions.Create(ctx, u.ID, service.TransactionInput{
			Amount:      decimal.NewFromInt(smp.amount),
			Description: smp.desc,
			Category:    smp.category,
			Type:        smp.typ,
			Date:        finance.Day(now).AddDate(0, 0, -smp.daysAgo),
		})
		if err != nil {
			return res, fmt.Errorf("seed: %s: %w", smp.desc, err)
		}
		res.Created++
	}
	return res, nil
}

var randomExpenses = []struct{ desc, category string }{
	{"Supermercado", "Alimentación"},
	{"Cafetería", "Alimentación"},
	{"Taxi", "Transporte"},
	{"Gasolina", "Transporte"},
	{"Cine", "Entretenimiento"},
	{"Farmacia", "Salud"},
	{"Curso en línea", "Educación"},
	{"Servicios del hogar", "Vivienda"},
}

// Random adds n expenses spread over the last 90 days plus one salary per
// month touched, drawing from rng so runs are reproducible.
func Random(ctx context.Context, txs *service.TransactionService, userID string, n int, rng *rand.Rand, now time.Time) (int, error) {
	created := 0
	months := map[string]bool{}
	for i := 0; i < n; i++ {
		e := randomExpenses[rng.Intn(len(randomExpenses))]
		date := finance.Day(now).AddDate(0, 0, -rng.Intn(90))
		cents := int64(rng.Intn(20000) + 500)
		if _, err := txs.Create(ctx, userID, service.TransactionInput{
			Amount:      finance.FromCents(cents),
			Description: e.desc,
			Category:    e.category,
			Type:        finance.Expense,
			Date:        date,
		}); err != nil {
			return created, fmt.Errorf("seed: random expense: %w", err)
		}
		created++

		month := date.Format("2006-01")
		if months[month] {
			continue
		}
		months[month] = true
		payday := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if _, err := txs.Create(ctx, userID, service.TransactionInput{
			Amount:      decimal.NewFromInt(2500),
			Description: "Salario mensual",
			Category:    "Salario",
			Type:        finance.Income,
			Date:        payday,
		}); err != nil {
			return created, fmt.Errorf("seed: salary: %w", err)
		}
		created++
	}
	return created, nil
}
