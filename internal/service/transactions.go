package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jask/finadvisor/internal/database"
	"github.com/jask/finadvisor/internal/finance"
)

// TransactionService validates and stores a user's transactions.
type TransactionService struct {
	Transactions TransactionStore
	Categories   CategoryStore
	Now          func() time.Time
}

// TransactionInput is a new transaction. A zero Date means today. Amounts are
// rounded to cents before validation.
type TransactionInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
	Type        finance.Type
	Date        time.Time
}

// TransactionPatch holds the fields to change; nil fields are kept.
type TransactionPatch struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Type        *finance.Type
	Date        *time.Time
}

func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (finance.Transaction, error) {
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	t := finance.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      in.Amount.Round(2),
		Description: strings.TrimSpace(in.Description),
		Category:    s.normalizeCategory(ctx, in.Category, in.Type),
		Type:        in.Type,
		Date:        finance.Day(date),
		CreatedAt:   database.Now(),
	}
	if err := t.Validate(); err != nil {
		return finance.Transaction{}, err
	}
	if err := s.Transactions.Insert(ctx, t); err != nil {
		return finance.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (s *TransactionService) List(ctx context.Context, userID string, f finance.Filter) ([]finance.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, invalidInput("type must be income or expense")
	}
	txs, err := s.Transactions.List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (finance.Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return finance.Transaction{}, ErrNotFound
	}
	t, err := s.Transactions.Get(ctx, userID, id)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if t == nil {
		return finance.Transaction{}, ErrNotFound
	}
	return *t, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id string, p TransactionPatch) (finance.Transaction, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return finance.Transaction{}, err
	}
	if p.Amount != nil {
		t.Amount = p.Amount.Round(2)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = s.normalizeCategory(ctx, *p.Category, t.Type)
	}
	if p.Date != nil {
		t.Date = finance.Day(*p.Date)
	}
	if err := t.Validate(); err != nil {
		return finance.Transaction{}, err
	}
	ok, err := s.Transactions.Update(ctx, t)
	if err != nil {
		return finance.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if !ok {
		return finance.Transaction{}, ErrNotFound
	}
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	ok, err := s.Transactions.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns the catalog ordered by type then name.
func (s *TransactionService) ListCategories(ctx context.Context) ([]finance.Category, error) {
	if s.Categories == nil {
		return nil, errors.New("categories not configured")
	}
	return s.Categories.List(ctx)
}

func (s *TransactionService) normalizeCategory(ctx context.Context, name string, typ finance.Type) string {
	if s.Categories == nil || strings.TrimSpace(name) == "" {
		return strings.TrimSpace(name)
	}
	catalog, err := s.Categories.List(ctx)
	if err != nil {
		log.Printf("transactions: category catalog unavailable: %v", err)
		return strings.TrimSpace(name)
	}
	return MatchCategory(name, typ, catalog)
}

func (s *TransactionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
