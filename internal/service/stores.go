package service

import (
	"context"

	"github.com/jask/finadvisor/internal/domain"
	"github.com/jask/finadvisor/internal/finance"
)

// TransactionStore is implemented by repository.TransactionRepo and pgstore.TransactionRepo.
// Get returns nil, nil when the transaction does not exist for the user.
type TransactionStore interface {
	Insert(ctx context.Context, t finance.Transaction) error
	Update(ctx context.Context, t finance.Transaction) (bool, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	Get(ctx context.Context, userID, id string) (*finance.Transaction, error)
	List(ctx context.Context, userID string, f finance.Filter) ([]finance.Transaction, error)
	SummarizeByCategory(ctx context.Context, userID string, rng finance.DateRange) ([]finance.GroupTotal, error)
	Count(ctx context.Context, userID string) (int, error)
}

// UserStore returns nil, nil from the getters when no user matches.
type UserStore interface {
	Create(ctx context.Context, u domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type CategoryStore interface {
	List(ctx context.Context) ([]finance.Category, error)
	Upsert(ctx context.Context, c finance.Category) error
}
