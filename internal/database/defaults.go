package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/jask/finadvisor/internal/finance"
)

// CategoryStore is satisfied by both the sqlite and postgres category stores.
type CategoryStore interface {
	List(ctx context.Context) ([]finance.Category, error)
	Upsert(ctx context.Context, c finance.Category) error
}

// DefaultCategories is the catalog seeded into new databases.
var DefaultCategories = []finance.Category{
	{Name: "Salario", Type: finance.Income, Color: "#10B981"},
	{Name: "Freelance", Type: finance.Income, Color: "#059669"},
	{Name: "Inversiones", Type: finance.Income, Color: "#047857"},
	{Name: "Alimentación", Type: finance.Expense, Color: "#EF4444"},
	{Name: "Transporte", Type: finance.Expense, Color: "#F59E0B"},
	{Name: "Entretenimiento", Type: finance.Expense, Color: "#8B5CF6"},
	{Name: "Salud", Type: finance.Expense, Color: "#EC4899"},
	{Name: "Educación", Type: finance.Expense, Color: "#06B6D4"},
	{Name: "Vivienda", Type: finance.Expense, Color: "#F97316"},
}

// CategoryID derives a stable id so seeding is idempotent across databases.
func CategoryID(t finance.Type, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("cat:"+string(t)+":"+name)).String()
}

// SeedDefaults ensures baseline categories exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, store CategoryStore) error {
	existing, err := store.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	for _, c := range DefaultCategories {
		c.ID = CategoryID(c.Type, c.Name)
		if err := store.Upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
