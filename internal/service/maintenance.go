package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/finadvisor/internal/database"
)

// MaintenanceService houses destructive ops actions for the embedded sqlite store.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes users, transactions and categories. The schema stays intact and the
// default catalog can be seeded again afterwards.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"transactions", "users", "categories"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
