package repository

import (
	"context"
	"database/sql"

	"github.com/jask/finadvisor/internal/finance"
)

// CategoryRepo handles categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Upsert(ctx context.Context, c finance.Category) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO categories(id, name, type, color)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 type=excluded.type,
	 color=excluded.color;
	`, c.ID, c.Name, string(c.Type), c.Color)
	return err
}

func (r *CategoryRepo) List(ctx context.Context) ([]finance.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type, color FROM categories ORDER BY type, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []finance.Category
	for rows.Next() {
		var (
			c   finance.Category
			typ string
		)
		if err := rows.Scan(&c.ID, &c.Name, &typ, &c.Color); err != nil {
			return nil, err
		}
		c.Type = finance.Type(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}
