package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jask/finadvisor/internal/finance"
)

type CategoryRepo struct {
	Pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{Pool: pool}
}

func (r *CategoryRepo) Upsert(ctx context.Context, c finance.Category) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO categories (id, name, type, color)
		 VALUES ($1::uuid, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, type = EXCLUDED.type, color = EXCLUDED.color`,
		c.ID, c.Name, string(c.Type), c.Color,
	)
	return err
}

func (r *CategoryRepo) List(ctx context.Context) ([]finance.Category, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id::text, name, type, color FROM categories ORDER BY type, name`)
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
