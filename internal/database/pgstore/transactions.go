package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jask/finadvisor/internal/finance"
)

type TransactionRepo struct {
	Pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{Pool: pool}
}

const transactionColumns = "id::text, user_id::text, amount, description, category, type, date, created_at"

func (r *TransactionRepo) Insert(ctx context.Context, t finance.Transaction) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO transactions (id, user_id, amount, description, category, type, date, created_at)
		 VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.UserID, finance.ToCents(t.Amount), t.Description, t.Category, string(t.Type),
		finance.Day(t.Date), t.CreatedAt,
	)
	return err
}

func (r *TransactionRepo) Update(ctx context.Context, t finance.Transaction) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE transactions
		 SET amount = $1, description = $2, category = $3, type = $4, date = $5
		 WHERE id = $6::uuid AND user_id = $7::uuid`,
		finance.ToCents(t.Amount), t.Description, t.Category, string(t.Type), finance.Day(t.Date), t.ID, t.UserID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TransactionRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1::uuid AND user_id = $2::uuid`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TransactionRepo) Get(ctx context.Context, userID, id string) (*finance.Transaction, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1::uuid AND user_id = $2::uuid`, id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) List(ctx context.Context, userID string, f finance.Filter) ([]finance.Transaction, error) {
	where := []string{"user_id = $1::uuid"}
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Type != "" {
		where = append(where, "type = "+arg(string(f.Type)))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if rng, ok := f.Range(); ok {
		where = append(where, "date >= "+arg(rng.Start), "date <= "+arg(rng.End))
	}

	query := "SELECT " + transactionColumns + " FROM transactions WHERE " + strings.Join(where, " AND ") +
		" ORDER BY date DESC, created_at DESC"
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []finance.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) SummarizeByCategory(ctx context.Context, userID string, rng finance.DateRange) ([]finance.GroupTotal, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT type, category, SUM(amount)::bigint AS total, COUNT(*) AS count
		 FROM transactions
		 WHERE user_id = $1::uuid AND date >= $2 AND date <= $3
		 GROUP BY type, category
		 ORDER BY type, total DESC, category`,
		userID, rng.Start, rng.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []finance.GroupTotal
	for rows.Next() {
		var (
			g     finance.GroupTotal
			typ   string
			cents int64
			count int64
		)
		if err := rows.Scan(&typ, &g.Category, &cents, &count); err != nil {
			return nil, err
		}
		g.Type = finance.Type(typ)
		g.Total = finance.FromCents(cents)
		g.Count = int(count)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1::uuid`, userID).Scan(&n)
	return int(n), err
}

func (r *TransactionRepo) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

func scanTransaction(row pgx.Row) (finance.Transaction, error) {
	var (
		t     finance.Transaction
		cents int64
		typ   string
	)
	if err := row.Scan(&t.ID, &t.UserID, &cents, &t.Description, &t.Category, &typ, &t.Date, &t.CreatedAt); err != nil {
		return finance.Transaction{}, err
	}
	t.Amount = finance.FromCents(cents)
	t.Type = finance.Type(typ)
	t.Date = finance.Day(t.Date)
	return t, nil
}
