package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jask/finadvisor/internal/finance"
)

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = "id, user_id, amount, description, category, type, date, created_at"

func (r *TransactionRepo) Insert(ctx context.Context, t finance.Transaction) error {
	row := rowFromFinance(t)
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, user_id, amount, description, category, type, date, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?);
	`, row.ID, row.UserID, row.AmountCents, row.Description, row.Category, row.Type, row.Date, row.CreatedAt)
	return err
}

// Update rewrites every mutable field. It reports false when no row matched.
func (r *TransactionRepo) Update(ctx context.Context, t finance.Transaction) (bool, error) {
	row := rowFromFinance(t)
	res, err := r.db.ExecContext(ctx, `
	UPDATE transactions SET amount = ?, description = ?, category = ?, type = ?, date = ?
	WHERE id = ? AND user_id = ?
	`, row.AmountCents, row.Description, row.Category, row.Type, row.Date, row.ID, row.UserID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *TransactionRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Get returns nil when the transaction does not exist for userID.
func (r *TransactionRepo) Get(ctx context.Context, userID, id string) (*finance.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) List(ctx context.Context, userID string, f finance.Filter) ([]finance.Transaction, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{userID}

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if rng, ok := f.Range(); ok {
		where = append(where, "date >= ? AND date <= ?")
		args = append(args, rng.Start.Format(finance.DateLayout), rng.End.Format(finance.DateLayout))
	}

	query := "SELECT " + transactionColumns + " FROM transactions WHERE " + strings.Join(where, " AND ")
	query += " ORDER BY date DESC, created_at DESC, rowid DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
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

// SummarizeByCategory groups the user's transactions inside rng by type and category.
func (r *TransactionRepo) SummarizeByCategory(ctx context.Context, userID string, rng finance.DateRange) ([]finance.GroupTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT type, category, SUM(amount) AS total, COUNT(*) AS count
	FROM transactions
	WHERE user_id = ? AND date >= ? AND date <= ?
	GROUP BY type, category
	ORDER BY type, total DESC, category;
	`, userID, rng.Start.Format(finance.DateLayout), rng.End.Format(finance.DateLayout))
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
		)
		if err := rows.Scan(&typ, &g.Category, &cents, &g.Count); err != nil {
			return nil, err
		}
		g.Type = finance.Type(typ)
		g.Total = finance.FromCents(cents)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

// Ping checks the database is reachable.
func (r *TransactionRepo) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (finance.Transaction, error) {
	var t transactionRow
	if err := row.Scan(&t.ID, &t.UserID, &t.AmountCents, &t.Description, &t.Category,
		&t.Type, &t.Date, &t.CreatedAt); err != nil {
		return finance.Transaction{}, err
	}
	return t.toFinance()
}
