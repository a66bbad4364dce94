package repository

import (
	"time"

	"github.com/jask/finadvisor/internal/finance"
)

// transactionRow mirrors the transactions table. Amounts are stored in cents and
// dates as YYYY-MM-DD text.
type transactionRow struct {
	ID          string
	UserID      string
	AmountCents int64
	Description string
	Category    string
	Type        string
	Date        string
	CreatedAt   time.Time
}

func (r transactionRow) toFinance() (finance.Transaction, error) {
	date, err := time.Parse(finance.DateLayout, r.Date)
	if err != nil {
		return finance.Transaction{}, err
	}
	return finance.Transaction{
		ID:          r.ID,
		UserID:      r.UserID,
		Amount:      finance.FromCents(r.AmountCents),
		Description: r.Description,
		Category:    r.Category,
		Type:        finance.Type(r.Type),
		Date:        date,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func rowFromFinance(t finance.Transaction) transactionRow {
	return transactionRow{
		ID:          t.ID,
		UserID:      t.UserID,
		AmountCents: finance.ToCents(t.Amount),
		Description: t.Description,
		Category:    t.Category,
		Type:        string(t.Type),
		Date:        finance.Day(t.Date).Format(finance.DateLayout),
		CreatedAt:   t.CreatedAt,
	}
}
