package httpapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/finadvisor/internal/domain"
	"github.com/jask/finadvisor/internal/finance"
)

// money renders an amount as a JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(finance.FormatAmount(d))
}

type userJSON struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserJSON(u domain.User) userJSON {
	return userJSON{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

type transactionJSON struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	Date        string      `json:"date"`
	CreatedAt   time.Time   `json:"created_at"`
}

func toTransactionJSON(t finance.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		UserID:      t.UserID,
		Amount:      money(t.Amount),
		Description: t.Description,
		Category:    t.Category,
		Type:        string(t.Type),
		Date:        t.Date.Format(finance.DateLayout),
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionsJSON(txs []finance.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type totalsJSON struct {
	Income   json.Number `json:"income"`
	Expenses json.Number `json:"expenses"`
	Balance  json.Number `json:"balance"`
}

func toTotalsJSON(t finance.Totals) totalsJSON {
	return totalsJSON{Income: money(t.Income), Expenses: money(t.Expenses), Balance: money(t.Balance)}
}

type groupJSON struct {
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Total    json.Number `json:"total"`
	Count    int         `json:"count"`
}

func toGroupsJSON(groups []finance.GroupTotal) []groupJSON {
	out := make([]groupJSON, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupJSON{Type: string(g.Type), Category: g.Category, Total: money(g.Total), Count: g.Count})
	}
	return out
}

type categoryJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

func toCategoriesJSON(cats []finance.Category) []categoryJSON {
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{ID: c.ID, Name: c.Name, Type: string(c.Type), Color: c.Color})
	}
	return out
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type transactionRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Type        *string          `json:"type"`
	Date        *string          `json:"date"`
}
