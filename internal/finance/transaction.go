package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction is returned when a transaction fails validation.
var ErrInvalidTransaction = errors.New("invalid transaction")

const (
	maxDescriptionLen = 500
	maxCategoryLen    = 100
)

// Type is the direction of a transaction.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == Income || t == Expense
}

// ParseType accepts "income" or "expense" in any case.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: type must be income or expense", ErrInvalidTransaction)
	}
	return t, nil
}

// Transaction is a single income or expense record owned by a user.
type Transaction struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Description string
	Category    string
	Type        Type
	Date        time.Time
	CreatedAt   time.Time
}

// Validate checks the invariants every stored transaction must hold.
func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidTransaction)
	}
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidTransaction)
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidTransaction, maxDescriptionLen)
	}
	cat := strings.TrimSpace(t.Category)
	if cat == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidTransaction)
	}
	if utf8.RuneCountInString(t.Category) > maxCategoryLen {
		return fmt.Errorf("%w: category exceeds %d characters", ErrInvalidTransaction, maxCategoryLen)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: type must be income or expense", ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	return nil
}

// Category is a catalog entry used to normalise user supplied categories.
type Category struct {
	ID    string
	Name  string
	Type  Type
	Color string
}

// Filter narrows a transaction listing. Start/End only apply when both are set.
type Filter struct {
	Type     Type
	Category string
	Start    time.Time
	End      time.Time
}

// Range returns the inclusive date range of the filter and whether it is set.
func (f Filter) Range() (DateRange, bool) {
	if f.Start.IsZero() || f.End.IsZero() {
		return DateRange{}, false
	}
	return DateRange{Start: Day(f.Start), End: Day(f.End)}, true
}
