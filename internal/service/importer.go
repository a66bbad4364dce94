package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jask/finadvisor/internal/finance"
)

// ImportService loads transactions from CSV through the TransactionService so
// imported rows get the same validation and category matching.
type ImportService struct {
	Transactions *TransactionService
}

type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// ImportCSV reads rows of: date, amount, description, category[, type].
// Without a type column a negative amount is an expense and a positive one income.
// A first row whose date column does not parse as a date is treated as a header.
func (s *ImportService) ImportCSV(ctx context.Context, userID string, r io.Reader) (ImportResult, error) {
	res := ImportResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rec) < 4 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected at least 4 columns", line))
			continue
		}
		date, err := finance.ParseDate(rec[0])
		if err != nil {
			if line == 1 {
				res.Skipped++
				continue
			}
			res.Errors = append(res.Errors, fmt.Errorf("line %d date: %w", line, err))
			continue
		}
		amount, err := finance.ParseAmount(rec[1])
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d amount: %w", line, err))
			continue
		}
		typ := finance.Income
		if amount.IsNegative() {
			typ = finance.Expense
		}
		if len(rec) >= 5 && strings.TrimSpace(rec[4]) != "" {
			typ, err = finance.ParseType(rec[4])
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("line %d type: %w", line, err))
				continue
			}
		}
		if amount.IsZero() {
			res.Skipped++
			continue
		}
		_, err = s.Transactions.Create(ctx, userID, TransactionInput{
			Amount:      amount.Abs(),
			Description: rec[2],
			Category:    rec[3],
			Type:        typ,
			Date:        date,
		})
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}
