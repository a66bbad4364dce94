// Package report renders financial statements as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/phpdave11/gofpdf"

	"github.com/jask/finadvisor/internal/finance"
)

const maxRows = 200

// Statement is everything printed on one report.
type Statement struct {
	Owner        string
	Currency     string
	Range        finance.DateRange
	Summary      finance.Summary
	Transactions []finance.Transaction
	AdviceTitle  string
	Advice       string
	GeneratedAt  time.Time
}

// BuildSummaryPDF renders s as an A4 statement.
func BuildSummaryPDF(s Statement) ([]byte, error) {
	if s.Currency == "" {
		s.Currency = "$"
	}
	if s.GeneratedAt.IsZero() {
		s.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(v string) string { return tr(pdfSafe(v)) }

	pdf.SetMargins(14, 14, 14)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, text("Generado "+s.GeneratedAt.Format(time.RFC3339)+fmt.Sprintf(" - página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, text("Resumen financiero"))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, text("Periodo: "+s.Range.Start.Format(finance.DateLayout)+" a "+s.Range.End.Format(finance.DateLayout)))
	pdf.Ln(5)
	if s.Owner != "" {
		pdf.Cell(0, 6, text("Usuario: "+s.Owner))
		pdf.Ln(5)
	}
	pdf.Ln(5)

	money := func(v string) string { return s.Currency + v }
	t := s.Summary.Totals
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	sumW := []float64{60, 60, 62}
	pdf.CellFormat(sumW[0], 10, text("Ingresos"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, text("Gastos"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, text("Balance"), "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, text(money(finance.FormatAmount(t.Income))), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, text(money(finance.FormatAmount(t.Expenses))), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, text(money(finance.FormatAmount(t.Balance))), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	categoryTable := func(title string, rows []finance.CategoryAmount) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, text(title))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(120, 8, text("Categoría"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(62, 8, text("Total"), "1", 1, "R", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		if len(rows) == 0 {
			pdf.CellFormat(182, 8, text("Sin movimientos"), "1", 1, "C", false, 0, "")
		}
		for _, r := range rows {
			pdf.CellFormat(120, 8, text(r.Category), "1", 0, "L", false, 0, "")
			pdf.CellFormat(62, 8, text(money(finance.FormatAmount(r.Amount))), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}
	categoryTable("Gastos por categoría", finance.SortedCategories(s.Summary.ExpensesByCategory))
	categoryTable("Ingresos por categoría", finance.SortedCategories(s.Summary.IncomeByCategory))

	if len(s.Transactions) > 0 {
		colW := []float64{26, 22, 84, 50}
		header := func() {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetFillColor(245, 245, 245)
			pdf.CellFormat(colW[0], 8, text("Fecha"), "1", 0, "C", true, 0, "")
			pdf.CellFormat(colW[1], 8, text("Tipo"), "1", 0, "C", true, 0, "")
			pdf.CellFormat(colW[2], 8, text("Descripción"), "1", 0, "L", true, 0, "")
			pdf.CellFormat(colW[3], 8, text("Monto"), "1", 1, "R", true, 0, "")
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, text("Transacciones"))
		pdf.Ln(8)
		header()
		for i, tx := range s.Transactions {
			if i >= maxRows {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.CellFormat(0, 8, text(fmt.Sprintf("... %d transacciones más", len(s.Transactions)-maxRows)), "1", 1, "C", false, 0, "")
				break
			}
			if pdf.GetY() > 265 {
				pdf.AddPage()
				header()
			}
			amount := money(finance.FormatAmount(tx.Amount))
			label := "Ingreso"
			if tx.Type == finance.Expense {
				amount = "-" + amount
				label = "Gasto"
			}
			pdf.CellFormat(colW[0], 8, tx.Date.Format(finance.DateLayout), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colW[1], 8, text(label), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colW[2], 8, text(trimTo(tx.Description+" ("+tx.Category+")", 48)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(colW[3], 8, text(amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	if strings.TrimSpace(s.Advice) != "" {
		title := s.AdviceTitle
		if title == "" {
			title = "Recomendaciones"
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, text(title))
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, text(s.Advice), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: build pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfSafe drops markdown emphasis and runes the core fonts cannot draw.
func pdfSafe(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == '•' || r == '…' || r == '€' || r == '–' || r == '—':
			b.WriteRune(r)
		case r < 0x100 && unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), " ")
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
