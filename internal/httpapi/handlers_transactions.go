package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jask/finadvisor/internal/advisor"
	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/report"
	"github.com/jask/finadvisor/internal/service"
)

var errTransactionNotFound = fiber.NewError(fiber.StatusNotFound, "Transacción no encontrada")

func (s *server) createTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	if req.Amount == nil || blank(req.Description) || blank(req.Category) || blank(req.Type) {
		return fiber.NewError(fiber.StatusBadRequest, "Todos los campos son requeridos")
	}
	typ, err := finance.ParseType(*req.Type)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Tipo debe ser income o expense")
	}
	if !req.Amount.Round(2).IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "El monto debe ser mayor a 0")
	}
	in := service.TransactionInput{
		Amount:      *req.Amount,
		Description: *req.Description,
		Category:    *req.Category,
		Type:        typ,
	}
	if !blank(req.Date) {
		if in.Date, err = finance.ParseDate(*req.Date); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fecha inválida")
		}
	}

	t, err := s.svc.Transactions.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Transacción creada exitosamente",
		"transaction": toTransactionJSON(t),
	})
}

func (s *server) listTransactions(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}
	txs, err := s.svc.Transactions.List(c.UserContext(), currentUser(c), f)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"transactions": toTransactionsJSON(txs),
		"count":        len(txs),
	})
}

func (s *server) transactionSummary(c *fiber.Ctx) error {
	rng, err := finance.ParseDateRange(c.Query("startDate"), c.Query("endDate"), s.opts.Now())
	if err != nil {
		return err
	}
	rep, err := s.svc.Advisory.GetSummary(c.UserContext(), currentUser(c), rng)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"summary":   toGroupsJSON(rep.Summary.Groups),
		"totals":    toTotalsJSON(rep.Summary.Totals),
		"startDate": rng.Start.Format(finance.DateLayout),
		"endDate":   rng.End.Format(finance.DateLayout),
	})
}

// transactionReport renders the summary range as a PDF. ?advice=analysis|prediction|tips
// appends generated advice.
func (s *server) transactionReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUser(c)
	rng, err := finance.ParseDateRange(c.Query("startDate"), c.Query("endDate"), s.opts.Now())
	if err != nil {
		return err
	}
	rep, err := s.svc.Advisory.GetSummary(ctx, userID, rng)
	if err != nil {
		return err
	}
	txs, err := s.svc.Transactions.List(ctx, userID, finance.Filter{Start: rng.Start, End: rng.End})
	if err != nil {
		return err
	}
	st := report.Statement{
		Currency:     s.opts.Currency,
		Range:        rng,
		Summary:      rep.Summary,
		Transactions: txs,
		GeneratedAt:  s.opts.Now(),
	}
	if u, err := s.svc.Auth.Profile(ctx, userID); err == nil {
		st.Owner = u.Email
	}
	if raw := c.Query("advice"); raw != "" {
		kind, err := advisor.ParseKind(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de consejo inválido")
		}
		st.AdviceTitle, st.Advice, err = s.adviceText(c, kind)
		if err != nil {
			return err
		}
	}

	pdf, err := report.BuildSummaryPDF(st)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="resumen_%s_%s.pdf"`,
		rng.Start.Format(finance.DateLayout), rng.End.Format(finance.DateLayout)))
	return c.Send(pdf)
}

func (s *server) updateTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	var patch service.TransactionPatch
	if req.Amount != nil {
		if !req.Amount.Round(2).IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "El monto debe ser mayor a 0")
		}
		patch.Amount = req.Amount
	}
	if req.Type != nil {
		typ, err := finance.ParseType(*req.Type)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo debe ser income o expense")
		}
		patch.Type = &typ
	}
	if req.Date != nil {
		d, err := finance.ParseDate(*req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Fecha inválida")
		}
		patch.Date = &d
	}
	patch.Description = req.Description
	patch.Category = req.Category

	t, err := s.svc.Transactions.Update(c.UserContext(), currentUser(c), c.Params("id"), patch)
	if errors.Is(err, service.ErrNotFound) {
		return errTransactionNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "Transacción actualizada exitosamente",
		"transaction": toTransactionJSON(t),
	})
}

func (s *server) deleteTransaction(c *fiber.Ctx) error {
	err := s.svc.Transactions.Delete(c.UserContext(), currentUser(c), c.Params("id"))
	if errors.Is(err, service.ErrNotFound) {
		return errTransactionNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Transacción eliminada exitosamente"})
}

func (s *server) listCategories(c *fiber.Ctx) error {
	cats, err := s.svc.Transactions.ListCategories(c.UserContext())
	if err != nil {
		logError("categories", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Error obteniendo categorías")
	}
	return c.JSON(fiber.Map{"categories": toCategoriesJSON(cats)})
}

func parseFilter(c *fiber.Ctx) (finance.Filter, error) {
	var f finance.Filter
	if t := c.Query("type"); t != "" {
		typ, err := finance.ParseType(t)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "Tipo debe ser income o expense")
		}
		f.Type = typ
	}
	f.Category = strings.TrimSpace(c.Query("category"))
	var err error
	if f.Start, err = queryDate(c, "startDate"); err != nil {
		return f, err
	}
	if f.End, err = queryDate(c, "endDate"); err != nil {
		return f, err
	}
	return f, nil
}

func queryDate(c *fiber.Ctx, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := finance.ParseDate(raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Fecha inválida")
	}
	return d, nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
