package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jask/finadvisor/internal/advisor"
)

func (s *server) analysis(c *fiber.Ctx) error {
	res, err := s.svc.Advisory.GetAnalysis(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"analysis":             res.Text,
		"summary":              toTotalsJSON(res.Totals),
		"transactionsAnalyzed": res.TransactionsAnalyzed,
		"source":               res.Source,
	})
}

func (s *server) prediction(c *fiber.Ctx) error {
	res, err := s.svc.Advisory.GetPrediction(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"prediction":           res.Text,
		"historicalDataPoints": res.HistoricalDataPoints,
		"source":               res.Source,
	})
}

func (s *server) tips(c *fiber.Ctx) error {
	res, err := s.svc.Advisory.GetTips(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"tips":    res.Text,
		"basedOn": toTotalsJSON(res.BasedOn),
		"source":  res.Source,
	})
}

// adviceText returns a heading and body for the PDF export.
func (s *server) adviceText(c *fiber.Ctx, kind advisor.Kind) (string, string, error) {
	ctx, userID := c.UserContext(), currentUser(c)
	switch kind {
	case advisor.KindAnalysis:
		res, err := s.svc.Advisory.GetAnalysis(ctx, userID)
		return "Análisis financiero", res.Text, err
	case advisor.KindPrediction:
		res, err := s.svc.Advisory.GetPrediction(ctx, userID)
		return "Predicción de gastos", res.Text, err
	default:
		res, err := s.svc.Advisory.GetTips(ctx, userID)
		return "Consejos financieros", res.Text, err
	}
}
