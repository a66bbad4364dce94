// Package httpapi exposes the finance and advisory services over a fiber JSON API.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jask/finadvisor/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the dependencies handlers call into.
type Services struct {
	Auth         *service.AuthService
	Transactions *service.TransactionService
	Advisory     *service.AdvisoryService
	Health       Pinger
}

// Options tune middleware. A RateLimit of zero disables the limiter.
type Options struct {
	CORSOrigins string
	RateLimit   int
	Version     string
	Currency    string
	Now         func() time.Time
}

type server struct {
	svc  Services
	opts Options
}

var availableRoutes = []string{
	"/api/health",
	"/api/auth/register",
	"/api/auth/login",
	"/api/transactions",
	"/api/ai/analysis",
}

// New builds the application with every route registered.
func New(svc Services, opts Options) *fiber.App {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &server{svc: svc, opts: opts}

	app := fiber.New(fiber.Config{
		AppName:      "finadvisor",
		ErrorHandler: errorHandler,
	})

	app.Use(corsMiddleware(opts.CORSOrigins))
	app.Use(requestLogger())

	api := app.Group("/api")
	api.Get("/health", s.health)
	api.Get("/db-check", s.dbCheck)
	api.Get("/categories", s.listCategories)

	limit := rateLimiter(opts.RateLimit)
	auth := requireAuth(svc.Auth)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", limit, s.register)
	authGroup.Post("/login", limit, s.login)
	authGroup.Get("/profile", auth, s.profile)

	tx := api.Group("/transactions", auth)
	tx.Get("/", s.listTransactions)
	tx.Post("/", limit, s.createTransaction)
	tx.Get("/summary", s.transactionSummary)
	tx.Get("/report.pdf", s.transactionReport)
	tx.Put("/:id", limit, s.updateTransaction)
	tx.Delete("/:id", limit, s.deleteTransaction)

	ai := api.Group("/ai", auth)
	ai.Get("/analysis", s.analysis)
	ai.Get("/prediction", s.prediction)
	ai.Get("/tips", s.tips)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":           "Ruta no encontrada",
			"path":            c.OriginalURL(),
			"availableRoutes": availableRoutes,
		})
	})
	return app
}

func (s *server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "🚀 Servidor de Finanzas IA funcionando!",
		"timestamp": s.opts.Now().UTC().Format(time.RFC3339),
		"version":   s.opts.Version,
	})
}

func (s *server) dbCheck(c *fiber.Ctx) error {
	if s.svc.Health == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "❌ Error conectando a la base de datos")
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()
	if err := s.svc.Health.Ping(ctx); err != nil {
		logError("db-check", err)
		return fiber.NewError(fiber.StatusInternalServerError, "❌ Error conectando a la base de datos")
	}
	return c.JSON(fiber.Map{
		"database":     "✅ Conectado a la base de datos",
		"current_time": s.opts.Now().UTC().Format(time.RFC3339),
	})
}
