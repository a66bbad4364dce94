package httpapi

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/service"
)

const (
	localUserID     = "user_id"
	internalMessage = "Error interno del servidor"
)

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := internalMessage

	var (
		fiberErr *fiber.Error
		valErr   *service.ValidationError
		dataErr  *service.InsufficientDataError
	)
	switch {
	case errors.As(err, &fiberErr):
		code, message = fiberErr.Code, fiberErr.Message
	case errors.As(err, &valErr):
		code, message = fiber.StatusBadRequest, valErr.Msg
	case errors.As(err, &dataErr):
		code, message = fiber.StatusBadRequest, dataErr.Error()
	case errors.Is(err, finance.ErrInvalidTransaction):
		code, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, finance.ErrInvalidRange):
		code, message = fiber.StatusBadRequest, "Rango de fechas inválido"
	case errors.Is(err, service.ErrInvalidCredentials):
		code, message = fiber.StatusUnauthorized, "Credenciales inválidas"
	case errors.Is(err, service.ErrEmailTaken):
		code, message = fiber.StatusBadRequest, "El usuario ya existe"
	case errors.Is(err, service.ErrNotFound):
		code, message = fiber.StatusNotFound, "Recurso no encontrado"
	default:
		logError(c.Method()+" "+c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}

func logError(where string, err error) {
	log.Printf("httpapi: %s: %v", where, err)
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}

func corsMiddleware(origins string) fiber.Handler {
	if strings.TrimSpace(origins) == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	})
}

// rateLimiter keys on the authenticated user when present, otherwise the client IP.
func rateLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, ok := c.Locals(localUserID).(string); ok && id != "" {
				return "user:" + id
			}
			return "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Demasiadas solicitudes, intenta de nuevo más tarde",
			})
		},
	})
}

func requireAuth(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token de acceso requerido")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
		}
		userID, err := auth.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido")
		}
		c.Locals(localUserID, userID)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}
