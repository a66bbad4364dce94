package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jask/finadvisor/internal/service"
)

func (s *server) register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	u, token, err := s.svc.Auth.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Usuario registrado exitosamente",
		"user":    toUserJSON(u),
		"token":   token,
	})
}

func (s *server) login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la solicitud inválido")
	}
	u, token, err := s.svc.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Login exitoso",
		"user":    toUserJSON(u),
		"token":   token,
	})
}

func (s *server) profile(c *fiber.Ctx) error {
	u, err := s.svc.Auth.Profile(c.UserContext(), currentUser(c))
	if errors.Is(err, service.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": toUserJSON(u)})
}
