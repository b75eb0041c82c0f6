package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/auth"
	"github.com/jhoicas/fenix-admin/internal/application/dto"
)

const msgMissingCredentials = `Debe incluir "username" y "password".`

// AuthHandler maneja el login del sandbox.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login POST /api/auth/login/ con username (o email) y password. Responde {"key": token}.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.DetailResponse{Detail: "cuerpo inválido"})
	}
	resp, err := h.uc.Login(c.UserContext(), in)
	if errors.Is(err, auth.ErrMissingCredentials) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"non_field_errors": []string{msgMissingCredentials},
		})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(resp)
}
