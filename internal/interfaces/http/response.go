package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
	"github.com/jhoicas/fenix-admin/internal/domain"
)

const (
	msgNotFound = "No encontrado."
	msgInternal = "Error interno del servidor."
	msgBadLogin = "No se puede iniciar sesión con las credenciales proporcionadas."
)

// writeError traduce los errores del sandbox a respuestas con la forma de DRF:
// 400 {"campo": ["msg"]}, 404 {"detail": ...}, 500 {"detail": ...}.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		verr *sandbox.ValidationError
		perr *parseError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(verr.Fields)
	case errors.As(err, &perr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.DetailResponse{Detail: perr.Error()})
	case errors.Is(err, sandbox.ErrBadCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"non_field_errors": []string{msgBadLogin}})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.DetailResponse{Detail: msgNotFound})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("sandbox: error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.DetailResponse{Detail: msgInternal})
}

// ErrorHandler responde {"detail": ...} también para rutas inexistentes y pánicos recuperados.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			detail := fe.Message
			if fe.Code == fiber.StatusNotFound {
				detail = msgNotFound
			}
			return c.Status(fe.Code).JSON(dto.DetailResponse{Detail: detail})
		}
		return writeError(c, log, err)
	}
}
