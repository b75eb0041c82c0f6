package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
)

// StaffHandler usuarias: el CRUD genérico más baja lógica, reactivación y estadísticas.
type StaffHandler struct {
	*ResourceHandler
}

// NewStaffHandler construye el handler de usuarias.
func NewStaffHandler(svc *sandbox.Service, log zerolog.Logger) *StaffHandler {
	return &StaffHandler{ResourceHandler: NewResourceHandler(svc, sandbox.StaffUsers, log)}
}

// Delete DELETE /api/usuarias/:id/ desactiva en vez de borrar.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if _, err := h.svc.Delete(c.UserContext(), sandbox.StaffUsers, id); err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Int64("id", id).Str("by", GetUsername(c)).Msg("sandbox: usuaria desactivada")
	return c.JSON(dto.DetailResponse{Detail: "Usuaria desactivada correctamente."})
}

// Reactivate POST /api/usuarias/:id/reactivate/
func (h *StaffHandler) Reactivate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.Reactivate(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"detail":  "Usuaria reactivada correctamente.",
		"usuaria": rec,
	})
}

// Statistics GET /api/usuarias/statistics/
func (h *StaffHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.svc.Statistics(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(stats)
}
