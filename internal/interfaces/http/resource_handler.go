package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
)

// ResourceHandler CRUD genérico de una colección del sandbox.
type ResourceHandler struct {
	svc      *sandbox.Service
	resource string
	log      zerolog.Logger
}

// NewResourceHandler construye el handler de resource.
func NewResourceHandler(svc *sandbox.Service, resource string, log zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{svc: svc, resource: resource, log: log.With().Str("resource", resource).Logger()}
}

// List GET /api/<resource>/?page=&search=&ordering=...
// Las colecciones paginadas responden {count, next, previous, results}; el resto un array.
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	res, err := h.svc.List(c.UserContext(), h.resource, sandbox.Query(c.Queries()))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !res.Paginated {
		return c.JSON(res.Items)
	}
	page := dto.PageResponse{Count: res.Count, Results: res.Items}
	if res.HasNext {
		page.Next = pageURL(c, res.Page+1)
	}
	if res.HasPrevious {
		page.Previous = pageURL(c, res.Page-1)
	}
	return c.JSON(page)
}

// GetByID GET /api/<resource>/:id/
func (h *ResourceHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.Get(c.UserContext(), h.resource, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(rec)
}

// Create POST /api/<resource>/
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.Create(c.UserContext(), h.resource, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Update PUT /api/<resource>/:id/
func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	return h.update(c, false)
}

// PartialUpdate PATCH /api/<resource>/:id/
func (h *ResourceHandler) PartialUpdate(c *fiber.Ctx) error {
	return h.update(c, true)
}

func (h *ResourceHandler) update(c *fiber.Ctx, partial bool) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	in, err := readInput(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.Update(c.UserContext(), h.resource, id, in, partial)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(rec)
}

// Delete DELETE /api/<resource>/:id/ → 204.
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if _, err := h.svc.Delete(c.UserContext(), h.resource, id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportCSV GET /api/<resource>/export-csv/ como adjunto text/csv.
func (h *ResourceHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	filename, err := h.svc.ExportCSV(c.UserContext(), h.resource, &buf)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
