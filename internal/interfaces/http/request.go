package http

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
	"github.com/jhoicas/fenix-admin/internal/domain"
)

// parseError cuerpo que no se pudo interpretar (JSON mal formado, multipart roto).
type parseError struct {
	err error
}

func (e *parseError) Error() string { return "Error de análisis del cuerpo - " + e.err.Error() }

func (e *parseError) Unwrap() error { return domain.ErrInvalidInput }

// readInput lee el cuerpo de escritura: multipart (valores de texto más nombres de
// archivo), formulario urlencoded o JSON con números como json.Number.
func readInput(c *fiber.Ctx) (sandbox.Input, error) {
	in := sandbox.Input{Values: map[string]any{}, Files: map[string]string{}}
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return in, &parseError{err: err}
		}
		for k, vs := range form.Value {
			if len(vs) > 0 {
				in.Values[k] = vs[0]
			}
		}
		for k, fs := range form.File {
			if len(fs) > 0 {
				in.Files[k] = fs[0].Filename
			}
		}
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			in.Values[string(k)] = string(v)
		})
	default:
		body := bytes.TrimSpace(c.Body())
		if len(body) == 0 {
			return in, nil
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var values map[string]any
		if err := dec.Decode(&values); err != nil {
			return in, &parseError{err: err}
		}
		if values != nil {
			in.Values = values
		}
	}
	return in, nil
}

// paramID lee :id; ids no numéricos o no positivos son 404 como en el backend real.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// pageURL URL absoluta del listado actual apuntando a page; la página 1 va sin parámetro.
func pageURL(c *fiber.Ctx, page int) *string {
	q := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		q.Add(string(k), string(v))
	})
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := c.BaseURL() + c.Path()
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return &u
}
