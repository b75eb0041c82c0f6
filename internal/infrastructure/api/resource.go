package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Resource verbos CRUD uniformes de un recurso REST. La codificación de escritura
// se fija al construirlo; los llamadores no pueden cambiarla por llamada.
// Los verbos no capturan errores: el llamador los normaliza con Normalize.
type Resource struct {
	client   *Client
	path     string
	encoding Encoding
}

// NewResource path es la colección con barra final, ej. "/products/".
func NewResource(c *Client, path string, enc Encoding) *Resource {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &Resource{client: c, path: path, encoding: enc}
}

// Path ruta de la colección.
func (r *Resource) Path() string { return r.path }

// Encoding codificación fija del recurso.
func (r *Resource) Encoding() Encoding { return r.encoding }

func (r *Resource) itemPath(id int64) string {
	return fmt.Sprintf("%s%d/", r.path, id)
}

// GetAll lista la colección. params se envía tal cual como query string.
// El cuerpo puede ser un array o un sobre paginado: ver Unwrap.
func (r *Resource) GetAll(ctx context.Context, params Params) (*Response, error) {
	return r.client.Do(ctx, Request{Method: http.MethodGet, Path: r.path, Query: params})
}

// GetByID obtiene un elemento.
func (r *Resource) GetByID(ctx context.Context, id int64) (*Response, error) {
	return r.client.Do(ctx, Request{Method: http.MethodGet, Path: r.itemPath(id)})
}

// Create POST a la colección.
func (r *Resource) Create(ctx context.Context, attrs Attrs) (*Response, error) {
	return r.client.Do(ctx, Request{Method: http.MethodPost, Path: r.path, Payload: NewPayload(r.encoding, attrs)})
}

// Update reemplazo completo (PUT).
func (r *Resource) Update(ctx context.Context, id int64, attrs Attrs) (*Response, error) {
	return r.client.Do(ctx, Request{Method: http.MethodPut, Path: r.itemPath(id), Payload: NewPayload(r.encoding, attrs)})
}

// PartialUpdate actualización parcial (PATCH).
func (r *Resource) PartialUpdate(ctx context.Context, id int64, attrs Attrs) (*Response, error) {
	return r.client.Do(ctx, Request{Method: http.MethodPatch, Path: r.itemPath(id), Payload: NewPayload(r.encoding, attrs)})
}

// Delete elimina un elemento.
func (r *Resource) Delete(ctx context.Context, id int64) (*Response, error) {
	return r.client.Do(ctx, Request{Method: http.MethodDelete, Path: r.itemPath(id)})
}
