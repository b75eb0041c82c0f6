package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/fenix-admin/internal/domain"
)

// Page metadatos del sobre paginado {count, next, previous, results}.
// Todos son nil cuando el listado llegó como array plano.
type Page struct {
	Count    *int    `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Unwrap aplica la regla de listados: devuelve results si el cuerpo es un sobre
// paginado o el array tal cual si es un array plano. Nunca devuelve nil sin error.
func Unwrap[T any](resp *Response) ([]T, error) {
	items, _, err := UnwrapPage[T](resp)
	return items, err
}

// UnwrapPage como Unwrap pero devuelve también la paginación.
func UnwrapPage[T any](resp *Response) ([]T, Page, error) {
	var page Page
	if resp == nil {
		return nil, page, fmt.Errorf("unwrap: %w: respuesta nil", domain.ErrUnexpectedShape)
	}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return nil, page, fmt.Errorf("unwrap: %w: cuerpo vacío", domain.ErrUnexpectedShape)
	}

	var items []T
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, page, fmt.Errorf("unwrap: decodificar array: %w", err)
		}
	case '{':
		var env struct {
			Results json.RawMessage `json:"results"`
			Page
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, page, fmt.Errorf("unwrap: decodificar sobre: %w", err)
		}
		if env.Results == nil {
			return nil, page, fmt.Errorf("unwrap: %w: objeto sin results", domain.ErrUnexpectedShape)
		}
		if err := json.Unmarshal(env.Results, &items); err != nil {
			return nil, page, fmt.Errorf("unwrap: decodificar results: %w", err)
		}
		page = env.Page
	default:
		return nil, page, fmt.Errorf("unwrap: %w: se esperaba array u objeto", domain.ErrUnexpectedShape)
	}
	if items == nil {
		items = []T{}
	}
	return items, page, nil
}

// Decode decodifica un cuerpo JSON de un solo objeto.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, fmt.Errorf("decode: %w: respuesta nil", domain.ErrUnexpectedShape)
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
