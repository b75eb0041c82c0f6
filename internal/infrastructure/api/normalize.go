package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jhoicas/fenix-admin/internal/domain"
)

// Normalize clasifica cualquier fallo en la taxonomía cerrada de domain.ErrorKind.
// Prioridad: respuesta del servidor (por status) > sin respuesta (network) > resto (config).
// Nunca entra en pánico; un error nil también produce un resultado (config).
func Normalize(err error) *domain.APIError {
	var already *domain.APIError
	if errors.As(err, &already) && already != nil {
		return already
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr != nil {
		kind := kindForStatus(respErr.Status)
		out := &domain.APIError{
			Kind:    kind,
			Message: kind.DefaultMessage(),
			Status:  respErr.Status,
			Err:     err,
		}
		if kind == domain.KindValidation {
			out.Details = fieldDetails(respErr.Body)
		}
		return out
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr != nil {
		return &domain.APIError{Kind: domain.KindNetwork, Message: domain.KindNetwork.DefaultMessage(), Err: err}
	}

	return &domain.APIError{Kind: domain.KindConfig, Message: domain.KindConfig.DefaultMessage(), Err: err}
}

func kindForStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return domain.KindValidation
	case http.StatusUnauthorized:
		return domain.KindAuth
	case http.StatusForbidden:
		return domain.KindPermission
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusConflict:
		return domain.KindConflict
	case http.StatusInternalServerError:
		return domain.KindServer
	default:
		return domain.KindUnknown
	}
}

// fieldDetails devuelve la estructura de errores por campo tal como la envió el servidor.
// Cuerpos que no son un objeto JSON (lista, escalar o texto plano) quedan bajo
// "non_field_errors"; el cuerpo original sigue disponible en ResponseError.Body.
func fieldDetails(body []byte) map[string]any {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		return obj
	}
	var other any
	if err := json.Unmarshal(body, &other); err == nil {
		if list, ok := other.([]any); ok {
			return map[string]any{"non_field_errors": list}
		}
		return map[string]any{"non_field_errors": []any{other}}
	}
	return map[string]any{"non_field_errors": []any{string(body)}}
}
