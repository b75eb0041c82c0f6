package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrUnexpectedShape = errors.New("respuesta con forma inesperada")
)

// ErrorKind clasificación estable (legible por máquina) de un fallo de la API.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
	KindPermission ErrorKind = "permission"
	KindNotFound   ErrorKind = "notfound"
	KindConflict   ErrorKind = "conflict"
	KindServer     ErrorKind = "server"
	KindUnknown    ErrorKind = "unknown"
	KindNetwork    ErrorKind = "network"
	KindConfig     ErrorKind = "config"
)

// kindMessages mensajes por defecto mostrados al usuario.
var kindMessages = map[ErrorKind]string{
	KindValidation: "Datos inválidos",
	KindAuth:       "No autorizado",
	KindPermission: "Sin permisos",
	KindNotFound:   "Recurso no encontrado",
	KindConflict:   "Conflicto en los datos",
	KindServer:     "Error interno del servidor",
	KindUnknown:    "Error desconocido",
	KindNetwork:    "Error de conexión",
	KindConfig:     "Error de configuración",
}

// DefaultMessage devuelve el mensaje corto asociado a kind.
func (k ErrorKind) DefaultMessage() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return kindMessages[KindUnknown]
}

// APIError error normalizado que consume la capa de presentación (CLI, UI).
// Details solo se llena para KindValidation y contiene los errores por campo del servidor.
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int // 0 si no hubo respuesta del servidor
	Details map[string]any
	Err     error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s, HTTP %d)", e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *APIError) Unwrap() error { return e.Err }

// FieldErrors aplana Details a campo -> mensajes para mostrarlos junto a cada campo.
// Valores que no son listas se convierten en un único mensaje.
func (e *APIError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Details))
	for field, raw := range e.Details {
		switch v := raw.(type) {
		case []any:
			for _, item := range v {
				out[field] = append(out[field], fmt.Sprint(item))
			}
		case []string:
			out[field] = append(out[field], v...)
		case nil:
		default:
			out[field] = []string{fmt.Sprint(v)}
		}
	}
	return out
}
