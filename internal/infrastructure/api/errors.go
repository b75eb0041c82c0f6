package api

import (
	"fmt"
	"net/http"
)

// Un Client.Do fallido devuelve exactamente una de estas tres variantes.
// Normalize las clasifica con errors.As, sin inspeccionar campos sueltos.

// ResponseError el servidor respondió con un status fuera de 2xx.
type ResponseError struct {
	Method string
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("api: %s %s: HTTP %d", e.Method, e.URL, e.Status)
}

// NetworkError la petición se envió pero no llegó respuesta (timeout, conexión caída).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s %s: sin respuesta: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConfigError la petición no pudo construirse (URL base inválida, payload no serializable, ...).
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
