package sandbox

import (
	"sort"
	"strings"

	"github.com/jhoicas/fenix-admin/internal/domain"
)

// ValidationError errores por campo con la forma de DRF: {"campo": ["mensaje"]}.
type ValidationError struct {
	Fields map[string][]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) merge(fields map[string][]string) {
	for k, msgs := range fields {
		e.Fields[k] = append(e.Fields[k], msgs...)
	}
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }

// orNil devuelve e solo si tiene errores; evita el nil tipado en una interfaz error.
func (e *ValidationError) orNil() error {
	if e.empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "datos inválidos: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Mensajes de validación.
const (
	msgRequired      = "Este campo es requerido."
	msgBlank         = "Este campo no puede estar en blanco."
	msgInt           = "Se requiere un número entero válido."
	msgNumber        = "Se requiere un número válido."
	msgBool          = "Se requiere un valor booleano válido."
	msgDate          = "La fecha tiene el formato equivocado. Utilice AAAA-MM-DD."
	msgEmail         = "Introduzca una dirección de correo electrónico válida."
	msgNonNegative   = "Asegúrese de que este valor sea mayor o igual a 0."
	msgDecimalPlaces = "Asegúrese de que no haya más de 2 decimales."
	msgPasswordDiff  = "Las contraseñas no coinciden."
	msgBadLogin      = "No se puede iniciar sesión con las credenciales proporcionadas."
	msgUniqueLine    = "Los campos order, product deben formar un conjunto único."
)
