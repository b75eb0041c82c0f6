// Package validation configura validator/v10 y traduce sus errores a errores por campo.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
)

// New devuelve un validador que usa los nombres JSON de los campos,
// valida decimal.Decimal como número y conoce el tag order_status.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("order_status", func(fl validatorv10.FieldLevel) bool {
		return entity.IsOrderStatus(fl.Field().String())
	})

	// decimales del precio sobre el decimal exacto; a nivel de campo llega como float64
	v.RegisterStructValidation(func(sl validatorv10.StructLevel) {
		line := sl.Current().Interface().(dto.OrderLineRequest)
		if !HasMaxDecimalPlaces(line.Price, MoneyDecimalPlaces) {
			sl.ReportError(line.Price, "price", "Price", "decimal_places", strconv.Itoa(MoneyDecimalPlaces))
		}
	}, dto.OrderLineRequest{})

	return v
}

// MoneyDecimalPlaces decimales admitidos en precios y montos.
const MoneyDecimalPlaces = 2

// HasMaxDecimalPlaces indica si d no tiene más de places decimales significativos
// ("10.000" cuenta como 10).
func HasMaxDecimalPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// DecimalPlacesMessage mensaje de error para más decimales de los admitidos.
func DecimalPlacesMessage(places string) string {
	return fmt.Sprintf("Asegúrese de que no haya más de %s decimales.", places)
}

// FieldErrors convierte el error de Struct en campo -> mensajes.
// Las rutas anidadas quedan como "items[0].quantity". Errores que no son de
// validación van a "non_field_errors".
func FieldErrors(err error) map[string][]string {
	if err == nil {
		return nil
	}
	out := map[string][]string{}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		out["non_field_errors"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		out[key] = append(out[key], message(fe))
	}
	return out
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es requerido."
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Debe contener al menos %s elemento(s).", fe.Param())
		}
		return fmt.Sprintf("Asegúrese de que este valor sea mayor o igual a %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Asegúrese de que este valor sea mayor o igual a %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Asegúrese de que este valor sea mayor que %s.", fe.Param())
	case "order_status":
		return fmt.Sprintf("%q no es una elección válida.", fmt.Sprint(fe.Value()))
	case "email":
		return "Introduzca una dirección de correo electrónico válida."
	case "decimal_places":
		return DecimalPlacesMessage(fe.Param())
	}
	return fe.Error()
}
