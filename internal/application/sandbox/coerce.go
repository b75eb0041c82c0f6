package sandbox

import (
	"encoding/json"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fenix-admin/internal/application/validation"
)

// Input cuerpo de escritura ya parseado. Values viene de JSON (números como
// json.Number) o de un formulario multipart (todo texto). Files mapea el campo
// al nombre del archivo subido.
type Input struct {
	Values map[string]any
	Files  map[string]string
}

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
	csvTimeLayout   = "2006-01-02 15:04:05"
)

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// coerce convierte v al valor almacenado del campo. Devuelve un mensaje de error
// de validación cuando no se puede.
func (s *Service) coerce(f field, v any) (any, string) {
	if isBlank(v) {
		if f.kind == kindString && v != nil {
			return "", ""
		}
		return nil, ""
	}
	switch f.kind {
	case kindString:
		return toString(v), ""
	case kindEmail:
		str := strings.TrimSpace(toString(v))
		if err := s.validate.Var(str, "email"); err != nil {
			return nil, msgEmail
		}
		return str, ""
	case kindInt, kindRef:
		n, ok := toInt(v)
		if !ok {
			return nil, msgInt
		}
		if f.nonNeg && n < 0 {
			return nil, msgNonNegative
		}
		return n, ""
	case kindDecimal:
		d, ok := toDecimal(v)
		if !ok {
			return nil, msgNumber
		}
		if f.nonNeg && d.IsNegative() {
			return nil, msgNonNegative
		}
		if !validation.HasMaxDecimalPlaces(d, validation.MoneyDecimalPlaces) {
			return nil, msgDecimalPlaces
		}
		return d.StringFixed(validation.MoneyDecimalPlaces), ""
	case kindBool:
		b, ok := toBool(v)
		if !ok {
			return nil, msgBool
		}
		return b, ""
	case kindDate:
		str := strings.TrimSpace(toString(v))
		if _, err := time.Parse(dateLayout, str); err != nil {
			return nil, msgDate
		}
		return str, ""
	case kindChoice:
		str := strings.TrimSpace(toString(v))
		for _, c := range f.choices {
			if c == str {
				return str, ""
			}
		}
		return nil, fmt.Sprintf("%q no es una elección válida.", str)
	}
	return nil, ""
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(x), true
	case int64:
		return decimal.NewFromInt(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case decimal.Decimal:
		return x, true
	}
	return decimal.Zero, false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "on", "yes":
			return true, true
		case "false", "0", "off", "no":
			return false, true
		}
	case json.Number:
		switch x.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	}
	return false, false
}

// mediaURL ruta pública simulada de un adjunto.
func mediaURL(dir, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "blob"
	}
	return "/media/" + dir + "/" + name
}

// compareValues orden total entre valores almacenados: nil primero, luego
// numérico si ambos son números, si no texto.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if da, ok := numeric(a); ok {
		if db, ok := numeric(b); ok {
			return da.Cmp(db)
		}
	}
	sa, sb := strings.ToLower(toString(a)), strings.ToLower(toString(b))
	return strings.Compare(sa, sb)
}

// numeric interpreta números y textos decimales ("19.99").
func numeric(v any) (decimal.Decimal, bool) {
	switch v.(type) {
	case json.Number, string, int64, int, float64:
		return toDecimal(v)
	}
	return decimal.Zero, false
}
