package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Attrs mapeo plano de atributos escribibles de una entidad.
// Los valores nil (o punteros nil) se omiten siempre del payload saliente.
type Attrs map[string]any

// Params filtros de consulta de un listado; se envían tal cual (sin validar).
type Params map[string]any

// File adjunto binario (imagen de producto, avatar de usuaria).
type File struct {
	Name        string
	ContentType string // vacío = se deduce de la extensión
	Content     io.Reader
}

// Encoding forma del cuerpo de escritura, fija por recurso.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingMultipart
)

func (e Encoding) String() string {
	if e == EncodingMultipart {
		return "multipart"
	}
	return "json"
}

// Payload cuerpo de escritura: JSONPayload o MultipartPayload.
// Cada payload se codifica una sola vez (los adjuntos se consumen al leerlos).
type Payload interface {
	Encode() (body []byte, contentType string, err error)
	payload()
}

// NewPayload construye la variante que corresponde a enc.
func NewPayload(enc Encoding, attrs Attrs) Payload {
	if enc == EncodingMultipart {
		return MultipartPayload{Attrs: attrs}
	}
	return JSONPayload{Attrs: attrs}
}

// JSONPayload cuerpo application/json con los atributos no nulos.
type JSONPayload struct {
	Attrs Attrs
}

func (JSONPayload) payload() {}

// Encode serializa los atributos no nulos.
func (p JSONPayload) Encode() ([]byte, string, error) {
	clean := make(map[string]any, len(p.Attrs))
	for k, v := range p.Attrs {
		if isNull(v) {
			continue
		}
		if _, ok := deref(v).(File); ok {
			return nil, "", fmt.Errorf("el campo %q es un archivo y el recurso no admite multipart", k)
		}
		clean[k] = v
	}
	body, err := json.Marshal(clean)
	if err != nil {
		return nil, "", fmt.Errorf("serializar JSON: %w", err)
	}
	return body, contentTypeJSON, nil
}

// MultipartPayload cuerpo multipart/form-data: un campo por atributo no nulo.
// Se usa aunque no haya ningún archivo.
type MultipartPayload struct {
	Attrs Attrs
}

func (MultipartPayload) payload() {}

// Encode escribe los campos en orden alfabético de clave.
func (p MultipartPayload) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(p.Attrs))
	for k := range p.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := p.Attrs[key]
		if isNull(v) {
			continue
		}
		if f, ok := deref(v).(File); ok {
			if err := writeFilePart(w, key, f); err != nil {
				return nil, "", err
			}
			continue
		}
		s, err := formatValue(v)
		if err != nil {
			return nil, "", fmt.Errorf("campo %q: %w", key, err)
		}
		if err := w.WriteField(key, s); err != nil {
			return nil, "", fmt.Errorf("escribir campo %q: %w", key, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("cerrar multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(w *multipart.Writer, field string, f File) error {
	if f.Content == nil {
		return fmt.Errorf("archivo %q sin contenido", field)
	}
	name := f.Name
	if name == "" {
		name = "blob"
	}
	ct := f.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(name))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filepath.Base(name))))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("crear parte %q: %w", field, err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return fmt.Errorf("copiar archivo %q: %w", field, err)
	}
	return nil
}

// Values codifica los filtros como query string, omitiendo los nulos.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p))
	for k, v := range p {
		if isNull(v) {
			continue
		}
		if list, ok := v.([]string); ok {
			for _, s := range list {
				out.Add(k, s)
			}
			continue
		}
		s, err := formatValue(v)
		if err != nil {
			continue
		}
		out.Set(k, s)
	}
	return out
}

// isNull reporta nil y punteros/mapas/slices nil.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// deref sigue punteros no nil hasta el valor.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// formatValue representación textual de un atributo para form-data y query strings.
// Listas, mapas y structs se envían como JSON.
func formatValue(v any) (string, error) {
	v = deref(v)
	switch x := v.(type) {
	case string:
		return x, nil
	case decimal.Decimal:
		return x.String(), nil
	case time.Time:
		return x.Format(time.RFC3339), nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case fmt.Stringer:
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.String:
		return rv.String(), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("valor no serializable: %w", err)
	}
	return string(raw), nil
}
