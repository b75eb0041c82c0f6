package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record registro genérico almacenado por el backend de pruebas (sandbox).
// Las claves son los nombres de campo del contrato REST.
type Record map[string]any

// ID devuelve el pk del registro o 0 si no lo tiene.
func (r Record) ID() int64 {
	return AsInt64(r["id"])
}

// Clone copia superficial (los valores anidados se comparten).
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String valor de texto de key; "" si no es texto.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// AsInt64 convierte los tipos numéricos que pueden aparecer en un registro.
func AsInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, _ := n.Float64()
			return int64(f)
		}
		return i
	}
	return 0
}

// NormalizeRecord pasa rec por JSON para que solo contenga valores JSON
// (números como json.Number). Así memoria y Postgres devuelven lo mismo.
func NormalizeRecord(rec Record) (Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("record: serializar: %w", err)
	}
	return DecodeRecord(raw)
}

// DecodeRecord decodifica un objeto JSON conservando los números como json.Number.
func DecodeRecord(raw []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out Record
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("record: decodificar: %w", err)
	}
	return out, nil
}
