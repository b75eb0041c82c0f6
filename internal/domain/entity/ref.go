package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Ref referencia a otra entidad del backend. El backend la expone como número (pk)
// o como texto (slug); se conserva su forma textual.
type Ref string

// UnmarshalJSON acepta números, textos y null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = Ref(n.String())
	return nil
}

// MarshalJSON emite un número cuando la referencia es un pk entero.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(r), 10, 64); err == nil {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

func (r Ref) String() string { return string(r) }
