package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// splitPair separa "clave=valor" en el primer '='.
func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: se esperaba clave=valor, llegó %q", domain.ErrInvalidInput, s)
	}
	return key, value, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id inválido %q", domain.ErrInvalidInput, s)
	}
	return id, nil
}

func parseParams(pairs []string) (api.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(api.Params, len(pairs))
	for _, p := range pairs {
		k, v, err := splitPair(p)
		if err != nil {
			return nil, err
		}
		params[k] = v
	}
	return params, nil
}

// writeFlags valores de --field (texto), --raw (JSON) y --file (ruta a adjuntar).
type writeFlags struct {
	fields []string
	raws   []string
	files  []string
}

// attrs arma los atributos de escritura. Los adjuntos se abren en fs; el llamador
// debe invocar cleanup cuando la petición haya terminado.
func (w writeFlags) attrs(fs afero.Fs) (attrs api.Attrs, cleanup func(), err error) {
	attrs = api.Attrs{}
	var opened []afero.File
	cleanup = func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	for _, p := range w.fields {
		k, v, err := splitPair(p)
		if err != nil {
			return nil, cleanup, err
		}
		attrs[k] = v
	}
	for _, p := range w.raws {
		k, v, err := splitPair(p)
		if err != nil {
			return nil, cleanup, err
		}
		var decoded any
		dec := json.NewDecoder(strings.NewReader(v))
		dec.UseNumber()
		if err := dec.Decode(&decoded); err != nil {
			return nil, cleanup, fmt.Errorf("%w: --raw %s no es JSON: %v", domain.ErrInvalidInput, k, err)
		}
		attrs[k] = decoded
	}
	for _, p := range w.files {
		k, path, err := splitPair(p)
		if err != nil {
			return nil, cleanup, err
		}
		f, err := fs.Open(path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("abrir adjunto %s: %w", k, err)
		}
		opened = append(opened, f)
		attrs[k] = api.File{Name: filepath.Base(path), Content: f}
	}
	if len(attrs) == 0 {
		return nil, cleanup, fmt.Errorf("%w: indica al menos un --field, --raw o --file", domain.ErrInvalidInput)
	}
	return attrs, cleanup, nil
}

// parseItem "producto:cantidad:precio" -> línea de pedido.
func parseItem(s string) (dto.OrderLineRequest, error) {
	var line dto.OrderLineRequest
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return line, fmt.Errorf("%w: --item espera producto:cantidad:precio, llegó %q", domain.ErrInvalidInput, s)
	}
	product, err := parseID(parts[0])
	if err != nil {
		return line, err
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return line, fmt.Errorf("%w: cantidad inválida %q", domain.ErrInvalidInput, parts[1])
	}
	price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return line, fmt.Errorf("%w: precio inválido %q", domain.ErrInvalidInput, parts[2])
	}
	line.Product = product
	line.Quantity = qty
	line.Price = price
	return line, nil
}
