// Package download guarda cuerpos binarios (CSV, PDF) como archivos en disco.
package download

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrEmptyName nombre de archivo vacío o inválido tras sanearlo.
var ErrEmptyName = errors.New("download: nombre de archivo vacío")

// Saver escribe archivos dentro de un directorio fijo.
// Cada descarga pasa por un temporal que se elimina siempre, haya éxito o no.
type Saver struct {
	fs  afero.Fs
	dir string
	log zerolog.Logger
}

// NewSaver dir vacío = directorio actual.
func NewSaver(fs afero.Fs, dir string, log zerolog.Logger) *Saver {
	if dir == "" {
		dir = "."
	}
	return &Saver{fs: fs, dir: dir, log: log}
}

// Dir directorio de destino.
func (s *Saver) Dir() string { return s.dir }

// SaveBytes atajo de Save para cuerpos ya leídos.
func (s *Saver) SaveBytes(name string, body []byte) (string, error) {
	return s.Save(name, bytes.NewReader(body))
}

// Save copia content a dir/name y devuelve la ruta final.
// Si el archivo existe se reemplaza.
func (s *Saver) Save(name string, content io.Reader) (path string, err error) {
	name = sanitize(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("download: crear directorio %s: %w", s.dir, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("download: crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// el temporal no sobrevive a la llamada
		if rmErr := s.fs.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.log.Warn().Err(rmErr).Str("file", tmpName).Msg("download: no se pudo borrar el temporal")
		}
	}()

	n, err := io.Copy(tmp, content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("download: escribir %s: %w", name, err)
	}

	path = filepath.Join(s.dir, name)
	if err := s.fs.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("download: mover a %s: %w", path, err)
	}
	s.log.Info().Str("file", path).Int64("bytes", n).Msg("download: archivo guardado")
	return path, nil
}

// FilenameFromHeader nombre sugerido por Content-Disposition, o fallback.
func FilenameFromHeader(h http.Header, fallback string) string {
	cd := h.Get("Content-Disposition")
	if cd == "" {
		return fallback
	}
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return fallback
	}
	if name := sanitize(params["filename"]); name != "" {
		return name
	}
	return fallback
}

// sanitize se queda con el último elemento de la ruta.
func sanitize(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "." || name == ".." {
		return ""
	}
	return name
}
