package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

var _ api.Session = (*FileStore)(nil)

// FileStore sesión persistida en un archivo JSON {clave: token}.
// Otras claves del archivo se conservan al guardar o borrar.
type FileStore struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	key  string
}

// NewFileStore key vacío = DefaultKey.
func NewFileStore(fs afero.Fs, path, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{fs: fs, path: path, key: key}
}

func (s *FileStore) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return "", err
	}
	return data[s.key], nil
}

func (s *FileStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	data[s.key] = token
	return s.write(data)
}

// Clear elimina la clave; si el archivo no existe no hace nada.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[s.key]; !ok {
		return nil
	}
	delete(data, s.key)
	return s.write(data)
}

func (s *FileStore) read() (map[string]string, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("session: leer %s: %w", s.path, err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("session: archivo corrupto %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) write(data map[string]string) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: crear directorio: %w", err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("session: serializar: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, raw, 0o600); err != nil {
		return fmt.Errorf("session: escribir %s: %w", s.path, err)
	}
	return nil
}
