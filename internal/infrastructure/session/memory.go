// Package session implementa el almacenamiento persistente del token de autenticación
// que el transporte lee en cada petición y borra ante un 401.
package session

import (
	"context"
	"sync"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// DefaultKey clave fija bajo la que se guarda el token.
const DefaultKey = "authToken"

var _ api.Session = (*MemoryStore)(nil)

// MemoryStore sesión en memoria del proceso (tests, sandbox, uso embebido).
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore token inicial opcional.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
