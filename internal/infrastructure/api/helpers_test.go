package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// countingSession sesión en memoria que cuenta los borrados.
type countingSession struct {
	mu     sync.Mutex
	token  string
	clears int
}

func (s *countingSession) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *countingSession) Save(_ context.Context, t string) error {
	s.mu.Lock()
	s.token = t
	s.mu.Unlock()
	return nil
}

func (s *countingSession) Clear(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.clears++
	s.mu.Unlock()
	return nil
}

// recordingNavigator guarda las rutas navegadas.
type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(_ context.Context, route string) {
	n.mu.Lock()
	n.routes = append(n.routes, route)
	n.mu.Unlock()
}

// captured petición tal como la recibió el servidor de prueba.
type captured struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// newRecordingServer responde status/body fijos y guarda cada petición.
func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, *[]captured) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []captured
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, captured{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   raw,
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newTestClient(baseURL string, s api.Session, n api.Navigator) *api.Client {
	return api.NewClient(api.Options{BaseURL: baseURL + "/api"}, s, n)
}
