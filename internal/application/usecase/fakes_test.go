package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// fakeOrders gateway de pedidos en memoria que registra lo enviado.
type fakeOrders struct {
	created  api.Attrs
	patched  api.Attrs
	patchID  int64
	response any
	err      error
}

func (f *fakeOrders) reply() (*api.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := json.Marshal(f.response)
	return &api.Response{Status: http.StatusOK, Header: http.Header{}, Body: body}, nil
}

func (f *fakeOrders) GetByID(context.Context, int64) (*api.Response, error) { return f.reply() }

func (f *fakeOrders) Create(_ context.Context, attrs api.Attrs) (*api.Response, error) {
	f.created = attrs
	return f.reply()
}

func (f *fakeOrders) PartialUpdate(_ context.Context, id int64, attrs api.Attrs) (*api.Response, error) {
	f.patchID = id
	f.patched = attrs
	return f.reply()
}

// fakeSaver guarda en un mapa.
type fakeSaver struct {
	files map[string][]byte
}

func newFakeSaver() *fakeSaver { return &fakeSaver{files: map[string][]byte{}} }

func (s *fakeSaver) SaveBytes(name string, body []byte) (string, error) {
	s.files[name] = body
	return "/out/" + name, nil
}
