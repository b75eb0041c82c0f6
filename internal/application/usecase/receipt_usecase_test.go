package usecase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fenix-admin/internal/application/usecase"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

type customerFunc func(ctx context.Context, id int64) (*api.Response, error)

func (f customerFunc) GetByID(ctx context.Context, id int64) (*api.Response, error) { return f(ctx, id) }

// captureGenerator registra lo recibido y devuelve un PDF mínimo.
type captureGenerator struct {
	order    *entity.Order
	customer *entity.Customer
}

func (g *captureGenerator) GenerateReceipt(_ context.Context, o *entity.Order, c *entity.Customer) ([]byte, error) {
	g.order, g.customer = o, c
	return []byte("%PDF-1.3"), nil
}

func TestReceipt_CargaPedidoYCliente(t *testing.T) {
	orders := &fakeOrders{response: orderJSON("PENDIENTE")}
	var askedID int64
	customers := customerFunc(func(_ context.Context, id int64) (*api.Response, error) {
		askedID = id
		body, _ := json.Marshal(map[string]any{"id": id, "name": "Luz", "email": "luz@x.co"})
		return &api.Response{Status: http.StatusOK, Body: body}, nil
	})
	gen := &captureGenerator{}
	saver := newFakeSaver()
	uc := usecase.NewReceiptUseCase(orders, customers, gen, saver, zerolog.Nop())

	path, err := uc.Generate(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "/out/pedido-9.pdf", path)
	assert.Equal(t, "%PDF-1.3", string(saver.files["pedido-9.pdf"]))
	assert.Equal(t, int64(3), askedID)
	require.NotNil(t, gen.customer)
	assert.Equal(t, "Luz", gen.customer.Name)
	assert.Len(t, gen.order.Items, 1)
}

func TestReceipt_ClienteNoDisponibleNoBloquea(t *testing.T) {
	orders := &fakeOrders{response: orderJSON("PENDIENTE")}
	customers := customerFunc(func(context.Context, int64) (*api.Response, error) {
		return nil, &api.ResponseError{Status: 403}
	})
	gen := &captureGenerator{}
	uc := usecase.NewReceiptUseCase(orders, customers, gen, newFakeSaver(), zerolog.Nop())

	_, err := uc.Generate(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, gen.customer)
}

func TestReceipt_PedidoInexistente(t *testing.T) {
	orders := &fakeOrders{err: &api.ResponseError{Status: 404}}
	uc := usecase.NewReceiptUseCase(orders, nil, &captureGenerator{}, newFakeSaver(), zerolog.Nop())

	_, err := uc.Generate(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Recurso no encontrado")
}
