package usecase

import (
	"context"

	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// OrderGateway verbos de pedidos que usan los casos de uso (lo cumple *api.OrderGateway).
type OrderGateway interface {
	GetByID(ctx context.Context, id int64) (*api.Response, error)
	Create(ctx context.Context, attrs api.Attrs) (*api.Response, error)
	PartialUpdate(ctx context.Context, id int64, attrs api.Attrs) (*api.Response, error)
}

// CustomerReader lectura de clientes (lo cumple *api.CustomerGateway).
type CustomerReader interface {
	GetByID(ctx context.Context, id int64) (*api.Response, error)
}

// ReceiptGenerator renderiza el comprobante de un pedido. customer puede ser nil.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.Order, customer *entity.Customer) ([]byte, error)
}

// FileSaver destino de las descargas (lo cumple *download.Saver).
type FileSaver interface {
	SaveBytes(name string, body []byte) (string, error)
}
