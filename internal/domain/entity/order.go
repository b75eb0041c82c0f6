package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderPending    = "PENDIENTE"
	OrderProcessing = "PROCESANDO"
	OrderShipped    = "ENVIADO"
	OrderCompleted  = "COMPLETADO"
	OrderCancelled  = "CANCELADO"
)

// OrderStatuses lista cerrada de estados, en el orden del flujo.
var OrderStatuses = []string{OrderPending, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled}

// IsOrderStatus indica si s es un estado de pedido válido.
func IsOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// OrderItem línea de un pedido. Price es el precio unitario al momento de la venta
// y no se recalcula desde Product.Price.
type OrderItem struct {
	ID          int64           `json:"id,omitempty"`
	Order       Ref             `json:"order,omitempty"`
	Product     Ref             `json:"product"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Subtotal quantity × price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order pedido de un cliente con sus líneas.
type Order struct {
	ID           int64           `json:"id"`
	Customer     Ref             `json:"customer"`
	CustomerName string          `json:"customer_name,omitempty"`
	Status       string          `json:"status"`
	OrderDate    *time.Time      `json:"order_date,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Items        []OrderItem     `json:"items"`
}

// ComputeTotal Σ(quantity × price) de las líneas. TotalAmount es la copia
// almacenada por el backend.
func (o Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
