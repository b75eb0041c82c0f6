package dto

import "github.com/shopspring/decimal"

// OrderLineRequest línea de un pedido al escribirlo (escritura anidada).
type OrderLineRequest struct {
	Product  int64           `json:"product" validate:"required,gt=0"`
	Quantity int             `json:"quantity" validate:"min=1"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
}

// OrderRequest cuerpo de creación o reemplazo de un pedido.
type OrderRequest struct {
	Customer int64              `json:"customer" validate:"required,gt=0"`
	Status   string             `json:"status,omitempty" validate:"omitempty,order_status"`
	Items    []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderStatusRequest cambio de estado (PATCH).
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// LoginRequest credenciales de /auth/login/.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse igual que dj-rest-auth: {"key": token}.
type LoginResponse struct {
	Key string `json:"key"`
}

// DetailResponse mensaje simple {"detail": ...} de las respuestas de error y acciones.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// PageResponse sobre paginado {count, next, previous, results}.
type PageResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}
