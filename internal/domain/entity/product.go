package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product prenda del catálogo. Image es la URL del adjunto ya subido; para escribirla
// se envía un archivo por multipart.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    Ref             `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}
