package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jhoicas/fenix-admin/internal/domain"
)

// Rutas de colección del backend Fenix.
const (
	PathCategories = "/categories/"
	PathProducts   = "/products/"
	PathCustomers  = "/customers/"
	PathStaffUsers = "/usuarias/"
	PathOrders     = "/orders/"
	PathOrderItems = "/order-items/"
	PathLogin      = "/auth/login/"
)

// Exporter recursos que ofrecen exportación CSV.
type Exporter interface {
	ExportCSV(ctx context.Context) (*Response, error)
}

type csvExport struct {
	client *Client
	path   string
}

// ExportCSV descarga la colección como CSV. El cuerpo es binario y no se decodifica.
func (e csvExport) ExportCSV(ctx context.Context) (*Response, error) {
	return e.client.Do(ctx, Request{Method: http.MethodGet, Path: e.path + "export-csv/", Binary: true})
}

// CategoryGateway categorías (JSON).
type CategoryGateway struct {
	*Resource
}

// ProductGateway productos (multipart por la imagen).
type ProductGateway struct {
	*Resource
	csvExport
}

// CustomerGateway clientes (JSON).
type CustomerGateway struct {
	*Resource
	csvExport
}

// StaffUserGateway usuarias del personal (multipart por el avatar).
type StaffUserGateway struct {
	*Resource
	csvExport
}

// Reactivate vuelve a ACTIVE a una usuaria desactivada. Es idempotente:
// sobre una usuaria activa también responde con éxito.
func (g *StaffUserGateway) Reactivate(ctx context.Context, id int64) (*Response, error) {
	return g.Resource.client.Do(ctx, Request{Method: http.MethodPost, Path: g.itemPath(id) + "reactivate/"})
}

// GetStatistics totales y agregados por rol y estado.
func (g *StaffUserGateway) GetStatistics(ctx context.Context) (*Response, error) {
	return g.Resource.client.Do(ctx, Request{Method: http.MethodGet, Path: g.Path() + "statistics/"})
}

// OrderGateway pedidos (JSON con líneas anidadas).
type OrderGateway struct {
	*Resource
	csvExport
}

// OrderItemGateway líneas de pedido (JSON).
type OrderItemGateway struct {
	*Resource
	csvExport
}

// AuthGateway inicio y cierre de sesión contra el backend.
type AuthGateway struct {
	client *Client
}

// Login autentica y guarda el token en la sesión del cliente.
func (g *AuthGateway) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := g.client.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    PathLogin,
		Payload: JSONPayload{Attrs: Attrs{"username": username, "password": password}},
	})
	if err != nil {
		return "", err
	}
	var body struct {
		Key    string `json:"key"`
		Token  string `json:"token"`
		Access string `json:"access"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return "", fmt.Errorf("login: %w: %v", domain.ErrUnexpectedShape, err)
	}
	token := firstNonEmpty(body.Key, body.Token, body.Access)
	if token == "" {
		return "", fmt.Errorf("login: %w: sin token", domain.ErrUnexpectedShape)
	}
	if s := g.client.Session(); s != nil {
		if err := s.Save(ctx, token); err != nil {
			return "", fmt.Errorf("login: guardar sesión: %w", err)
		}
	}
	return token, nil
}

// Logout borra el token local.
func (g *AuthGateway) Logout(ctx context.Context) error {
	if s := g.client.Session(); s != nil {
		return s.Clear(ctx)
	}
	return nil
}

// Gateways un gateway por recurso del backend.
type Gateways struct {
	Categories *CategoryGateway
	Products   *ProductGateway
	Customers  *CustomerGateway
	StaffUsers *StaffUserGateway
	Orders     *OrderGateway
	OrderItems *OrderItemGateway
	Auth       *AuthGateway
}

// NewGateways construye todos los gateways sobre el mismo transporte.
// Productos y usuarias tienen adjuntos binarios: siempre multipart.
func NewGateways(c *Client) *Gateways {
	return &Gateways{
		Categories: &CategoryGateway{Resource: NewResource(c, PathCategories, EncodingJSON)},
		Products: &ProductGateway{
			Resource:  NewResource(c, PathProducts, EncodingMultipart),
			csvExport: csvExport{client: c, path: PathProducts},
		},
		Customers: &CustomerGateway{
			Resource:  NewResource(c, PathCustomers, EncodingJSON),
			csvExport: csvExport{client: c, path: PathCustomers},
		},
		StaffUsers: &StaffUserGateway{
			Resource:  NewResource(c, PathStaffUsers, EncodingMultipart),
			csvExport: csvExport{client: c, path: PathStaffUsers},
		},
		Orders: &OrderGateway{
			Resource:  NewResource(c, PathOrders, EncodingJSON),
			csvExport: csvExport{client: c, path: PathOrders},
		},
		OrderItems: &OrderItemGateway{
			Resource:  NewResource(c, PathOrderItems, EncodingJSON),
			csvExport: csvExport{client: c, path: PathOrderItems},
		},
		Auth: &AuthGateway{client: c},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
