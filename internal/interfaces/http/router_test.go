package http_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/memory"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/session"
	apphttp "github.com/jhoicas/fenix-admin/internal/interfaces/http"
	"github.com/jhoicas/fenix-admin/pkg/config"
)

// sandboxEnv backend sandbox en un httptest.Server más el cliente real apuntando a él.
type sandboxEnv struct {
	gw     *api.Gateways
	sess   *session.MemoryStore
	routes []string
}

func newSandbox(t *testing.T) *sandboxEnv {
	t.Helper()
	ctx := context.Background()
	svc := sandbox.NewService(memory.NewRecordRepository(), zerolog.Nop())
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin123"))

	app := apphttp.NewApp("fenix-sandbox-test", apphttp.RouterDeps{
		Sandbox: svc,
		JWT:     config.JWTConfig{Secret: testJWTSecret, Expiration: testExpMin, Issuer: testIssuer},
		Log:     zerolog.Nop(),
	})
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	env := &sandboxEnv{sess: session.NewMemoryStore("")}
	nav := api.NavigatorFunc(func(_ context.Context, route string) {
		env.routes = append(env.routes, route)
	})
	client := api.NewClient(api.Options{BaseURL: srv.URL + "/api"}, env.sess, nav)
	env.gw = api.NewGateways(client)
	return env
}

func (e *sandboxEnv) login(t *testing.T) {
	t.Helper()
	_, err := e.gw.Auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
}

func normalized(t *testing.T, err error) *domain.APIError {
	t.Helper()
	require.Error(t, err)
	return api.Normalize(err)
}

func TestSandbox_LoginInvalidoEsValidacion(t *testing.T) {
	env := newSandbox(t)
	_, err := env.gw.Auth.Login(context.Background(), "admin", "mala")

	apiErr := normalized(t, err)
	assert.Equal(t, domain.KindValidation, apiErr.Kind)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t,
		[]string{"No se puede iniciar sesión con las credenciales proporcionadas."},
		apiErr.FieldErrors()["non_field_errors"])
}

func TestSandbox_SinTokenRedirigeAlLogin(t *testing.T) {
	env := newSandbox(t)
	require.NoError(t, env.sess.Save(context.Background(), "caducado"))

	_, err := env.gw.Products.GetAll(context.Background(), nil)

	apiErr := normalized(t, err)
	assert.Equal(t, domain.KindAuth, apiErr.Kind)
	tok, _ := env.sess.Token(context.Background())
	assert.Empty(t, tok, "el 401 borra la sesión")
	assert.Equal(t, []string{"/login"}, env.routes)
}

func TestSandbox_ProductoMultipartApareceEnListado(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()

	resp, err := env.gw.Products.Create(ctx, api.Attrs{
		"name":     "Camisa lino",
		"price":    decimal.RequireFromString("19.99"),
		"stock":    5,
		"category": nil,
		"image":    api.File{Name: "camisa.png", Content: strings.NewReader("\x89PNG")},
	})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	created, err := api.Decode[entity.Product](resp)
	require.NoError(t, err)
	assert.Equal(t, "/media/products/camisa.png", created.Image)

	resp, err = env.gw.Products.GetAll(ctx, api.Params{"search": "lino"})
	require.NoError(t, err)
	items, page, err := api.UnwrapPage[entity.Product](resp)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Camisa lino", items[0].Name)
	assert.True(t, decimal.RequireFromString("19.99").Equal(items[0].Price))
	assert.Equal(t, 5, items[0].Stock)
	require.NotNil(t, page.Count)
	assert.Equal(t, 1, *page.Count)
	assert.Nil(t, page.Next)
}

func TestSandbox_CategoriasArrayPlano(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()

	_, err := env.gw.Categories.Create(ctx, api.Attrs{"name": "Vestidos"})
	require.NoError(t, err)
	resp, err := env.gw.Categories.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, byte('['), resp.Body[0])

	items, page, err := api.UnwrapPage[entity.Category](resp)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Vestidos", items[0].Name)
	assert.Nil(t, page.Count)
}

func TestSandbox_PaginacionConURLsAbsolutas(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()
	for i := 0; i < sandbox.PageSize+1; i++ {
		_, err := env.gw.Customers.Create(ctx, api.Attrs{"name": fmt.Sprintf("c%02d", i), "email": fmt.Sprintf("c%02d@x.co", i)})
		require.NoError(t, err)
	}

	resp, err := env.gw.Customers.GetAll(ctx, api.Params{"ordering": "name"})
	require.NoError(t, err)
	items, page, err := api.UnwrapPage[entity.Customer](resp)
	require.NoError(t, err)
	assert.Len(t, items, sandbox.PageSize)
	require.NotNil(t, page.Next)
	assert.True(t, strings.HasPrefix(*page.Next, "http://"))
	assert.Contains(t, *page.Next, "page=2")
	assert.Contains(t, *page.Next, "ordering=name")

	resp, err = env.gw.Customers.GetAll(ctx, api.Params{"ordering": "name", "page": 2})
	require.NoError(t, err)
	items, page, err = api.UnwrapPage[entity.Customer](resp)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c20", items[0].Name)
	require.NotNil(t, page.Previous)
	assert.NotContains(t, *page.Previous, "page=")

	_, err = env.gw.Customers.GetAll(ctx, api.Params{"page": 9})
	assert.Equal(t, domain.KindNotFound, normalized(t, err).Kind)
}

func TestSandbox_EmailDuplicadoDevuelveDetalles(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()
	_, err := env.gw.Customers.Create(ctx, api.Attrs{"name": "Luz", "email": "luz@x.co"})
	require.NoError(t, err)

	_, err = env.gw.Customers.Create(ctx, api.Attrs{"name": "Otra", "email": "luz@x.co"})
	apiErr := normalized(t, err)
	assert.Equal(t, domain.KindValidation, apiErr.Kind)
	assert.Equal(t, "Datos inválidos", apiErr.Message)
	assert.Contains(t, apiErr.FieldErrors(), "email")
}

func seedOrder(t *testing.T, env *sandboxEnv) (customerID, productID int64) {
	t.Helper()
	ctx := context.Background()
	resp, err := env.gw.Customers.Create(ctx, api.Attrs{"name": "Luz", "email": "luz@x.co"})
	require.NoError(t, err)
	customer, err := api.Decode[entity.Customer](resp)
	require.NoError(t, err)

	resp, err = env.gw.Products.Create(ctx, api.Attrs{"name": "Camisa", "price": "10.00"})
	require.NoError(t, err)
	product, err := api.Decode[entity.Product](resp)
	require.NoError(t, err)
	return customer.ID, product.ID
}

func TestSandbox_PedidoTotalYCambioDeEstado(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()
	customerID, productID := seedOrder(t, env)

	resp, err := env.gw.Orders.Create(ctx, api.Attrs{
		"customer": customerID,
		"items":    []map[string]any{{"product": productID, "quantity": 2, "price": "10.00"}},
	})
	require.NoError(t, err)
	order, err := api.Decode[entity.Order](resp)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(order.TotalAmount), "total %s", order.TotalAmount)
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.Equal(t, "Luz", order.CustomerName)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Camisa", order.Items[0].ProductName)

	resp, err = env.gw.Orders.PartialUpdate(ctx, order.ID, api.Attrs{"status": entity.OrderCompleted})
	require.NoError(t, err)
	patched, err := api.Decode[entity.Order](resp)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCompleted, patched.Status)
	require.Len(t, patched.Items, 1, "PATCH sin items no toca las líneas")
	assert.Equal(t, order.Items[0].ID, patched.Items[0].ID)
	assert.True(t, order.TotalAmount.Equal(patched.TotalAmount))
}

func TestSandbox_PedidoInvalido(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()
	customerID, productID := seedOrder(t, env)

	_, err := env.gw.Orders.Create(ctx, api.Attrs{
		"customer": customerID,
		"items":    []map[string]any{{"product": productID, "quantity": 0, "price": "10.00"}},
	})
	apiErr := normalized(t, err)
	assert.Equal(t, domain.KindValidation, apiErr.Kind)
	assert.Contains(t, apiErr.FieldErrors(), "items[0].quantity")

	_, err = env.gw.Orders.GetByID(ctx, 999)
	assert.Equal(t, domain.KindNotFound, normalized(t, err).Kind)
}

func TestSandbox_UsuariasBajaReactivacionEstadisticas(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()

	resp, err := env.gw.StaffUsers.Create(ctx, api.Attrs{
		"username":         "bea",
		"email":            "bea@fenix.co",
		"password":         "secreto123",
		"password_confirm": "secreto123",
		"salary":           decimal.RequireFromString("1000"),
		"avatar":           api.File{Name: "bea.jpg", Content: strings.NewReader("jpg")},
	})
	require.NoError(t, err)
	assert.NotContains(t, string(resp.Body), "password")
	bea, err := api.Decode[entity.StaffUser](resp)
	require.NoError(t, err)
	assert.Equal(t, "/media/avatars/bea.jpg", bea.Avatar)

	resp, err = env.gw.StaffUsers.Delete(ctx, bea.ID)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body), "desactivada")

	for i := 0; i < 2; i++ {
		resp, err = env.gw.StaffUsers.Reactivate(ctx, bea.ID)
		require.NoError(t, err)
		body, err := api.Decode[struct {
			Detail  string           `json:"detail"`
			Usuaria entity.StaffUser `json:"usuaria"`
		}](resp)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusActive, body.Usuaria.Status)
		assert.True(t, body.Usuaria.IsActive)
	}

	resp, err = env.gw.StaffUsers.GetStatistics(ctx)
	require.NoError(t, err)
	stats, err := api.Decode[entity.StaffStatistics](resp)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Active)
	require.NotNil(t, stats.AverageSalary)
	assert.Equal(t, "1000", stats.AverageSalary.String())
}

func TestSandbox_ExportCSV(t *testing.T) {
	env := newSandbox(t)
	env.login(t)
	ctx := context.Background()
	_, productID := seedOrder(t, env)
	require.NotZero(t, productID)

	resp, err := env.gw.Products.ExportCSV(ctx)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "productos.csv")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	assert.True(t, strings.HasPrefix(string(resp.Body), "ID,Nombre,Talla,Color,Precio,Stock,ID Categoria,Fecha Creacion\n"))
	assert.Contains(t, string(resp.Body), "Camisa")
}

func TestSandbox_ErroresTipadosDelCliente(t *testing.T) {
	env := newSandbox(t)
	env.login(t)

	_, err := env.gw.Products.GetByID(context.Background(), 12345)
	var respErr *api.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, 404, respErr.Status)
	assert.Contains(t, string(respErr.Body), "No encontrado.")
}
