package sandbox_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fenix-admin/internal/application/sandbox"
	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/domain/repository"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/memory"
)

func newService(t *testing.T) *sandbox.Service {
	t.Helper()
	fixed := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	store := memory.NewRecordRepository()
	return sandbox.NewService(store, zerolog.Nop()).
		WithTxRunner(memory.NewTxRunner(store)).
		WithClock(func() time.Time { return fixed })
}

func values(kv ...any) sandbox.Input {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return sandbox.Input{Values: m}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *sandbox.ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, llegó %v", err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	return verr.Fields
}

func mustCreate(t *testing.T, s *sandbox.Service, resource string, in sandbox.Input) entity.Record {
	t.Helper()
	rec, err := s.Create(context.Background(), resource, in)
	require.NoError(t, err)
	return rec
}

func TestCategorias_NoPaginadoYUnico(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	mustCreate(t, s, sandbox.Categories, values("name", "Vestidos"))
	mustCreate(t, s, sandbox.Categories, values("name", "Camisas", "description", "manga corta"))

	res, err := s.List(ctx, sandbox.Categories, nil)
	require.NoError(t, err)
	assert.False(t, res.Paginated)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Camisas", res.Items[0].String("name"), "orden por nombre")

	_, err = s.Create(ctx, sandbox.Categories, values("name", "camisas"))
	assert.Contains(t, fieldErrors(t, err), "name")
}

func TestProductos_CoercionDesdeFormulario(t *testing.T) {
	s := newService(t)
	cat := mustCreate(t, s, sandbox.Categories, values("name", "Camisas"))

	in := values("name", "Camisa lino", "price", "19.9", "stock", "5", "category", fmt.Sprint(cat.ID()))
	in.Files = map[string]string{"image": "foto camisa.png"}
	p := mustCreate(t, s, sandbox.Products, in)

	assert.Equal(t, "19.90", p["price"])
	assert.Equal(t, int64(5), entity.AsInt64(p["stock"]))
	assert.Equal(t, cat.ID(), entity.AsInt64(p["category"]))
	assert.Equal(t, "/media/products/foto camisa.png", p["image"])
	assert.NotEmpty(t, p["created_at"])
}

func TestProductos_Validacion(t *testing.T) {
	s := newService(t)
	_, err := s.Create(context.Background(), sandbox.Products, values("price", "-1", "stock", "x", "category", "99"))
	errs := fieldErrors(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
	assert.Contains(t, errs, "category")
}

func TestProductos_FiltrosYOrden(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	mustCreate(t, s, sandbox.Products, values("name", "Camisa azul", "price", "30"))
	mustCreate(t, s, sandbox.Products, values("name", "Pantalón", "price", "50"))
	mustCreate(t, s, sandbox.Products, values("name", "Camisa roja", "price", "10"))

	res, err := s.List(ctx, sandbox.Products, sandbox.Query{"search": "camisa", "ordering": "price"})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Camisa roja", res.Items[0].String("name"))

	res, err = s.List(ctx, sandbox.Products, sandbox.Query{"price_min": "20", "price_max": "40"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Camisa azul", res.Items[0].String("name"))

	_, err = s.List(ctx, sandbox.Products, sandbox.Query{"price_min": "barato"})
	assert.Contains(t, fieldErrors(t, err), "price_min")
}

func TestProductos_Paginacion(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		mustCreate(t, s, sandbox.Products, values("name", fmt.Sprintf("p%02d", i), "price", "1"))
	}
	res, err := s.List(ctx, sandbox.Products, sandbox.Query{"page": "2"})
	require.NoError(t, err)
	assert.True(t, res.Paginated)
	assert.Equal(t, 25, res.Count)
	assert.Len(t, res.Items, 5)
	assert.True(t, res.HasPrevious)
	assert.False(t, res.HasNext)

	_, err = s.List(ctx, sandbox.Products, sandbox.Query{"page": "3"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListado_PaginaFueraDeRango(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	mustCreate(t, s, sandbox.Customers, values("name", "Luz", "email", "luz@x.co"))

	for _, page := range []string{"2", "461168601842738800", "9223372036854775807"} {
		assert.NotPanics(t, func() {
			_, err := s.List(ctx, sandbox.Customers, sandbox.Query{"page": page})
			assert.ErrorIs(t, err, domain.ErrNotFound, page)
		})
	}

	res, err := s.List(ctx, sandbox.Customers, sandbox.Query{"page": "1"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestListado_ColeccionVaciaTienePaginaUno(t *testing.T) {
	s := newService(t)
	res, err := s.List(context.Background(), sandbox.Customers, sandbox.Query{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.False(t, res.HasNext)
}

func TestClientes_EmailUnicoYValido(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	mustCreate(t, s, sandbox.Customers, values("name", "Luz", "email", "luz@x.co"))

	_, err := s.Create(ctx, sandbox.Customers, values("name", "Otra", "email", "LUZ@x.co"))
	assert.Contains(t, fieldErrors(t, err), "email")

	_, err = s.Create(ctx, sandbox.Customers, values("name", "Otra", "email", "no-es-email"))
	assert.Contains(t, fieldErrors(t, err), "email")
}

func TestActualizacion_PutExigeRequeridosPatchNo(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	c := mustCreate(t, s, sandbox.Customers, values("name", "Luz", "email", "luz@x.co"))

	_, err := s.Update(ctx, sandbox.Customers, c.ID(), values("phone", "300"), false)
	assert.Contains(t, fieldErrors(t, err), "name")

	got, err := s.Update(ctx, sandbox.Customers, c.ID(), values("phone", "300"), true)
	require.NoError(t, err)
	assert.Equal(t, "300", got["phone"])
	assert.Equal(t, "Luz", got["name"])

	_, err = s.Update(ctx, sandbox.Customers, 999, values("phone", "1"), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func newStaff(t *testing.T, s *sandbox.Service, username string, extra ...any) entity.Record {
	t.Helper()
	kv := append([]any{
		"username", username, "email", username + "@fenix.co",
		"password", "secreto123", "password_confirm", "secreto123",
	}, extra...)
	return mustCreate(t, s, sandbox.StaffUsers, values(kv...))
}

func TestUsuarias_PasswordNuncaSeDevuelve(t *testing.T) {
	s := newService(t)
	u := newStaff(t, s, "ana")
	assert.NotContains(t, u, "password_hash")
	assert.NotContains(t, u, "password")
	assert.Equal(t, "ACTIVE", u["status"])
	assert.Equal(t, true, u["is_active"])
	assert.Equal(t, "EMPLOYEE", u["role"])
}

func TestUsuarias_PasswordsDistintas(t *testing.T) {
	s := newService(t)
	_, err := s.Create(context.Background(), sandbox.StaffUsers, values(
		"username", "eva", "email", "eva@fenix.co", "password", "a", "password_confirm", "b"))
	assert.Equal(t, []string{"Las contraseñas no coinciden."}, fieldErrors(t, err)["password_confirm"])
}

func TestUsuarias_BajaLogicaYReactivacion(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	u := newStaff(t, s, "ana")
	newStaff(t, s, "bea")

	deleted, err := s.Delete(ctx, sandbox.StaffUsers, u.ID())
	require.NoError(t, err)
	assert.Equal(t, "INACTIVE", deleted["status"])
	assert.Equal(t, false, deleted["is_active"])

	res, err := s.List(ctx, sandbox.StaffUsers, nil)
	require.NoError(t, err)
	assert.Len(t, res.Items, 1, "las inactivas se ocultan por defecto")

	res, err = s.List(ctx, sandbox.StaffUsers, sandbox.Query{"show_all": "true"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	for i := 0; i < 2; i++ {
		got, err := s.Reactivate(ctx, u.ID())
		require.NoError(t, err, "reactivar es idempotente")
		assert.Equal(t, "ACTIVE", got["status"])
		assert.Equal(t, true, got["is_active"])
	}

	_, err = s.Reactivate(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUsuarias_Estadisticas(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	newStaff(t, s, "ana", "role", "ADMIN", "salary", "1000")
	newStaff(t, s, "bea", "salary", "2001")
	c := newStaff(t, s, "cris")
	_, err := s.Delete(ctx, sandbox.StaffUsers, c.ID())
	require.NoError(t, err)

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, []entity.GroupCount{{Role: "ADMIN", Count: 1}, {Role: "EMPLOYEE", Count: 2}}, stats.ByRole)
	assert.Equal(t, []entity.GroupCount{{Status: "ACTIVE", Count: 2}, {Status: "INACTIVE", Count: 1}}, stats.ByStatus)
	require.NotNil(t, stats.AverageSalary)
	assert.Equal(t, "1500.5", stats.AverageSalary.String())
}

func TestUsuarias_Authenticate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	u := newStaff(t, s, "ana")

	got, err := s.Authenticate(ctx, "ANA", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), got.ID())

	_, err = s.Authenticate(ctx, "ana@fenix.co", "secreto123")
	assert.NoError(t, err, "también por email")

	_, err = s.Authenticate(ctx, "ana", "otra")
	assert.ErrorIs(t, err, sandbox.ErrBadCredentials)

	_, err = s.Delete(ctx, sandbox.StaffUsers, u.ID())
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, "ana", "secreto123")
	assert.ErrorIs(t, err, sandbox.ErrBadCredentials, "inactiva no entra")
}

func TestEnsureAdmin_Idempotente(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	require.NoError(t, s.EnsureAdmin(ctx, "admin", "admin123"))
	require.NoError(t, s.EnsureAdmin(ctx, "admin", "otra"))

	res, err := s.List(ctx, sandbox.StaffUsers, nil)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "ADMIN", res.Items[0]["role"])

	_, err = s.Authenticate(ctx, "admin", "admin123")
	assert.NoError(t, err)
}

// jsonInput simula un cuerpo JSON (números como json.Number).
func jsonInput(t *testing.T, body string) sandbox.Input {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return sandbox.Input{Values: m}
}

func seedOrderRefs(t *testing.T, s *sandbox.Service) (customer, p1, p2 int64) {
	t.Helper()
	c := mustCreate(t, s, sandbox.Customers, values("name", "Luz", "email", "luz@x.co"))
	a := mustCreate(t, s, sandbox.Products, values("name", "Camisa", "price", "10"))
	b := mustCreate(t, s, sandbox.Products, values("name", "Falda", "price", "25"))
	return c.ID(), a.ID(), b.ID()
}

func TestPedidos_TotalDerivado(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	cust, p1, _ := seedOrderRefs(t, s)

	order, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 2, "price": 10.0}]}`, cust, p1)))
	require.NoError(t, err)
	assert.Equal(t, "20.00", order["total_amount"])
	assert.Equal(t, "PENDIENTE", order["status"])
	assert.Equal(t, "Luz", order["customer_name"])

	items := order["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "Camisa", line["product_name"])
	assert.Equal(t, "10.00", line["price"])
}

func TestPedidos_PatchEstadoConservaLineas(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	cust, p1, p2 := seedOrderRefs(t, s)
	order, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 2, "price": "10"}, {"product": %d, "quantity": 1, "price": "25"}]}`,
		cust, p1, p2)))
	require.NoError(t, err)

	got, err := s.Update(ctx, sandbox.Orders, order.ID(), jsonInput(t, `{"status": "COMPLETADO"}`), true)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETADO", got["status"])
	assert.Len(t, got["items"], 2)
	assert.Equal(t, "45.00", got["total_amount"])

	_, err = s.Update(ctx, sandbox.Orders, order.ID(), jsonInput(t, `{"status": "PERDIDO"}`), true)
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestPedidos_PutReemplazaLineas(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	cust, p1, p2 := seedOrderRefs(t, s)
	order, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 2, "price": "10"}]}`, cust, p1)))
	require.NoError(t, err)

	_, err = s.Update(ctx, sandbox.Orders, order.ID(), jsonInput(t, `{"status": "ENVIADO"}`), false)
	errs := fieldErrors(t, err)
	assert.Contains(t, errs, "customer")
	assert.Contains(t, errs, "items")

	got, err := s.Update(ctx, sandbox.Orders, order.ID(), jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 3, "price": "25"}]}`, cust, p2)), false)
	require.NoError(t, err)
	items := got["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Falda", items[0].(map[string]any)["product_name"])
	assert.Equal(t, "75.00", got["total_amount"])

	lines, err := s.List(ctx, sandbox.OrderItems, sandbox.Query{"order": fmt.Sprint(order.ID())})
	require.NoError(t, err)
	assert.Len(t, lines.Items, 1, "las líneas anteriores se borran")
}

func TestPedidos_Validacion(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	cust, p1, _ := seedOrderRefs(t, s)

	_, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(`{"customer": %d, "items": []}`, cust)))
	assert.Contains(t, fieldErrors(t, err), "items")

	_, err = s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 0, "price": "10"}]}`, cust, p1)))
	assert.Contains(t, fieldErrors(t, err), "items[0].quantity")

	_, err = s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 1.5, "price": "10"}]}`, cust, p1)))
	assert.NotEmpty(t, fieldErrors(t, err))

	_, err = s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 1, "price": "10"}, {"product": %d, "quantity": 1, "price": "10"}]}`,
		cust, p1, p1)))
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	_, err = s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": 999, "items": [{"product": %d, "quantity": 1, "price": "10"}]}`, p1)))
	assert.Contains(t, fieldErrors(t, err), "customer")
}

func TestPrecios_MasDeDosDecimales(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	cust, p1, _ := seedOrderRefs(t, s)

	_, err := s.Create(ctx, sandbox.Products, values("name", "Blusa", "price", "1.999"))
	assert.Equal(t, []string{"Asegúrese de que no haya más de 2 decimales."}, fieldErrors(t, err)["price"])

	_, err = s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 1, "price": 10.005}]}`, cust, p1)))
	assert.Equal(t, []string{"Asegúrese de que no haya más de 2 decimales."}, fieldErrors(t, err)["items[0].price"])

	orders, err := s.List(ctx, sandbox.Orders, nil)
	require.NoError(t, err)
	assert.Empty(t, orders.Items, "el pedido rechazado no se guarda")

	p := mustCreate(t, s, sandbox.Products, values("name", "Blusa", "price", "12.500"))
	assert.Equal(t, "12.50", p["price"])
}

var errDisco = errors.New("disco lleno")

// failingRepo falla en la escritura número failAt sobre la colección resource.
type failingRepo struct {
	repository.RecordRepository
	resource string
	failAt   int
	writes   int
}

func (f *failingRepo) fail(resource string) error {
	if resource != f.resource {
		return nil
	}
	f.writes++
	if f.writes == f.failAt {
		return errDisco
	}
	return nil
}

func (f *failingRepo) Insert(ctx context.Context, resource string, rec entity.Record) (entity.Record, error) {
	if err := f.fail(resource); err != nil {
		return nil, err
	}
	return f.RecordRepository.Insert(ctx, resource, rec)
}

func (f *failingRepo) Delete(ctx context.Context, resource string, id int64) error {
	if err := f.fail(resource); err != nil {
		return err
	}
	return f.RecordRepository.Delete(ctx, resource, id)
}

// failingTx transacción en memoria cuyo repositorio falla según repo.
type failingTx struct {
	inner *memory.TxRunner
	repo  *failingRepo
}

func (f *failingTx) Run(ctx context.Context, fn func(repository.RecordRepository) error) error {
	return f.inner.Run(ctx, func(r repository.RecordRepository) error {
		f.repo.RecordRepository = r
		return fn(f.repo)
	})
}

func TestPedidos_TransaccionDeshaceSiFallaUnaLinea(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordRepository()
	repo := &failingRepo{resource: sandbox.OrderItems, failAt: 2}
	s := sandbox.NewService(store, zerolog.Nop()).
		WithTxRunner(&failingTx{inner: memory.NewTxRunner(store), repo: repo})
	cust, p1, p2 := seedOrderRefs(t, s)

	_, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 1, "price": "10"}, {"product": %d, "quantity": 1, "price": "25"}]}`,
		cust, p1, p2)))
	require.ErrorIs(t, err, errDisco)

	orders, err := s.List(ctx, sandbox.Orders, nil)
	require.NoError(t, err)
	assert.Empty(t, orders.Items, "ni el pedido ni la primera línea quedan guardados")
	lines, err := s.List(ctx, sandbox.OrderItems, nil)
	require.NoError(t, err)
	assert.Empty(t, lines.Items)

	// la secuencia también vuelve atrás
	repo.failAt = 0
	order, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 1, "price": "10"}]}`, cust, p1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID())
}

func TestPedidos_PutFallidoConservaLineasAnteriores(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordRepository()
	repo := &failingRepo{resource: sandbox.OrderItems}
	s := sandbox.NewService(store, zerolog.Nop()).
		WithTxRunner(&failingTx{inner: memory.NewTxRunner(store), repo: repo})
	cust, p1, p2 := seedOrderRefs(t, s)
	order, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 2, "price": "10"}]}`, cust, p1)))
	require.NoError(t, err)

	// borrar la línea vieja funciona, insertar la nueva no
	repo.writes, repo.failAt = 0, 2
	_, err = s.Update(ctx, sandbox.Orders, order.ID(), jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "status": "ENVIADO", "items": [{"product": %d, "quantity": 3, "price": "25"}]}`, cust, p2)), false)
	require.ErrorIs(t, err, errDisco)

	got, err := s.Get(ctx, sandbox.Orders, order.ID())
	require.NoError(t, err)
	assert.Equal(t, "PENDIENTE", got["status"])
	assert.Equal(t, "20.00", got["total_amount"])
	items := got["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Camisa", items[0].(map[string]any)["product_name"])

	// las líneas se borran antes que el pedido; si este falla vuelven
	repo.resource, repo.writes, repo.failAt = sandbox.Orders, 0, 1
	_, err = s.Delete(ctx, sandbox.Orders, order.ID())
	require.ErrorIs(t, err, errDisco)
	got, err = s.Get(ctx, sandbox.Orders, order.ID())
	require.NoError(t, err)
	assert.Len(t, got["items"], 1)
}

func TestLineas_RecalculanTotal(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	cust, p1, p2 := seedOrderRefs(t, s)
	order, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 1, "price": "10"}]}`, cust, p1)))
	require.NoError(t, err)

	line := mustCreate(t, s, sandbox.OrderItems, values("order", order.ID(), "product", p2, "quantity", 2, "price", "5"))
	assert.Equal(t, "Falda", line["product_name"])

	got, err := s.Get(ctx, sandbox.Orders, order.ID())
	require.NoError(t, err)
	assert.Equal(t, "20.00", got["total_amount"])

	_, err = s.Create(ctx, sandbox.OrderItems, values("order", order.ID(), "product", p2, "quantity", 1, "price", "5"))
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	_, err = s.Delete(ctx, sandbox.OrderItems, line.ID())
	require.NoError(t, err)
	got, _ = s.Get(ctx, sandbox.Orders, order.ID())
	assert.Equal(t, "10.00", got["total_amount"])
}

func TestBorrados_EnCascada(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	cat := mustCreate(t, s, sandbox.Categories, values("name", "Camisas"))
	cust, p1, _ := seedOrderRefs(t, s)
	_, err := s.Update(ctx, sandbox.Products, p1, values("category", cat.ID()), true)
	require.NoError(t, err)
	order, err := s.Create(ctx, sandbox.Orders, jsonInput(t, fmt.Sprintf(
		`{"customer": %d, "items": [{"product": %d, "quantity": 1, "price": "10"}]}`, cust, p1)))
	require.NoError(t, err)

	_, err = s.Delete(ctx, sandbox.Categories, cat.ID())
	require.NoError(t, err)
	prod, err := s.Get(ctx, sandbox.Products, p1)
	require.NoError(t, err)
	assert.Nil(t, prod["category"], "SET_NULL")

	_, err = s.Delete(ctx, sandbox.Customers, cust)
	require.NoError(t, err)
	_, err = s.Get(ctx, sandbox.Orders, order.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	lines, err := s.List(ctx, sandbox.OrderItems, nil)
	require.NoError(t, err)
	assert.Empty(t, lines.Items)
}

func TestExportCSV(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	mustCreate(t, s, sandbox.Customers, values("name", "Luz", "email", "luz@x.co", "phone", "300"))

	var buf bytes.Buffer
	name, err := s.ExportCSV(ctx, sandbox.Customers, &buf)
	require.NoError(t, err)
	assert.Equal(t, "clientes.csv", name)
	assert.Equal(t,
		"ID,Nombre,Correo Electronico,Telefono,Fecha Registro\n1,Luz,luz@x.co,300,2025-03-14 10:30:00\n",
		buf.String())

	_, err = s.ExportCSV(ctx, sandbox.Categories, &buf)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestColeccionDesconocida(t *testing.T) {
	s := newService(t)
	_, err := s.List(context.Background(), "facturas", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, sandbox.IsResource("facturas"))
	assert.True(t, sandbox.Paginated(sandbox.Products))
	assert.False(t, sandbox.Paginated(sandbox.Categories))
}
