package usecase

import (
	"context"
	"fmt"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/application/validation"
	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// OrderUseCase alta de pedidos con líneas anidadas y cambio de estado.
// El total lo calcula el backend; aquí solo se estima para avisar si difiere.
type OrderUseCase struct {
	orders   OrderGateway
	validate *validatorv10.Validate
	log      zerolog.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders OrderGateway, log zerolog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, validate: validation.New(), log: log}
}

// Create valida el pedido (al menos una línea, quantity ≥ 1, price ≥ 0, estado válido)
// y lo envía en una sola escritura anidada. Los fallos se devuelven normalizados.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.OrderRequest) (*entity.Order, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}

	lines := make([]entity.OrderItem, 0, len(in.Items))
	items := make([]map[string]any, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, entity.OrderItem{Quantity: it.Quantity, Price: it.Price})
		items = append(items, map[string]any{
			"product":  it.Product,
			"quantity": it.Quantity,
			"price":    it.Price.String(),
		})
	}
	estimate := entity.Order{Items: lines}.ComputeTotal()

	attrs := api.Attrs{"customer": in.Customer, "items": items}
	if in.Status != "" {
		attrs["status"] = in.Status
	}
	resp, err := uc.orders.Create(ctx, attrs)
	if err != nil {
		return nil, api.Normalize(err)
	}
	order, err := api.Decode[entity.Order](resp)
	if err != nil {
		return nil, api.Normalize(err)
	}
	if !order.TotalAmount.Equal(estimate) {
		uc.log.Warn().
			Int64("order_id", order.ID).
			Str("estimado", estimate.StringFixed(2)).
			Str("backend", order.TotalAmount.StringFixed(2)).
			Msg("pedido: el total del backend difiere del estimado")
	}
	uc.log.Info().Int64("order_id", order.ID).Int("items", len(order.Items)).Msg("pedido creado")
	return &order, nil
}

// SetStatus PATCH con solo el estado; las líneas no se tocan.
func (uc *OrderUseCase) SetStatus(ctx context.Context, id int64, status string) (*entity.Order, error) {
	if err := uc.check(dto.OrderStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	resp, err := uc.orders.PartialUpdate(ctx, id, api.Attrs{"status": status})
	if err != nil {
		return nil, api.Normalize(err)
	}
	order, err := api.Decode[entity.Order](resp)
	if err != nil {
		return nil, api.Normalize(err)
	}
	return &order, nil
}

// check valida in y traduce los errores al mismo formato que un 400 del backend.
func (uc *OrderUseCase) check(in any) error {
	err := uc.validate.Struct(in)
	if err == nil {
		return nil
	}
	fields := validation.FieldErrors(err)
	details := make(map[string]any, len(fields))
	for k, msgs := range fields {
		details[k] = msgs
	}
	return &domain.APIError{
		Kind:    domain.KindValidation,
		Message: domain.KindValidation.DefaultMessage(),
		Details: details,
		Err:     fmt.Errorf("pedido: %w", domain.ErrInvalidInput),
	}
}
