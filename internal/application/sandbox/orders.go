package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/application/validation"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
)

// orderPatch cuerpo de escritura de un pedido; los punteros distinguen "no enviado".
type orderPatch struct {
	Customer *int64                  `json:"customer"`
	Status   *string                 `json:"status"`
	Items    *[]dto.OrderLineRequest `json:"items"`
}

// decodeOrder reinterpreta los valores ya parseados con los tipos del pedido.
func decodeOrder(values map[string]any) (orderPatch, *ValidationError) {
	var p orderPatch
	raw, err := json.Marshal(values)
	if err != nil {
		errs := newValidationError()
		errs.add("non_field_errors", err.Error())
		return p, errs
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&p); err != nil {
		errs := newValidationError()
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			name := typeErr.Field[strings.LastIndex(typeErr.Field, ".")+1:]
			switch name {
			case "quantity", "customer", "product":
				errs.add(typeErr.Field, msgInt)
			default:
				errs.add(typeErr.Field, msgNumber)
			}
		} else {
			errs.add("non_field_errors", "JSON inválido: "+err.Error())
		}
		return p, errs
	}
	return p, nil
}

// createOrder inserta el pedido y sus líneas; devuelve el id nuevo.
func (s *Service) createOrder(ctx context.Context, in Input) (int64, error) {
	p, verr := decodeOrder(in.Values)
	if verr != nil {
		return 0, verr
	}
	req := dto.OrderRequest{Status: entity.OrderPending}
	if p.Customer != nil {
		req.Customer = *p.Customer
	}
	if p.Status != nil && *p.Status != "" {
		req.Status = *p.Status
	}
	if p.Items != nil {
		req.Items = *p.Items
	}
	if err := s.validateOrder(ctx, req); err != nil {
		return 0, err
	}

	order, err := s.repo.Insert(ctx, Orders, entity.Record{
		"customer":     req.Customer,
		"status":       req.Status,
		"order_date":   s.timestamp(),
		"total_amount": "0.00",
	})
	if err != nil {
		return 0, err
	}
	if err := s.writeLines(ctx, order.ID(), req.Items); err != nil {
		return 0, err
	}
	if err := s.recomputeTotal(ctx, order.ID()); err != nil {
		return 0, err
	}
	s.log.Debug().Int64("id", order.ID()).Int("items", len(req.Items)).Msg("sandbox: pedido creado")
	return order.ID(), nil
}

// updateOrder PATCH sin items deja las líneas intactas; con items las reemplaza.
func (s *Service) updateOrder(ctx context.Context, current entity.Record, in Input, partial bool) error {
	p, verr := decodeOrder(in.Values)
	if verr != nil {
		return verr
	}
	errs := newValidationError()
	if !partial {
		if p.Customer == nil {
			errs.add("customer", msgRequired)
		}
		if p.Items == nil {
			errs.add("items", msgRequired)
		}
	}
	if err := errs.orNil(); err != nil {
		return err
	}

	req := dto.OrderRequest{
		Customer: entity.AsInt64(current["customer"]),
		Status:   current.String("status"),
	}
	if p.Customer != nil {
		req.Customer = *p.Customer
	}
	if p.Status != nil {
		req.Status = *p.Status
	}

	if p.Items != nil {
		req.Items = *p.Items
		if err := s.validateOrder(ctx, req); err != nil {
			return err
		}
	} else {
		if !entity.IsOrderStatus(req.Status) {
			errs.add("status", fmt.Sprintf("%q no es una elección válida.", req.Status))
		}
		if p.Customer != nil {
			if err := s.checkRef(ctx, errs, "customer", Customers, req.Customer); err != nil {
				return err
			}
		}
		if err := errs.orNil(); err != nil {
			return err
		}
	}

	id := current.ID()
	current["customer"] = req.Customer
	current["status"] = req.Status
	if err := s.repo.Update(ctx, Orders, id, current); err != nil {
		return err
	}
	if p.Items != nil {
		if err := s.deleteLines(ctx, id); err != nil {
			return err
		}
		if err := s.writeLines(ctx, id, req.Items); err != nil {
			return err
		}
	}
	return s.recomputeTotal(ctx, id)
}

// validateOrder reglas de escritura anidada: struct tags, referencias existentes
// y un producto como mucho una vez por pedido.
func (s *Service) validateOrder(ctx context.Context, req dto.OrderRequest) error {
	errs := newValidationError()
	if err := s.validate.Struct(req); err != nil {
		errs.merge(validation.FieldErrors(err))
		return errs
	}
	if err := s.checkRef(ctx, errs, "customer", Customers, req.Customer); err != nil {
		return err
	}
	seen := map[int64]bool{}
	for i, it := range req.Items {
		if err := s.checkRef(ctx, errs, fmt.Sprintf("items[%d].product", i), Products, it.Product); err != nil {
			return err
		}
		if seen[it.Product] {
			errs.add("non_field_errors", msgUniqueLine)
		}
		seen[it.Product] = true
	}
	return errs.orNil()
}

func (s *Service) checkRef(ctx context.Context, errs *ValidationError, key, resource string, id int64) error {
	rec, err := s.repo.GetByID(ctx, resource, id)
	if err != nil {
		return err
	}
	if rec == nil {
		errs.add(key, fmt.Sprintf("Clave primaria \"%d\" inválida - objeto no existe.", id))
	}
	return nil
}

func (s *Service) writeLines(ctx context.Context, orderID int64, items []dto.OrderLineRequest) error {
	for _, it := range items {
		_, err := s.repo.Insert(ctx, OrderItems, entity.Record{
			"order":    orderID,
			"product":  it.Product,
			"quantity": it.Quantity,
			"price":    it.Price.StringFixed(validation.MoneyDecimalPlaces),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// linesOf líneas del pedido como entidades, ordenadas por id.
func (s *Service) linesOf(ctx context.Context, orderID int64) ([]entity.Record, []entity.OrderItem, error) {
	recs, err := s.repo.List(ctx, OrderItems)
	if err != nil {
		return nil, nil, err
	}
	var (
		raw   []entity.Record
		items []entity.OrderItem
	)
	for _, rec := range recs {
		if entity.AsInt64(rec["order"]) != orderID {
			continue
		}
		price, _ := toDecimal(rec["price"])
		raw = append(raw, rec)
		items = append(items, entity.OrderItem{
			ID:       rec.ID(),
			Quantity: int(entity.AsInt64(rec["quantity"])),
			Price:    price,
		})
	}
	return raw, items, nil
}

func (s *Service) deleteLines(ctx context.Context, orderID int64) error {
	raw, _, err := s.linesOf(ctx, orderID)
	if err != nil {
		return err
	}
	for _, rec := range raw {
		if err := s.repo.Delete(ctx, OrderItems, rec.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) deleteOrder(ctx context.Context, id int64) error {
	if err := s.deleteLines(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, Orders, id)
}

// deleteLine borra una línea y recalcula el total de su pedido.
func (s *Service) deleteLine(ctx context.Context, id int64) error {
	rec, err := s.find(ctx, OrderItems, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, OrderItems, id); err != nil {
		return err
	}
	return s.recomputeTotal(ctx, entity.AsInt64(rec["order"]))
}

// recomputeTotal total_amount = Σ quantity × price de las líneas actuales.
func (s *Service) recomputeTotal(ctx context.Context, orderID int64) error {
	order, err := s.repo.GetByID(ctx, Orders, orderID)
	if err != nil || order == nil {
		return err
	}
	_, items, err := s.linesOf(ctx, orderID)
	if err != nil {
		return err
	}
	total := entity.Order{Items: items}.ComputeTotal()
	order["total_amount"] = total.StringFixed(2)
	return s.repo.Update(ctx, Orders, orderID, order)
}

func (s *Service) checkUniqueLine(ctx context.Context, line entity.Record, selfID int64) error {
	raw, _, err := s.linesOf(ctx, entity.AsInt64(line["order"]))
	if err != nil {
		return err
	}
	product := entity.AsInt64(line["product"])
	for _, rec := range raw {
		if rec.ID() != selfID && entity.AsInt64(rec["product"]) == product {
			errs := newValidationError()
			errs.add("non_field_errors", msgUniqueLine)
			return errs
		}
	}
	return nil
}

func (s *Service) renderOrder(ctx context.Context, order entity.Record) (entity.Record, error) {
	name, err := s.nameOf(ctx, Customers, order["customer"])
	if err != nil {
		return nil, err
	}
	order["customer_name"] = name

	raw, _, err := s.linesOf(ctx, order.ID())
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(raw))
	for _, rec := range raw {
		productName, err := s.nameOf(ctx, Products, rec["product"])
		if err != nil {
			return nil, err
		}
		items = append(items, map[string]any{
			"id":           rec["id"],
			"product":      rec["product"],
			"product_name": productName,
			"quantity":     rec["quantity"],
			"price":        rec["price"],
		})
	}
	order["items"] = items
	if order["total_amount"] == nil {
		order["total_amount"] = decimal.Zero.StringFixed(2)
	}
	return order, nil
}
