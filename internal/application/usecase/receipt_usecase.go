package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
)

// ReceiptUseCase genera el comprobante PDF de un pedido y lo guarda.
type ReceiptUseCase struct {
	orders    OrderGateway
	customers CustomerReader
	generator ReceiptGenerator
	saver     FileSaver
	log       zerolog.Logger
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	orders OrderGateway,
	customers CustomerReader,
	generator ReceiptGenerator,
	saver FileSaver,
	log zerolog.Logger,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orders:    orders,
		customers: customers,
		generator: generator,
		saver:     saver,
		log:       log,
	}
}

// Generate carga el pedido y su cliente, renderiza el PDF y devuelve la ruta guardada
// (pedido-<id>.pdf). Si el cliente no se puede leer se usa customer_name del pedido.
func (uc *ReceiptUseCase) Generate(ctx context.Context, orderID int64) (string, error) {
	// ── 1. Cargar pedido ──────────────────────────────────────────────────────
	resp, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", api.Normalize(err)
	}
	order, err := api.Decode[entity.Order](resp)
	if err != nil {
		return "", api.Normalize(err)
	}

	// ── 2. Cargar cliente ─────────────────────────────────────────────────────
	var customer *entity.Customer
	if id, convErr := strconv.ParseInt(order.Customer.String(), 10, 64); convErr == nil && id > 0 {
		if cresp, err := uc.customers.GetByID(ctx, id); err != nil {
			uc.log.Warn().Err(err).Int64("customer_id", id).Msg("comprobante: cliente no disponible")
		} else if c, err := api.Decode[entity.Customer](cresp); err == nil {
			customer = &c
		}
	}

	// ── 3. Generar y guardar ──────────────────────────────────────────────────
	pdfBytes, err := uc.generator.GenerateReceipt(ctx, &order, customer)
	if err != nil {
		return "", fmt.Errorf("comprobante: %w", err)
	}
	path, err := uc.saver.SaveBytes(fmt.Sprintf("pedido-%d.pdf", order.ID), pdfBytes)
	if err != nil {
		return "", fmt.Errorf("comprobante: %w", err)
	}
	return path, nil
}
