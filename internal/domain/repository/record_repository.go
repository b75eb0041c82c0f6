package repository

import (
	"context"

	"github.com/jhoicas/fenix-admin/internal/domain/entity"
)

// RecordRepository puerto de persistencia del backend sandbox (DIP).
// resource es el nombre de la colección REST ("products", "order-items", ...).
// Los registros guardados solo contienen valores JSON (string, json.Number, bool, nil, []any, map[string]any).
type RecordRepository interface {
	// Insert asigna el siguiente id de la colección y lo devuelve dentro del registro.
	Insert(ctx context.Context, resource string, rec entity.Record) (entity.Record, error)
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, resource string, id int64) (entity.Record, error)
	// Update reemplaza el registro completo; domain.ErrNotFound si no existe.
	Update(ctx context.Context, resource string, id int64, rec entity.Record) error
	// Delete domain.ErrNotFound si no existe.
	Delete(ctx context.Context, resource string, id int64) error
	// List todos los registros de la colección ordenados por id.
	List(ctx context.Context, resource string) ([]entity.Record, error)
}
