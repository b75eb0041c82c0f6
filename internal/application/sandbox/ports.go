package sandbox

import (
	"context"

	"github.com/jhoicas/fenix-admin/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando un repositorio atado a ella.
// Si fn devuelve error no debe quedar ningún cambio.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.RecordRepository) error) error
}

// directRunner sin transacción: fn escribe sobre el repositorio tal cual.
type directRunner struct {
	repo repository.RecordRepository
}

func (d directRunner) Run(_ context.Context, fn func(repo repository.RecordRepository) error) error {
	return fn(d.repo)
}
