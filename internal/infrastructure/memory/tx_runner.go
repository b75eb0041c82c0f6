package memory

import (
	"context"

	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/domain/repository"
)

// TxRunner transacciones sobre el almacén en memoria: si fn falla se restaura
// la copia tomada al empezar. Las escrituras concurrentes deben venir serializadas
// por el llamador.
type TxRunner struct {
	store *RecordRepo
}

// NewTxRunner construye el runner sobre store.
func NewTxRunner(store *RecordRepo) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con el propio almacén; ante error deshace sus cambios.
func (r *TxRunner) Run(_ context.Context, fn func(repo repository.RecordRepository) error) error {
	saved := r.store.snapshot()
	if err := fn(r.store); err != nil {
		r.store.restore(saved)
		return err
	}
	return nil
}

func (r *RecordRepo) snapshot() map[string]*collection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*collection, len(r.cols))
	for name, c := range r.cols {
		cp := &collection{seq: c.seq, rows: make(map[int64]entity.Record, len(c.rows))}
		for id, row := range c.rows {
			cp.rows[id] = row.Clone()
		}
		out[name] = cp
	}
	return out
}

func (r *RecordRepo) restore(cols map[string]*collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cols = cols
}
