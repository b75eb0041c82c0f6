// Package memory implementa los puertos de persistencia en memoria (sandbox y tests).
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

type collection struct {
	seq  int64
	rows map[int64]entity.Record
}

// RecordRepo colecciones en memoria con ids autoincrementales por colección.
// Los registros se copian al entrar y al salir.
type RecordRepo struct {
	mu   sync.RWMutex
	cols map[string]*collection
}

// NewRecordRepository construye el almacén vacío.
func NewRecordRepository() *RecordRepo {
	return &RecordRepo{cols: map[string]*collection{}}
}

func (r *RecordRepo) col(resource string) *collection {
	c, ok := r.cols[resource]
	if !ok {
		c = &collection{rows: map[int64]entity.Record{}}
		r.cols[resource] = c
	}
	return c
}

func (r *RecordRepo) Insert(_ context.Context, resource string, rec entity.Record) (entity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.col(resource)
	c.seq++
	row := rec.Clone()
	row["id"] = json.Number(fmt.Sprint(c.seq))
	norm, err := entity.NormalizeRecord(row)
	if err != nil {
		c.seq--
		return nil, err
	}
	c.rows[c.seq] = norm
	return norm.Clone(), nil
}

func (r *RecordRepo) GetByID(_ context.Context, resource string, id int64) (entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cols[resource]
	if !ok {
		return nil, nil
	}
	row, ok := c.rows[id]
	if !ok {
		return nil, nil
	}
	return row.Clone(), nil
}

func (r *RecordRepo) Update(_ context.Context, resource string, id int64, rec entity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cols[resource]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := c.rows[id]; !ok {
		return domain.ErrNotFound
	}
	row := rec.Clone()
	row["id"] = json.Number(fmt.Sprint(id))
	norm, err := entity.NormalizeRecord(row)
	if err != nil {
		return err
	}
	c.rows[id] = norm
	return nil
}

func (r *RecordRepo) Delete(_ context.Context, resource string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cols[resource]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := c.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(c.rows, id)
	return nil
}

func (r *RecordRepo) List(_ context.Context, resource string) ([]entity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cols[resource]
	if !ok {
		return []entity.Record{}, nil
	}
	ids := make([]int64, 0, len(c.rows))
	for id := range c.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]entity.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.rows[id].Clone())
	}
	return out, nil
}
