package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sandbox_records (
	resource   TEXT        NOT NULL,
	id         BIGINT      NOT NULL,
	data       JSONB       NOT NULL,
	amount     NUMERIC(12,2),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (resource, id)
)`

// amountFields campo monetario indexable por colección (columna amount).
var amountFields = map[string]string{
	"products":    "price",
	"orders":      "total_amount",
	"order-items": "price",
	"usuarias":    "salary",
}

// RecordRepo registros del sandbox en una tabla JSONB (usable con pool o tx).
type RecordRepo struct {
	q Querier
}

// NewRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecordRepository(q Querier) *RecordRepo {
	return &RecordRepo{q: q}
}

// EnsureSchema crea la tabla si no existe.
func (r *RecordRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema sandbox: %w", err)
	}
	return nil
}

// Insert calcula el siguiente id de la colección; si otra inserción concurrente
// tomó el mismo id se reintenta.
func (r *RecordRepo) Insert(ctx context.Context, resource string, rec entity.Record) (entity.Record, error) {
	const query = `
		WITH next AS (SELECT COALESCE(MAX(id), 0) + 1 AS id FROM sandbox_records WHERE resource = $1)
		INSERT INTO sandbox_records (resource, id, data, amount)
		SELECT $1::text, next.id, jsonb_set($2::jsonb, '{id}', to_jsonb(next.id)), $3::numeric FROM next
		RETURNING data`
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("serializar registro: %w", err)
	}
	amount := amountOf(resource, rec)
	for attempt := 0; attempt < 3; attempt++ {
		var data []byte
		err = r.q.QueryRow(ctx, query, resource, raw, amount).Scan(&data)
		if err == nil {
			return entity.DecodeRecord(data)
		}
		if !isUniqueViolation(err) {
			break
		}
	}
	return nil, fmt.Errorf("insert %s: %w", resource, err)
}

func (r *RecordRepo) GetByID(ctx context.Context, resource string, id int64) (entity.Record, error) {
	var data []byte
	err := r.q.QueryRow(ctx, `SELECT data FROM sandbox_records WHERE resource = $1 AND id = $2`, resource, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", resource, err)
	}
	return entity.DecodeRecord(data)
}

func (r *RecordRepo) Update(ctx context.Context, resource string, id int64, rec entity.Record) error {
	row := rec.Clone()
	row["id"] = id
	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("serializar registro: %w", err)
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE sandbox_records SET data = $3::jsonb, amount = $4::numeric, updated_at = now() WHERE resource = $1 AND id = $2`,
		resource, id, raw, amountOf(resource, row),
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", resource, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecordRepo) Delete(ctx context.Context, resource string, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sandbox_records WHERE resource = $1 AND id = $2`, resource, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecordRepo) List(ctx context.Context, resource string) ([]entity.Record, error) {
	rows, err := r.q.Query(ctx, `SELECT data FROM sandbox_records WHERE resource = $1 ORDER BY id`, resource)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resource, err)
	}
	defer rows.Close()
	out := []entity.Record{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", resource, err)
		}
		rec, err := entity.DecodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// amountOf valor monetario del registro o nil (NULL).
func amountOf(resource string, rec entity.Record) *decimal.Decimal {
	field, ok := amountFields[resource]
	if !ok {
		return nil
	}
	var s string
	switch v := rec[field].(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
