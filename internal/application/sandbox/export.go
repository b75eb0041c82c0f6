package sandbox

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
)

type csvSpec struct {
	filename string
	header   []string
	columns  []string
}

// ExportCSV escribe la colección completa (por id) como CSV y devuelve el nombre
// de archivo sugerido para Content-Disposition.
func (s *Service) ExportCSV(ctx context.Context, resource string, w io.Writer) (string, error) {
	sc, err := lookup(resource)
	if err != nil {
		return "", err
	}
	if sc.export == nil {
		return "", fmt.Errorf("export de %s: %w", resource, domain.ErrNotFound)
	}
	recs, err := s.repo.List(ctx, resource)
	if err != nil {
		return "", err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(sc.export.header); err != nil {
		return "", fmt.Errorf("escribir cabecera: %w", err)
	}
	row := make([]string, len(sc.export.columns))
	for _, rec := range recs {
		out, err := s.render(ctx, sc, rec)
		if err != nil {
			return "", err
		}
		for i, col := range sc.export.columns {
			row[i] = csvValue(col, out[col])
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("escribir fila %d: %w", rec.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("escribir csv: %w", err)
	}
	return sc.export.filename, nil
}

func csvValue(col string, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "Sí"
		}
		return "No"
	case string:
		if col == "created_at" || col == "order_date" {
			if t, err := time.Parse(timestampLayout, x); err == nil {
				return t.Format(csvTimeLayout)
			}
		}
		return x
	}
	if col == "id" || col == "order" || col == "product" || col == "customer" || col == "category" {
		return fmt.Sprint(entity.AsInt64(v))
	}
	return toString(v)
}
