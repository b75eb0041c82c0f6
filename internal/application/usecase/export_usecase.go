package usecase

import (
	"context"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/api"
	"github.com/jhoicas/fenix-admin/internal/infrastructure/download"
)

// ExportUseCase descarga un export CSV del backend y lo guarda en disco.
type ExportUseCase struct {
	saver  FileSaver
	latin1 bool
}

// NewExportUseCase construye el caso de uso. Con latin1 el CSV se recodifica a
// Windows-1252; los caracteres sin equivalente se reemplazan.
func NewExportUseCase(saver FileSaver, latin1 bool) *ExportUseCase {
	return &ExportUseCase{saver: saver, latin1: latin1}
}

// Export ejecuta el export y devuelve la ruta del archivo guardado. El nombre sale
// de Content-Disposition o, si no viene, de fallbackName.
func (uc *ExportUseCase) Export(ctx context.Context, exp api.Exporter, fallbackName string) (string, error) {
	resp, err := exp.ExportCSV(ctx)
	if err != nil {
		return "", api.Normalize(err)
	}
	body := resp.Body
	if uc.latin1 {
		body, err = encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).Bytes(body)
		if err != nil {
			return "", fmt.Errorf("export: recodificar a Windows-1252: %w", err)
		}
	}
	name := download.FilenameFromHeader(resp.Header, fallbackName)
	path, err := uc.saver.SaveBytes(name, body)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}
