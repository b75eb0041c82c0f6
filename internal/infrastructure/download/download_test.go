package download_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fenix-admin/internal/infrastructure/download"
)

func TestSave_EscribeYLimpiaTemporal(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := download.NewSaver(fs, "/exports", zerolog.Nop())

	path, err := s.SaveBytes("products.csv", []byte("id,name\n1,Camisa\n"))
	require.NoError(t, err)
	assert.Equal(t, "/exports/products.csv", path)

	raw, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Camisa\n", string(raw))

	entries, err := afero.ReadDir(fs, "/exports")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no deben quedar temporales")
}

func TestSave_ReemplazaExistente(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := download.NewSaver(fs, "/d", zerolog.Nop())
	_, err := s.SaveBytes("a.csv", []byte("viejo"))
	require.NoError(t, err)
	_, err = s.SaveBytes("a.csv", []byte("nuevo"))
	require.NoError(t, err)

	raw, _ := afero.ReadFile(fs, "/d/a.csv")
	assert.Equal(t, "nuevo", string(raw))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("conexión cortada") }

func TestSave_ErrorDeLecturaLimpia(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := download.NewSaver(fs, "/d", zerolog.Nop())

	_, err := s.Save("a.csv", failingReader{})
	require.Error(t, err)

	entries, err := afero.ReadDir(fs, "/d")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_NombreSaneado(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := download.NewSaver(fs, "/d", zerolog.Nop())

	path, err := s.Save("../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/d/passwd", path)

	_, err = s.Save("  ", strings.NewReader("x"))
	assert.ErrorIs(t, err, download.ErrEmptyName)
}

func TestFilenameFromHeader(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "fallback.csv", download.FilenameFromHeader(h, "fallback.csv"))

	h.Set("Content-Disposition", `attachment; filename="orders.csv"`)
	assert.Equal(t, "orders.csv", download.FilenameFromHeader(h, "fallback.csv"))

	h.Set("Content-Disposition", `attachment; filename="/tmp/x/report.csv"`)
	assert.Equal(t, "report.csv", download.FilenameFromHeader(h, "fallback.csv"))

	h.Set("Content-Disposition", `attachment`)
	assert.Equal(t, "fallback.csv", download.FilenameFromHeader(h, "fallback.csv"))

	h.Set("Content-Disposition", `;;;`)
	assert.Equal(t, "fallback.csv", download.FilenameFromHeader(h, "fallback.csv"))
}
