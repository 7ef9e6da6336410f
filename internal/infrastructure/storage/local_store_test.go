package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medidor-api/internal/domain"
	"github.com/jhoicas/medidor-api/internal/infrastructure/storage"
)

var testImage = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 9, 8, 7}

func newStore(t *testing.T) *storage.LocalImageStore {
	t.Helper()
	s, err := storage.NewLocalImageStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSaveRead_IdaYVuelta(t *testing.T) {
	s := newStore(t)

	name, err := s.Save(context.Background(), testImage, "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, name)

	data, mime, err := s.Read(name)
	require.NoError(t, err)
	assert.Equal(t, testImage, data, "lo recuperado debe ser byte a byte lo subido")
	assert.Equal(t, "image/png", mime)
}

func TestSave_NombresUnicosPorSubida(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, testImage, "image/jpeg")
	require.NoError(t, err)
	b, err := s.Save(ctx, testImage, "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "dos subidas idénticas reciben nombres distintos")
}

func TestSave_MimeDesconocidoRechazado(t *testing.T) {
	s := newStore(t)

	_, err := s.Save(context.Background(), testImage, "image/gif")
	assert.Error(t, err)
}

func TestRead_NombreInexistente(t *testing.T) {
	s := newStore(t)

	_, _, err := s.Read("00000000-0000-0000-0000-000000000000.png")
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestRead_RechazaRutasFueraDelDirectorio(t *testing.T) {
	s := newStore(t)

	for _, name := range []string{"../secreto.png", "sub/via.png", "..", ""} {
		_, _, err := s.Read(name)
		assert.ErrorIs(t, err, domain.ErrImageNotFound, "nombre %q", name)
	}
}

func TestRead_ExtensionDesconocida(t *testing.T) {
	s := newStore(t)

	_, _, err := s.Read("archivo.exe")
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}
