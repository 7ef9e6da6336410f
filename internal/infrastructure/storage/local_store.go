package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/medidor-api/internal/application/measure"
	"github.com/jhoicas/medidor-api/internal/domain"
)

// Verificar en tiempo de compilación que LocalImageStore implementa ImageStore.
var _ measure.ImageStore = (*LocalImageStore)(nil)

// extByMime extensión de archivo por tipo MIME admitido.
var extByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// mimeByExt inverso de extByMime, para servir las imágenes guardadas.
var mimeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// LocalImageStore persiste las imágenes de medidores en el sistema de archivos
// local bajo nombres UUID generados.
type LocalImageStore struct {
	dir string
}

// NewLocalImageStore construye el almacén creando el directorio si no existe.
func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de imágenes: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Save escribe los bytes bajo un nombre UUID único y hace fsync antes de
// devolver: la Measure que referencia la imagen solo se crea después, así que
// el registro nunca apunta a un archivo que no llegó al disco.
func (s *LocalImageStore) Save(_ context.Context, data []byte, mimeType string) (string, error) {
	ext, ok := extByMime[mimeType]
	if !ok {
		return "", fmt.Errorf("tipo de imagen no admitido: %q", mimeType)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("crear imagen %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("escribir imagen %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("sincronizar imagen %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("cerrar imagen %s: %w", name, err)
	}
	return name, nil
}

// Read devuelve los bytes y el content type de una imagen guardada.
// Nombres con separadores de ruta o extensión desconocida se tratan como
// inexistentes (evita traversal fuera del directorio).
func (s *LocalImageStore) Read(name string) ([]byte, string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return nil, "", domain.ErrImageNotFound
	}
	mime, ok := mimeByExt[filepath.Ext(name)]
	if !ok {
		return nil, "", domain.ErrImageNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", domain.ErrImageNotFound
		}
		return nil, "", fmt.Errorf("leer imagen %s: %w", name, err)
	}
	return data, mime, nil
}
