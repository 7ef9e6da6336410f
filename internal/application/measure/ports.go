package measure

import "context"

// VisionReader define el puerto de salida hacia el servicio de visión.
// Cualquier adaptador (Gemini, fake determinista en tests) debe implementar
// esta interfaz; el orquestador nunca conoce el proveedor concreto.
type VisionReader interface {
	// ExtractReading envía la imagen al servicio externo y devuelve la lectura
	// entera reconocida. Una sola llamada por subida, sin reintentos.
	// Errores esperados: domain.ErrVisionUnavailable (fallo del servicio),
	// domain.ErrNoNumericReading y domain.ErrReadingOutOfRange (contenido).
	ExtractReading(ctx context.Context, image []byte, mimeType string) (int32, error)
}

// ImageStore define el puerto de persistencia de imágenes.
type ImageStore interface {
	// Save escribe los bytes de forma durable bajo un nombre único generado y
	// lo devuelve. La imagen debe quedar persistida antes de crear la Measure
	// que la referencia.
	Save(ctx context.Context, data []byte, mimeType string) (name string, err error)

	// Read devuelve los bytes y el content type de una imagen guardada.
	// domain.ErrImageNotFound si el nombre no existe.
	Read(name string) (data []byte, mimeType string, err error)
}
