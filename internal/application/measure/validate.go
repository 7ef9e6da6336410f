package measure

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/medidor-api/internal/application/dto"
	"github.com/jhoicas/medidor-api/internal/domain/entity"
)

// acceptedMimeTypes tipos de imagen admitidos en la subida.
var acceptedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// ValidationError acumula todas las violaciones de campo de una petición.
// Es un error de entrada del cliente: el handler lo mapea a 400 INVALID_DATA.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// UploadInput petición de subida ya validada y normalizada.
type UploadInput struct {
	ImageData       []byte
	MimeType        string
	CustomerCode    string
	ReadingDatetime time.Time
	Type            entity.MeasureType
}

// ConfirmInput petición de confirmación ya validada.
type ConfirmInput struct {
	MeasureID      string
	ConfirmedValue int32
}

// ParseUploadRequest valida el cuerpo de POST /upload y lo normaliza.
// Función pura: acumula todos los campos inválidos en un único ValidationError
// en lugar de cortar en el primero.
func ParseUploadRequest(in dto.UploadMeasureRequest) (*UploadInput, error) {
	verr := &ValidationError{}
	out := &UploadInput{}

	data, mime, err := decodeImageDataURI(in.Image)
	if err != nil {
		verr.Fields = append(verr.Fields, "image: "+err.Error())
	} else {
		out.ImageData, out.MimeType = data, mime
	}

	if in.CustomerCode == "" {
		verr.Fields = append(verr.Fields, "customer_code: debe ser una cadena no vacía")
	}
	out.CustomerCode = in.CustomerCode

	t, err := time.Parse(time.RFC3339, in.ReadingDatetime)
	if err != nil {
		verr.Fields = append(verr.Fields, "reading_datetime: fecha ISO-8601 inválida")
	}
	out.ReadingDatetime = t

	// El tipo es case-sensitive en la subida: "water" no es válido aquí.
	switch entity.MeasureType(in.Type) {
	case entity.MeasureWater, entity.MeasureGas:
		out.Type = entity.MeasureType(in.Type)
	default:
		verr.Fields = append(verr.Fields, "type: debe ser WATER o GAS")
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

// ParseConfirmRequest valida el cuerpo de PATCH /confirm.
func ParseConfirmRequest(in dto.ConfirmMeasureRequest) (*ConfirmInput, error) {
	verr := &ValidationError{}
	out := &ConfirmInput{}

	if _, err := uuid.Parse(in.MeasureID); err != nil {
		verr.Fields = append(verr.Fields, "measure_id: UUID inválido")
	}
	out.MeasureID = in.MeasureID

	v, err := strconv.ParseInt(in.ConfirmedValue.String(), 10, 64)
	switch {
	case in.ConfirmedValue.String() == "":
		verr.Fields = append(verr.Fields, "confirmed_value: es obligatorio")
	case errors.Is(err, strconv.ErrRange):
		verr.Fields = append(verr.Fields, "confirmed_value: fuera del rango permitido")
	case err != nil:
		verr.Fields = append(verr.Fields, "confirmed_value: debe ser un entero")
	case v <= math.MinInt32 || v >= math.MaxInt32:
		// Intervalo abierto: los extremos de int32 tampoco se admiten.
		verr.Fields = append(verr.Fields, "confirmed_value: fuera del rango permitido")
	default:
		out.ConfirmedValue = int32(v)
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

// decodeImageDataURI separa un data URI (data:<mime>;base64,<payload>),
// comprueba que el mime declarado esté admitido y decodifica el payload.
func decodeImageDataURI(s string) ([]byte, string, error) {
	if s == "" {
		return nil, "", fmt.Errorf("es obligatorio")
	}
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", fmt.Errorf("debe ser un data URI base64 (data:<mime>;base64,<payload>)")
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if !acceptedMimeTypes[mime] {
		return nil, "", fmt.Errorf("tipo de imagen no admitido: %q", mime)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("payload base64 inválido")
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("payload vacío")
	}
	return data, mime, nil
}
