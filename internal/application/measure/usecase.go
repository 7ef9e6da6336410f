package measure

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/medidor-api/internal/application/dto"
	"github.com/jhoicas/medidor-api/internal/domain"
	"github.com/jhoicas/medidor-api/internal/domain/entity"
	"github.com/jhoicas/medidor-api/internal/domain/repository"
	"github.com/jhoicas/medidor-api/pkg/logger"
)

// extractionTimeout tope impuesto a la llamada al servicio de visión.
// El contrato del puerto no define timeout propio: lo impone el orquestador.
const extractionTimeout = 30 * time.Second

// UseCase orquesta los flujos de subida, confirmación y listado de lecturas.
type UseCase struct {
	repo   repository.MeasureRepository
	vision VisionReader
	images ImageStore
	log    *logger.Logger
}

// NewUseCase construye el orquestador.
func NewUseCase(repo repository.MeasureRepository, vision VisionReader, images ImageStore, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, vision: vision, images: images, log: log}
}

// Upload flujo de ingesta: validación → duplicado mensual → extracción →
// persistencia de imagen → registro. Cualquier fallo aborta sin dejar una
// Measure parcial. La imagen se escribe siempre antes que el registro que la
// referencia: una Measure visible nunca apunta a una imagen inexistente.
func (uc *UseCase) Upload(ctx context.Context, req dto.UploadMeasureRequest) (*dto.UploadMeasureResponse, error) {
	in, err := ParseUploadRequest(req)
	if err != nil {
		return nil, err
	}

	from, to := entity.MonthWindow(in.ReadingDatetime)
	exists, err := uc.repo.ExistsInPeriod(ctx, in.CustomerCode, in.Type, from, to)
	if err != nil {
		return nil, fmt.Errorf("comprobar duplicado mensual: %w", err)
	}
	if exists {
		return nil, domain.ErrDoubleReport
	}

	extractCtx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()
	value, err := uc.vision.ExtractReading(extractCtx, in.ImageData, in.MimeType)
	if err != nil {
		return nil, err
	}

	imageName, err := uc.images.Save(ctx, in.ImageData, in.MimeType)
	if err != nil {
		return nil, fmt.Errorf("persistir imagen: %w", err)
	}

	m := &entity.Measure{
		ID:              uuid.New().String(),
		CustomerCode:    in.CustomerCode,
		Type:            in.Type,
		ReadingDatetime: in.ReadingDatetime,
		Value:           value,
		ImageName:       imageName,
		Confirmed:       false,
		CreatedAt:       time.Now(),
	}
	// Create puede devolver ErrDoubleReport si dos subidas concurrentes del
	// mismo mes pasaron ambas la comprobación previa: el índice único de la
	// base es el guard real y esta comprobación solo el camino rápido.
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("measure_id", m.ID).
		Str("customer_code", m.CustomerCode).
		Str("type", string(m.Type)).
		Int32("value", m.Value).
		Msg("lectura registrada")

	return &dto.UploadMeasureResponse{
		MeasureID: m.ID,
		Value:     m.Value,
		ImagePath: ImagePath(m.ImageName),
	}, nil
}

// Confirm marca la lectura como confirmada sobreescribiendo el valor con la
// corrección del cliente. La transición es de un solo sentido: una lectura
// confirmada no vuelve a aceptar confirmaciones.
func (uc *UseCase) Confirm(ctx context.Context, req dto.ConfirmMeasureRequest) (*dto.ConfirmMeasureResponse, error) {
	in, err := ParseConfirmRequest(req)
	if err != nil {
		return nil, err
	}

	m, err := uc.repo.GetByID(ctx, in.MeasureID)
	if err != nil {
		return nil, fmt.Errorf("buscar lectura: %w", err)
	}
	if m == nil {
		return nil, domain.ErrMeasureNotFound
	}
	if m.Confirmed {
		return nil, domain.ErrAlreadyConfirmed
	}

	// Escritura condicional (WHERE confirmed = FALSE): si dos confirmaciones
	// concurrentes leyeron ambas confirmed = false, solo una modifica la fila.
	updated, err := uc.repo.ConfirmValue(ctx, in.MeasureID, in.ConfirmedValue)
	if err != nil {
		return nil, fmt.Errorf("confirmar lectura: %w", err)
	}
	if !updated {
		return nil, domain.ErrAlreadyConfirmed
	}

	uc.log.Info().
		Str("measure_id", in.MeasureID).
		Int32("confirmed_value", in.ConfirmedValue).
		Msg("lectura confirmada")

	return &dto.ConfirmMeasureResponse{Success: true}, nil
}

// List devuelve las lecturas del cliente, con filtro opcional por tipo
// (case-insensitive). Un resultado vacío es condición de "no encontrado",
// no un listado vacío con 200.
func (uc *UseCase) List(ctx context.Context, customerCode, measureType string) (*dto.ListMeasuresResponse, error) {
	var filter *entity.MeasureType
	if measureType != "" {
		t, err := entity.ParseMeasureType(measureType)
		if err != nil {
			return nil, domain.ErrInvalidType
		}
		filter = &t
	}

	list, err := uc.repo.ListByCustomer(ctx, customerCode, filter)
	if err != nil {
		return nil, fmt.Errorf("listar lecturas: %w", err)
	}
	if len(list) == 0 {
		return nil, domain.ErrNoMeasures
	}

	out := &dto.ListMeasuresResponse{
		CustomerCode: customerCode,
		Measures:     make([]dto.MeasureItem, 0, len(list)),
	}
	for _, m := range list {
		out.Measures = append(out.Measures, dto.MeasureItem{
			MeasureID:       m.ID,
			ReadingDatetime: m.ReadingDatetime,
			Type:            string(m.Type),
			Value:           m.Value,
			Confirmed:       m.Confirmed,
			ImagePath:       ImagePath(m.ImageName),
		})
	}
	return out, nil
}

// Image recupera los bytes y el content type de una imagen previamente subida.
func (uc *UseCase) Image(name string) ([]byte, string, error) {
	return uc.images.Read(name)
}

// ImagePath devuelve la ruta pública de recuperación de una imagen guardada.
func ImagePath(name string) string {
	return "/images/" + name
}
