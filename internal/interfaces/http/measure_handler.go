package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medidor-api/internal/application/dto"
	"github.com/jhoicas/medidor-api/internal/application/measure"
	"github.com/jhoicas/medidor-api/internal/domain"
	"github.com/jhoicas/medidor-api/pkg/logger"
)

// MeasureHandler maneja las peticiones HTTP del ciclo de lecturas de medidores.
type MeasureHandler struct {
	uc  *measure.UseCase
	log *logger.Logger
}

// NewMeasureHandler construye el handler.
func NewMeasureHandler(uc *measure.UseCase, log *logger.Logger) *MeasureHandler {
	return &MeasureHandler{uc: uc, log: log}
}

// Upload POST /upload
func (h *MeasureHandler) Upload(c *fiber.Ctx) error {
	var in dto.UploadMeasureRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_DATA", "cuerpo JSON inválido")
	}
	resp, err := h.uc.Upload(c.Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// Confirm PATCH /confirm
func (h *MeasureHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmMeasureRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, fiber.StatusBadRequest, "INVALID_DATA", "cuerpo JSON inválido")
	}
	resp, err := h.uc.Confirm(c.Context(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// List GET /:customer_code/list?measure_type=WATER|GAS
func (h *MeasureHandler) List(c *fiber.Ctx) error {
	resp, err := h.uc.List(c.Context(), c.Params("customer_code"), c.Query("measure_type"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// Image GET /images/:name — recuperación de una imagen subida.
func (h *MeasureHandler) Image(c *fiber.Ctx) error {
	data, mime, err := h.uc.Image(c.Params("name"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, mime)
	return c.Send(data)
}

// mapError traduce la taxonomía de errores del dominio a status HTTP y cuerpo
// {error_code, error_description}. Los errores de almacenamiento y del
// servicio externo se registran con detalle completo y salen al cliente con
// un mensaje genérico (sin filtrar detalle interno).
func (h *MeasureHandler) mapError(c *fiber.Ctx, err error) error {
	var verr *measure.ValidationError
	switch {
	case errors.As(err, &verr):
		return respondError(c, fiber.StatusBadRequest, "INVALID_DATA", verr.Error())
	case errors.Is(err, domain.ErrNoNumericReading), errors.Is(err, domain.ErrReadingOutOfRange):
		// problema de contenido de la imagen, no del servicio: culpa del cliente
		return respondError(c, fiber.StatusBadRequest, "INVALID_DATA", err.Error())
	case errors.Is(err, domain.ErrDoubleReport):
		return respondError(c, fiber.StatusConflict, "DOUBLE_REPORT", domain.ErrDoubleReport.Error())
	case errors.Is(err, domain.ErrMeasureNotFound):
		return respondError(c, fiber.StatusNotFound, "MEASURE_NOT_FOUND", domain.ErrMeasureNotFound.Error())
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		return respondError(c, fiber.StatusConflict, "CONFIRMATION_DUPLICATE", domain.ErrAlreadyConfirmed.Error())
	case errors.Is(err, domain.ErrInvalidType):
		return respondError(c, fiber.StatusBadRequest, "INVALID_TYPE", domain.ErrInvalidType.Error())
	case errors.Is(err, domain.ErrNoMeasures):
		return respondError(c, fiber.StatusNotFound, "MISSING_MEASURES", domain.ErrNoMeasures.Error())
	case errors.Is(err, domain.ErrImageNotFound):
		return respondError(c, fiber.StatusNotFound, "IMAGE_NOT_FOUND", domain.ErrImageNotFound.Error())
	default:
		h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return respondError(c, fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "error interno del servidor")
	}
}

func respondError(c *fiber.Ctx, status int, code, description string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		ErrorCode:        code,
		ErrorDescription: description,
	})
}
