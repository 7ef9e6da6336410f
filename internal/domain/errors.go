package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrDoubleReport      = errors.New("ya existe una lectura de este tipo para el mes")
	ErrMeasureNotFound   = errors.New("lectura no encontrada")
	ErrAlreadyConfirmed  = errors.New("la lectura ya fue confirmada")
	ErrInvalidType       = errors.New("tipo de medición no permitido")
	ErrNoMeasures        = errors.New("ninguna lectura encontrada")
	ErrVisionUnavailable = errors.New("servicio de visión no disponible")
	ErrNoNumericReading  = errors.New("la imagen no contiene una lectura numérica legible")
	ErrReadingOutOfRange = errors.New("la lectura está fuera del rango permitido")
	ErrImageNotFound     = errors.New("imagen no encontrada")
)
