package entity

import (
	"fmt"
	"strings"
	"time"
)

// MeasureType tipo de medición soportado.
type MeasureType string

const (
	MeasureWater MeasureType = "WATER"
	MeasureGas   MeasureType = "GAS"
)

// ParseMeasureType normaliza y valida el tipo recibido en el filtro de listado
// (case-insensitive según el contrato de ese endpoint).
func ParseMeasureType(s string) (MeasureType, error) {
	switch strings.ToUpper(s) {
	case string(MeasureWater):
		return MeasureWater, nil
	case string(MeasureGas):
		return MeasureGas, nil
	}
	return "", fmt.Errorf("tipo de medición no permitido: %q", s)
}

// Measure representa una lectura de medidor (agua o gas) de un cliente.
// Value se fija al crear con el valor extraído por visión y se sobreescribe
// exactamente una vez más al confirmar. ImageName referencia la imagen
// persistida y nunca cambia.
type Measure struct {
	ID              string
	CustomerCode    string
	Type            MeasureType
	ReadingDatetime time.Time
	Value           int32
	ImageName       string
	Confirmed       bool
	CreatedAt       time.Time
}

// MonthWindow devuelve el intervalo [inicio de mes, inicio del mes siguiente)
// de la fecha de lectura, en la zona horaria que trae el propio timestamp.
// No se normaliza la zona: se respeta la representación literal recibida.
func MonthWindow(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 1, 0)
}
