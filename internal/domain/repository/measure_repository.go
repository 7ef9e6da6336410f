package repository

import (
	"context"
	"time"

	"github.com/jhoicas/medidor-api/internal/domain/entity"
)

// MeasureRepository define el puerto de persistencia para Measure.
type MeasureRepository interface {
	// Create persiste una lectura nueva. Devuelve domain.ErrDoubleReport si el
	// índice único mensual detecta una colisión que la comprobación previa no vio.
	Create(ctx context.Context, m *entity.Measure) error

	// GetByID devuelve la lectura o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Measure, error)

	// ListByCustomer devuelve las lecturas del cliente en orden de inserción.
	// t en nil lista todos los tipos.
	ListByCustomer(ctx context.Context, customerCode string, t *entity.MeasureType) ([]*entity.Measure, error)

	// ExistsInPeriod informa si ya hay una lectura del cliente y tipo cuyo
	// reading_datetime cae en [from, to).
	ExistsInPeriod(ctx context.Context, customerCode string, t entity.MeasureType, from, to time.Time) (bool, error)

	// ConfirmValue escribe confirmed = true y el valor corregido solo si la
	// lectura sigue sin confirmar (escritura condicional, no read-then-write).
	// Devuelve false si no modificó ninguna fila.
	ConfirmValue(ctx context.Context, id string, value int32) (bool, error)
}
