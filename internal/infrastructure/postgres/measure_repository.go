package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medidor-api/internal/domain"
	"github.com/jhoicas/medidor-api/internal/domain/entity"
	"github.com/jhoicas/medidor-api/internal/domain/repository"
)

var _ repository.MeasureRepository = (*MeasureRepo)(nil)

// MeasureRepo implementación de MeasureRepository sobre pgx (usable con pool o tx).
type MeasureRepo struct {
	q Querier
}

// NewMeasureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMeasureRepository(q Querier) *MeasureRepo {
	return &MeasureRepo{q: q}
}

const measureColumns = `id, customer_code, type, reading_datetime, value, image_name, confirmed, created_at`

// Create persiste una lectura nueva. El índice único mensual
// (customer_code, type, mes de reading_datetime) convierte la carrera entre
// dos subidas concurrentes en un 23505, que aquí se traduce a ErrDoubleReport.
func (r *MeasureRepo) Create(ctx context.Context, m *entity.Measure) error {
	query := `
		INSERT INTO measures (` + measureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CustomerCode, string(m.Type), m.ReadingDatetime,
		m.Value, m.ImageName, m.Confirmed, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDoubleReport
		}
		return fmt.Errorf("insert measure: %w", err)
	}
	return nil
}

// GetByID obtiene una lectura por ID; (nil, nil) si no existe.
func (r *MeasureRepo) GetByID(ctx context.Context, id string) (*entity.Measure, error) {
	query := `SELECT ` + measureColumns + ` FROM measures WHERE id = $1`
	m, err := scanMeasure(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get measure: %w", err)
	}
	return m, nil
}

// ListByCustomer lista las lecturas del cliente en orden de inserción,
// con filtro opcional por tipo.
func (r *MeasureRepo) ListByCustomer(ctx context.Context, customerCode string, t *entity.MeasureType) ([]*entity.Measure, error) {
	query := `SELECT ` + measureColumns + ` FROM measures WHERE customer_code = $1`
	args := []any{customerCode}
	if t != nil {
		query += ` AND type = $2`
		args = append(args, string(*t))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list measures: %w", err)
	}
	defer rows.Close()

	var list []*entity.Measure
	for rows.Next() {
		m, err := scanMeasure(rows)
		if err != nil {
			return nil, fmt.Errorf("scan measure: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ExistsInPeriod informa si el cliente ya tiene una lectura del tipo dado
// cuyo reading_datetime cae en [from, to).
func (r *MeasureRepo) ExistsInPeriod(ctx context.Context, customerCode string, t entity.MeasureType, from, to time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM measures
			WHERE customer_code = $1 AND type = $2
			  AND reading_datetime >= $3 AND reading_datetime < $4
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, customerCode, string(t), from, to).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists measure in period: %w", err)
	}
	return exists, nil
}

// ConfirmValue escritura condicional: solo confirma si la fila sigue sin
// confirmar. Devuelve false si otra confirmación llegó antes (o el id no existe).
func (r *MeasureRepo) ConfirmValue(ctx context.Context, id string, value int32) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE measures SET value = $2, confirmed = TRUE WHERE id = $1 AND confirmed = FALSE`,
		id, value,
	)
	if err != nil {
		return false, fmt.Errorf("confirm measure: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanMeasure mapea una fila (pgx.Row o pgx.Rows) a la entidad.
func scanMeasure(row pgx.Row) (*entity.Measure, error) {
	var m entity.Measure
	var measureType string
	err := row.Scan(
		&m.ID, &m.CustomerCode, &measureType, &m.ReadingDatetime,
		&m.Value, &m.ImageName, &m.Confirmed, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MeasureType(measureType)
	return &m, nil
}
