package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id, code, name, kind, lifecycle, created_at, updated_at`

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una ubicación nueva.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `INSERT INTO locations (` + locationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, l.ID, l.Code, l.Name, l.Kind, string(l.Lifecycle), l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
}

// GetByCode obtiene una ubicación por código (sin distinguir mayúsculas).
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE upper(code) = upper($1)`, code)
}

func (r *LocationRepo) getOne(ctx context.Context, query, arg string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// List lista ubicaciones ordenadas por código.
func (r *LocationRepo) List(ctx context.Context, includeRetired bool) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE ($1 OR lifecycle = 'ACTIVE') ORDER BY code`
	rows, err := r.q.Query(ctx, query, includeRetired)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetLifecycle activa o retira la ubicación. El código nunca cambia.
func (r *LocationRepo) SetLifecycle(ctx context.Context, locationID string, lc entity.Lifecycle) error {
	tag, err := r.q.Exec(ctx, `UPDATE locations SET lifecycle = $2, updated_at = now() WHERE id = $1`, locationID, string(lc))
	if err != nil {
		return fmt.Errorf("set location lifecycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("ubicación", locationID)
	}
	return nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	var lc string
	if err := row.Scan(&l.ID, &l.Code, &l.Name, &l.Kind, &lc, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Lifecycle = entity.Lifecycle(lc)
	return &l, nil
}
