package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Restobar-api/internal/application/dto"
	"github.com/jhoicas/Restobar-api/internal/domain"
	"github.com/jhoicas/Restobar-api/internal/domain/entity"
	"github.com/jhoicas/Restobar-api/internal/domain/repository"
)

// LocationUseCase alta, listado y retiro de ubicaciones.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una ubicación. El código se guarda en mayúsculas.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, domain.Invalid("code", "obligatorio")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("name", "obligatorio")
	}
	kind := strings.ToUpper(in.Kind)
	switch kind {
	case "":
		kind = entity.LocationKindOther
	case entity.LocationKindWarehouse, entity.LocationKindBar, entity.LocationKindFreezer,
		entity.LocationKindKitchen, entity.LocationKindOther:
	default:
		return nil, domain.Invalid("kind", "tipo de ubicación desconocido")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		Kind:      kind,
		Lifecycle: entity.LifecycleActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// List lista ubicaciones; las retiradas solo si includeRetired.
func (uc *LocationUseCase) List(ctx context.Context, includeRetired bool) ([]dto.LocationResponse, error) {
	list, err := uc.repo.List(ctx, includeRetired)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// Retire retira la ubicación: deja de recibir stock pero su historial se conserva.
func (uc *LocationUseCase) Retire(ctx context.Context, id string) error {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.NotFound("ubicación", id)
	}
	return uc.repo.SetLifecycle(ctx, id, entity.LifecycleRetired)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Name:      l.Name,
		Kind:      l.Kind,
		Lifecycle: string(l.Lifecycle),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
