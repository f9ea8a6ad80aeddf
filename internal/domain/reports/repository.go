package reports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("report not found")

// ListFilter filtra la cola. Campos vacíos no filtran; Limit 0 no pagina.
type ListFilter struct {
	Status    Status
	Severity  Severity
	Animal    AnimalType
	Anonymous *bool

	Offset int
	Limit  int
}

type Repository interface {
	// Create guarda el reporte junto con sus fotos.
	Create(ctx context.Context, r Report) error
	GetByID(ctx context.Context, id string) (Report, error)

	// List ordena por fecha del incidente desc y luego creación desc.
	List(ctx context.Context, f ListFilter) ([]Report, error)
	Count(ctx context.Context, f ListFilter) (int, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// UpdateModeration persiste status, moderador, fecha y comentario.
	UpdateModeration(ctx context.Context, r Report) error
}
