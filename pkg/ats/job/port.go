package job

import "context"

// JobRepository define el contrato de persistencia de puestos
type JobRepository interface {
	// FindByCode busca por código, excluyendo soft-deleted
	FindByCode(ctx context.Context, code string) (*Job, error)

	// FindAll lista con filtros y devuelve el total sin paginar
	FindAll(ctx context.Context, filter JobFilter) ([]Job, int, error)

	// FindPublished lista los puestos visibles en el board público
	FindPublished(ctx context.Context, limit, offset int) ([]Job, int, error)

	// Save inserta o actualiza el puesto
	Save(ctx context.Context, j *Job) error
}
