package submission

import "context"

// SubmissionRepository define el contrato de persistencia de submissions
type SubmissionRepository interface {
	// FindByCode busca por código, excluyendo soft-deleted
	FindByCode(ctx context.Context, code string) (*Submission, error)

	// FindAll lista con filtros y devuelve el total sin paginar
	FindAll(ctx context.Context, filter SubmissionFilter) ([]Submission, int, error)

	// Save inserta o actualiza la submission
	Save(ctx context.Context, sub *Submission) error

	// ExistsActive verifica si ya hay una submission activa para el par
	// (candidato, puesto)
	ExistsActive(ctx context.Context, candidateCode, jobCode string) (bool, error)

	// Transition carga la submission con un row lock (SELECT ... FOR UPDATE)
	// dentro de una transacción, aplica fn sobre la entidad y persiste el
	// resultado. Si fn devuelve error, la transacción se revierte y nada
	// se escribe. Dos requests concurrentes sobre el mismo código se
	// serializan en el lock, así que ambas no pueden pasar la precondición
	// sobre el mismo estado leído.
	Transition(ctx context.Context, code string, fn func(*Submission) error) (*Submission, error)
}
