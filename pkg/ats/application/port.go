package application

import "context"

// ApplicationRepository define el contrato de persistencia de postulaciones
type ApplicationRepository interface {
	FindByCode(ctx context.Context, code string) (*Application, error)
	FindAll(ctx context.Context, filter ApplicationFilter) ([]Application, int, error)
	Save(ctx context.Context, a *Application) error
	ExistsForJob(ctx context.Context, jobCode, applicantEmail string) (bool, error)
}
