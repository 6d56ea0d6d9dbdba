package candidate

import "context"

// CandidateRepository define el contrato de persistencia de candidatos
type CandidateRepository interface {
	FindByCode(ctx context.Context, code string) (*Candidate, error)
	FindByEmail(ctx context.Context, email string) (*Candidate, error)
	FindAll(ctx context.Context, filter CandidateFilter) ([]Candidate, int, error)
	Save(ctx context.Context, c *Candidate) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
