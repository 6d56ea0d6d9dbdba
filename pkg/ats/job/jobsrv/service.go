package jobsrv

import (
	"context"
	"time"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/client"
	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// JobService maneja el ciclo de vida de los puestos
type JobService struct {
	jobRepo    job.JobRepository
	clientRepo client.ClientRepository
	recorder   activity.Recorder
}

func NewJobService(
	jobRepo job.JobRepository,
	clientRepo client.ClientRepository,
	recorder activity.Recorder,
) *JobService {
	return &JobService{
		jobRepo:    jobRepo,
		clientRepo: clientRepo,
		recorder:   recorder,
	}
}

// CreateJob crea un puesto en draft para un cliente existente
func (s *JobService) CreateJob(ctx context.Context, actor kernel.AuthContext, req job.CreateJobRequest) (*job.Job, error) {
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, job.ErrInvalidSalaryRange()
	}

	if _, err := s.clientRepo.FindByCode(ctx, req.ClientCode); err != nil {
		return nil, err
	}

	now := time.Now()
	j := &job.Job{
		JobCode:     kernel.NewEntityCode(kernel.CodePrefixJob),
		ClientCode:  req.ClientCode,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Employment:  req.Employment,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Openings:    req.Openings,
		Status:      job.JobStatusDraft,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "jobs",
		Action:     "create",
		EntityCode: j.JobCode,
		ActorID:    actor.UserID,
		Detail:     activity.DetailMap{"client_code": j.ClientCode, "title": j.Title},
	})

	return j, nil
}

// GetJob busca un puesto por código
func (s *JobService) GetJob(ctx context.Context, code string) (*job.Job, error) {
	return s.jobRepo.FindByCode(ctx, code)
}

// ListJobs lista el inventario administrativo
func (s *JobService) ListJobs(ctx context.Context, filter job.JobFilter) (*job.JobListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	jobs, total, err := s.jobRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]job.JobDTO, len(jobs))
	for i := range jobs {
		dtos[i] = jobs[i].ToDTO()
	}

	return &job.JobListResponse{
		Jobs:   dtos,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// ListPublishedJobs lista el board público
func (s *JobService) ListPublishedJobs(ctx context.Context, limit, offset int) ([]job.PublicJobDTO, int, error) {
	jobs, total, err := s.jobRepo.FindPublished(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]job.PublicJobDTO, len(jobs))
	for i := range jobs {
		dtos[i] = jobs[i].ToPublicDTO()
	}

	return dtos, total, nil
}

// UpdateJob actualiza campos editables
func (s *JobService) UpdateJob(ctx context.Context, actor kernel.AuthContext, code string, req job.UpdateJobRequest) (*job.Job, error) {
	j, err := s.jobRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		j.Title = *req.Title
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.Employment != nil {
		j.Employment = *req.Employment
	}
	if req.SalaryMin != nil {
		j.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		j.SalaryMax = req.SalaryMax
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		return nil, job.ErrInvalidSalaryRange()
	}
	if req.Openings != nil {
		j.Openings = *req.Openings
	}
	j.UpdatedAt = time.Now()

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "jobs",
		Action:     "update",
		EntityCode: j.JobCode,
		ActorID:    actor.UserID,
	})

	return j, nil
}

// ChangeStatus mueve el puesto en su ciclo de vida
func (s *JobService) ChangeStatus(ctx context.Context, actor kernel.AuthContext, code string, requested job.JobStatus) (*job.Job, error) {
	j, err := s.jobRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	previous := j.Status
	if err := j.ChangeStatus(requested); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "jobs",
		Action:     "change_status",
		EntityCode: j.JobCode,
		ActorID:    actor.UserID,
		Detail:     activity.DetailMap{"from": string(previous), "to": string(requested)},
	})

	return j, nil
}

// PublishJob expone el puesto en el board público
func (s *JobService) PublishJob(ctx context.Context, actor kernel.AuthContext, code string) (*job.Job, error) {
	j, err := s.jobRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := j.Publish(); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "jobs",
		Action:     "publish",
		EntityCode: j.JobCode,
		ActorID:    actor.UserID,
	})

	return j, nil
}

// UnpublishJob retira el puesto del board
func (s *JobService) UnpublishJob(ctx context.Context, actor kernel.AuthContext, code string) (*job.Job, error) {
	j, err := s.jobRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	j.Unpublish()

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "jobs",
		Action:     "unpublish",
		EntityCode: j.JobCode,
		ActorID:    actor.UserID,
	})

	return j, nil
}

// DeleteJob aplica el soft delete; el historial se preserva
func (s *JobService) DeleteJob(ctx context.Context, actor kernel.AuthContext, code string) error {
	j, err := s.jobRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}

	j.MarkDeleted()

	if err := s.jobRepo.Save(ctx, j); err != nil {
		return err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "jobs",
		Action:     "delete",
		EntityCode: j.JobCode,
		ActorID:    actor.UserID,
	})

	return nil
}
