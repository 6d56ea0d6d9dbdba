package applicationsrv

import (
	"context"
	"io"
	"time"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/application"
	"github.com/proconsultancy/backend/pkg/ats/candidate"
	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/ats/submission"
	"github.com/proconsultancy/backend/pkg/ats/submission/submissionsrv"
	"github.com/proconsultancy/backend/pkg/fsx"
	"github.com/proconsultancy/backend/pkg/kernel"
	"github.com/proconsultancy/backend/pkg/logx"
)

// ApplicationService maneja las postulaciones del board público y su
// promoción a candidato+submission
type ApplicationService struct {
	applicationRepo application.ApplicationRepository
	jobRepo         job.JobRepository
	candidateRepo   candidate.CandidateRepository
	submissionSvc   *submissionsrv.SubmissionService
	storage         fsx.FileSystem
	recorder        activity.Recorder
}

func NewApplicationService(
	applicationRepo application.ApplicationRepository,
	jobRepo job.JobRepository,
	candidateRepo candidate.CandidateRepository,
	submissionSvc *submissionsrv.SubmissionService,
	storage fsx.FileSystem,
	recorder activity.Recorder,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		candidateRepo:   candidateRepo,
		submissionSvc:   submissionSvc,
		storage:         storage,
		recorder:        recorder,
	}
}

// Apply registra una postulación pública contra un puesto publicado.
// cv puede ser nil; cvFilename solo se usa si cv no lo es.
func (s *ApplicationService) Apply(ctx context.Context, jobCode string, req application.ApplyRequest, cv io.Reader, cvContentType string) (*application.Application, error) {
	j, err := s.jobRepo.FindByCode(ctx, jobCode)
	if err != nil {
		return nil, err
	}
	if !j.Published || !j.IsOpen() {
		return nil, application.ErrJobNotAccepting().WithDetail("job_code", jobCode)
	}

	exists, err := s.applicationRepo.ExistsForJob(ctx, jobCode, req.ApplicantEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, application.ErrDuplicateApplication().
			WithDetail("job_code", jobCode).
			WithDetail("applicant_email", req.ApplicantEmail)
	}

	now := time.Now()
	a := &application.Application{
		ApplicationCode: kernel.NewEntityCode(kernel.CodePrefixApplication),
		JobCode:         jobCode,
		ApplicantName:   req.ApplicantName,
		ApplicantEmail:  req.ApplicantEmail,
		ApplicantPhone:  req.ApplicantPhone,
		CoverNote:       req.CoverNote,
		Status:          application.ApplicationStatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if cv != nil {
		key := "applications/" + a.ApplicationCode + ".pdf"
		if err := s.storage.Write(ctx, key, cv, cvContentType); err != nil {
			logx.Warnf("Failed to store CV for application %s: %v", a.ApplicationCode, err)
		} else {
			a.CVKey = &key
		}
	}

	if err := s.applicationRepo.Save(ctx, a); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "applications",
		Action:     "apply",
		EntityCode: a.ApplicationCode,
		Detail:     activity.DetailMap{"job_code": jobCode, "applicant_email": req.ApplicantEmail},
	})

	return a, nil
}

// GetApplication busca una postulación por código
func (s *ApplicationService) GetApplication(ctx context.Context, code string) (*application.Application, error) {
	return s.applicationRepo.FindByCode(ctx, code)
}

// ListApplications lista la bandeja de postulaciones
func (s *ApplicationService) ListApplications(ctx context.Context, filter application.ApplicationFilter) (*application.ApplicationListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	applications, total, err := s.applicationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]application.ApplicationDTO, len(applications))
	for i := range applications {
		dtos[i] = applications[i].ToDTO()
	}

	return &application.ApplicationListResponse{
		Applications: dtos,
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}, nil
}

// Review mueve la postulación en su tabla de revisión
func (s *ApplicationService) Review(ctx context.Context, actor kernel.AuthContext, code string, requested application.ApplicationStatus) (*application.Application, error) {
	a, err := s.applicationRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	previous := a.Status
	if err := a.ChangeStatus(requested, actor.UserID); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.Save(ctx, a); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "applications",
		Action:     "review",
		EntityCode: a.ApplicationCode,
		ActorID:    actor.UserID,
		Detail:     activity.DetailMap{"from": string(previous), "to": string(requested)},
	})

	return a, nil
}

// Convert promueve una postulación shortlisted a candidato + submission.
// Si ya existe un candidato con el email del postulante, se reutiliza.
func (s *ApplicationService) Convert(ctx context.Context, actor kernel.AuthContext, code string, req application.ConvertApplicationRequest) (*application.ConvertApplicationResponse, error) {
	a, err := s.applicationRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if a.Status != application.ApplicationStatusShortlisted {
		return nil, application.ErrNotShortlisted().WithDetail("status", string(a.Status))
	}

	cand, err := s.resolveCandidate(ctx, actor, a, req)
	if err != nil {
		return nil, err
	}

	sub, err := s.submissionSvc.CreateSubmission(ctx, actor, submission.CreateSubmissionRequest{
		CandidateCode: cand.CandidateCode,
		JobCode:       a.JobCode,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := a.MarkConverted(actor.UserID, cand.CandidateCode); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Save(ctx, a); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "applications",
		Action:     "convert",
		EntityCode: a.ApplicationCode,
		ActorID:    actor.UserID,
		Detail: activity.DetailMap{
			"candidate_code":  cand.CandidateCode,
			"submission_code": sub.SubmissionCode,
		},
	})

	return &application.ConvertApplicationResponse{
		Application:    a.ToDTO(),
		CandidateCode:  cand.CandidateCode,
		SubmissionCode: sub.SubmissionCode,
	}, nil
}

func (s *ApplicationService) resolveCandidate(ctx context.Context, actor kernel.AuthContext, a *application.Application, req application.ConvertApplicationRequest) (*candidate.Candidate, error) {
	exists, err := s.candidateRepo.ExistsByEmail(ctx, a.ApplicantEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return s.candidateRepo.FindByEmail(ctx, a.ApplicantEmail)
	}

	now := time.Now()
	cand := &candidate.Candidate{
		CandidateCode: kernel.NewEntityCode(kernel.CodePrefixCandidate),
		Name:          a.ApplicantName,
		Email:         a.ApplicantEmail,
		Phone:         a.ApplicantPhone,
		Headline:      req.Headline,
		Skills:        req.Skills,
		ExperienceYrs: req.ExperienceYrs,
		Source:        "job_board",
		Status:        candidate.CandidateStatusActive,
		CVKey:         a.CVKey,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.candidateRepo.Save(ctx, cand); err != nil {
		return nil, err
	}

	return cand, nil
}
