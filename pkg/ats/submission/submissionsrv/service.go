package submissionsrv

import (
	"context"
	"time"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/candidate"
	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/ats/submission"
	"github.com/proconsultancy/backend/pkg/eventx"
	"github.com/proconsultancy/backend/pkg/kernel"
	"github.com/proconsultancy/backend/pkg/logx"
)

// SubmissionService maneja el pipeline candidato→cliente. Cada transición
// corre dentro de una transacción con row lock a través del repositorio,
// registra actividad y publica un evento de dominio.
type SubmissionService struct {
	submissionRepo submission.SubmissionRepository
	candidateRepo  candidate.CandidateRepository
	jobRepo        job.JobRepository
	recorder       activity.Recorder
	publisher      eventx.Publisher
}

func NewSubmissionService(
	submissionRepo submission.SubmissionRepository,
	candidateRepo candidate.CandidateRepository,
	jobRepo job.JobRepository,
	recorder activity.Recorder,
	publisher eventx.Publisher,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		candidateRepo:  candidateRepo,
		jobRepo:        jobRepo,
		recorder:       recorder,
		publisher:      publisher,
	}
}

// CreateSubmission propone un candidato para un puesto abierto.
// Un par (candidato, puesto) admite a lo sumo una submission activa.
func (s *SubmissionService) CreateSubmission(ctx context.Context, actor kernel.AuthContext, req submission.CreateSubmissionRequest) (*submission.Submission, error) {
	if _, err := s.candidateRepo.FindByCode(ctx, req.CandidateCode); err != nil {
		return nil, err
	}

	j, err := s.jobRepo.FindByCode(ctx, req.JobCode)
	if err != nil {
		return nil, err
	}
	if !j.IsOpen() {
		return nil, job.ErrJobNotOpen().WithDetail("job_code", j.JobCode).
			WithDetail("status", string(j.Status))
	}

	exists, err := s.submissionRepo.ExistsActive(ctx, req.CandidateCode, req.JobCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, submission.ErrDuplicateSubmission().
			WithDetail("candidate_code", req.CandidateCode).
			WithDetail("job_code", req.JobCode)
	}

	now := time.Now()
	sub := &submission.Submission{
		SubmissionCode: kernel.NewEntityCode(kernel.CodePrefixSubmission),
		CandidateCode:  req.CandidateCode,
		JobCode:        req.JobCode,
		InternalStatus: submission.InternalStatusPending,
		ClientStatus:   submission.ClientStatusNotSent,
		ExpectedSalary: req.ExpectedSalary,
		Notes:          req.Notes,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// El unique index parcial sobre (candidate, job) activas respalda el
	// chequeo anterior frente a inserciones concurrentes
	if err := s.submissionRepo.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "create", sub, activity.DetailMap{
		"candidate_code": sub.CandidateCode,
		"job_code":       sub.JobCode,
	})
	s.publish(ctx, actor, "submission.created", sub, nil)

	return sub, nil
}

// GetSubmission busca una submission por código
func (s *SubmissionService) GetSubmission(ctx context.Context, code string) (*submission.Submission, error) {
	return s.submissionRepo.FindByCode(ctx, code)
}

// ListSubmissions lista el pipeline con filtros
func (s *SubmissionService) ListSubmissions(ctx context.Context, filter submission.SubmissionFilter) (*submission.SubmissionListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	subs, total, err := s.submissionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]submission.SubmissionDTO, len(subs))
	for i := range subs {
		dtos[i] = subs[i].ToDTO()
	}

	return &submission.SubmissionListResponse{
		Submissions: dtos,
		Total:       total,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}, nil
}

// Approve pasa el gate interno a approved. Irreversible.
func (s *SubmissionService) Approve(ctx context.Context, actor kernel.AuthContext, code string) (*submission.Submission, error) {
	sub, err := s.submissionRepo.Transition(ctx, code, func(sub *submission.Submission) error {
		return sub.Approve(actor.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "approve", sub, nil)
	s.publish(ctx, actor, "submission.approved", sub, nil)

	return sub, nil
}

// Reject pasa el gate interno a rejected con razón obligatoria. Irreversible.
func (s *SubmissionService) Reject(ctx context.Context, actor kernel.AuthContext, code string, reason string) (*submission.Submission, error) {
	sub, err := s.submissionRepo.Transition(ctx, code, func(sub *submission.Submission) error {
		return sub.RejectInternal(actor.UserID, reason)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "reject", sub, activity.DetailMap{"reason": reason})
	s.publish(ctx, actor, "submission.rejected", sub, map[string]any{"reason": reason})

	return sub, nil
}

// SendToClient envía la submission aprobada al cliente
func (s *SubmissionService) SendToClient(ctx context.Context, actor kernel.AuthContext, code string) (*submission.Submission, error) {
	sub, err := s.submissionRepo.Transition(ctx, code, func(sub *submission.Submission) error {
		return sub.SendToClient()
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "send_to_client", sub, nil)
	s.publish(ctx, actor, "submission.sent_to_client", sub, nil)

	return sub, nil
}

// UpdateClientStatus aplica la transición genérica del pipeline,
// validada contra la tabla autoritativa
func (s *SubmissionService) UpdateClientStatus(ctx context.Context, actor kernel.AuthContext, code string, req submission.UpdateClientStatusRequest) (*submission.Submission, error) {
	when := time.Now()
	if req.Date != nil {
		when = *req.Date
	}

	var previous submission.ClientStatus
	sub, err := s.submissionRepo.Transition(ctx, code, func(sub *submission.Submission) error {
		previous = sub.ClientStatus
		if req.Status == submission.ClientStatusSubmitted {
			return sub.SendToClient()
		}
		if err := sub.AdvanceClientStatus(req.Status, when); err != nil {
			return err
		}
		if req.Notes != "" {
			sub.Notes = req.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "update_client_status", sub, activity.DetailMap{
		"from": string(previous),
		"to":   string(req.Status),
	})
	s.publish(ctx, actor, "submission.client_status_changed", sub, map[string]any{
		"from": string(previous),
		"to":   string(req.Status),
	})

	return sub, nil
}

// RecordInterview registra la entrevista con su fecha. Valida la tabla
// igual que la transición genérica; ningún recorder confía solo en la UI.
func (s *SubmissionService) RecordInterview(ctx context.Context, actor kernel.AuthContext, code string, req submission.RecordStageRequest) (*submission.Submission, error) {
	return s.recordStage(ctx, actor, code, submission.ClientStatusInterviewing, "record_interview", "submission.interview_recorded", req)
}

// RecordOffer registra la oferta extendida al candidato
func (s *SubmissionService) RecordOffer(ctx context.Context, actor kernel.AuthContext, code string, req submission.RecordStageRequest) (*submission.Submission, error) {
	return s.recordStage(ctx, actor, code, submission.ClientStatusOffered, "record_offer", "submission.offer_recorded", req)
}

// RecordPlacement registra la colocación definitiva
func (s *SubmissionService) RecordPlacement(ctx context.Context, actor kernel.AuthContext, code string, req submission.RecordStageRequest) (*submission.Submission, error) {
	return s.recordStage(ctx, actor, code, submission.ClientStatusPlaced, "record_placement", "submission.placed", req)
}

func (s *SubmissionService) recordStage(ctx context.Context, actor kernel.AuthContext, code string, stage submission.ClientStatus, action, eventType string, req submission.RecordStageRequest) (*submission.Submission, error) {
	if req.Date.IsZero() {
		return nil, submission.ErrDateRequired()
	}

	var previous submission.ClientStatus
	sub, err := s.submissionRepo.Transition(ctx, code, func(sub *submission.Submission) error {
		previous = sub.ClientStatus
		if err := sub.AdvanceClientStatus(stage, req.Date); err != nil {
			return err
		}
		if req.Notes != "" {
			sub.Notes = req.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, action, sub, activity.DetailMap{
		"from": string(previous),
		"to":   string(stage),
		"date": req.Date.Format(time.RFC3339),
	})
	s.publish(ctx, actor, eventType, sub, map[string]any{
		"from": string(previous),
		"to":   string(stage),
	})

	return sub, nil
}

// Withdraw retira la submission con razón obligatoria. No se permite
// sobre un desenlace terminal (placed/rejected).
func (s *SubmissionService) Withdraw(ctx context.Context, actor kernel.AuthContext, code string, reason string) (*submission.Submission, error) {
	sub, err := s.submissionRepo.Transition(ctx, code, func(sub *submission.Submission) error {
		return sub.Withdraw(reason)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "withdraw", sub, activity.DetailMap{"reason": reason})
	s.publish(ctx, actor, "submission.withdrawn", sub, map[string]any{"reason": reason})

	return sub, nil
}

// DeleteSubmission aplica el soft delete; el audit trail se preserva
func (s *SubmissionService) DeleteSubmission(ctx context.Context, actor kernel.AuthContext, code string) error {
	sub, err := s.submissionRepo.Transition(ctx, code, func(sub *submission.Submission) error {
		sub.MarkDeleted()
		return nil
	})
	if err != nil {
		return err
	}

	s.audit(ctx, actor, "delete", sub, nil)

	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *SubmissionService) audit(ctx context.Context, actor kernel.AuthContext, action string, sub *submission.Submission, detail activity.DetailMap) {
	s.recorder.Record(ctx, activity.Entry{
		Module:     "submissions",
		Action:     action,
		EntityCode: sub.SubmissionCode,
		ActorID:    actor.UserID,
		Detail:     detail,
	})
}

func (s *SubmissionService) publish(ctx context.Context, actor kernel.AuthContext, eventType string, sub *submission.Submission, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["candidate_code"] = sub.CandidateCode
	payload["job_code"] = sub.JobCode
	payload["internal_status"] = string(sub.InternalStatus)
	payload["client_status"] = string(sub.ClientStatus)

	event := eventx.Event{
		Type:       eventType,
		Module:     "submissions",
		EntityCode: sub.SubmissionCode,
		ActorID:    actor.UserID.String(),
		Payload:    payload,
		OccurredAt: time.Now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		logx.Warnf("Failed to publish %s event for %s: %v", eventType, sub.SubmissionCode, err)
	}
}
