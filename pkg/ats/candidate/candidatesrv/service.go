package candidatesrv

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/candidate"
	"github.com/proconsultancy/backend/pkg/fsx"
	"github.com/proconsultancy/backend/pkg/kernel"
	"github.com/proconsultancy/backend/pkg/logx"
)

// cvContentTypes mapea extensiones aceptadas a su content type
var cvContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// CandidateService maneja la base de talento y el almacenamiento de CVs
type CandidateService struct {
	candidateRepo candidate.CandidateRepository
	storage       fsx.FileSystem
	recorder      activity.Recorder
	maxCVBytes    int64
}

func NewCandidateService(
	candidateRepo candidate.CandidateRepository,
	storage fsx.FileSystem,
	recorder activity.Recorder,
	maxCVMB int,
) *CandidateService {
	if maxCVMB <= 0 {
		maxCVMB = 8
	}
	return &CandidateService{
		candidateRepo: candidateRepo,
		storage:       storage,
		recorder:      recorder,
		maxCVBytes:    int64(maxCVMB) << 20,
	}
}

// CreateCandidate registra un candidato nuevo con email único
func (s *CandidateService) CreateCandidate(ctx context.Context, actor kernel.AuthContext, req candidate.CreateCandidateRequest) (*candidate.Candidate, error) {
	exists, err := s.candidateRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, candidate.ErrCandidateAlreadyExists().WithDetail("email", req.Email)
	}

	now := time.Now()
	c := &candidate.Candidate{
		CandidateCode:  kernel.NewEntityCode(kernel.CodePrefixCandidate),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Headline:       req.Headline,
		Skills:         req.Skills,
		ExperienceYrs:  req.ExperienceYrs,
		CurrentSalary:  req.CurrentSalary,
		ExpectedSalary: req.ExpectedSalary,
		Source:         req.Source,
		Status:         candidate.CandidateStatusActive,
		CreatedBy:      actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.candidateRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "candidates",
		Action:     "create",
		EntityCode: c.CandidateCode,
		ActorID:    actor.UserID,
		Detail:     activity.DetailMap{"email": c.Email},
	})

	return c, nil
}

// GetCandidate busca un candidato por código
func (s *CandidateService) GetCandidate(ctx context.Context, code string) (*candidate.Candidate, error) {
	return s.candidateRepo.FindByCode(ctx, code)
}

// ListCandidates lista la base de talento con filtros
func (s *CandidateService) ListCandidates(ctx context.Context, filter candidate.CandidateFilter) (*candidate.CandidateListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	candidates, total, err := s.candidateRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]candidate.CandidateDTO, len(candidates))
	for i := range candidates {
		dtos[i] = candidates[i].ToDTO()
	}

	return &candidate.CandidateListResponse{
		Candidates: dtos,
		Total:      total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// UpdateCandidate actualiza campos editables del candidato
func (s *CandidateService) UpdateCandidate(ctx context.Context, actor kernel.AuthContext, code string, req candidate.UpdateCandidateRequest) (*candidate.Candidate, error) {
	c, err := s.candidateRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != c.Email {
		exists, err := s.candidateRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, candidate.ErrCandidateAlreadyExists().WithDetail("email", *req.Email)
		}
		c.Email = *req.Email
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Headline != nil {
		c.Headline = *req.Headline
	}
	if req.Skills != nil {
		c.Skills = req.Skills
	}
	if req.ExperienceYrs != nil {
		c.ExperienceYrs = *req.ExperienceYrs
	}
	if req.CurrentSalary != nil {
		c.CurrentSalary = req.CurrentSalary
	}
	if req.ExpectedSalary != nil {
		c.ExpectedSalary = req.ExpectedSalary
	}
	if req.Source != nil {
		c.Source = *req.Source
	}
	if req.Status != nil {
		if !candidate.IsValidStatus(*req.Status) {
			return nil, candidate.ErrInvalidCandidateStatus(string(*req.Status))
		}
		c.Status = *req.Status
	}
	c.UpdatedAt = time.Now()

	if err := s.candidateRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "candidates",
		Action:     "update",
		EntityCode: c.CandidateCode,
		ActorID:    actor.UserID,
	})

	return c, nil
}

// UploadCV almacena el CV del candidato y reemplaza el anterior si existe
func (s *CandidateService) UploadCV(ctx context.Context, actor kernel.AuthContext, code, filename string, size int64, content io.Reader) (*candidate.Candidate, error) {
	c, err := s.candidateRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if size > s.maxCVBytes {
		return nil, candidate.ErrCVTooLarge().
			WithDetail("size", size).
			WithDetail("max_bytes", s.maxCVBytes)
	}

	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := cvContentTypes[ext]
	if !ok {
		return nil, candidate.ErrCVInvalidType().WithDetail("extension", ext)
	}

	key := "cv/" + c.CandidateCode + ext
	if err := s.storage.Write(ctx, key, content, contentType); err != nil {
		return nil, err
	}

	previous := c.CVKey
	c.CVKey = &key
	c.UpdatedAt = time.Now()

	if err := s.candidateRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	// El CV anterior queda huérfano si cambió la extensión
	if previous != nil && *previous != key {
		if err := s.storage.Delete(ctx, *previous); err != nil {
			logx.Warnf("Failed to delete previous CV %s: %v", *previous, err)
		}
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "candidates",
		Action:     "upload_cv",
		EntityCode: c.CandidateCode,
		ActorID:    actor.UserID,
		Detail:     activity.DetailMap{"filename": filename},
	})

	return c, nil
}

// DownloadCV entrega el CV almacenado del candidato
func (s *CandidateService) DownloadCV(ctx context.Context, code string) (io.ReadCloser, string, error) {
	c, err := s.candidateRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, "", err
	}

	if !c.HasCV() {
		return nil, "", candidate.ErrCVNotFound().WithDetail("candidate_code", code)
	}

	reader, err := s.storage.Read(ctx, *c.CVKey)
	if err != nil {
		return nil, "", err
	}

	contentType := cvContentTypes[strings.ToLower(path.Ext(*c.CVKey))]
	return reader, contentType, nil
}

// DeleteCandidate aplica el soft delete; el CV almacenado se conserva
// junto con el historial
func (s *CandidateService) DeleteCandidate(ctx context.Context, actor kernel.AuthContext, code string) error {
	c, err := s.candidateRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}

	c.MarkDeleted()

	if err := s.candidateRepo.Save(ctx, c); err != nil {
		return err
	}

	s.recorder.Record(ctx, activity.Entry{
		Module:     "candidates",
		Action:     "delete",
		EntityCode: c.CandidateCode,
		ActorID:    actor.UserID,
	})

	return nil
}
