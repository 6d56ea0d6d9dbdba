package applicationsrv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/application"
	"github.com/proconsultancy/backend/pkg/ats/candidate"
	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/ats/submission"
	"github.com/proconsultancy/backend/pkg/ats/submission/submissionsrv"
	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/eventx"
	"github.com/proconsultancy/backend/pkg/fsx/fsxlocal"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type fakeApplicationRepo struct {
	byCode map[string]*application.Application
}

func (r *fakeApplicationRepo) FindByCode(_ context.Context, code string) (*application.Application, error) {
	a, ok := r.byCode[code]
	if !ok {
		return nil, application.ErrApplicationNotFound().WithDetail("application_code", code)
	}
	copied := *a
	return &copied, nil
}

func (r *fakeApplicationRepo) FindAll(_ context.Context, _ application.ApplicationFilter) ([]application.Application, int, error) {
	var out []application.Application
	for _, a := range r.byCode {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (r *fakeApplicationRepo) Save(_ context.Context, a *application.Application) error {
	copied := *a
	r.byCode[a.ApplicationCode] = &copied
	return nil
}

func (r *fakeApplicationRepo) ExistsForJob(_ context.Context, jobCode, applicantEmail string) (bool, error) {
	for _, a := range r.byCode {
		if a.JobCode == jobCode && a.ApplicantEmail == applicantEmail {
			return true, nil
		}
	}
	return false, nil
}

type fakeCandidateRepo struct {
	byCode map[string]*candidate.Candidate
}

func (r *fakeCandidateRepo) FindByCode(_ context.Context, code string) (*candidate.Candidate, error) {
	c, ok := r.byCode[code]
	if !ok {
		return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_code", code)
	}
	return c, nil
}

func (r *fakeCandidateRepo) FindByEmail(_ context.Context, email string) (*candidate.Candidate, error) {
	for _, c := range r.byCode {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, candidate.ErrCandidateNotFound().WithDetail("email", email)
}

func (r *fakeCandidateRepo) FindAll(_ context.Context, _ candidate.CandidateFilter) ([]candidate.Candidate, int, error) {
	return nil, 0, nil
}

func (r *fakeCandidateRepo) Save(_ context.Context, c *candidate.Candidate) error {
	r.byCode[c.CandidateCode] = c
	return nil
}

func (r *fakeCandidateRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, c := range r.byCode {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeJobRepo struct {
	byCode map[string]*job.Job
}

func (r *fakeJobRepo) FindByCode(_ context.Context, code string) (*job.Job, error) {
	j, ok := r.byCode[code]
	if !ok {
		return nil, job.ErrJobNotFound().WithDetail("job_code", code)
	}
	return j, nil
}

func (r *fakeJobRepo) FindAll(_ context.Context, _ job.JobFilter) ([]job.Job, int, error) {
	return nil, 0, nil
}

func (r *fakeJobRepo) FindPublished(_ context.Context, _, _ int) ([]job.Job, int, error) {
	return nil, 0, nil
}

func (r *fakeJobRepo) Save(_ context.Context, j *job.Job) error {
	r.byCode[j.JobCode] = j
	return nil
}

type fakeSubmissionRepo struct {
	byCode map[string]*submission.Submission
}

func (r *fakeSubmissionRepo) FindByCode(_ context.Context, code string) (*submission.Submission, error) {
	sub, ok := r.byCode[code]
	if !ok {
		return nil, submission.ErrSubmissionNotFound().WithDetail("submission_code", code)
	}
	return sub, nil
}

func (r *fakeSubmissionRepo) FindAll(_ context.Context, _ submission.SubmissionFilter) ([]submission.Submission, int, error) {
	return nil, 0, nil
}

func (r *fakeSubmissionRepo) Save(_ context.Context, sub *submission.Submission) error {
	r.byCode[sub.SubmissionCode] = sub
	return nil
}

func (r *fakeSubmissionRepo) ExistsActive(_ context.Context, candidateCode, jobCode string) (bool, error) {
	for _, sub := range r.byCode {
		if sub.CandidateCode == candidateCode && sub.JobCode == jobCode && sub.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubmissionRepo) Transition(_ context.Context, code string, fn func(*submission.Submission) error) (*submission.Submission, error) {
	sub, ok := r.byCode[code]
	if !ok {
		return nil, submission.ErrSubmissionNotFound().WithDetail("submission_code", code)
	}
	if err := fn(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(_ context.Context, _ activity.Entry) {}

// ============================================================================
// Fixtures
// ============================================================================

type fixture struct {
	svc        *ApplicationService
	candidates *fakeCandidateRepo
	subs       *fakeSubmissionRepo
	actor      kernel.AuthContext
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	jobs := &fakeJobRepo{byCode: map[string]*job.Job{
		"JOB-BOARD001": {JobCode: "JOB-BOARD001", ClientCode: "CLT-11111111", Title: "SRE", Status: job.JobStatusOpen, Published: true},
		"JOB-DRAFT001": {JobCode: "JOB-DRAFT001", ClientCode: "CLT-11111111", Title: "Hidden", Status: job.JobStatusOpen, Published: false},
	}}
	candidates := &fakeCandidateRepo{byCode: map[string]*candidate.Candidate{}}
	subs := &fakeSubmissionRepo{byCode: map[string]*submission.Submission{}}
	apps := &fakeApplicationRepo{byCode: map[string]*application.Application{}}

	storage, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	submissionSvc := submissionsrv.NewSubmissionService(subs, candidates, jobs, noopRecorder{}, eventx.NewNoopPublisher())
	svc := NewApplicationService(apps, jobs, candidates, submissionSvc, storage, noopRecorder{})

	return &fixture{
		svc:        svc,
		candidates: candidates,
		subs:       subs,
		actor:      kernel.AuthContext{UserID: kernel.UserID("recruiter-1"), Scopes: []string{"*"}},
	}
}

func apply(t *testing.T, f *fixture) *application.Application {
	t.Helper()
	a, err := f.svc.Apply(context.Background(), "JOB-BOARD001", application.ApplyRequest{
		ApplicantName:  "Noor Haddad",
		ApplicantEmail: "noor@example.com",
		CoverNote:      "I run the on-call rotation at my current company.",
	}, nil, "")
	require.NoError(t, err)
	return a
}

// ============================================================================
// Tests
// ============================================================================

func TestApply_PublishedJob(t *testing.T) {
	f := newFixture(t)

	a := apply(t, f)

	assert.Equal(t, application.ApplicationStatusNew, a.Status)
	assert.NotEmpty(t, a.ApplicationCode)
	assert.False(t, a.HasCV())
}

func TestApply_UnpublishedJobDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Apply(context.Background(), "JOB-DRAFT001", application.ApplyRequest{
		ApplicantName:  "Noor Haddad",
		ApplicantEmail: "noor@example.com",
	}, nil, "")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "APPLICATION_JOB_NOT_ACCEPTING", xerr.Code)
}

func TestApply_DuplicateEmailForJob(t *testing.T) {
	f := newFixture(t)
	apply(t, f)

	_, err := f.svc.Apply(context.Background(), "JOB-BOARD001", application.ApplyRequest{
		ApplicantName:  "Noor Haddad",
		ApplicantEmail: "noor@example.com",
	}, nil, "")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "APPLICATION_DUPLICATE", xerr.Code)
}

func TestConvert_CreatesCandidateAndSubmission(t *testing.T) {
	f := newFixture(t)
	a := apply(t, f)
	ctx := context.Background()

	_, err := f.svc.Review(ctx, f.actor, a.ApplicationCode, application.ApplicationStatusInReview)
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, f.actor, a.ApplicationCode, application.ApplicationStatusShortlisted)
	require.NoError(t, err)

	resp, err := f.svc.Convert(ctx, f.actor, a.ApplicationCode, application.ConvertApplicationRequest{
		Skills:        []string{"kubernetes", "terraform"},
		ExperienceYrs: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, application.ApplicationStatusConverted, resp.Application.Status)
	require.NotNil(t, resp.Application.ConvertedTo)
	assert.Equal(t, resp.CandidateCode, *resp.Application.ConvertedTo)

	cand, err := f.candidates.FindByCode(ctx, resp.CandidateCode)
	require.NoError(t, err)
	assert.Equal(t, "noor@example.com", cand.Email)
	assert.Equal(t, "job_board", cand.Source)

	sub, err := f.subs.FindByCode(ctx, resp.SubmissionCode)
	require.NoError(t, err)
	assert.Equal(t, resp.CandidateCode, sub.CandidateCode)
	assert.Equal(t, "JOB-BOARD001", sub.JobCode)
	assert.Equal(t, submission.InternalStatusPending, sub.InternalStatus)
}

func TestConvert_ReusesExistingCandidateByEmail(t *testing.T) {
	f := newFixture(t)
	a := apply(t, f)
	ctx := context.Background()

	existing := &candidate.Candidate{
		CandidateCode: "CND-EXISTING",
		Name:          "Noor Haddad",
		Email:         "noor@example.com",
		Status:        candidate.CandidateStatusActive,
	}
	require.NoError(t, f.candidates.Save(ctx, existing))

	_, err := f.svc.Review(ctx, f.actor, a.ApplicationCode, application.ApplicationStatusInReview)
	require.NoError(t, err)
	_, err = f.svc.Review(ctx, f.actor, a.ApplicationCode, application.ApplicationStatusShortlisted)
	require.NoError(t, err)

	resp, err := f.svc.Convert(ctx, f.actor, a.ApplicationCode, application.ConvertApplicationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "CND-EXISTING", resp.CandidateCode)
}

func TestConvert_RequiresShortlisted(t *testing.T) {
	f := newFixture(t)
	a := apply(t, f)

	_, err := f.svc.Convert(context.Background(), f.actor, a.ApplicationCode, application.ConvertApplicationRequest{})
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "APPLICATION_NOT_SHORTLISTED", xerr.Code)
}
