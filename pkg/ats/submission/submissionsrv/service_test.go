package submissionsrv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/candidate"
	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/ats/submission"
	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/eventx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type fakeSubmissionRepo struct {
	byCode map[string]*submission.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{byCode: map[string]*submission.Submission{}}
}

func (r *fakeSubmissionRepo) FindByCode(_ context.Context, code string) (*submission.Submission, error) {
	sub, ok := r.byCode[code]
	if !ok || sub.IsDeleted() {
		return nil, submission.ErrSubmissionNotFound().WithDetail("submission_code", code)
	}
	copied := *sub
	return &copied, nil
}

func (r *fakeSubmissionRepo) FindAll(_ context.Context, filter submission.SubmissionFilter) ([]submission.Submission, int, error) {
	var out []submission.Submission
	for _, sub := range r.byCode {
		if sub.IsDeleted() {
			continue
		}
		if filter.JobCode != "" && sub.JobCode != filter.JobCode {
			continue
		}
		if filter.CandidateCode != "" && sub.CandidateCode != filter.CandidateCode {
			continue
		}
		out = append(out, *sub)
	}
	return out, len(out), nil
}

func (r *fakeSubmissionRepo) Save(_ context.Context, sub *submission.Submission) error {
	copied := *sub
	r.byCode[sub.SubmissionCode] = &copied
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
	stored, ok := r.byCode[code]
	if !ok || stored.IsDeleted() {
		return nil, submission.ErrSubmissionNotFound().WithDetail("submission_code", code)
	}
	working := *stored
	if err := fn(&working); err != nil {
		return nil, err
	}
	r.byCode[code] = &working
	result := working
	return &result, nil
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

type recordingAudit struct {
	entries []activity.Entry
}

func (r *recordingAudit) Record(_ context.Context, entry activity.Entry) {
	r.entries = append(r.entries, entry)
}

// ============================================================================
// Fixtures
// ============================================================================

type fixture struct {
	svc     *SubmissionService
	subs    *fakeSubmissionRepo
	audit   *recordingAudit
	actor   kernel.AuthContext
	manager kernel.AuthContext
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	candidates := &fakeCandidateRepo{byCode: map[string]*candidate.Candidate{
		"CND-11111111": {CandidateCode: "CND-11111111", Name: "Dana Reyes", Email: "dana@example.com", Status: candidate.CandidateStatusActive},
	}}
	jobs := &fakeJobRepo{byCode: map[string]*job.Job{
		"JOB-22222222": {JobCode: "JOB-22222222", ClientCode: "CLT-33333333", Title: "Platform Engineer", Status: job.JobStatusOpen},
		"JOB-44444444": {JobCode: "JOB-44444444", ClientCode: "CLT-33333333", Title: "Filled Role", Status: job.JobStatusFilled},
	}}
	subs := newFakeSubmissionRepo()
	audit := &recordingAudit{}

	svc := NewSubmissionService(subs, candidates, jobs, audit, eventx.NewNoopPublisher())

	return &fixture{
		svc:     svc,
		subs:    subs,
		audit:   audit,
		actor:   kernel.AuthContext{UserID: kernel.UserID("recruiter-1"), Email: "recruiter@proconsultancy.test", Scopes: []string{"*"}},
		manager: kernel.AuthContext{UserID: kernel.UserID("manager-1"), Email: "manager@proconsultancy.test", Scopes: []string{"*"}},
	}
}

func (f *fixture) createSubmission(t *testing.T) *submission.Submission {
	t.Helper()
	sub, err := f.svc.CreateSubmission(context.Background(), f.actor, submission.CreateSubmissionRequest{
		CandidateCode: "CND-11111111",
		JobCode:       "JOB-22222222",
	})
	require.NoError(t, err)
	return sub
}

// ============================================================================
// Tests
// ============================================================================

func TestCreateSubmission(t *testing.T) {
	f := newFixture(t)

	sub := f.createSubmission(t)

	assert.NotEmpty(t, sub.SubmissionCode)
	assert.Equal(t, submission.InternalStatusPending, sub.InternalStatus)
	assert.Equal(t, submission.ClientStatusNotSent, sub.ClientStatus)
	assert.Equal(t, kernel.UserID("recruiter-1"), sub.CreatedBy)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "submissions", f.audit.entries[0].Module)
	assert.Equal(t, "create", f.audit.entries[0].Action)
}

func TestCreateSubmission_JobNotOpen(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateSubmission(context.Background(), f.actor, submission.CreateSubmissionRequest{
		CandidateCode: "CND-11111111",
		JobCode:       "JOB-44444444",
	})
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "JOB_NOT_OPEN", xerr.Code)
}

func TestCreateSubmission_DuplicateActivePair(t *testing.T) {
	f := newFixture(t)
	f.createSubmission(t)

	_, err := f.svc.CreateSubmission(context.Background(), f.actor, submission.CreateSubmissionRequest{
		CandidateCode: "CND-11111111",
		JobCode:       "JOB-22222222",
	})
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_DUPLICATE", xerr.Code)
}

func TestCreateSubmission_AllowedAgainAfterWithdrawal(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)

	_, err := f.svc.Withdraw(context.Background(), f.actor, sub.SubmissionCode, "candidate paused the search")
	require.NoError(t, err)

	again, err := f.svc.CreateSubmission(context.Background(), f.actor, submission.CreateSubmissionRequest{
		CandidateCode: "CND-11111111",
		JobCode:       "JOB-22222222",
	})
	require.NoError(t, err)
	assert.NotEqual(t, sub.SubmissionCode, again.SubmissionCode)
}

func TestReject_RecordsReasonVerbatim(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)

	reason := "Salary expectation exceeds the approved band for this role."
	rejected, err := f.svc.Reject(context.Background(), f.manager, sub.SubmissionCode, reason)
	require.NoError(t, err)

	assert.Equal(t, submission.InternalStatusRejected, rejected.InternalStatus)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, reason, *rejected.RejectionReason)

	// The reason also lands in the audit trail.
	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, "reject", last.Action)
	assert.Equal(t, reason, last.Detail["reason"])
}

func TestSendToClient_BeforeApprovalDenied(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)

	_, err := f.svc.SendToClient(context.Background(), f.actor, sub.SubmissionCode)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_NOT_APPROVED", xerr.Code)
}

func TestPipeline_ApproveSendInterviewThenSkipDenied(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, f.manager, sub.SubmissionCode)
	require.NoError(t, err)

	_, err = f.svc.SendToClient(ctx, f.actor, sub.SubmissionCode)
	require.NoError(t, err)

	_, err = f.svc.RecordInterview(ctx, f.actor, sub.SubmissionCode, submission.RecordStageRequest{
		Date: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Jumping straight from interviewing to placed must be denied with an
	// error naming both statuses.
	_, err = f.svc.RecordPlacement(ctx, f.actor, sub.SubmissionCode, submission.RecordStageRequest{
		Date: time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Contains(t, xerr.Message, "interviewing")
	assert.Contains(t, xerr.Message, "placed")

	// The failed transition wrote nothing.
	current, err := f.svc.GetSubmission(ctx, sub.SubmissionCode)
	require.NoError(t, err)
	assert.Equal(t, submission.ClientStatusInterviewing, current.ClientStatus)
	assert.Nil(t, current.PlacementDate)
}

func TestRecordStage_RequiresDate(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)

	_, err := f.svc.RecordInterview(context.Background(), f.actor, sub.SubmissionCode, submission.RecordStageRequest{})
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_DATE_REQUIRED", xerr.Code)
}

func TestUpdateClientStatus_SubmittedRoutesThroughSend(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, f.manager, sub.SubmissionCode)
	require.NoError(t, err)

	updated, err := f.svc.UpdateClientStatus(ctx, f.actor, sub.SubmissionCode, submission.UpdateClientStatusRequest{
		Status: submission.ClientStatusSubmitted,
	})
	require.NoError(t, err)

	assert.Equal(t, submission.ClientStatusSubmitted, updated.ClientStatus)
	assert.NotNil(t, updated.SentToClientAt)
}

func TestWithdraw_OnInterviewingSetsBothStatuses(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, f.manager, sub.SubmissionCode)
	require.NoError(t, err)
	_, err = f.svc.SendToClient(ctx, f.actor, sub.SubmissionCode)
	require.NoError(t, err)
	_, err = f.svc.RecordInterview(ctx, f.actor, sub.SubmissionCode, submission.RecordStageRequest{Date: time.Now()})
	require.NoError(t, err)

	withdrawn, err := f.svc.Withdraw(ctx, f.actor, sub.SubmissionCode, "candidate accepted another offer")
	require.NoError(t, err)

	assert.Equal(t, submission.InternalStatusWithdrawn, withdrawn.InternalStatus)
	assert.Equal(t, submission.ClientStatusWithdrawn, withdrawn.ClientStatus)
	assert.NotNil(t, withdrawn.WithdrawnDate)
}

func TestWithdraw_OnPlacedDenied(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, f.manager, sub.SubmissionCode)
	require.NoError(t, err)
	_, err = f.svc.SendToClient(ctx, f.actor, sub.SubmissionCode)
	require.NoError(t, err)
	_, err = f.svc.RecordInterview(ctx, f.actor, sub.SubmissionCode, submission.RecordStageRequest{Date: time.Now()})
	require.NoError(t, err)
	_, err = f.svc.RecordOffer(ctx, f.actor, sub.SubmissionCode, submission.RecordStageRequest{Date: time.Now()})
	require.NoError(t, err)
	_, err = f.svc.RecordPlacement(ctx, f.actor, sub.SubmissionCode, submission.RecordStageRequest{Date: time.Now()})
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, f.actor, sub.SubmissionCode, "too late")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_ALREADY_TERMINAL", xerr.Code)
	assert.Contains(t, xerr.Message, "placed")
}

func TestDeleteSubmission_SoftDelete(t *testing.T) {
	f := newFixture(t)
	sub := f.createSubmission(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteSubmission(ctx, f.actor, sub.SubmissionCode))

	_, err := f.svc.GetSubmission(ctx, sub.SubmissionCode)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_NOT_FOUND", xerr.Code)
}
