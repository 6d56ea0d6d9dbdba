package jobsrv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/ats/activity"
	"github.com/proconsultancy/backend/pkg/ats/client"
	"github.com/proconsultancy/backend/pkg/ats/job"
	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
	"github.com/proconsultancy/backend/pkg/ptrx"
)

type fakeJobRepo struct {
	byCode map[string]*job.Job
}

func (r *fakeJobRepo) FindByCode(_ context.Context, code string) (*job.Job, error) {
	j, ok := r.byCode[code]
	if !ok || j.IsDeleted() {
		return nil, job.ErrJobNotFound().WithDetail("job_code", code)
	}
	copied := *j
	return &copied, nil
}

func (r *fakeJobRepo) FindAll(_ context.Context, _ job.JobFilter) ([]job.Job, int, error) {
	var out []job.Job
	for _, j := range r.byCode {
		if !j.IsDeleted() {
			out = append(out, *j)
		}
	}
	return out, len(out), nil
}

func (r *fakeJobRepo) FindPublished(_ context.Context, _, _ int) ([]job.Job, int, error) {
	var out []job.Job
	for _, j := range r.byCode {
		if !j.IsDeleted() && j.Published && j.Status == job.JobStatusOpen {
			out = append(out, *j)
		}
	}
	return out, len(out), nil
}

func (r *fakeJobRepo) Save(_ context.Context, j *job.Job) error {
	copied := *j
	r.byCode[j.JobCode] = &copied
	return nil
}

type fakeClientRepo struct {
	byCode map[string]*client.Client
}

func (r *fakeClientRepo) FindByCode(_ context.Context, code string) (*client.Client, error) {
	c, ok := r.byCode[code]
	if !ok {
		return nil, client.ErrClientNotFound().WithDetail("client_code", code)
	}
	return c, nil
}

func (r *fakeClientRepo) FindAll(_ context.Context, _ client.ClientFilter) ([]client.Client, int, error) {
	return nil, 0, nil
}

func (r *fakeClientRepo) Save(_ context.Context, c *client.Client) error {
	r.byCode[c.ClientCode] = c
	return nil
}

func (r *fakeClientRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, c := range r.byCode {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type noopRecorder struct{}

func (noopRecorder) Record(_ context.Context, _ activity.Entry) {}

func newService() (*JobService, *fakeJobRepo) {
	jobs := &fakeJobRepo{byCode: map[string]*job.Job{}}
	clients := &fakeClientRepo{byCode: map[string]*client.Client{
		"CLT-11111111": {ClientCode: "CLT-11111111", Name: "Acme Corp", Status: client.ClientStatusActive},
	}}
	return NewJobService(jobs, clients, noopRecorder{}), jobs
}

func validRequest() job.CreateJobRequest {
	return job.CreateJobRequest{
		ClientCode:  "CLT-11111111",
		Title:       "Data Engineer",
		Description: "Own the ingestion pipeline.",
		Location:    "Remote",
		Employment:  job.EmploymentTypeFullTime,
		Openings:    2,
	}
}

func TestCreateJob_StartsAsDraft(t *testing.T) {
	svc, _ := newService()
	actor := kernel.AuthContext{UserID: kernel.UserID("recruiter-1")}

	j, err := svc.CreateJob(context.Background(), actor, validRequest())
	require.NoError(t, err)

	assert.Equal(t, job.JobStatusDraft, j.Status)
	assert.False(t, j.Published)
	assert.Equal(t, kernel.UserID("recruiter-1"), j.CreatedBy)
}

func TestCreateJob_UnknownClient(t *testing.T) {
	svc, _ := newService()
	actor := kernel.AuthContext{UserID: kernel.UserID("recruiter-1")}

	req := validRequest()
	req.ClientCode = "CLT-00000000"

	_, err := svc.CreateJob(context.Background(), actor, req)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "CLIENT_NOT_FOUND", xerr.Code)
}

func TestCreateJob_InvalidSalaryRange(t *testing.T) {
	svc, _ := newService()
	actor := kernel.AuthContext{UserID: kernel.UserID("recruiter-1")}

	req := validRequest()
	req.SalaryMin = ptrx.Float64(90000)
	req.SalaryMax = ptrx.Float64(60000)

	_, err := svc.CreateJob(context.Background(), actor, req)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "JOB_INVALID_SALARY_RANGE", xerr.Code)
}

func TestPublishJob_RequiresOpenStatus(t *testing.T) {
	svc, _ := newService()
	actor := kernel.AuthContext{UserID: kernel.UserID("recruiter-1")}
	ctx := context.Background()

	j, err := svc.CreateJob(ctx, actor, validRequest())
	require.NoError(t, err)

	_, err = svc.PublishJob(ctx, actor, j.JobCode)
	require.Error(t, err)

	_, err = svc.ChangeStatus(ctx, actor, j.JobCode, job.JobStatusOpen)
	require.NoError(t, err)

	published, err := svc.PublishJob(ctx, actor, j.JobCode)
	require.NoError(t, err)
	assert.True(t, published.Published)

	board, total, err := svc.ListPublishedJobs(ctx, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, board, 1)
	assert.Equal(t, j.JobCode, board[0].JobCode)
}

func TestChangeStatus_OnHoldDropsFromBoard(t *testing.T) {
	svc, _ := newService()
	actor := kernel.AuthContext{UserID: kernel.UserID("recruiter-1")}
	ctx := context.Background()

	j, err := svc.CreateJob(ctx, actor, validRequest())
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, actor, j.JobCode, job.JobStatusOpen)
	require.NoError(t, err)
	_, err = svc.PublishJob(ctx, actor, j.JobCode)
	require.NoError(t, err)

	held, err := svc.ChangeStatus(ctx, actor, j.JobCode, job.JobStatusOnHold)
	require.NoError(t, err)
	assert.False(t, held.Published)

	_, total, err := svc.ListPublishedJobs(ctx, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDeleteJob_SoftDelete(t *testing.T) {
	svc, _ := newService()
	actor := kernel.AuthContext{UserID: kernel.UserID("recruiter-1")}
	ctx := context.Background()

	j, err := svc.CreateJob(ctx, actor, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteJob(ctx, actor, j.JobCode))

	_, err = svc.GetJob(ctx, j.JobCode)
	require.Error(t, err)
}
