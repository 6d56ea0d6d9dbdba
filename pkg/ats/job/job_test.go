package job

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

func newTestJob(status JobStatus) *Job {
	now := time.Now()
	return &Job{
		JobCode:    "JOB-TEST0001",
		ClientCode: "CLT-TEST0001",
		Title:      "Backend Engineer",
		Status:     status,
		Openings:   1,
		CreatedBy:  kernel.UserID("recruiter-1"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestChangeStatus_Lifecycle(t *testing.T) {
	j := newTestJob(JobStatusDraft)

	require.NoError(t, j.ChangeStatus(JobStatusOpen))
	require.NoError(t, j.ChangeStatus(JobStatusOnHold))
	require.NoError(t, j.ChangeStatus(JobStatusOpen))
	require.NoError(t, j.ChangeStatus(JobStatusFilled))

	assert.True(t, j.IsTerminal())
}

func TestChangeStatus_DeniedEdges(t *testing.T) {
	denied := []struct {
		from JobStatus
		to   JobStatus
	}{
		{JobStatusDraft, JobStatusFilled},
		{JobStatusDraft, JobStatusOnHold},
		{JobStatusDraft, JobStatusClosed},
		{JobStatusOpen, JobStatusDraft},
		{JobStatusOpen, JobStatusCancelled},
		{JobStatusOnHold, JobStatusFilled},
		{JobStatusFilled, JobStatusOpen},
		{JobStatusClosed, JobStatusOpen},
		{JobStatusCancelled, JobStatusOpen},
	}

	for _, tc := range denied {
		j := newTestJob(tc.from)
		err := j.ChangeStatus(tc.to)
		require.Error(t, err, "%s -> %s should be denied", tc.from, tc.to)

		var xerr *errx.Error
		require.ErrorAs(t, err, &xerr)
		assert.Equal(t, "JOB_TRANSITION_NOT_ALLOWED", xerr.Code)
		assert.Equal(t, tc.from, j.Status)
	}
}

func TestChangeStatus_UnknownStatus(t *testing.T) {
	j := newTestJob(JobStatusOpen)

	err := j.ChangeStatus(JobStatus("archived"))
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "JOB_INVALID_STATUS", xerr.Code)
}

func TestPublish_OnlyOpenJobs(t *testing.T) {
	j := newTestJob(JobStatusOpen)
	require.NoError(t, j.Publish())
	assert.True(t, j.Published)

	draft := newTestJob(JobStatusDraft)
	err := draft.Publish()
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "JOB_NOT_PUBLISHABLE", xerr.Code)
	assert.False(t, draft.Published)
}

func TestChangeStatus_LeavingOpenUnpublishes(t *testing.T) {
	j := newTestJob(JobStatusOpen)
	require.NoError(t, j.Publish())

	require.NoError(t, j.ChangeStatus(JobStatusOnHold))
	assert.False(t, j.Published)

	require.NoError(t, j.ChangeStatus(JobStatusOpen))
	assert.False(t, j.Published, "re-opening must not re-publish automatically")
}

func TestMarkDeleted_Unpublishes(t *testing.T) {
	j := newTestJob(JobStatusOpen)
	require.NoError(t, j.Publish())

	j.MarkDeleted()

	assert.True(t, j.IsDeleted())
	assert.False(t, j.Published)
	assert.False(t, j.IsOpen())
}

func TestToPublicDTO_TruncatesSummary(t *testing.T) {
	j := newTestJob(JobStatusOpen)
	j.Description = strings.Repeat("a", 400)

	dto := j.ToPublicDTO()
	assert.Equal(t, 280, len(strings.TrimSuffix(dto.Summary, "…")))

	short := newTestJob(JobStatusOpen)
	short.Description = "Short role description"
	assert.Equal(t, "Short role description", short.ToPublicDTO().Summary)
}
