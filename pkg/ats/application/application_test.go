package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

func newTestApplication(status ApplicationStatus) *Application {
	now := time.Now()
	return &Application{
		ApplicationCode: "APP-TEST0001",
		JobCode:         "JOB-TEST0001",
		ApplicantName:   "Sam Ortega",
		ApplicantEmail:  "sam@example.com",
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestChangeStatus_ReviewFlow(t *testing.T) {
	a := newTestApplication(ApplicationStatusNew)
	reviewer := kernel.UserID("recruiter-1")

	require.NoError(t, a.ChangeStatus(ApplicationStatusInReview, reviewer))
	require.NoError(t, a.ChangeStatus(ApplicationStatusShortlisted, reviewer))

	require.NotNil(t, a.ReviewedBy)
	assert.Equal(t, reviewer, *a.ReviewedBy)
}

func TestChangeStatus_RejectedFromAnyActiveStage(t *testing.T) {
	reviewer := kernel.UserID("recruiter-1")
	for _, from := range []ApplicationStatus{ApplicationStatusNew, ApplicationStatusInReview, ApplicationStatusShortlisted} {
		a := newTestApplication(from)
		require.NoError(t, a.ChangeStatus(ApplicationStatusRejected, reviewer), "reject from %s", from)
		assert.True(t, a.IsTerminal())
	}
}

func TestChangeStatus_DeniedEdges(t *testing.T) {
	reviewer := kernel.UserID("recruiter-1")
	denied := []struct {
		from ApplicationStatus
		to   ApplicationStatus
	}{
		{ApplicationStatusNew, ApplicationStatusShortlisted},
		{ApplicationStatusNew, ApplicationStatusConverted},
		{ApplicationStatusInReview, ApplicationStatusConverted},
		{ApplicationStatusInReview, ApplicationStatusNew},
		{ApplicationStatusConverted, ApplicationStatusRejected},
		{ApplicationStatusRejected, ApplicationStatusInReview},
	}

	for _, tc := range denied {
		a := newTestApplication(tc.from)
		err := a.ChangeStatus(tc.to, reviewer)
		require.Error(t, err, "%s -> %s should be denied", tc.from, tc.to)

		var xerr *errx.Error
		require.ErrorAs(t, err, &xerr)
		assert.Equal(t, "APPLICATION_TRANSITION_NOT_ALLOWED", xerr.Code)
		assert.Equal(t, tc.from, a.Status)
	}
}

func TestMarkConverted_OnlyShortlisted(t *testing.T) {
	reviewer := kernel.UserID("recruiter-1")

	a := newTestApplication(ApplicationStatusShortlisted)
	require.NoError(t, a.MarkConverted(reviewer, "CND-99999999"))
	assert.Equal(t, ApplicationStatusConverted, a.Status)
	require.NotNil(t, a.ConvertedTo)
	assert.Equal(t, "CND-99999999", *a.ConvertedTo)

	fresh := newTestApplication(ApplicationStatusNew)
	err := fresh.MarkConverted(reviewer, "CND-99999999")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "APPLICATION_NOT_SHORTLISTED", xerr.Code)
	assert.Nil(t, fresh.ConvertedTo)
}

func TestHasCV(t *testing.T) {
	a := newTestApplication(ApplicationStatusNew)
	assert.False(t, a.HasCV())

	key := "applications/APP-TEST0001.pdf"
	a.CVKey = &key
	assert.True(t, a.HasCV())
	assert.True(t, a.ToDTO().HasCV)
}
