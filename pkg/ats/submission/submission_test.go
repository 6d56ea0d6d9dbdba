package submission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/errx"
	"github.com/proconsultancy/backend/pkg/kernel"
)

func newTestSubmission() *Submission {
	now := time.Now()
	return &Submission{
		SubmissionCode: "SUB-TEST0001",
		CandidateCode:  "CAN-TEST0001",
		JobCode:        "JOB-TEST0001",
		InternalStatus: InternalStatusPending,
		ClientStatus:   ClientStatusNotSent,
		CreatedBy:      kernel.UserID("recruiter-1"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestApprove_FromPending(t *testing.T) {
	s := newTestSubmission()

	err := s.Approve(kernel.UserID("manager-1"))
	require.NoError(t, err)

	assert.Equal(t, InternalStatusApproved, s.InternalStatus)
	require.NotNil(t, s.ApprovedBy)
	assert.Equal(t, kernel.UserID("manager-1"), *s.ApprovedBy)
	assert.NotNil(t, s.ApprovedAt)
}

func TestApprove_AlreadyDecided(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))

	err := s.Approve(kernel.UserID("manager-2"))
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_ALREADY_DECIDED", xerr.Code)
	assert.Contains(t, xerr.Message, "approved")
}

func TestRejectInternal_RecordsReasonVerbatim(t *testing.T) {
	s := newTestSubmission()
	reason := "  Candidate lacks mandatory certification — see call notes.  "

	err := s.RejectInternal(kernel.UserID("manager-1"), reason)
	require.NoError(t, err)

	assert.Equal(t, InternalStatusRejected, s.InternalStatus)
	require.NotNil(t, s.RejectionReason)
	assert.Equal(t, reason, *s.RejectionReason)
}

func TestRejectInternal_RequiresReason(t *testing.T) {
	s := newTestSubmission()

	err := s.RejectInternal(kernel.UserID("manager-1"), "")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_REASON_REQUIRED", xerr.Code)
	assert.Equal(t, InternalStatusPending, s.InternalStatus)
}

func TestRejectInternal_Irreversible(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.RejectInternal(kernel.UserID("manager-1"), "not a fit"))

	err := s.Approve(kernel.UserID("manager-2"))
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_ALREADY_DECIDED", xerr.Code)
}

func TestSendToClient_RequiresApproval(t *testing.T) {
	s := newTestSubmission()

	err := s.SendToClient()
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_NOT_APPROVED", xerr.Code)
	assert.Equal(t, ClientStatusNotSent, s.ClientStatus)
}

func TestSendToClient_SetsTimestampOnce(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))

	require.NoError(t, s.SendToClient())
	assert.Equal(t, ClientStatusSubmitted, s.ClientStatus)
	require.NotNil(t, s.SentToClientAt)

	err := s.SendToClient()
	require.Error(t, err)
}

func TestAdvanceClientStatus_FullPipeline(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))
	require.NoError(t, s.SendToClient())

	interview := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	offer := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	placement := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.AdvanceClientStatus(ClientStatusInterviewing, interview))
	require.NoError(t, s.AdvanceClientStatus(ClientStatusOffered, offer))
	require.NoError(t, s.AdvanceClientStatus(ClientStatusPlaced, placement))

	assert.Equal(t, ClientStatusPlaced, s.ClientStatus)
	require.NotNil(t, s.InterviewDate)
	assert.Equal(t, interview, *s.InterviewDate)
	require.NotNil(t, s.OfferDate)
	assert.Equal(t, offer, *s.OfferDate)
	require.NotNil(t, s.PlacementDate)
	assert.Equal(t, placement, *s.PlacementDate)
}

func TestAdvanceClientStatus_SkippingStageDenied(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))
	require.NoError(t, s.SendToClient())
	require.NoError(t, s.AdvanceClientStatus(ClientStatusInterviewing, time.Now()))

	err := s.AdvanceClientStatus(ClientStatusPlaced, time.Now())
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_TRANSITION_NOT_ALLOWED", xerr.Code)
	assert.Contains(t, xerr.Message, "interviewing")
	assert.Contains(t, xerr.Message, "placed")
	assert.Equal(t, ClientStatusInterviewing, s.ClientStatus)
	assert.Nil(t, s.PlacementDate)
}

func TestAdvanceClientStatus_RequiresApprovalGate(t *testing.T) {
	s := newTestSubmission()

	err := s.AdvanceClientStatus(ClientStatusSubmitted, time.Now())
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_NOT_APPROVED", xerr.Code)
}

func TestAdvanceClientStatus_TimestampIsWriteOnce(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))
	require.NoError(t, s.SendToClient())

	first := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, s.AdvanceClientStatus(ClientStatusInterviewing, first))

	// A later rejected re-stamp attempt must not move the recorded date.
	s.stampTransition(ClientStatusInterviewing, first.Add(48*time.Hour))
	assert.Equal(t, first, *s.InterviewDate)
}

func TestWithdraw_FromActivePipeline(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))
	require.NoError(t, s.SendToClient())
	require.NoError(t, s.AdvanceClientStatus(ClientStatusInterviewing, time.Now()))

	err := s.Withdraw("Candidate accepted a competing offer")
	require.NoError(t, err)

	assert.Equal(t, InternalStatusWithdrawn, s.InternalStatus)
	assert.Equal(t, ClientStatusWithdrawn, s.ClientStatus)
	require.NotNil(t, s.WithdrawReason)
	assert.Equal(t, "Candidate accepted a competing offer", *s.WithdrawReason)
	assert.NotNil(t, s.WithdrawnDate)
}

func TestWithdraw_DeniedOnPlaced(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))
	require.NoError(t, s.SendToClient())
	require.NoError(t, s.AdvanceClientStatus(ClientStatusInterviewing, time.Now()))
	require.NoError(t, s.AdvanceClientStatus(ClientStatusOffered, time.Now()))
	require.NoError(t, s.AdvanceClientStatus(ClientStatusPlaced, time.Now()))

	err := s.Withdraw("changed their mind")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_ALREADY_TERMINAL", xerr.Code)
	assert.Contains(t, xerr.Message, "placed")
	assert.Equal(t, ClientStatusPlaced, s.ClientStatus)
}

func TestWithdraw_DeniedOnRejectedAndWithdrawn(t *testing.T) {
	s := newTestSubmission()
	require.NoError(t, s.Approve(kernel.UserID("manager-1")))
	require.NoError(t, s.SendToClient())
	require.NoError(t, s.AdvanceClientStatus(ClientStatusRejected, time.Now()))

	err := s.Withdraw("too late")
	require.Error(t, err)

	s2 := newTestSubmission()
	require.NoError(t, s2.Withdraw("first withdrawal"))
	err = s2.Withdraw("second withdrawal")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Contains(t, xerr.Message, "withdrawn")
}

func TestWithdraw_RequiresReason(t *testing.T) {
	s := newTestSubmission()

	err := s.Withdraw("")
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_REASON_REQUIRED", xerr.Code)
}

func TestIsActive(t *testing.T) {
	s := newTestSubmission()
	assert.True(t, s.IsActive())

	require.NoError(t, s.Approve(kernel.UserID("manager-1")))
	assert.True(t, s.IsActive())

	require.NoError(t, s.Withdraw("moving on"))
	assert.False(t, s.IsActive())

	s2 := newTestSubmission()
	s2.MarkDeleted()
	assert.False(t, s2.IsActive())
	assert.True(t, s2.IsDeleted())
}
