package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/errx"
)

func TestCanTransition_AllowedEdges(t *testing.T) {
	allowed := []struct {
		from ClientStatus
		to   ClientStatus
	}{
		{ClientStatusNotSent, ClientStatusSubmitted},
		{ClientStatusSubmitted, ClientStatusInterviewing},
		{ClientStatusSubmitted, ClientStatusRejected},
		{ClientStatusInterviewing, ClientStatusOffered},
		{ClientStatusInterviewing, ClientStatusRejected},
		{ClientStatusOffered, ClientStatusPlaced},
		{ClientStatusOffered, ClientStatusRejected},
	}

	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
		assert.NoError(t, ValidateTransition(tc.from, tc.to))
	}
}

func TestCanTransition_DeniedEdges(t *testing.T) {
	denied := []struct {
		from ClientStatus
		to   ClientStatus
	}{
		{ClientStatusNotSent, ClientStatusInterviewing},
		{ClientStatusNotSent, ClientStatusPlaced},
		{ClientStatusNotSent, ClientStatusRejected},
		{ClientStatusSubmitted, ClientStatusPlaced},
		{ClientStatusSubmitted, ClientStatusOffered},
		{ClientStatusSubmitted, ClientStatusNotSent},
		{ClientStatusInterviewing, ClientStatusPlaced},
		{ClientStatusInterviewing, ClientStatusSubmitted},
		{ClientStatusOffered, ClientStatusInterviewing},
		{ClientStatusPlaced, ClientStatusRejected},
		{ClientStatusPlaced, ClientStatusSubmitted},
		{ClientStatusRejected, ClientStatusSubmitted},
		{ClientStatusWithdrawn, ClientStatusSubmitted},
	}

	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
		assert.Error(t, ValidateTransition(tc.from, tc.to))
	}
}

func TestValidateTransition_ErrorNamesBothStatuses(t *testing.T) {
	err := ValidateTransition(ClientStatusInterviewing, ClientStatusPlaced)
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_TRANSITION_NOT_ALLOWED", xerr.Code)
	assert.Contains(t, xerr.Message, "interviewing")
	assert.Contains(t, xerr.Message, "placed")
	assert.Equal(t, "interviewing", xerr.Details["current_status"])
	assert.Equal(t, "placed", xerr.Details["requested_status"])
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ValidateTransition(ClientStatusSubmitted, ClientStatus("hired"))
	require.Error(t, err)

	var xerr *errx.Error
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "SUBMISSION_INVALID_STATUS", xerr.Code)
}

func TestIsTerminalClientStatus(t *testing.T) {
	assert.True(t, IsTerminalClientStatus(ClientStatusPlaced))
	assert.True(t, IsTerminalClientStatus(ClientStatusRejected))
	assert.True(t, IsTerminalClientStatus(ClientStatusWithdrawn))

	assert.False(t, IsTerminalClientStatus(ClientStatusNotSent))
	assert.False(t, IsTerminalClientStatus(ClientStatusSubmitted))
	assert.False(t, IsTerminalClientStatus(ClientStatusInterviewing))
	assert.False(t, IsTerminalClientStatus(ClientStatusOffered))
}

func TestAllowedTransitions_ReturnsCopy(t *testing.T) {
	first := AllowedTransitions(ClientStatusSubmitted)
	require.Len(t, first, 2)
	first[0] = ClientStatusPlaced

	second := AllowedTransitions(ClientStatusSubmitted)
	assert.Equal(t, ClientStatusInterviewing, second[0])
}
