package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PrefixesCodes(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Widget not found")

	assert.Equal(t, ErrorCode("WIDGET_NOT_FOUND"), code)

	err := reg.New(code)
	assert.Equal(t, "WIDGET_NOT_FOUND", err.Code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "Widget not found", err.Message)
}

func TestRegistry_UnregisteredCode(t *testing.T) {
	reg := NewRegistry("WIDGET")

	err := reg.New(ErrorCode("WIDGET_BOGUS"))
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestWithDetail_Fluent(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("CONFLICT", TypeConflict, http.StatusConflict, "Widget conflict")

	err := reg.New(code).
		WithDetail("current_status", "open").
		WithDetail("requested_status", "closed")

	assert.Equal(t, "open", err.Details["current_status"])
	assert.Equal(t, "closed", err.Details["requested_status"])
}

func TestWithMessage_OverridesDefault(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("CONFLICT", TypeConflict, http.StatusConflict, "Widget conflict")

	err := reg.NewWithMessage(code, "Widget already closed")
	assert.Equal(t, "Widget already closed", err.Message)
	assert.Equal(t, "WIDGET_CONFLICT", err.Code)
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "failed to reach broker", TypeExternal)

	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to reach broker")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsType(t *testing.T) {
	err := New("invalid payload", TypeValidation)

	assert.True(t, IsType(err, TypeValidation))
	assert.False(t, IsType(err, TypeConflict))
	assert.False(t, IsType(errors.New("plain"), TypeValidation))
}

func TestErrorAs_WorksThroughWrapping(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Widget not found")

	var xerr *Error
	require.ErrorAs(t, error(reg.New(code)), &xerr)
	assert.Equal(t, "WIDGET_NOT_FOUND", xerr.Code)
}
