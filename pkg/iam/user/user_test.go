package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proconsultancy/backend/pkg/kernel"
)

func newTestUser() *User {
	now := time.Now()
	return &User{
		ID:        kernel.NewUserID("u-1"),
		Email:     "recruiter@proconsultancy.test",
		Name:      "Alex Recruiter",
		Status:    UserStatusActive,
		Scopes:    []string{"jobs:read", "candidates:*"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSuspendAndReactivate(t *testing.T) {
	u := newTestUser()

	require.NoError(t, u.Suspend())
	assert.Equal(t, UserStatusSuspended, u.Status)
	assert.False(t, u.CanLogin())

	// A suspended user cannot be suspended again.
	require.Error(t, u.Suspend())

	require.NoError(t, u.Reactivate())
	assert.True(t, u.CanLogin())

	// An active user cannot be reactivated.
	require.Error(t, u.Reactivate())
}

func TestHasScope_Wildcards(t *testing.T) {
	u := newTestUser()

	assert.True(t, u.HasScope("jobs:read"))
	assert.False(t, u.HasScope("jobs:write"))
	assert.True(t, u.HasScope("candidates:upload_cv"))
	assert.False(t, u.IsAdmin())

	u.SetScopes([]string{"*"})
	assert.True(t, u.HasScope("submissions:approve"))
	assert.True(t, u.IsAdmin())
}

func TestUpdateLastLogin(t *testing.T) {
	u := newTestUser()
	require.Nil(t, u.LastLoginAt)

	u.UpdateLastLogin()
	require.NotNil(t, u.LastLoginAt)
}

func TestAuthContext_CarriesIdentity(t *testing.T) {
	u := newTestUser()
	ac := u.AuthContext()

	assert.Equal(t, u.ID, ac.UserID)
	assert.Equal(t, u.Email, ac.Email)
	assert.Equal(t, []string(u.Scopes), ac.Scopes)
	assert.True(t, ac.IsValid())
}
