package kernel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntityCode_Format(t *testing.T) {
	code := NewEntityCode(CodePrefixSubmission)

	require.True(t, strings.HasPrefix(code, "SUB-"))
	suffix := strings.TrimPrefix(code, "SUB-")
	assert.Len(t, suffix, 8)
	assert.Equal(t, strings.ToUpper(suffix), suffix)
}

func TestNewEntityCode_Unique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		code := NewEntityCode(CodePrefixCandidate)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestAuthContext_HasScope(t *testing.T) {
	ac := &AuthContext{
		UserID: UserID("u-1"),
		Scopes: []string{"jobs:read", "submissions:*"},
	}

	assert.True(t, ac.HasScope("jobs:read"))
	assert.False(t, ac.HasScope("jobs:write"))

	// Prefix wildcard covers the whole module.
	assert.True(t, ac.HasScope("submissions:approve"))
	assert.True(t, ac.HasScope("submissions:withdraw"))
	assert.False(t, ac.HasScope("candidates:read"))
}

func TestAuthContext_GlobalWildcard(t *testing.T) {
	admin := &AuthContext{UserID: UserID("u-admin"), Scopes: []string{"*"}}

	assert.True(t, admin.HasScope("anything:at_all"))
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.HasAllScopes("jobs:read", "reports:view"))
}

func TestAuthContext_NilSafe(t *testing.T) {
	var ac *AuthContext

	assert.False(t, ac.HasScope("jobs:read"))
	assert.False(t, ac.IsValid())
}

func TestAuthContext_WildcardPrefixDoesNotLeak(t *testing.T) {
	ac := &AuthContext{UserID: UserID("u-1"), Scopes: []string{"jobs:*"}}

	// "jobs:*" must not grant scopes of a module that merely shares a prefix.
	assert.False(t, ac.HasScope("jobsadmin:read"))
	assert.True(t, ac.HasScope("jobs:publish"))
}

func TestAuthContext_HasAnyScope(t *testing.T) {
	ac := &AuthContext{UserID: UserID("u-1"), Scopes: []string{"reports:view"}}

	assert.True(t, ac.HasAnyScope("jobs:read", "reports:view"))
	assert.False(t, ac.HasAnyScope("jobs:read", "jobs:write"))
}
