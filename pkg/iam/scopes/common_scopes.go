package scopes

// ============================================================================
// COMMON SCOPES - capability model shared by every module
// ============================================================================

const (
	// Super scope - full access to everything
	ScopeAll = "*"

	// Admin scopes
	ScopeAdminAll   = "admin:*"
	ScopeAdminRead  = "admin:read"
	ScopeAdminWrite = "admin:write"

	// User management scopes
	ScopeUsersAll    = "users:*"
	ScopeUsersRead   = "users:read"
	ScopeUsersWrite  = "users:write"
	ScopeUsersDelete = "users:delete"

	// Settings scopes
	ScopeSettingsAll   = "settings:*"
	ScopeSettingsRead  = "settings:read"
	ScopeSettingsWrite = "settings:write"

	// Audit log scopes
	ScopeAuditAll  = "audit:*"
	ScopeAuditRead = "audit:read"

	// Reports scopes
	ScopeReportsAll    = "reports:*"
	ScopeReportsView   = "reports:view"
	ScopeReportsExport = "reports:export"
)

// CommonScopeCategories organizes common scopes by domain
var CommonScopeCategories = map[string][]string{
	"Administration": {
		ScopeAll,
		ScopeAdminAll,
		ScopeAdminRead,
		ScopeAdminWrite,
	},
	"Users": {
		ScopeUsersAll,
		ScopeUsersRead,
		ScopeUsersWrite,
		ScopeUsersDelete,
	},
	"Settings": {
		ScopeSettingsAll,
		ScopeSettingsRead,
		ScopeSettingsWrite,
	},
	"Audit": {
		ScopeAuditAll,
		ScopeAuditRead,
	},
	"Reports": {
		ScopeReportsAll,
		ScopeReportsView,
		ScopeReportsExport,
	},
}

// CommonScopeDescriptions provides human-readable descriptions
var CommonScopeDescriptions = map[string]string{
	ScopeAll: "Full access to all system resources",

	ScopeAdminAll:   "Full administrative access",
	ScopeAdminRead:  "View administrative settings",
	ScopeAdminWrite: "Modify administrative settings",

	ScopeUsersAll:    "Full access to user management",
	ScopeUsersRead:   "View panel users",
	ScopeUsersWrite:  "Create and edit panel users",
	ScopeUsersDelete: "Delete panel users",

	ScopeSettingsAll:   "Full access to settings",
	ScopeSettingsRead:  "View settings",
	ScopeSettingsWrite: "Modify settings",

	ScopeAuditAll:  "Full access to the activity log",
	ScopeAuditRead: "View the activity log",

	ScopeReportsAll:    "Full access to reporting",
	ScopeReportsView:   "View reports",
	ScopeReportsExport: "Export reports",
}

// CommonScopeGroups defines role groupings shared by any deployment
var CommonScopeGroups = map[string][]string{
	"super_admin": {
		ScopeAll,
	},
	"auditor": {
		ScopeAuditRead,
		ScopeUsersRead,
		ScopeReportsView,
	},
}
