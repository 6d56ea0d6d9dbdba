package scopes

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - recruitment pipeline
// ============================================================================

const (
	// Candidate scopes
	ScopeCandidatesAll    = "candidates:*"
	ScopeCandidatesRead   = "candidates:read"
	ScopeCandidatesWrite  = "candidates:write"
	ScopeCandidatesDelete = "candidates:delete"
	ScopeCandidatesUpload = "candidates:upload" // CV upload/replace

	// Client (hiring company) scopes
	ScopeClientsAll    = "clients:*"
	ScopeClientsRead   = "clients:read"
	ScopeClientsWrite  = "clients:write"
	ScopeClientsDelete = "clients:delete"

	// Job scopes
	ScopeJobsAll     = "jobs:*"
	ScopeJobsRead    = "jobs:read"
	ScopeJobsWrite   = "jobs:write"
	ScopeJobsDelete  = "jobs:delete"
	ScopeJobsPublish = "jobs:publish" // Publish/unpublish on the public board

	// Submission scopes
	ScopeSubmissionsAll      = "submissions:*"
	ScopeSubmissionsRead     = "submissions:read"
	ScopeSubmissionsWrite    = "submissions:write"
	ScopeSubmissionsDelete   = "submissions:delete"
	ScopeSubmissionsApprove  = "submissions:approve" // Manager gate: approve/reject
	ScopeSubmissionsAdvance  = "submissions:advance" // Client pipeline transitions
	ScopeSubmissionsWithdraw = "submissions:withdraw"

	// Application (job board intake) scopes
	ScopeApplicationsAll     = "applications:*"
	ScopeApplicationsRead    = "applications:read"
	ScopeApplicationsReview  = "applications:review"  // in_review/shortlist/reject
	ScopeApplicationsConvert = "applications:convert" // promote to candidate+submission
	ScopeApplicationsDelete  = "applications:delete"
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Candidates": {
		ScopeCandidatesAll,
		ScopeCandidatesRead,
		ScopeCandidatesWrite,
		ScopeCandidatesDelete,
		ScopeCandidatesUpload,
	},
	"Clients": {
		ScopeClientsAll,
		ScopeClientsRead,
		ScopeClientsWrite,
		ScopeClientsDelete,
	},
	"Jobs": {
		ScopeJobsAll,
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeJobsDelete,
		ScopeJobsPublish,
	},
	"Submissions": {
		ScopeSubmissionsAll,
		ScopeSubmissionsRead,
		ScopeSubmissionsWrite,
		ScopeSubmissionsDelete,
		ScopeSubmissionsApprove,
		ScopeSubmissionsAdvance,
		ScopeSubmissionsWithdraw,
	},
	"Applications": {
		ScopeApplicationsAll,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
		ScopeApplicationsConvert,
		ScopeApplicationsDelete,
	},
}

// DomainScopeDescriptions provides descriptions for domain scopes
var DomainScopeDescriptions = map[string]string{
	ScopeCandidatesAll:    "Full access to candidate management",
	ScopeCandidatesRead:   "View candidates",
	ScopeCandidatesWrite:  "Create and edit candidates",
	ScopeCandidatesDelete: "Delete candidates",
	ScopeCandidatesUpload: "Upload or replace candidate CVs",

	ScopeClientsAll:    "Full access to client management",
	ScopeClientsRead:   "View clients",
	ScopeClientsWrite:  "Create and edit clients",
	ScopeClientsDelete: "Delete clients",

	ScopeJobsAll:     "Full access to job management",
	ScopeJobsRead:    "View jobs",
	ScopeJobsWrite:   "Create and edit jobs",
	ScopeJobsDelete:  "Delete jobs",
	ScopeJobsPublish: "Publish and unpublish jobs on the public board",

	ScopeSubmissionsAll:      "Full access to submission management",
	ScopeSubmissionsRead:     "View submissions",
	ScopeSubmissionsWrite:    "Create and edit submissions",
	ScopeSubmissionsDelete:   "Delete submissions",
	ScopeSubmissionsApprove:  "Approve or reject submissions (manager gate)",
	ScopeSubmissionsAdvance:  "Advance submissions through the client pipeline",
	ScopeSubmissionsWithdraw: "Withdraw submissions",

	ScopeApplicationsAll:     "Full access to job board applications",
	ScopeApplicationsRead:    "View job board applications",
	ScopeApplicationsReview:  "Review, shortlist and reject applications",
	ScopeApplicationsConvert: "Convert applications into candidates and submissions",
	ScopeApplicationsDelete:  "Delete job board applications",
}

// DomainScopeGroups defines the role model of the panel
var DomainScopeGroups = map[string][]string{
	"admin": {
		ScopeAdminAll,
		ScopeUsersAll,
		ScopeSettingsAll,
		ScopeAuditRead,
		ScopeCandidatesAll,
		ScopeClientsAll,
		ScopeJobsAll,
		ScopeSubmissionsAll,
		ScopeApplicationsAll,
		ScopeReportsAll,
	},
	"manager": {
		ScopeCandidatesRead,
		ScopeClientsAll,
		ScopeJobsAll,
		ScopeSubmissionsRead,
		ScopeSubmissionsApprove,
		ScopeSubmissionsAdvance,
		ScopeSubmissionsWithdraw,
		ScopeApplicationsRead,
		ScopeReportsAll,
		ScopeAuditRead,
	},
	"recruiter": {
		ScopeCandidatesAll,
		ScopeClientsRead,
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeSubmissionsRead,
		ScopeSubmissionsWrite,
		ScopeSubmissionsAdvance,
		ScopeSubmissionsWithdraw,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
		ScopeApplicationsConvert,
		ScopeReportsView,
	},
	"coordinator": {
		ScopeCandidatesRead,
		ScopeCandidatesWrite,
		ScopeCandidatesUpload,
		ScopeClientsRead,
		ScopeJobsRead,
		ScopeSubmissionsRead,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
	},
	"viewer": {
		ScopeCandidatesRead,
		ScopeClientsRead,
		ScopeJobsRead,
		ScopeSubmissionsRead,
		ScopeApplicationsRead,
		ScopeReportsView,
	},
}
