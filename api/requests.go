package api

// ──────────────────────────────────────────────────
// Check requests
// ──────────────────────────────────────────────────

// CheckRequest is the request body for an authorization check.
type CheckRequest struct {
	PrincipalID string `json:"principal_id" description:"Principal identifier"`
	Action      string `json:"action" description:"Dot-separated action (e.g. project.view)"`
	Object      string `json:"object" description:"Slash-delimited object path (e.g. project/big-org/survey)"`
}

// BatchCheckRequest contains multiple checks.
type BatchCheckRequest struct {
	Checks []CheckRequest `json:"checks" description:"List of authorization checks"`
}

// ──────────────────────────────────────────────────
// Policy document requests
// ──────────────────────────────────────────────────

// ClauseInput is the wire format of a single policy clause.
type ClauseInput struct {
	Effect string   `json:"effect" description:"Clause effect (allow or deny)"`
	Action []string `json:"action" description:"Dot-separated action patterns"`
	Object []string `json:"object" description:"Slash-separated object patterns"`
}

// PutPolicyRequest is the body for creating a new version of a named
// policy document.
type PutPolicyRequest struct {
	Clause []ClauseInput `json:"clause" description:"Ordered clause list"`
}

// GetPolicyRequest is the path parameter for getting a policy document.
type GetPolicyRequest struct {
	Name string `path:"name" description:"Policy document name"`
}

// ListPoliciesRequest holds query parameters for listing policy documents.
type ListPoliciesRequest struct {
	Name   string `query:"name" description:"Filter by document name"`
	Latest string `query:"latest" description:"Return only the latest version per name (true/false)"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Assignment requests
// ──────────────────────────────────────────────────

// ListAssignmentsRequest holds query parameters for listing assignments.
type ListAssignmentsRequest struct {
	PrincipalID string `query:"principal_id" description:"Filter by principal ID"`
	PolicyName  string `query:"policy_name" description:"Filter by policy name"`
	Limit       int    `query:"limit" description:"Maximum results"`
	Offset      int    `query:"offset" description:"Results to skip"`
}

// PrincipalPathRequest is the path parameter for principal-scoped routes.
type PrincipalPathRequest struct {
	PrincipalID string `path:"principalId" description:"Principal ID"`
}

// ──────────────────────────────────────────────────
// Membership requests
// ──────────────────────────────────────────────────

// AddOrgMemberRequest is the body for adding an organization member.
type AddOrgMemberRequest struct {
	PrincipalID string `json:"principal_id" description:"Principal to add"`
	Admin       bool   `json:"admin,omitempty" description:"Grant organization admin"`
}

// UpdateOrgMemberRequest is the body for changing a member's admin flag.
type UpdateOrgMemberRequest struct {
	Admin bool `json:"admin" description:"Organization admin flag"`
}

// OrgMemberPathRequest holds the path parameters for an organization member.
type OrgMemberPathRequest struct {
	OrgSlug     string `path:"orgSlug" description:"Organization slug"`
	PrincipalID string `path:"principalId" description:"Principal ID"`
}

// OrgPathRequest holds the path parameter for an organization.
type OrgPathRequest struct {
	OrgSlug string `path:"orgSlug" description:"Organization slug"`
}

// AddProjectMemberRequest is the body for adding a project member.
type AddProjectMemberRequest struct {
	PrincipalID string `json:"principal_id" description:"Principal to add"`
	Role        string `json:"role" description:"Project role code (PM, DC or PU)"`
}

// UpdateProjectMemberRequest is the body for changing a member's role code.
type UpdateProjectMemberRequest struct {
	Role string `json:"role" description:"Project role code (PM, DC or PU)"`
}

// ProjectPathRequest holds the path parameters for a project.
type ProjectPathRequest struct {
	OrgSlug  string `path:"orgSlug" description:"Organization slug"`
	ProjSlug string `path:"projSlug" description:"Project slug"`
}

// ProjectMemberPathRequest holds the path parameters for a project member.
type ProjectMemberPathRequest struct {
	OrgSlug     string `path:"orgSlug" description:"Organization slug"`
	ProjSlug    string `path:"projSlug" description:"Project slug"`
	PrincipalID string `path:"principalId" description:"Principal ID"`
}

// ──────────────────────────────────────────────────
// Check log requests
// ──────────────────────────────────────────────────

// ListCheckLogsRequest holds query parameters for querying check logs.
type ListCheckLogsRequest struct {
	PrincipalID string `query:"principal_id" description:"Filter by principal ID"`
	Action      string `query:"action" description:"Filter by action"`
	Object      string `query:"object" description:"Filter by object path"`
	Decision    string `query:"decision" description:"Filter by decision"`
	After       string `query:"after" description:"Entries at or after this time (RFC3339)"`
	Before      string `query:"before" description:"Entries at or before this time (RFC3339)"`
	Limit       int    `query:"limit" description:"Maximum results"`
	Offset      int    `query:"offset" description:"Results to skip"`
}
