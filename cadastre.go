// Package cadastre provides policy-based authorization for land
// administration records.
//
// Principals act on objects (slash-delimited resource paths such as
// "project/big-org/parcel-survey") through actions (dot-separated verbs such
// as "project.edit"). Policy documents declare ordered allow/deny clauses
// over action and object patterns; assignments bind documents to principals
// with variable bindings that scope the clauses to concrete organizations
// and projects.
//
//	eng, err := cadastre.NewEngine(
//	    cadastre.WithStore(memStore),
//	)
//	result, err := eng.Check(ctx, &cadastre.CheckRequest{
//	    PrincipalID: principalID,
//	    Action:      "spatial.create",
//	    Object:      "spatial/big-org/parcel-survey/new",
//	})
package cadastre

import "github.com/terralink/cadastre/id"

// CheckRequest is the input to an authorization check.
type CheckRequest struct {
	PrincipalID id.PrincipalID `json:"principal_id"`
	Action      string         `json:"action"`
	Object      string         `json:"object"`
}

// CheckResult is the outcome of an authorization check.
type CheckResult struct {
	Allowed    bool        `json:"allowed"`
	Decision   Decision    `json:"decision"`
	Reason     string      `json:"reason,omitempty"`
	MatchedBy  []MatchInfo `json:"matched_by,omitempty"`
	EvalTimeNs int64       `json:"eval_time_ns"`
}

// Decision is the authorization outcome.
type Decision string

const (
	// DecisionAllow means the request is permitted.
	DecisionAllow Decision = "allow"

	// DecisionDenyExplicit means a deny clause matched.
	DecisionDenyExplicit Decision = "deny_explicit"

	// DecisionDenyDefault means no clause matched.
	DecisionDenyDefault Decision = "deny_default"

	// DecisionDenyNoAssignments means the principal has no assignments.
	DecisionDenyNoAssignments Decision = "deny_no_assignments"
)

// MatchInfo describes which clause matched during evaluation.
type MatchInfo struct {
	PolicyName    string `json:"policy_name"`
	PolicyVersion int    `json:"policy_version"`
	ClauseIndex   int    `json:"clause_index"`
	Effect        string `json:"effect"`
}
