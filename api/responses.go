package api

// CheckResponse is the result of an authorization check.
type CheckResponse struct {
	Allowed    bool        `json:"allowed" description:"Whether the request is permitted"`
	Decision   string      `json:"decision" description:"Decision kind (allow, deny_explicit, deny_default, deny_no_assignments)"`
	Reason     string      `json:"reason,omitempty" description:"Human-readable explanation"`
	MatchedBy  []MatchInfo `json:"matched_by,omitempty" description:"Clauses that matched"`
	EvalTimeNs int64       `json:"eval_time_ns" description:"Evaluation time in nanoseconds"`
}

// MatchInfo identifies a clause that matched during evaluation.
type MatchInfo struct {
	PolicyName    string `json:"policy_name" description:"Policy document name"`
	PolicyVersion int    `json:"policy_version" description:"Policy document version"`
	ClauseIndex   int    `json:"clause_index" description:"Clause position within the document"`
	Effect        string `json:"effect" description:"Clause effect"`
}

// BatchCheckResponse holds the results of a batch check, in request order.
type BatchCheckResponse struct {
	Results []CheckResponse `json:"results" description:"Check results in request order"`
}
