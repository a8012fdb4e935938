// Package policy defines the declarative policy document: an ordered list of
// allow/deny clauses over action and object patterns.
package policy

import (
	"time"

	"github.com/terralink/cadastre/id"
)

// Effect is the clause outcome — allow or deny.
type Effect string

const (
	// EffectAllow permits matching requests.
	EffectAllow Effect = "allow"

	// EffectDeny blocks matching requests.
	EffectDeny Effect = "deny"
)

// Document is an immutable, versioned policy document. Updating a document
// by name creates a new version with a fresh ID; existing assignments keep
// pointing at the version they were created against until rebound.
type Document struct {
	ID        id.PolicyID `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Version   int         `json:"version" db:"version"`
	Clauses   []Clause    `json:"clause" db:"-"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// Clause is a single rule within a document. Action patterns are
// dot-separated ("org.*"); object patterns are slash-separated
// ("project/{organization}/*"). A "*" segment matches exactly one segment,
// and "{name}" placeholders are substituted from assignment variables
// before matching.
type Clause struct {
	Effect Effect   `json:"effect"`
	Action []string `json:"action"`
	Object []string `json:"object"`
}

// ListFilter contains filters for listing policy documents.
type ListFilter struct {
	Name       string `json:"name,omitempty"`
	LatestOnly bool   `json:"latest_only,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}
