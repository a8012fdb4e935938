// Package checklog defines the authorization decision audit log Entry entity.
package checklog

import (
	"time"

	"github.com/terralink/cadastre/id"
)

// Entry is a single authorization decision audit record.
type Entry struct {
	ID          id.CheckLogID  `json:"id" db:"id"`
	PrincipalID id.PrincipalID `json:"principal_id" db:"principal_id"`
	Action      string         `json:"action" db:"action"`
	Object      string         `json:"object" db:"object"`
	Decision    string         `json:"decision" db:"decision"`
	Reason      string         `json:"reason,omitempty" db:"reason"`
	EvalTimeNs  int64          `json:"eval_time_ns" db:"eval_time_ns"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying decision logs.
type QueryFilter struct {
	PrincipalID *id.PrincipalID `json:"principal_id,omitempty"`
	Action      string          `json:"action,omitempty"`
	Object      string          `json:"object,omitempty"`
	Decision    string          `json:"decision,omitempty"`
	After       *time.Time      `json:"after,omitempty"`
	Before      *time.Time      `json:"before,omitempty"`
	Limit       int             `json:"limit,omitempty"`
	Offset      int             `json:"offset,omitempty"`
}
