package checklog

import (
	"context"
	"time"

	"github.com/terralink/cadastre/id"
)

// Store defines persistence operations for decision audit logs.
type Store interface {
	// CreateCheckLog persists a new decision log entry.
	CreateCheckLog(ctx context.Context, e *Entry) error

	// GetCheckLog retrieves a decision log entry by ID.
	GetCheckLog(ctx context.Context, logID id.CheckLogID) (*Entry, error)

	// ListCheckLogs returns decision log entries matching the filter,
	// newest first.
	ListCheckLogs(ctx context.Context, filter *QueryFilter) ([]*Entry, error)

	// CountCheckLogs returns the number of entries matching the filter.
	CountCheckLogs(ctx context.Context, filter *QueryFilter) (int64, error)

	// PurgeCheckLogs removes decision log entries older than the given
	// time and returns the number removed.
	PurgeCheckLogs(ctx context.Context, before time.Time) (int64, error)
}
