package policy

import (
	"context"

	"github.com/terralink/cadastre/id"
)

// Store defines persistence operations for policy documents.
// Documents are immutable: there is no update, only new versions.
type Store interface {
	// CreateDocument persists a new document version. The store assigns the
	// ID, the version number (1 for a new name, previous+1 otherwise) and
	// the creation timestamp.
	CreateDocument(ctx context.Context, d *Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, polID id.PolicyID) (*Document, error)

	// GetDocumentByName retrieves the latest version of a named document.
	GetDocumentByName(ctx context.Context, name string) (*Document, error)

	// ListDocuments returns documents matching the filter, newest first.
	ListDocuments(ctx context.Context, filter *ListFilter) ([]*Document, error)

	// CountDocuments returns the number of documents matching the filter.
	CountDocuments(ctx context.Context, filter *ListFilter) (int64, error)
}
