package domain

import "fmt"

// ListFilter provides filtering options for listing documents.
type ListFilter struct {
	// Limit restricts the number of documents returned.
	// If 0, no limit is applied.
	Limit int

	// IncludeDeleted includes soft-deleted documents in results.
	// By default, deleted documents are excluded.
	IncludeDeleted bool
}

// DocumentRepository defines the persistence interface for Document entities.
// Implementations may use SQLite, in-memory storage, or other backends.
type DocumentRepository interface {
	// Save persists a document to the repository.
	// For new documents (ID == 0), this creates a new record and sets the ID.
	// For existing documents (ID > 0), this updates the existing record.
	Save(document *Document) error

	// FindByName retrieves a document by name.
	// Returns DocumentNotFoundError if no matching document exists.
	// Soft-deleted documents are not returned.
	FindByName(name string) (*Document, error)

	// FindByGUID retrieves a document by its GUID.
	// Returns DocumentNotFoundError if no matching document exists.
	// Soft-deleted documents are not returned.
	FindByGUID(guid string) (*Document, error)

	// List retrieves documents matching the given filter criteria.
	// Results are ordered by updated_at descending (newest first).
	List(filter ListFilter) ([]*Document, error)

	// Delete performs a soft delete by setting the deletedAt timestamp.
	// Returns DocumentNotFoundError if no matching document exists.
	Delete(name string) error

	// Close releases any resources held by the repository.
	Close() error
}

// DocumentNotFoundError indicates that no document matched the lookup.
type DocumentNotFoundError struct {
	Name string
	GUID string
}

// Error implements the error interface.
func (e *DocumentNotFoundError) Error() string {
	if e.GUID != "" {
		return fmt.Sprintf("document with guid %q not found", e.GUID)
	}
	return fmt.Sprintf("document %q not found", e.Name)
}
