// Package domain provides the pure domain layer for marker documents with no
// infrastructure dependencies.
//
// A document is a named, persisted marker tree. The domain layer defines the
// Document entity with encapsulated state, the DocumentRepository interface
// for persistence abstraction, and domain-specific error types. It has no
// knowledge of infrastructure concerns (databases, file I/O, etc.).
package domain

import (
	"time"

	"github.com/zjrosen/markers/internal/valuetree"
)

// Document represents a persisted marker tree with identity and timestamps.
// All fields are unexported to enforce encapsulation; use the constructors
// and getter methods to access data.
type Document struct {
	id   int64
	guid string
	name string
	tree *valuetree.Node

	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewDocument creates a new Document with the given GUID, name, and tree.
// The createdAt and updatedAt timestamps are set to the current time.
// The ID is left as zero; it will be assigned by the persistence layer.
func NewDocument(guid, name string, tree *valuetree.Node) *Document {
	now := time.Now()
	return &Document{
		guid:      guid,
		name:      name,
		tree:      tree,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstituteDocument creates a Document from existing data, typically when
// hydrating from the database. All fields are provided explicitly.
func ReconstituteDocument(
	id int64,
	guid, name string,
	tree *valuetree.Node,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) *Document {
	return &Document{
		id:        id,
		guid:      guid,
		name:      name,
		tree:      tree,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

// ID returns the database identifier for this document.
// Returns 0 for newly created documents that haven't been persisted.
func (d *Document) ID() int64 {
	return d.id
}

// SetID assigns the database identifier. Called by the persistence layer
// after inserting a new document.
func (d *Document) SetID(id int64) {
	d.id = id
}

// GUID returns the globally unique identifier for this document.
func (d *Document) GUID() string {
	return d.guid
}

// Name returns the document name.
func (d *Document) Name() string {
	return d.name
}

// Tree returns the document's marker tree root.
func (d *Document) Tree() *valuetree.Node {
	return d.tree
}

// CreatedAt returns when the document was created.
func (d *Document) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when the document was last modified.
func (d *Document) UpdatedAt() time.Time {
	return d.updatedAt
}

// DeletedAt returns when the document was soft-deleted, or nil.
func (d *Document) DeletedAt() *time.Time {
	return d.deletedAt
}

// IsDeleted returns true when the document has been soft-deleted.
func (d *Document) IsDeleted() bool {
	return d.deletedAt != nil
}

// Rename changes the document name and bumps the updated timestamp.
func (d *Document) Rename(name string) {
	d.name = name
	d.updatedAt = time.Now()
}

// SetTree replaces the document's tree and bumps the updated timestamp.
func (d *Document) SetTree(tree *valuetree.Node) {
	d.tree = tree
	d.updatedAt = time.Now()
}
