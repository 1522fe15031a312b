package sqlite

import (
	"fmt"
	"time"

	"github.com/zjrosen/markers/internal/documents/domain"
	"github.com/zjrosen/markers/internal/valuetree"
)

// DocumentModel represents the database row for the documents table.
// Fields map directly to SQL columns; the tree is stored as YAML text and
// time values as Unix timestamps.
type DocumentModel struct {
	ID   int64
	GUID string
	Name string
	Tree string

	CreatedAt int64
	UpdatedAt int64
	DeletedAt *int64 // nullable
}

// toDocumentModel converts a domain Document entity to a database DocumentModel.
func toDocumentModel(d *domain.Document) (*DocumentModel, error) {
	tree, err := valuetree.Encode(d.Tree())
	if err != nil {
		return nil, fmt.Errorf("encoding tree: %w", err)
	}

	m := &DocumentModel{
		ID:        d.ID(),
		GUID:      d.GUID(),
		Name:      d.Name(),
		Tree:      string(tree),
		CreatedAt: d.CreatedAt().Unix(),
		UpdatedAt: d.UpdatedAt().Unix(),
	}
	if d.DeletedAt() != nil {
		deletedAt := d.DeletedAt().Unix()
		m.DeletedAt = &deletedAt
	}
	return m, nil
}

// toDomain converts a database DocumentModel to a domain Document entity.
func (m *DocumentModel) toDomain() (*domain.Document, error) {
	tree, err := valuetree.Decode([]byte(m.Tree))
	if err != nil {
		return nil, fmt.Errorf("decoding tree for document %q: %w", m.Name, err)
	}

	var deletedAt *time.Time
	if m.DeletedAt != nil {
		t := time.Unix(*m.DeletedAt, 0)
		deletedAt = &t
	}

	return domain.ReconstituteDocument(
		m.ID,
		m.GUID,
		m.Name,
		tree,
		time.Unix(m.CreatedAt, 0),
		time.Unix(m.UpdatedAt, 0),
		deletedAt,
	), nil
}
