package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/markers/internal/documents/domain"
	"github.com/zjrosen/markers/internal/pubsub"
)

// documentColumns is the list of columns to select for document queries.
const documentColumns = `id, guid, name, tree, created_at, updated_at, deleted_at`

// documentRepository implements domain.DocumentRepository using SQLite.
// Write operations publish the document name on the events broker.
type documentRepository struct {
	db     *sql.DB
	events *pubsub.Broker[string]
}

// newDocumentRepository creates a new documentRepository instance.
func newDocumentRepository(db *sql.DB, events *pubsub.Broker[string]) *documentRepository {
	return &documentRepository{db: db, events: events}
}

// Ensure documentRepository implements domain.DocumentRepository.
var _ domain.DocumentRepository = (*documentRepository)(nil)

// scanDocument scans a row into a DocumentModel.
func scanDocument(scanner interface{ Scan(...any) error }) (*DocumentModel, error) {
	var model DocumentModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Name, &model.Tree,
		&model.CreatedAt, &model.UpdatedAt, &model.DeletedAt,
	)
	return &model, err
}

// Save persists a document to the database.
// For new documents (ID == 0), inserts a new row and sets the document ID.
// For existing documents (ID > 0), updates the existing row.
func (r *documentRepository) Save(document *domain.Document) error {
	model, err := toDocumentModel(document)
	if err != nil {
		return err
	}

	if document.ID() == 0 {
		result, err := r.db.Exec(
			`INSERT INTO documents (guid, name, tree, created_at, updated_at, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Name, model.Tree, model.CreatedAt, model.UpdatedAt, model.DeletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		document.SetID(id)
		r.events.Publish(pubsub.CreatedEvent, document.Name())
		return nil
	}

	_, err = r.db.Exec(
		`UPDATE documents SET name = ?, tree = ?, updated_at = ?, deleted_at = ? WHERE id = ?`,
		model.Name, model.Tree, model.UpdatedAt, model.DeletedAt, model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	r.events.Publish(pubsub.UpdatedEvent, document.Name())
	return nil
}

// FindByName retrieves a document by name.
// Returns DocumentNotFoundError if no matching document exists.
// Soft-deleted documents are not returned.
func (r *documentRepository) FindByName(name string) (*domain.Document, error) {
	row := r.db.QueryRow(
		`SELECT `+documentColumns+` FROM documents WHERE name = ? AND deleted_at IS NULL`,
		name,
	)
	model, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.DocumentNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document by name: %w", err)
	}
	return model.toDomain()
}

// FindByGUID retrieves a document by its GUID.
// Returns DocumentNotFoundError if no matching document exists.
// Soft-deleted documents are not returned.
func (r *documentRepository) FindByGUID(guid string) (*domain.Document, error) {
	row := r.db.QueryRow(
		`SELECT `+documentColumns+` FROM documents WHERE guid = ? AND deleted_at IS NULL`,
		guid,
	)
	model, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.DocumentNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document by guid: %w", err)
	}
	return model.toDomain()
}

// List retrieves documents matching the filter, newest first.
func (r *documentRepository) List(filter domain.ListFilter) ([]*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	var args []any

	if !filter.IncludeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY updated_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []*domain.Document
	for rows.Next() {
		model, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		document, err := model.toDomain()
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return documents, nil
}

// Delete performs a soft delete by setting the deleted_at timestamp.
// Returns DocumentNotFoundError if no matching live document exists.
func (r *documentRepository) Delete(name string) error {
	now := time.Now().Unix()
	result, err := r.db.Exec(
		`UPDATE documents SET deleted_at = ?, updated_at = ? WHERE name = ? AND deleted_at IS NULL`,
		now, now, name,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.DocumentNotFoundError{Name: name}
	}
	r.events.Publish(pubsub.DeletedEvent, name)
	return nil
}

// Close is a no-op: the repository does not own the connection.
func (r *documentRepository) Close() error {
	return nil
}
