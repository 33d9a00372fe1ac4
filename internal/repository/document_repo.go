package repository

import (
	"fmt"

	"btebresults/internal/database"
	"btebresults/internal/models"
)

// DocumentRepository records result PDFs received by the demo API
type DocumentRepository struct {
	db *database.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Record stores the metadata of a received document
func (r *DocumentRepository) Record(doc *models.UploadedDocument) error {
	query := `
		INSERT INTO uploaded_documents (id, file_name, size_bytes, received_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, doc.ID, doc.FileName, doc.SizeBytes, doc.ReceivedAt); err != nil {
		return fmt.Errorf("failed to record document %s: %w", doc.FileName, err)
	}
	return nil
}

// ListRecent returns the most recently received documents first
func (r *DocumentRepository) ListRecent(limit int) ([]*models.UploadedDocument, error) {
	rows, err := r.db.Query(`
		SELECT id, file_name, size_bytes, received_at
		FROM uploaded_documents
		ORDER BY received_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.UploadedDocument
	for rows.Next() {
		doc := &models.UploadedDocument{}
		if err := rows.Scan(&doc.ID, &doc.FileName, &doc.SizeBytes, &doc.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
