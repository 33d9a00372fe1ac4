package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"btebresults/internal/database"
	"btebresults/internal/models"
)

// ResultRepository handles database operations for published results
type ResultRepository struct {
	db *database.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// GetByRollNumber retrieves one result. It returns nil, nil when the roll
// number has no published result.
func (r *ResultRepository) GetByRollNumber(rollNumber string) (*models.StudentResult, error) {
	query := `
		SELECT roll_number, gpas, referred_subjects, created_at
		FROM results
		WHERE roll_number = ?
	`
	result, err := scanResult(r.db.QueryRow(query, rollNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result %s: %w", rollNumber, err)
	}
	return result, nil
}

// Exists reports whether a result is stored for rollNumber
func (r *ResultRepository) Exists(rollNumber string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM results WHERE roll_number = ?", rollNumber).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check result %s: %w", rollNumber, err)
	}
	return count > 0, nil
}

// Upsert stores a result, replacing the grades of an existing row. The
// publication date of an existing row is never changed. It reports whether
// a new row was created.
func (r *ResultRepository) Upsert(result *models.StudentResult) (bool, error) {
	existed, err := r.Exists(result.RollNumber)
	if err != nil {
		return false, err
	}

	gpas, err := json.Marshal(result.GPAs)
	if err != nil {
		return false, fmt.Errorf("failed to encode gpas: %w", err)
	}
	referred := result.ReferredSubjects
	if referred == nil {
		referred = []string{}
	}
	referredJSON, err := json.Marshal(referred)
	if err != nil {
		return false, fmt.Errorf("failed to encode referred subjects: %w", err)
	}

	now := time.Now().UTC()
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	if _, err := r.db.Exec(r.db.Dialect.UpsertResultQuery(), result.RollNumber, string(gpas), string(referredJSON), createdAt, now); err != nil {
		return false, fmt.Errorf("failed to save result %s: %w", result.RollNumber, err)
	}
	return !existed, nil
}

// List returns all results ordered by roll number
func (r *ResultRepository) List() ([]*models.StudentResult, error) {
	rows, err := r.db.Query("SELECT roll_number, gpas, referred_subjects, created_at FROM results ORDER BY roll_number")
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.StudentResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Count returns the number of stored results
func (r *ResultRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*models.StudentResult, error) {
	var gpas, referred string
	result := &models.StudentResult{}
	if err := row.Scan(&result.RollNumber, &gpas, &referred, &result.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(gpas), &result.GPAs); err != nil {
		return nil, fmt.Errorf("corrupt gpas for %s: %w", result.RollNumber, err)
	}
	if err := json.Unmarshal([]byte(referred), &result.ReferredSubjects); err != nil {
		return nil, fmt.Errorf("corrupt referred subjects for %s: %w", result.RollNumber, err)
	}
	return result, nil
}
