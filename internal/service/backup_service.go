package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"btebresults/internal/models"
	"btebresults/internal/repository"
)

const backupVersion = "1.0"

// BackupData is the JSON layout of a demo API export
type BackupData struct {
	Version    string                  `json:"version"`
	ExportedAt time.Time               `json:"exported_at"`
	Results    []*models.StudentResult `json:"results"`
	Admins     []AdminBackup           `json:"admins"`
}

// AdminBackup carries an admin account with its password hash
type AdminBackup struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// ImportSummary counts what an import changed
type ImportSummary struct {
	NewResults     int
	UpdatedResults int
	Admins         int
}

// BackupService exports and restores the demo API's results and admins
type BackupService struct {
	results *repository.ResultRepository
	admins  *repository.AdminRepository
}

// NewBackupService creates a new backup service
func NewBackupService(results *repository.ResultRepository, admins *repository.AdminRepository) *BackupService {
	return &BackupService{results: results, admins: admins}
}

// Export writes a backup of all results to outputPath. Only the named admin
// accounts are included, since they carry password hashes.
func (s *BackupService) Export(outputPath string, adminUsernames []string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file, adminUsernames); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a backup as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer, adminUsernames []string) error {
	results, err := s.results.List()
	if err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}

	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
		Results:    results,
	}

	for _, username := range adminUsernames {
		admin, err := s.admins.GetByUsername(username)
		if err != nil {
			return fmt.Errorf("failed to export admin %s: %w", username, err)
		}
		if admin == nil {
			log.Printf("Warning: admin %s not found, skipping", username)
			continue
		}
		backup.Admins = append(backup.Admins, AdminBackup{Username: admin.Username, PasswordHash: admin.PasswordHash})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d results, %d admins", len(backup.Results), len(backup.Admins))
	return nil
}

// Import restores a backup file
func (s *BackupService) Import(inputPath string) (*ImportSummary, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a backup. Existing results are updated in place
// and keep their publication date; existing admins get the backed-up hash.
func (s *BackupService) ImportFromReader(reader io.Reader) (*ImportSummary, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	summary := &ImportSummary{}
	for _, result := range backup.Results {
		if result == nil {
			continue
		}
		created, err := s.results.Upsert(result)
		if err != nil {
			return summary, fmt.Errorf("failed to import result %s: %w", result.RollNumber, err)
		}
		if created {
			summary.NewResults++
		} else {
			summary.UpdatedResults++
		}
	}

	for _, a := range backup.Admins {
		existing, err := s.admins.GetByUsername(a.Username)
		if err != nil {
			return summary, err
		}
		if existing == nil {
			_, err = s.admins.CreateAdmin(a.Username, a.PasswordHash)
		} else {
			err = s.admins.UpdatePassword(a.Username, a.PasswordHash)
		}
		if err != nil {
			return summary, fmt.Errorf("failed to import admin %s: %w", a.Username, err)
		}
		summary.Admins++
	}

	log.Printf("Import completed: %d new results, %d updated, %d admins",
		summary.NewResults, summary.UpdatedResults, summary.Admins)
	return summary, nil
}
