package repository

import (
	"database/sql"
	"fmt"
	"time"

	"btebresults/internal/database"
	"btebresults/internal/models"
)

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db *database.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// CreateAdmin inserts a new admin account
func (r *AdminRepository) CreateAdmin(username, passwordHash string) (*models.AdminUser, error) {
	id, err := r.db.ExecReturningID(
		"INSERT INTO admin_users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin %s: %w", username, err)
	}

	return &models.AdminUser{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

// GetByUsername retrieves an admin account, or nil when none exists
func (r *AdminRepository) GetByUsername(username string) (*models.AdminUser, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = ?
	`
	admin := &models.AdminUser{}
	err := r.db.QueryRow(query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// UpdatePassword replaces an admin's password hash
func (r *AdminRepository) UpdatePassword(username, passwordHash string) error {
	_, err := r.db.Exec("UPDATE admin_users SET password_hash = ? WHERE username = ?", passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	return nil
}
