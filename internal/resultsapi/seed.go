package resultsapi

import (
	"fmt"
	"log"

	"btebresults/internal/credentials"
	"btebresults/internal/repository"
	"btebresults/internal/security"
)

// Seed loads the demo results and makes sure the admin account exists.
// An empty password is replaced with a generated one, which is logged once.
func (s *Server) Seed(adminUsername, adminPassword string) error {
	if _, err := repository.SeedDemoResults(s.results); err != nil {
		return fmt.Errorf("seed demo results: %w", err)
	}
	if _, err := s.EnsureAdmin(adminUsername, adminPassword); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// EnsureAdmin creates the admin account when it is missing. An existing
// account gets its password reset when password is not empty. created
// reports whether a new account was made.
func (s *Server) EnsureAdmin(username, password string) (created bool, err error) {
	existing, err := s.admins.GetByUsername(username)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if password == "" {
			return false, nil
		}
		if security.CheckPassword(password, existing.PasswordHash) {
			return false, nil
		}
		hash, err := security.HashPassword(password)
		if err != nil {
			return false, err
		}
		if err := s.admins.UpdatePassword(username, hash); err != nil {
			return false, err
		}
		log.Printf("Updated password of admin %s", username)
		return false, nil
	}

	if password == "" {
		password, err = credentials.GeneratePassword(credentials.DefaultPasswordLength)
		if err != nil {
			return false, err
		}
		log.Printf("Generated password for admin %s: %s", username, password)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := s.admins.CreateAdmin(username, hash); err != nil {
		return false, err
	}
	log.Printf("Created admin account %s", username)
	return true, nil
}
