package service

import (
	"context"
	"errors"
	"log"
	"time"

	"btebresults/internal/gateway"
	"btebresults/internal/models"
	"btebresults/internal/validation"
)

const (
	MsgLoginSuccess = "Login successful!"
	// MsgNetworkRetry is shown when login or upload could not reach the API
	MsgNetworkRetry = "Network error. Please try again."
)

// AdminService logs admins in against the results API. The API only says
// yes or no; the login itself lives on the visitor session.
type AdminService struct {
	gateway         gateway.ResultsGateway
	sessionDuration time.Duration
	debug           bool
}

// NewAdminService creates a new admin service
func NewAdminService(gw gateway.ResultsGateway, sessionDuration time.Duration, debug bool) *AdminService {
	return &AdminService{
		gateway:         gw,
		sessionDuration: sessionDuration,
		debug:           debug,
	}
}

// Login submits the credentials and, when accepted, marks visitor as admin
func (s *AdminService) Login(ctx context.Context, visitor *VisitorSession, username, password string) (*models.Session, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	if s.debug {
		log.Printf("[DEBUG] Submitting admin credentials for %s", username)
	}

	result, err := s.gateway.SubmitAdminCredentials(context.WithoutCancel(ctx), username, password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &models.Session{
		ID:        visitor.ID,
		Username:  result.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	visitor.setAdmin(session)

	log.Printf("Admin %s logged in", session.Username)
	return session, nil
}

// Logout drops the admin login of visitor
func (s *AdminService) Logout(visitor *VisitorSession) {
	if admin := visitor.Admin(); admin != nil {
		log.Printf("Admin %s logged out", admin.Username)
	}
	visitor.clearAdmin()
}

// LoginErrorMessage turns a Login error into the message shown on the login
// form
func LoginErrorMessage(err error) string {
	var vErr validation.ValidationError
	var authErr *gateway.AuthError
	var netErr *gateway.NetworkError

	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &netErr):
		return MsgNetworkRetry
	default:
		return gateway.MsgLoginFailed
	}
}
