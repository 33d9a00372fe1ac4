// Package resultsapi is a small results API serving demo data. It answers
// the three endpoints the front-end gateway talks to.
package resultsapi

import (
	"encoding/json"
	"log"
	"net/http"

	"btebresults/internal/repository"
	"btebresults/internal/security"
)

const (
	MsgDemoMode           = "PDF processing is not available in demo mode"
	MsgInvalidCredentials = "Invalid credentials"
	MsgCredentialsMissing = "Username and password are required"
	MsgInvalidBody        = "Invalid request body"
	MsgNoFile             = "No file provided"
	MsgNotPDF             = "Only PDF files are allowed"
	MsgTooLarge           = "File size must be less than 16MB"
	MsgInternal           = "Internal server error"
)

// response is the envelope every endpoint answers with
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server holds the stores behind the API
type Server struct {
	results   *repository.ResultRepository
	admins    *repository.AdminRepository
	documents *repository.DocumentRepository
	limiter   *security.RateLimiter
	debug     bool
}

// NewServer creates a new API server. A nil limiter disables login rate
// limiting.
func NewServer(results *repository.ResultRepository, admins *repository.AdminRepository, documents *repository.DocumentRepository, limiter *security.RateLimiter, debug bool) *Server {
	return &Server{
		results:   results,
		admins:    admins,
		documents: documents,
		limiter:   limiter,
		debug:     debug,
	}
}

// Routes registers the API under /api
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.Health)
	mux.HandleFunc("GET /api/result/{rollNumber}", s.GetResult)
	mux.HandleFunc("POST /api/admin/login", s.rateLimit(s.AdminLogin))
	mux.HandleFunc("POST /api/upload", s.Upload)

	return mux
}

func (s *Server) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(security.GetClientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding API response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Error: message})
}
