package resultsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"btebresults/internal/models"
	"btebresults/internal/security"
	"btebresults/internal/validation"
)

const (
	// multipart framing allowed on top of the document itself
	uploadOverhead int64 = 1 << 20
	uploadMemory   int64 = 8 << 20
)

var pdfMagic = []byte("%PDF-")

// Health reports that the API and its database answer
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	count, err := s.results.Count()
	if err != nil {
		log.Printf("Health check failed: %v", err)
		writeError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]int{"results": count}})
}

// GetResult returns the stored result of one roll number
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	roll := r.PathValue("rollNumber")

	result, err := s.results.GetByRollNumber(roll)
	if err != nil {
		log.Printf("Error loading result %s: %v", roll, err)
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Result not found for roll number %s", roll))
		return
	}

	if s.debug {
		log.Printf("[DEBUG] Served result %s", roll)
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: result})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin checks a username and password against the admin accounts
func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, MsgCredentialsMissing)
		return
	}

	admin, err := s.admins.GetByUsername(req.Username)
	if err != nil {
		log.Printf("Error loading admin %s: %v", req.Username, err)
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	if admin == nil || !security.CheckPassword(req.Password, admin.PasswordHash) {
		log.Printf("Failed admin login for %q from %s", req.Username, security.GetClientIP(r))
		writeError(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}

	log.Printf("Admin %s authenticated", admin.Username)
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Login successful"})
}

// Upload accepts a result PDF. Documents are recorded but not processed.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxUploadSize+uploadOverhead)
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, MsgNoFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgNoFile)
		return
	}
	defer file.Close()

	if header.Size > validation.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
		return
	}

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(file, head); err != nil || !bytes.Equal(head, pdfMagic) {
		writeError(w, http.StatusBadRequest, MsgNotPDF)
		return
	}

	doc := &models.UploadedDocument{
		ID:         uuid.New().String(),
		FileName:   header.Filename,
		SizeBytes:  header.Size,
		ReceivedAt: time.Now().UTC(),
	}
	if err := s.documents.Record(doc); err != nil {
		log.Printf("Error recording upload: %v", err)
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}

	log.Printf("Received %s (%d bytes) as %s; processing disabled", doc.FileName, doc.SizeBytes, doc.ID)
	writeError(w, http.StatusNotImplemented, MsgDemoMode)
}
