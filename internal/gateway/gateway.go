// Package gateway is the client side of the results API: fetching a
// student's result, checking admin credentials and uploading result PDFs.
package gateway

import (
	"context"
	"fmt"
	"io"
	"time"

	"btebresults/internal/models"
)

// Fallback messages used when the API reports failure without an error text
const (
	MsgFetchFailed  = "Failed to fetch result"
	MsgLoginFailed  = "Login failed"
	MsgUploadFailed = "Upload failed"
)

// ResultsGateway is what the front-end needs from the results API.
//
// FetchResult forwards the roll number as given; callers validate the format
// first. UploadResultDocument does not check type or size, callers must run
// validation.ValidateUpload before calling it.
type ResultsGateway interface {
	FetchResult(ctx context.Context, rollNumber string) (*models.StudentResult, error)
	SubmitAdminCredentials(ctx context.Context, username, password string) (*Session, error)
	UploadResultDocument(ctx context.Context, doc Document) (*models.UploadOutcome, error)
}

// Session is the outcome of a successful admin login. The API hands out no
// token, so it only records who logged in and when.
type Session struct {
	Username        string
	AuthenticatedAt time.Time
}

// Document is a result PDF to upload
type Document struct {
	FileName string
	MIMEType string
	Size     int64
	Content  io.Reader
}

// NotFoundError is returned when the API has no result for a roll number or
// otherwise answers a fetch with success=false.
type NotFoundError struct {
	RollNumber string
	Message    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("result %s: %s", e.RollNumber, e.Message)
}

// AuthError is returned when the API rejects admin credentials
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "admin login rejected: " + e.Message
}

// UploadError is returned when the API refuses or fails to ingest a document
type UploadError struct {
	FileName string
	Message  string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %s", e.FileName, e.Message)
}

// NetworkError wraps transport failures and responses that could not be
// decoded. These are worth retrying.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
