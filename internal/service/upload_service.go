package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"btebresults/internal/gateway"
	"btebresults/internal/models"
	"btebresults/internal/progress"
	"btebresults/internal/validation"
)

// UploadReport is what the admin sees after an upload reached the API
type UploadReport struct {
	FileName string
	Success  bool
	Message  string
	Outcome  *models.UploadOutcome
}

// UploadService sends result documents to the results API
type UploadService struct {
	gateway  gateway.ResultsGateway
	email    *EmailService
	reportTo string
	debug    bool
}

// NewUploadService creates a new upload service. When reportTo is set and
// email is enabled, every successful upload is mailed there.
func NewUploadService(gw gateway.ResultsGateway, email *EmailService, reportTo string, debug bool) *UploadService {
	return &UploadService{
		gateway:  gw,
		email:    email,
		reportTo: reportTo,
		debug:    debug,
	}
}

// Upload validates doc and sends it to the API while indicator advances.
// A validation.ValidationError is returned, with no request made, when doc
// is missing, not a PDF or too large. Every outcome of the request itself
// comes back as a report, and leaves indicator finished at 100 until the
// next upload starts it again.
func (s *UploadService) Upload(ctx context.Context, indicator *progress.Indicator, doc gateway.Document) (*UploadReport, error) {
	if err := validation.ValidateUpload(doc.FileName, doc.MIMEType, doc.Size); err != nil {
		return nil, err
	}

	indicator.Start()

	if s.debug {
		log.Printf("[DEBUG] Uploading %s (%d bytes)", doc.FileName, doc.Size)
	}

	ctx = context.WithoutCancel(ctx)
	outcome, err := s.gateway.UploadResultDocument(ctx, doc)
	indicator.Finish()

	if err != nil {
		log.Printf("Upload of %s failed: %v", doc.FileName, err)
		return &UploadReport{
			FileName: doc.FileName,
			Message:  UploadErrorMessage(err),
		}, nil
	}

	report := &UploadReport{
		FileName: doc.FileName,
		Success:  true,
		Message:  UploadSuccessMessage(outcome),
		Outcome:  outcome,
	}
	log.Printf("Uploaded %s: %d students, %d new, %d updated, %d errors",
		doc.FileName, outcome.TotalStudents, outcome.NewRecords, outcome.UpdatedRecords, len(outcome.Errors))

	if s.email != nil && s.reportTo != "" {
		if err := s.email.SendUploadReport(ctx, s.reportTo, doc.FileName, outcome); err != nil {
			log.Printf("Failed to send upload report for %s: %v", doc.FileName, err)
		}
	}

	return report, nil
}

// UploadSuccessMessage is the status line for an ingested document
func UploadSuccessMessage(outcome *models.UploadOutcome) string {
	return fmt.Sprintf("Upload successful! Processed %d students (%d new, %d updated).",
		outcome.TotalStudents, outcome.NewRecords, outcome.UpdatedRecords)
}

// UploadErrorMessage turns an upload error into the status line shown to
// the admin
func UploadErrorMessage(err error) string {
	var vErr validation.ValidationError
	var uploadErr *gateway.UploadError
	var netErr *gateway.NetworkError

	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.As(err, &uploadErr):
		return uploadErr.Message
	case errors.As(err, &netErr):
		return MsgNetworkRetry
	default:
		return gateway.MsgUploadFailed
	}
}
