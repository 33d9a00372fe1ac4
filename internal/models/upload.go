package models

import "time"

// UploadOutcome is the ingestion summary returned by the results API after a
// PDF upload. It is displayed as-is.
type UploadOutcome struct {
	TotalStudents  int      `json:"total_students"`
	NewRecords     int      `json:"new_records"`
	UpdatedRecords int      `json:"updated_records"`
	Errors         []string `json:"errors"`
}

// UploadedDocument records a PDF received by the demo results API
type UploadedDocument struct {
	ID         string
	FileName   string
	SizeBytes  int64
	ReceivedAt time.Time
}
