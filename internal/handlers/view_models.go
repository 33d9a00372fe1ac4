package handlers

import (
	"btebresults/internal/grading"
	"btebresults/internal/lookup"
	"btebresults/internal/models"
	"btebresults/internal/service"
)

type HomeViewData struct {
	Title       string
	Exams       []string
	Regulations []string
	Exam        string
	Regulation  string
	RollNumber  string
	Error       string
	Latest      *LatestLookupView
}

// LatestLookupView summarises the newest search of this browser
type LatestLookupView struct {
	State      string
	RollNumber string
	CGPA       string
	Message    string
}

type ResultViewData struct {
	Title       string
	Result      *models.StudentResult
	Summary     grading.Summary
	PublishedOn string
}

type ResultErrorViewData struct {
	Title      string
	RollNumber string
	Message    string
	CanRetry   bool
}

type AdminLoginViewData struct {
	Title     string
	CSRFToken string
	Username  string
	Flash     *service.Flash
}

type AdminUploadViewData struct {
	Title         string
	CSRFToken     string
	Username      string
	MaxUploadMB   int64
	AcceptType    string
	Flash         *service.Flash
	Uploading     bool
	UploadPercent int
}

// statusResponse is the JSON answer to script-driven login and upload
type statusResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Stats   *models.UploadOutcome `json:"stats,omitempty"`
}

type progressResponse struct {
	Percent int  `json:"percent"`
	Active  bool `json:"active"`
}

// latestLookup converts a board state for the home page; Idle yields nil
func latestLookup(state lookup.State) *LatestLookupView {
	switch s := state.(type) {
	case lookup.Loading:
		return &LatestLookupView{State: lookup.Name(s), RollNumber: s.RollNumber}
	case lookup.Success:
		return &LatestLookupView{
			State:      lookup.Name(s),
			RollNumber: s.Result.RollNumber,
			CGPA:       s.Summary.CGPAText(),
		}
	case lookup.Failure:
		return &LatestLookupView{State: lookup.Name(s), RollNumber: s.RollNumber, Message: s.Message}
	default:
		return nil
	}
}
