// Package lookup tracks the state of a result search for one browser
// session and makes sure a slow, superseded search can never overwrite the
// state of a newer one.
package lookup

import (
	"btebresults/internal/grading"
	"btebresults/internal/models"
)

// State is the view state of a search. It is exactly one of Idle, Loading,
// Success or Failure.
type State interface {
	isState()
}

// Idle means no search has been made yet
type Idle struct{}

// Loading means a fetch for RollNumber is in flight
type Loading struct {
	RollNumber string
}

// Success holds a fetched result and its derived summary
type Success struct {
	Result  *models.StudentResult
	Summary grading.Summary
}

// Failure holds the message shown for a failed search
type Failure struct {
	RollNumber string
	Message    string
	Invalid    bool // roll number rejected before any request
	Retryable  bool // network failure, where "Try Again" makes sense
}

func (Idle) isState()    {}
func (Loading) isState() {}
func (Success) isState() {}
func (Failure) isState() {}

// Name is a short label for logging and JSON output
func Name(s State) string {
	switch s.(type) {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "idle"
	}
}
