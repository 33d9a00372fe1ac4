package service

import (
	"context"
	"errors"
	"log"

	"btebresults/internal/gateway"
	"btebresults/internal/grading"
	"btebresults/internal/lookup"
	"btebresults/internal/validation"
)

// MsgFetchNetworkError is shown when the results API cannot be reached
const MsgFetchNetworkError = "Network error. Please check your connection."

// ResultService runs result searches against the results API
type ResultService struct {
	gateway gateway.ResultsGateway
	debug   bool
}

// NewResultService creates a new result service
func NewResultService(gw gateway.ResultsGateway, debug bool) *ResultService {
	return &ResultService{gateway: gw, debug: debug}
}

// Lookup searches for rollNumber and records the outcome on board. The
// returned state is the outcome of this search; applied is false when a
// newer search on the same board superseded it and the board was left
// untouched. Invalid roll numbers fail without any network request.
func (s *ResultService) Lookup(ctx context.Context, board *lookup.Board, rollNumber string) (state lookup.State, applied bool) {
	roll, err := validation.ValidateRollNumber(rollNumber)
	if err != nil {
		var vErr validation.ValidationError
		message := validation.MsgInvalidRollNumber
		if errors.As(err, &vErr) {
			message = vErr.Message
		}
		return lookup.Failure{RollNumber: rollNumber, Message: message, Invalid: true}, false
	}

	ticket := board.Begin(roll)

	// the request outlives a cancelled page load; the client timeout bounds it
	result, err := s.gateway.FetchResult(context.WithoutCancel(ctx), roll)
	if err != nil {
		state = failureFor(roll, err)
	} else {
		state = lookup.Success{Result: result, Summary: grading.Summarize(result)}
	}

	applied = board.Resolve(ticket, state)
	if !applied && s.debug {
		log.Printf("[DEBUG] Dropped stale lookup for %s (ticket %s)", roll, ticket.ID)
	}
	return state, applied
}

func failureFor(roll string, err error) lookup.Failure {
	var notFound *gateway.NotFoundError
	var netErr *gateway.NetworkError

	switch {
	case errors.As(err, &notFound):
		return lookup.Failure{RollNumber: roll, Message: notFound.Message}
	case errors.As(err, &netErr):
		log.Printf("Result lookup for %s failed: %v", roll, err)
		return lookup.Failure{RollNumber: roll, Message: MsgFetchNetworkError, Retryable: true}
	default:
		log.Printf("Result lookup for %s failed: %v", roll, err)
		return lookup.Failure{RollNumber: roll, Message: gateway.MsgFetchFailed, Retryable: true}
	}
}
