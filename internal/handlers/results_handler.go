package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"btebresults/internal/lookup"
	"btebresults/internal/service"
	"btebresults/internal/validation"
)

// ResultsHandler serves the search form and result pages
type ResultsHandler struct {
	templates     *template.Template
	resultService *service.ResultService
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(templates *template.Template, resultService *service.ResultService) *ResultsHandler {
	return &ResultsHandler{
		templates:     templates,
		resultService: resultService,
	}
}

// Home shows the search form and the newest search of this browser
func (h *ResultsHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.homeData()
	if visitor := GetVisitorFromContext(r.Context()); visitor != nil {
		data.Latest = latestLookup(visitor.Lookups.Current())
	}
	h.renderHome(w, http.StatusOK, data)
}

// Search validates the roll number and sends the browser to its result page
func (h *ResultsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Error parsing search form", err)
		return
	}

	roll, err := validation.ValidateRollNumber(r.FormValue("roll_number"))
	if err != nil {
		data := h.homeData()
		data.Exam = r.FormValue("exam")
		data.Regulation = r.FormValue("regulation")
		data.RollNumber = r.FormValue("roll_number")
		data.Error = validation.MsgInvalidRollNumber
		h.renderHome(w, http.StatusBadRequest, data)
		return
	}

	http.Redirect(w, r, "/result/"+url.PathEscape(roll), http.StatusSeeOther)
}

// ShowResult fetches and renders the result of one roll number
func (h *ResultsHandler) ShowResult(w http.ResponseWriter, r *http.Request) {
	visitor := GetVisitorFromContext(r.Context())
	board := lookup.NewBoard()
	if visitor != nil {
		board = visitor.Lookups
	}

	state, _ := h.resultService.Lookup(r.Context(), board, r.PathValue("rollNumber"))

	switch s := state.(type) {
	case lookup.Success:
		data := ResultViewData{
			Title:       "Result " + s.Result.RollNumber,
			Result:      s.Result,
			Summary:     s.Summary,
			PublishedOn: s.Result.PublishedOn(),
		}
		if err := h.templates.ExecuteTemplate(w, "result.tmpl", data); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Error rendering result", err)
		}
	case lookup.Failure:
		data := ResultErrorViewData{
			Title:      "Result Not Found",
			RollNumber: s.RollNumber,
			Message:    s.Message,
			CanRetry:   !s.Invalid,
		}
		w.WriteHeader(failureStatus(s))
		if err := h.templates.ExecuteTemplate(w, "result_error.tmpl", data); err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Error rendering result error", err)
		}
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Error rendering result", fmt.Errorf("unexpected lookup state %s", lookup.Name(state)))
	}
}

func failureStatus(f lookup.Failure) int {
	switch {
	case f.Invalid:
		return http.StatusBadRequest
	case f.Retryable:
		return http.StatusBadGateway
	default:
		return http.StatusNotFound
	}
}

func (h *ResultsHandler) homeData() HomeViewData {
	return HomeViewData{
		Title:       "Result Search",
		Exams:       Exams,
		Regulations: Regulations,
		Exam:        Exams[0],
		Regulation:  Regulations[0],
	}
}

func (h *ResultsHandler) renderHome(w http.ResponseWriter, status int, data HomeViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "home.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Error rendering home", err)
	}
}
