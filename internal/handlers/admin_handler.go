package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"mime"
	"mime/multipart"
	"net/http"

	"btebresults/internal/gateway"
	"btebresults/internal/service"
	"btebresults/internal/validation"
)

// AdminHandler handles the admin login and result upload pages
type AdminHandler struct {
	templates     *template.Template
	adminService  *service.AdminService
	uploadService *service.UploadService
	middleware    *Middleware
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(templates *template.Template, adminService *service.AdminService, uploadService *service.UploadService, middleware *Middleware) *AdminHandler {
	return &AdminHandler{
		templates:     templates,
		adminService:  adminService,
		uploadService: uploadService,
		middleware:    middleware,
	}
}

// ShowAdmin shows the upload page to admins and the login form to everyone
// else
func (h *AdminHandler) ShowAdmin(w http.ResponseWriter, r *http.Request) {
	visitor := GetVisitorFromContext(r.Context())
	if visitor == nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Admin page without visitor session", errors.New("missing session middleware"))
		return
	}

	if admin := visitor.Admin(); admin != nil {
		h.renderUpload(w, http.StatusOK, AdminUploadViewData{
			Title:         "Upload Results",
			CSRFToken:     h.middleware.CSRFToken(visitor),
			Username:      admin.Username,
			MaxUploadMB:   validation.MaxUploadSize >> 20,
			AcceptType:    validation.PDFMimeType,
			Flash:         visitor.TakeFlash(),
			Uploading:     visitor.Upload.Active(),
			UploadPercent: visitor.Upload.Percent(),
		})
		return
	}

	h.renderLogin(w, http.StatusOK, AdminLoginViewData{
		Title:     "Admin Login",
		CSRFToken: h.middleware.CSRFToken(visitor),
		Flash:     visitor.TakeFlash(),
	})
}

// Login checks the credentials against the results API
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	visitor := GetVisitorFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Error parsing login form", err)
		return
	}
	username := r.FormValue("username")

	_, err := h.adminService.Login(r.Context(), visitor, username, r.FormValue("password"))
	if err != nil {
		message := service.LoginErrorMessage(err)
		status := loginFailureStatus(err)
		if wantsJSON(r) {
			respondWithJSON(w, status, statusResponse{Success: false, Message: message})
			return
		}
		h.renderLogin(w, status, AdminLoginViewData{
			Title:     "Admin Login",
			CSRFToken: h.middleware.CSRFToken(visitor),
			Username:  username,
			Flash:     &service.Flash{Type: "error", Message: message},
		})
		return
	}

	if wantsJSON(r) {
		respondWithJSON(w, http.StatusOK, statusResponse{Success: true, Message: service.MsgLoginSuccess})
		return
	}
	visitor.SetFlash(&service.Flash{Type: "success", Message: service.MsgLoginSuccess})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func loginFailureStatus(err error) int {
	var vErr validation.ValidationError
	var authErr *gateway.AuthError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// Logout drops the admin login of this browser
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if visitor := GetVisitorFromContext(r.Context()); visitor != nil {
		h.adminService.Logout(visitor)
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Upload forwards a result PDF to the results API. Script requests get a
// JSON status; plain form posts are redirected back to the upload page.
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	visitor := GetVisitorFromContext(r.Context())

	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondOversize(w, r)
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Error parsing upload form", err)
			return
		}
	}

	doc := gateway.Document{}
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		doc.FileName = header.Filename
		doc.MIMEType = header.Header.Get("Content-Type")
		doc.Size = header.Size
		doc.Content = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// empty document, rejected by the upload service
	default:
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Error reading uploaded file", err)
		return
	}

	report, err := h.uploadService.Upload(r.Context(), visitor.Upload, doc)
	if err != nil {
		respondUpload(w, r, http.StatusBadRequest, statusResponse{Message: service.UploadErrorMessage(err)})
		return
	}

	status := http.StatusOK
	if !report.Success {
		status = http.StatusBadGateway
		log.Printf("Upload of %s rejected: %s", report.FileName, report.Message)
	}
	respondUpload(w, r, status, statusResponse{
		Success: report.Success,
		Message: report.Message,
		Stats:   report.Outcome,
	})
}

// respondUpload answers script requests with JSON and redirects plain form
// posts back to the upload page with the outcome as a flash
func respondUpload(w http.ResponseWriter, r *http.Request, status int, resp statusResponse) {
	if wantsJSON(r) {
		respondWithJSON(w, status, resp)
		return
	}

	flash := &service.Flash{Type: "error", Message: resp.Message}
	if resp.Success {
		flash.Type = "success"
	}
	if resp.Stats != nil {
		flash.Details = resp.Stats.Errors
	}
	if visitor := GetVisitorFromContext(r.Context()); visitor != nil {
		visitor.SetFlash(flash)
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// respondOversize answers an upload whose body overran the cap. A file part
// declared as anything but a PDF gets the type message, as it would within
// the cap.
func respondOversize(w http.ResponseWriter, r *http.Request) {
	if fileName, mimeType, ok := declaredUpload(r); ok {
		if err := validation.ValidateUpload(fileName, mimeType, 1); err != nil {
			respondUpload(w, r, http.StatusBadRequest, statusResponse{Message: service.UploadErrorMessage(err)})
			return
		}
	}
	respondUpload(w, r, http.StatusRequestEntityTooLarge, statusResponse{Message: validation.MsgTooLarge})
}

// declaredUpload reads the name and type of the file part from the kept
// head of an upload body
func declaredUpload(r *http.Request) (fileName, mimeType string, ok bool) {
	body, isUpload := r.Body.(*uploadBody)
	if !isUpload {
		return "", "", false
	}
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || params["boundary"] == "" {
		return "", "", false
	}

	reader := multipart.NewReader(bytes.NewReader(body.head.Bytes()), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			return "", "", false
		}
		if part.FormName() == "file" {
			return part.FileName(), part.Header.Get("Content-Type"), true
		}
	}
}

// UploadProgress reports the progress bar of the running upload
func (h *AdminHandler) UploadProgress(w http.ResponseWriter, r *http.Request) {
	visitor := GetVisitorFromContext(r.Context())
	w.Header().Set("Cache-Control", "no-store")
	respondWithJSON(w, http.StatusOK, progressResponse{
		Percent: visitor.Upload.Percent(),
		Active:  visitor.Upload.Active(),
	})
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, status int, data AdminLoginViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "admin_login.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Error rendering admin login", err)
	}
}

func (h *AdminHandler) renderUpload(w http.ResponseWriter, status int, data AdminUploadViewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "admin_upload.tmpl", data); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Error rendering upload page", err)
	}
}
