package handlers

import (
	"net/http"

	"btebresults/internal/validation"
)

// NewRouter registers every front-end route and wraps them in request
// logging and visitor sessions
func NewRouter(staticPath string, results *ResultsHandler, admin *AdminHandler, middleware *Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticPath))))

	mux.HandleFunc("GET /{$}", results.Home)
	mux.HandleFunc("GET /results", results.Home)
	mux.HandleFunc("POST /search", middleware.RateLimit(results.Search))
	mux.HandleFunc("GET /result/{rollNumber}", middleware.RateLimit(results.ShowResult))

	mux.HandleFunc("GET /admin", admin.ShowAdmin)
	mux.HandleFunc("POST /admin/login", middleware.RateLimit(middleware.CSRFProtect(admin.Login)))
	mux.HandleFunc("POST /admin/logout", middleware.CSRFProtect(admin.Logout))
	mux.HandleFunc("POST /admin/upload", middleware.RequireAdmin(
		LimitUpload(validation.MaxUploadSize+uploadFormOverhead, middleware.CSRFProtect(admin.Upload))))
	mux.HandleFunc("GET /admin/upload/progress", middleware.RequireAdmin(admin.UploadProgress))

	return Logging(middleware.Sessions(mux))
}
