package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"btebresults/internal/security"
	"btebresults/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const VisitorContextKey ContextKey = "visitor"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessions *service.SessionService
	tokens   *security.TokenIssuer
	csrf     *security.CSRFGenerator
	limiter  *security.RateLimiter
	debug    bool
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(sessions *service.SessionService, tokens *security.TokenIssuer, csrf *security.CSRFGenerator, limiter *security.RateLimiter, debug bool) *Middleware {
	return &Middleware{
		sessions: sessions,
		tokens:   tokens,
		csrf:     csrf,
		limiter:  limiter,
		debug:    debug,
	}
}

// Sessions attaches the visitor session to every request, starting a new one
// when the cookie is missing, invalid or names a forgotten session
func (m *Middleware) Sessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var visitor *service.VisitorSession

		if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
			if id, err := m.tokens.Parse(cookie.Value); err == nil {
				visitor = m.sessions.Get(id)
			} else if m.debug {
				log.Printf("[DEBUG] Ignoring session cookie: %v", err)
			}
		}

		if visitor == nil {
			visitor = m.sessions.Create()
			token, expiresAt, err := m.tokens.Issue(visitor.ID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerErrorUC, "Error issuing session token", err)
				return
			}
			http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, token, expiresAt))
		}

		ctx := context.WithValue(r.Context(), VisitorContextKey, visitor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin lets only logged-in admins through. Page requests are sent
// to the login form, script requests get 401.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitor := GetVisitorFromContext(r.Context())
		if visitor == nil || !visitor.IsAdmin() {
			if wantsJSON(r) {
				respondWithJSON(w, http.StatusUnauthorized, statusResponse{Success: false, Message: ErrUnauthorized})
				return
			}
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// CSRFProtect rejects state-changing requests without a valid CSRF token.
// The token is taken from the X-CSRF-Token header or the csrf_token field.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitor := GetVisitorFromContext(r.Context())
		if visitor == nil {
			http.Error(w, ErrInvalidCSRFToken, http.StatusForbidden)
			return
		}

		if r.Header.Get(security.CSRFHeader) == "" {
			if err := r.ParseMultipartForm(uploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					// the token is lost with the truncated body; this only sets a flash
					respondOversize(w, r)
					return
				}
				respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "Error parsing form", err)
				return
			}
		}

		if !m.csrf.ValidateToken(visitor.ID, security.TokenFromRequest(r)) {
			log.Printf("CSRF validation failed for %s %s", r.Method, r.URL.Path)
			http.Error(w, ErrInvalidCSRFToken, http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// RateLimit limits requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			retry := m.limiter.RetryAfter(ip)
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
			log.Printf("Rate limit exceeded for %s on %s", ip, r.URL.Path)
			http.Error(w, ErrTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// CSRFToken returns the token forms of visitor must submit
func (m *Middleware) CSRFToken(visitor *service.VisitorSession) string {
	if visitor == nil {
		return ""
	}
	token, err := m.csrf.GenerateToken(visitor.ID)
	if err != nil {
		log.Printf("Error generating CSRF token: %v", err)
		return ""
	}
	return token
}

// uploadBody is a capped upload body that keeps its first bytes, so an
// upload that overruns the cap can still be judged by its declared type
type uploadBody struct {
	io.ReadCloser
	head bytes.Buffer
}

func (b *uploadBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if room := uploadHeadSize - b.head.Len(); room > 0 && n > 0 {
		b.head.Write(p[:min(n, room)])
	}
	return n, err
}

// LimitUpload caps the request body at limit bytes
func LimitUpload(limit int64, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = &uploadBody{ReadCloser: http.MaxBytesReader(w, r.Body, limit)}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetVisitorFromContext retrieves the visitor session from the request context
func GetVisitorFromContext(ctx context.Context) *service.VisitorSession {
	visitor, ok := ctx.Value(VisitorContextKey).(*service.VisitorSession)
	if !ok {
		return nil
	}
	return visitor
}
