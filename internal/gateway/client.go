package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"btebresults/internal/models"
)

// envelope is the response body shape shared by every results API endpoint
type envelope struct {
	Success bool                  `json:"success"`
	Data    *models.StudentResult `json:"data,omitempty"`
	Stats   *models.UploadOutcome `json:"stats,omitempty"`
	Error   string                `json:"error,omitempty"`
}

var _ ResultsGateway = (*Client)(nil)

// Client talks to the results API over HTTP
type Client struct {
	BaseURL string
	Client  *http.Client
	Debug   bool
}

// NewClient creates a client for the API rooted at baseURL. A nil
// httpClient gets a plain client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  httpClient,
	}
}

// FetchResult retrieves the published result for rollNumber
func (c *Client) FetchResult(ctx context.Context, rollNumber string) (*models.StudentResult, error) {
	const op = "fetch result"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/result/"+url.PathEscape(rollNumber), nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	ok, env, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	if !ok || env.Data == nil {
		return nil, &NotFoundError{RollNumber: rollNumber, Message: messageOr(env.Error, MsgFetchFailed)}
	}
	return env.Data, nil
}

// SubmitAdminCredentials asks the API to verify an admin login
func (c *Client) SubmitAdminCredentials(ctx context.Context, username, password string) (*Session, error) {
	const op = "admin login"

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/admin/login", bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	ok, env, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &AuthError{Message: messageOr(env.Error, MsgLoginFailed)}
	}
	return &Session{Username: username, AuthenticatedAt: time.Now()}, nil
}

// UploadResultDocument sends a result PDF as the multipart field "file"
func (c *Client) UploadResultDocument(ctx context.Context, doc Document) (*models.UploadOutcome, error) {
	const op = "upload"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(doc.FileName)))
	header.Set("Content-Type", doc.MIMEType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if doc.Content != nil {
		if _, err := io.Copy(part, doc.Content); err != nil {
			return nil, fmt.Errorf("read document %s: %w", doc.FileName, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", &buf)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	ok, env, err := c.do(op, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UploadError{FileName: doc.FileName, Message: messageOr(env.Error, MsgUploadFailed)}
	}
	if env.Stats == nil {
		return &models.UploadOutcome{Errors: []string{}}, nil
	}
	if env.Stats.Errors == nil {
		env.Stats.Errors = []string{}
	}
	return env.Stats, nil
}

// do sends req and decodes the envelope. ok is true only for a 2xx status
// with success=true. A body that is not a JSON envelope is treated as a
// network failure, whatever the status code.
func (c *Client) do(op string, req *http.Request) (bool, *envelope, error) {
	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return false, nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if c.Debug {
		log.Printf("[DEBUG] results API %s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, nil, &NetworkError{Op: op, Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300 && env.Success
	return ok, &env, nil
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
