package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAPI starts a results API stub; handler sees every request
func newTestAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api/", nil)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestFetchResultSuccess(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/result/123456", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"roll_number":"123456",
			"gpas":{"gpa1":3.6,"gpa2":null},
			"referred_subjects":["Math-2"],
			"created_at":"2024-01-15T08:00:00Z"}}`)
	})

	result, err := client.FetchResult(context.Background(), "123456")
	require.NoError(t, err)

	assert.Equal(t, "123456", result.RollNumber)
	require.Len(t, result.GPAs, 2)
	assert.Equal(t, "gpa1", result.GPAs[0].Key)
	assert.Nil(t, result.GPAs[1].GPA)
	assert.Equal(t, []string{"Math-2"}, result.ReferredSubjects)
	assert.Equal(t, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), result.CreatedAt)
}

func TestFetchResultWithUnreadableTimestamp(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"roll_number":"123456",
			"gpas":{"gpa1":3.6},
			"created_at":"last Tuesday"}}`)
	})

	result, err := client.FetchResult(context.Background(), "123456")
	require.NoError(t, err, "a result with an odd timestamp is still a result")

	assert.Equal(t, "123456", result.RollNumber)
	require.Len(t, result.GPAs, 1)
	assert.True(t, result.CreatedAt.IsZero())
	assert.Empty(t, result.PublishedOn())
}

func TestFetchResultNotFoundUsesServerMessage(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"success":false,"error":"Result not found for roll number 999999"}`)
	})

	_, err := client.FetchResult(context.Background(), "999999")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, "Result not found for roll number 999999", notFound.Message)
	assert.Equal(t, "999999", notFound.RollNumber)
}

func TestFetchResultBusinessErrorWithoutMessageUsesFallback(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false}`)
	})

	_, err := client.FetchResult(context.Background(), "111111")

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, MsgFetchFailed, notFound.Message)
}

func TestFetchResultForwardsRollNumberAsIs(t *testing.T) {
	var gotPath string
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(w, http.StatusNotFound, `{"success":false,"error":"nope"}`)
	})

	_, err := client.FetchResult(context.Background(), "12 34/5")
	require.Error(t, err)
	assert.Equal(t, "/api/result/12%2034%2F5", gotPath)
}

func TestFetchResultUndecodableBodyIsNetworkError(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := client.FetchResult(context.Background(), "123456")

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.Equal(t, "fetch result", netErr.Op)
}

func TestFetchResultTransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, &http.Client{Timeout: time.Second})
	_, err := client.FetchResult(context.Background(), "123456")

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
}

func TestSubmitAdminCredentials(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["username"] == "admin" && creds["password"] == "admin123" {
			writeJSON(w, http.StatusOK, `{"success":true}`)
			return
		}
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":"Invalid credentials"}`)
	})

	session, err := client.SubmitAdminCredentials(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.False(t, session.AuthenticatedAt.IsZero())

	_, err = client.SubmitAdminCredentials(context.Background(), "admin", "wrong")
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Invalid credentials", authErr.Message)
}

func TestSubmitAdminCredentialsFallbackMessage(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false}`)
	})

	_, err := client.SubmitAdminCredentials(context.Background(), "admin", "x")

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, MsgLoginFailed, authErr.Message)
}

func TestUploadResultDocument(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, _ := io.ReadAll(file)
		assert.Equal(t, "results.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4 test", string(content))

		writeJSON(w, http.StatusOK, `{"success":true,"stats":{
			"total_students":120,"new_records":100,"updated_records":20,"errors":["row 7: bad roll"]}}`)
	})

	outcome, err := client.UploadResultDocument(context.Background(), Document{
		FileName: "results.pdf",
		MIMEType: "application/pdf",
		Size:     13,
		Content:  strings.NewReader("%PDF-1.4 test"),
	})
	require.NoError(t, err)

	assert.Equal(t, 120, outcome.TotalStudents)
	assert.Equal(t, 100, outcome.NewRecords)
	assert.Equal(t, 20, outcome.UpdatedRecords)
	assert.Equal(t, []string{"row 7: bad roll"}, outcome.Errors)
}

func TestUploadResultDocumentBusinessError(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"error":"Could not parse PDF"}`)
	})

	_, err := client.UploadResultDocument(context.Background(), Document{
		FileName: "broken.pdf",
		MIMEType: "application/pdf",
		Content:  strings.NewReader("%PDF-"),
	})

	var uploadErr *UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, "Could not parse PDF", uploadErr.Message)
	assert.Equal(t, "broken.pdf", uploadErr.FileName)
}

func TestUploadResultDocumentMissingErrorsListIsEmpty(t *testing.T) {
	client := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"stats":{"total_students":1,"new_records":1,"updated_records":0}}`)
	})

	outcome, err := client.UploadResultDocument(context.Background(), Document{
		FileName: "one.pdf",
		MIMEType: "application/pdf",
		Content:  strings.NewReader("%PDF-"),
	})
	require.NoError(t, err)
	assert.NotNil(t, outcome.Errors)
	assert.Empty(t, outcome.Errors)
}

func TestNewHTTPClientWithoutAuth(t *testing.T) {
	client := NewHTTPClient(context.Background(), 5*time.Second, AuthConfig{})
	assert.Equal(t, 5*time.Second, client.Timeout)
}

func TestNewHTTPClientAddsBearerToken(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":"svc-token","token_type":"bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()

	var gotAuth string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"success":true}`)
	}))
	defer apiServer.Close()

	httpClient := NewHTTPClient(context.Background(), 5*time.Second, AuthConfig{
		ClientID:     "front-end",
		ClientSecret: "secret",
		TokenURL:     tokenServer.URL,
	})
	client := NewClient(apiServer.URL, httpClient)

	_, err := client.SubmitAdminCredentials(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer svc-token", gotAuth)
}
