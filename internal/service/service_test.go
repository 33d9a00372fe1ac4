package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btebresults/internal/gateway"
	"btebresults/internal/lookup"
	"btebresults/internal/models"
	"btebresults/internal/progress"
	"btebresults/internal/validation"
)

// fakeGateway answers from canned values and counts calls
type fakeGateway struct {
	mu sync.Mutex

	results   map[string]*models.StudentResult
	fetchErr  error
	loginErr  error
	outcome   *models.UploadOutcome
	uploadErr error
	// release, when set, blocks FetchResult for the given roll number
	release map[string]chan struct{}

	fetchCalls  int
	loginCalls  int
	uploadCalls int
	uploaded    []byte
}

func (f *fakeGateway) FetchResult(ctx context.Context, roll string) (*models.StudentResult, error) {
	f.mu.Lock()
	f.fetchCalls++
	wait := f.release[roll]
	f.mu.Unlock()

	if wait != nil {
		<-wait
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if r, ok := f.results[roll]; ok {
		return r, nil
	}
	return nil, &gateway.NotFoundError{RollNumber: roll, Message: "Result not found for roll number " + roll}
}

func (f *fakeGateway) SubmitAdminCredentials(ctx context.Context, username, password string) (*gateway.Session, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &gateway.Session{Username: username, AuthenticatedAt: time.Now()}, nil
}

func (f *fakeGateway) UploadResultDocument(ctx context.Context, doc gateway.Document) (*models.UploadOutcome, error) {
	f.mu.Lock()
	f.uploadCalls++
	f.mu.Unlock()
	if doc.Content != nil {
		f.uploaded, _ = io.ReadAll(doc.Content)
	}
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.outcome, nil
}

func sampleResult(roll string) *models.StudentResult {
	return &models.StudentResult{
		RollNumber: roll,
		GPAs: models.SemesterGPAs{
			{Key: "gpa1", GPA: models.GPA(3.5)},
			{Key: "gpa2", GPA: models.GPA(3.0)},
			{Key: "gpa3", GPA: nil},
		},
		ReferredSubjects: []string{"Physics"},
	}
}

func TestResultServiceLookupSuccess(t *testing.T) {
	gw := &fakeGateway{results: map[string]*models.StudentResult{"123456": sampleResult("123456")}}
	svc := NewResultService(gw, false)
	board := lookup.NewBoard()

	state, applied := svc.Lookup(context.Background(), board, " 123456 ")
	require.True(t, applied)

	success, ok := state.(lookup.Success)
	require.True(t, ok, "got %T", state)
	assert.Equal(t, "123456", success.Result.RollNumber)
	assert.Equal(t, "3.25", success.Summary.CGPAText())
	assert.Equal(t, 2, success.Summary.SemestersPassed)
	assert.Equal(t, 1, success.Summary.ReferredCount)
	assert.Equal(t, state, board.Current())
}

func TestResultServiceLookupInvalidRollMakesNoRequest(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewResultService(gw, false)
	board := lookup.NewBoard()

	for _, roll := range []string{"", "12345", "1234567", "12a456", "１２３４５６"} {
		state, applied := svc.Lookup(context.Background(), board, roll)
		failure, ok := state.(lookup.Failure)
		require.True(t, ok, "roll %q: got %T", roll, state)
		assert.Equal(t, validation.MsgInvalidRollNumber, failure.Message)
		assert.True(t, failure.Invalid)
		assert.False(t, failure.Retryable)
		assert.False(t, applied)
	}

	assert.Zero(t, gw.fetchCalls)
	assert.IsType(t, lookup.Idle{}, board.Current())
}

func TestResultServiceLookupFailures(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantMessage   string
		wantRetryable bool
	}{
		{
			name:        "not found keeps server message",
			err:         &gateway.NotFoundError{RollNumber: "999999", Message: "Result not found for roll number 999999"},
			wantMessage: "Result not found for roll number 999999",
		},
		{
			name:          "network error",
			err:           &gateway.NetworkError{Op: "fetch result", Err: errors.New("connection refused")},
			wantMessage:   MsgFetchNetworkError,
			wantRetryable: true,
		},
		{
			name:          "unexpected error",
			err:           errors.New("boom"),
			wantMessage:   gateway.MsgFetchFailed,
			wantRetryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewResultService(&fakeGateway{fetchErr: tt.err}, false)
			board := lookup.NewBoard()

			state, applied := svc.Lookup(context.Background(), board, "999999")
			assert.True(t, applied)

			failure, ok := state.(lookup.Failure)
			require.True(t, ok, "got %T", state)
			assert.Equal(t, tt.wantMessage, failure.Message)
			assert.Equal(t, tt.wantRetryable, failure.Retryable)
			assert.Equal(t, "999999", failure.RollNumber)
		})
	}
}

func TestResultServiceStaleLookupIsDropped(t *testing.T) {
	slow := make(chan struct{})
	gw := &fakeGateway{
		results: map[string]*models.StudentResult{
			"111111": sampleResult("111111"),
			"222222": sampleResult("222222"),
		},
		release: map[string]chan struct{}{"111111": slow},
	}
	svc := NewResultService(gw, false)
	board := lookup.NewBoard()

	done := make(chan bool)
	go func() {
		_, applied := svc.Lookup(context.Background(), board, "111111")
		done <- applied
	}()

	require.Eventually(t, func() bool {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		return gw.fetchCalls == 1
	}, time.Second, time.Millisecond)

	_, applied := svc.Lookup(context.Background(), board, "222222")
	require.True(t, applied)

	close(slow)
	assert.False(t, <-done, "superseded lookup must not be applied")

	success, ok := board.Current().(lookup.Success)
	require.True(t, ok)
	assert.Equal(t, "222222", success.Result.RollNumber)
}

func TestAdminServiceLogin(t *testing.T) {
	sessions := NewSessionService(time.Hour)
	visitor := sessions.Create()
	svc := NewAdminService(&fakeGateway{}, time.Hour, false)

	session, err := svc.Login(context.Background(), visitor, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.True(t, visitor.IsAdmin())

	svc.Logout(visitor)
	assert.False(t, visitor.IsAdmin())
}

func TestAdminServiceLoginFailures(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		password    string
		gatewayErr  error
		wantMessage string
		wantCalls   int
	}{
		{
			name:        "missing username",
			password:    "x",
			wantMessage: validation.MsgUsernameRequired,
		},
		{
			name:        "rejected credentials",
			username:    "admin",
			password:    "wrong",
			gatewayErr:  &gateway.AuthError{Message: "Invalid credentials"},
			wantMessage: "Invalid credentials",
			wantCalls:   1,
		},
		{
			name:        "network error",
			username:    "admin",
			password:    "admin123",
			gatewayErr:  &gateway.NetworkError{Op: "admin login", Err: errors.New("timeout")},
			wantMessage: MsgNetworkRetry,
			wantCalls:   1,
		},
		{
			name:        "unknown error",
			username:    "admin",
			password:    "admin123",
			gatewayErr:  errors.New("boom"),
			wantMessage: gateway.MsgLoginFailed,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{loginErr: tt.gatewayErr}
			visitor := NewSessionService(time.Hour).Create()
			svc := NewAdminService(gw, time.Hour, false)

			_, err := svc.Login(context.Background(), visitor, tt.username, tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.wantMessage, LoginErrorMessage(err))
			assert.Equal(t, tt.wantCalls, gw.loginCalls)
			assert.False(t, visitor.IsAdmin())
		})
	}
}

func pdfDocument(size int64) gateway.Document {
	return gateway.Document{
		FileName: "results.pdf",
		MIMEType: validation.PDFMimeType,
		Size:     size,
		Content:  strings.NewReader("%PDF-1.4 demo"),
	}
}

func TestUploadServicePreconditionsMakeNoRequest(t *testing.T) {
	tests := []struct {
		name        string
		doc         gateway.Document
		wantMessage string
	}{
		{
			name:        "no file",
			doc:         gateway.Document{},
			wantMessage: validation.MsgNoFile,
		},
		{
			name:        "png",
			doc:         gateway.Document{FileName: "scan.png", MIMEType: "image/png", Size: 2048},
			wantMessage: validation.MsgNotPDF,
		},
		{
			name:        "17MiB pdf",
			doc:         pdfDocument(17 * 1024 * 1024),
			wantMessage: validation.MsgTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			svc := NewUploadService(gw, nil, "", false)
			indicator := progress.NewIndicator()

			report, err := svc.Upload(context.Background(), indicator, tt.doc)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.Equal(t, tt.wantMessage, UploadErrorMessage(err))
			assert.Zero(t, gw.uploadCalls)
			assert.Zero(t, indicator.Percent())
			assert.False(t, indicator.Active())
		})
	}
}

func TestUploadServiceSuccess(t *testing.T) {
	gw := &fakeGateway{outcome: &models.UploadOutcome{TotalStudents: 120, NewRecords: 100, UpdatedRecords: 20, Errors: []string{}}}
	email, err := NewEmailService("us-east-1", "", "", false)
	require.NoError(t, err)
	svc := NewUploadService(gw, email, "registrar@example.com", false)
	indicator := progress.NewIndicator()

	report, err := svc.Upload(context.Background(), indicator, pdfDocument(1024))
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, "Upload successful! Processed 120 students (100 new, 20 updated).", report.Message)
	assert.Equal(t, 120, report.Outcome.TotalStudents)
	assert.Equal(t, 1, gw.uploadCalls)
	assert.Equal(t, "%PDF-1.4 demo", string(gw.uploaded))

	assert.Equal(t, progress.Complete, indicator.Percent())
	assert.True(t, indicator.Finished())
	assert.False(t, indicator.Active())
}

func TestUploadServiceFailures(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{name: "business error", err: &gateway.UploadError{FileName: "results.pdf", Message: "PDF processing is not available in demo mode"}, wantMessage: "PDF processing is not available in demo mode"},
		{name: "network error", err: &gateway.NetworkError{Op: "upload", Err: errors.New("reset")}, wantMessage: MsgNetworkRetry},
		{name: "other error", err: errors.New("boom"), wantMessage: gateway.MsgUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{uploadErr: tt.err}
			svc := NewUploadService(gw, nil, "", false)

			indicator := progress.NewIndicator()

			report, err := svc.Upload(context.Background(), indicator, pdfDocument(1024))
			require.NoError(t, err)
			assert.False(t, report.Success)
			assert.Equal(t, tt.wantMessage, report.Message)
			assert.Nil(t, report.Outcome)

			// a refused upload still completes the bar
			assert.Equal(t, progress.Complete, indicator.Percent())
			assert.True(t, indicator.Finished())
			assert.False(t, indicator.Active())
		})
	}
}

func TestSessionServiceExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	sessions := NewSessionService(30 * time.Minute)
	sessions.now = func() time.Time { return now }

	visitor := sessions.Create()
	assert.Same(t, visitor, sessions.Get(visitor.ID))
	assert.Nil(t, sessions.Get("unknown"))
	assert.Nil(t, sessions.Get(""))

	now = now.Add(20 * time.Minute)
	require.NotNil(t, sessions.Get(visitor.ID), "access refreshes the idle timer")

	now = now.Add(20 * time.Minute)
	assert.NotNil(t, sessions.Get(visitor.ID))

	now = now.Add(31 * time.Minute)
	assert.Nil(t, sessions.Get(visitor.ID))
	assert.Zero(t, sessions.Count())
}

func TestSessionServiceCleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	sessions := NewSessionService(time.Minute)
	sessions.now = func() time.Time { return now }

	old := sessions.Create()
	now = now.Add(2 * time.Minute)
	fresh := sessions.Create()

	assert.Equal(t, 1, sessions.CleanupExpiredSessions())
	assert.Nil(t, sessions.Get(old.ID))
	assert.NotNil(t, sessions.Get(fresh.ID))
}

func TestVisitorAdminExpires(t *testing.T) {
	visitor := NewSessionService(time.Hour).Create()
	visitor.setAdmin(&models.Session{Username: "admin", ExpiresAt: time.Now().Add(-time.Second)})
	assert.False(t, visitor.IsAdmin())
	assert.Nil(t, visitor.Admin())
}

func TestUploadReportContent(t *testing.T) {
	subject, htmlBody, textBody := uploadReportContent("<june>.pdf", &models.UploadOutcome{
		TotalStudents: 3, NewRecords: 2, UpdatedRecords: 1, Errors: []string{"row 7: bad GPA"},
	})
	assert.Equal(t, "Result upload processed: <june>.pdf", subject)
	assert.Contains(t, htmlBody, "&lt;june&gt;.pdf")
	assert.Contains(t, htmlBody, "<li>row 7: bad GPA</li>")
	assert.Contains(t, textBody, "Students processed: 3")
	assert.Contains(t, textBody, "- row 7: bad GPA")
}

func TestVisitorFlashIsShownOnce(t *testing.T) {
	visitor := NewSessionService(time.Hour).Create()
	assert.Nil(t, visitor.TakeFlash())

	visitor.SetFlash(&Flash{Type: "success", Message: MsgLoginSuccess})
	flash := visitor.TakeFlash()
	require.NotNil(t, flash)
	assert.Equal(t, MsgLoginSuccess, flash.Message)
	assert.Nil(t, visitor.TakeFlash())
}
