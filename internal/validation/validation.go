package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// PDFMimeType is the only content type accepted for result documents
	PDFMimeType = "application/pdf"

	// MaxUploadSize is the largest accepted result document (16 MiB)
	MaxUploadSize int64 = 16 * 1024 * 1024

	RollNumberLength = 6
)

// User-facing messages, shown verbatim next to the form that failed
const (
	MsgInvalidRollNumber = "Please enter a valid 6-digit roll number"
	MsgNoFile            = "Please select a file first."
	MsgNotPDF            = "Please select a PDF file only."
	MsgTooLarge          = "File size must be less than 16MB."
	MsgUsernameRequired  = "Username is required"
	MsgPasswordRequired  = "Password is required"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateRollNumber checks that a roll number is exactly six ASCII digits
// after trimming surrounding whitespace, and returns the trimmed value.
func ValidateRollNumber(rollNumber string) (string, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if len(rollNumber) != RollNumberLength {
		return "", ValidationError{Field: "roll_number", Message: MsgInvalidRollNumber}
	}
	for i := 0; i < len(rollNumber); i++ {
		if rollNumber[i] < '0' || rollNumber[i] > '9' {
			return "", ValidationError{Field: "roll_number", Message: MsgInvalidRollNumber}
		}
	}
	return rollNumber, nil
}

// ValidateUpload checks the preconditions on a result document before it is
// sent anywhere. The type is checked before the size so each violation gets
// its own message.
func ValidateUpload(fileName, mimeType string, size int64) error {
	if fileName == "" && size == 0 {
		return ValidationError{Field: "file", Message: MsgNoFile}
	}
	if mimeType != PDFMimeType {
		return ValidationError{Field: "file", Message: MsgNotPDF}
	}
	if size > MaxUploadSize {
		return ValidationError{Field: "file", Message: MsgTooLarge}
	}
	return nil
}

// ValidateCredentials checks that both login fields were filled in
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ValidationError{Field: "username", Message: MsgUsernameRequired}
	}
	if password == "" {
		return ValidationError{Field: "password", Message: MsgPasswordRequired}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}
