package handlers

const (
	ErrInvalidFormData       = "Invalid form data"
	ErrUnauthorized          = "Unauthorized"
	ErrInvalidCSRFToken      = "Invalid or missing CSRF token"
	ErrTooManyRequests       = "Too many requests. Please try again later."
	ErrInternalServerErrorUC = "Internal Server Error"

	// multipart framing allowed on top of the largest accepted document
	uploadFormOverhead int64 = 1 << 20
	uploadMemory       int64 = 8 << 20
	// enough of the body to hold the form fields and the file part header
	uploadHeadSize = 64 << 10
)

// Exams and Regulations fill the search form selects
var (
	Exams       = []string{"Diploma In Engineering"}
	Regulations = []string{"2022", "2016", "2010"}
)
