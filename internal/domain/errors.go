package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeTooLarge         = "TOO_LARGE"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUnavailable      = "UNAVAILABLE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrMissingAppDescription = NewDomainError(ErrCodeValidation, "appDescription is required")
	ErrInvalidDocumentType   = NewDomainError(ErrCodeValidation, "invalid document type")
	ErrNoDocumentTypes       = NewDomainError(ErrCodeValidation, "at least one document type is required")
	ErrMissingMemberEmail    = NewDomainError(ErrCodeValidation, "memberEmail is required")
	ErrMissingQuery          = NewDomainError(ErrCodeValidation, "query is required")
)

// Upload moderation errors
var (
	ErrFileTypeNotAllowed = NewDomainError(ErrCodeValidation, "file type not allowed (pdf or markdown only)")
	ErrDangerousFileName  = NewDomainError(ErrCodeValidation, "file name contains forbidden characters or extension")
	ErrFileTooLarge       = NewDomainError(ErrCodeTooLarge, "file exceeds the upload size limit")
	ErrEmptyFile          = NewDomainError(ErrCodeValidation, "file is empty")
	ErrDuplicateUpload    = NewDomainError(ErrCodeAlreadyExists, "the same file was uploaded recently")
	ErrNoExtractableText  = NewDomainError(ErrCodeValidation, "no extractable text found in file")
)

// Not found errors. Deleting a document that is missing, owned by someone
// else, or flagged as default all report the same not-found error so the
// API does not reveal the existence of other members' documents.
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
	ErrMemberNotFound   = NewDomainError(ErrCodeNotFound, "member not found")
)

// ErrRateLimited is the 429 body for denied requests. Unavailable upstreams
// are reported as UNAVAILABLE-coded errors wrapping their cause instead of a
// shared sentinel.
var ErrRateLimited = NewDomainError(ErrCodeRateLimited, "too many requests")
