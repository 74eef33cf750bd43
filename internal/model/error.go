package model

import "errors"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeHistoryNotFound    = "IMPORT_HISTORY_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountDisabled    = "ACCOUNT_DISABLED"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodePhoneTaken         = "PHONE_TAKEN"
	ErrCodeInvalidPhone       = "INVALID_PHONE"
	ErrCodeProtectedAccount   = "PROTECTED_ACCOUNT"
	ErrCodeUnsupportedFormat  = "UNSUPPORTED_FORMAT"
	ErrCodeEmptySheet         = "EMPTY_SHEET"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ErrorKind classifies a domain error for boundary translation.
type ErrorKind int

const (
	// KindUnknown marks errors that are not domain errors.
	KindUnknown ErrorKind = iota
	// KindNotFound covers entities that are absent or outside the caller's
	// scope; the two cases are deliberately indistinguishable.
	KindNotFound
	// KindValidation covers malformed input.
	KindValidation
	// KindPermissionDenied covers role-gated operations attempted by an
	// insufficient role.
	KindPermissionDenied
	// KindPipelineRejected covers whole-batch import rejection before any
	// row is persisted.
	KindPipelineRejected
)

// DomainError is a typed business error carried to the HTTP boundary.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFound creates a not-found domain error.
func NewNotFound(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewValidation creates a validation domain error.
func NewValidation(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewPermissionDenied creates a permission domain error.
func NewPermissionDenied(code, message string) *DomainError {
	return &DomainError{Kind: KindPermissionDenied, Code: code, Message: message}
}

// NewPipelineRejected creates a whole-batch import rejection error.
func NewPipelineRejected(code, message string) *DomainError {
	return &DomainError{Kind: KindPipelineRejected, Code: code, Message: message}
}

// KindOf extracts the domain error kind from err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Common domain errors
var (
	ErrProductNotFound    = NewNotFound(ErrCodeProductNotFound, "product not found")
	ErrUserNotFound       = NewNotFound(ErrCodeUserNotFound, "user not found")
	ErrHistoryNotFound    = NewNotFound(ErrCodeHistoryNotFound, "import record not found")
	ErrInvalidCredentials = NewValidation(ErrCodeInvalidCredentials, "incorrect username or password")
	ErrAccountDisabled    = NewPermissionDenied(ErrCodeAccountDisabled, "account is disabled, contact an administrator")
	ErrUsernameTaken      = NewValidation(ErrCodeUsernameTaken, "username already exists")
	ErrPhoneTaken         = NewValidation(ErrCodePhoneTaken, "phone number already in use")
	ErrInvalidPhone       = NewValidation(ErrCodeInvalidPhone, "invalid phone number format")
	ErrUnsupportedFormat  = NewPipelineRejected(ErrCodeUnsupportedFormat, "unsupported file format")
	ErrEmptySheet         = NewPipelineRejected(ErrCodeEmptySheet, "no parseable rows in file")
)
