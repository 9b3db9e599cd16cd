// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Status string `json:"status"`
	Detail string `json:"message"`
}

func New(msg string) *APIError {
	return &APIError{Status: "error", Detail: msg}
}

// ValidationError wraps multiple field errors (422 responses).
type ValidationError struct {
	Status string            `json:"status"`
	Detail string            `json:"message"`
	Fields map[string]string `json:"errors"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Status: "error", Detail: "Error de validacion", Fields: fields}
}
