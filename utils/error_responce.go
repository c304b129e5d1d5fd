package utils

// Stable machine-readable error codes returned alongside human messages.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeConflict          = "conflict"
	CodeInvalidTransition = "invalid_transition"
	CodeInvalidIdentity   = "invalid_identity"
	CodeUpstream          = "upstream_failure"
)

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
