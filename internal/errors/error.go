package errors

import "fmt"

// Category groups errors by the subsystem they come from.
type Category string

const (
	CategoryReactive Category = "reactive"
	CategorySession  Category = "session"
	CategoryProtocol Category = "protocol"
	CategoryUpload   Category = "upload"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// UnisonError is a structured error with a stable code, a suggestion,
// and a documentation link. The CLI renders these with Format; the
// server ships Code and Message to clients in error frames.
type UnisonError struct {
	// Code is a unique error identifier (e.g. "E001").
	Code string

	// Category names the originating subsystem.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL links to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

func (e *UnisonError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap supports errors.Is and errors.As.
func (e *UnisonError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation.
func (e *UnisonError) WithDetail(d string) *UnisonError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation.
func (e *UnisonError) WithDetailf(format string, args ...any) *UnisonError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *UnisonError) WithSuggestion(s string) *UnisonError {
	e.Suggestion = s
	return e
}

// Wrap records the underlying error.
func (e *UnisonError) Wrap(err error) *UnisonError {
	e.Wrapped = err
	return e
}

// New creates a UnisonError from a registered error code.
func New(code string) *UnisonError {
	template, ok := registry[code]
	if !ok {
		return &UnisonError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &UnisonError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates an uncoded UnisonError with a formatted message.
func Newf(category Category, format string, args ...any) *UnisonError {
	return &UnisonError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a plain error under the given code. A *UnisonError
// passes through unchanged.
func FromError(err error, code string) *UnisonError {
	if err == nil {
		return nil
	}
	if ue, ok := err.(*UnisonError); ok {
		return ue
	}
	return New(code).Wrap(err)
}
