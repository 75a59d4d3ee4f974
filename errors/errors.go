package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Pipeline stages reported by AppError.Stage.
const (
	StageConfig    = "config"
	StageSource    = "source"
	StageTransform = "transform"
	StageSink      = "sink"
	StagePipeline  = "pipeline"
)

// AppError is the unified error type of the pipeline.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Stage names the pipeline stage that failed.
	Stage string `json:"stage,omitempty"`
	// Details contains additional context (path, line, value).
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
//
//	IO_ERROR [source]: cannot read input (path=/tmp/app.log) (cause: EOF)
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Stage != "" {
		b.WriteString(" [")
		b.WriteString(e.Stage)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(" (cause: ")
		b.WriteString(e.Cause.Error())
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithStage sets the failing stage and returns the receiver.
func (e *AppError) WithStage(stage string) *AppError {
	e.Stage = stage
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// IO creates an error for a failed file operation in the given stage.
func IO(stage, op, path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeIO, Message: fmt.Sprintf("cannot %s file", op),
		Stage: stage, Cause: cause,
		Details: map[string]any{"path": path},
	}
}

// Format creates an error for a value that does not match the expected layout.
func Format(field, value, layout string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeFormat, Message: fmt.Sprintf("%s %q does not match layout %q", field, value, layout),
		Cause: cause, Details: map[string]any{"field": field},
	}
}

// InvalidConfig creates an error for an invalid option.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid configuration: %s", reason),
		Stage: StageConfig, Details: details,
	}
}

// Validation creates an error for a failed options validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message, Stage: StageConfig}
}

// Cancelled creates an error for a run stopped by its context.
func Cancelled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Message: "run cancelled",
		Stage: StagePipeline, Cause: cause,
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "unexpected pipeline failure",
		Stage: StagePipeline, Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// StageOf returns the stage recorded on err, or "" when err is not an AppError.
func StageOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Stage
	}
	return ""
}

// Normalize turns any error into an AppError. Context errors become CANCELLED,
// unknown errors become INTERNAL_ERROR.
func Normalize(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return Cancelled(err)
	}
	return Internal(err)
}

// ExitCode returns the process exit code for err. A nil error maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return ExitCodeFor(Normalize(err).Code)
}
