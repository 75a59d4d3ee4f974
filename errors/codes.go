package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// I/O errors (always fatal)
const (
	// ErrCodeIO indicates a file could not be opened, read, written or closed.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

// Record errors
const (
	// ErrCodeFormat indicates a field did not match its expected format.
	ErrCodeFormat ErrorCode = "FORMAT_ERROR"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates the run options are invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Lifecycle errors
const (
	// ErrCodeCancelled indicates the run was cancelled by its context.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Exit codes used by the command line surface.
const (
	ExitOK     = 0
	ExitFatal  = 1
	ExitConfig = 2
)

var exitCodes = map[ErrorCode]int{
	ErrCodeIO:            ExitFatal,
	ErrCodeFormat:        ExitFatal,
	ErrCodeCancelled:     ExitFatal,
	ErrCodeInternal:      ExitFatal,
	ErrCodeInvalidConfig: ExitConfig,
}

// ExitCodeFor returns the process exit code for an error code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitFatal
}
