package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/sessionlog/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Writer  io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Writer:  os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	w := h.Writer
	sessErr, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(w, "❌ Configuration not found: %v\n", sessErr.Details["path"])
		fmt.Fprintf(w, "Drop --config to use the defaults, or create sessionlog.yml.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(w, "❌ %s\n", sessErr.Message)
		if sessErr.Cause != nil {
			fmt.Fprintf(w, "%v\n", sessErr.Cause)
		}
		fmt.Fprintf(w, "Run 'sessionlog config schema' to see the accepted fields.\n")

	case errors.ErrCodeSessionsFileNotFound:
		fmt.Fprintf(w, "❌ Sessions file not found: %v\n", sessErr.Details["path"])

	case errors.ErrCodeMalformedTimestamp:
		fmt.Fprintf(w, "❌ Session %v has a malformed %v timestamp: %q\n",
			sessErr.Details["session"], sessErr.Details["field"], sessErr.Details["value"])
		fmt.Fprintf(w, "Fix the entry or re-run with --timestamps oldest.\n")

	case errors.ErrCodeBackupFailed:
		fmt.Fprintf(w, "❌ %s; the sessions file was not modified.\n", sessErr.Message)
		fmt.Fprintf(w, "Re-run with --no-backup to skip the backup.\n")

	case errors.ErrCodeInvalidInput:
		fmt.Fprintf(w, "❌ %s\n", sessErr.Message)

	default:
		fmt.Fprintf(w, "❌ Error: %v\n", err)
	}

	if h.Verbose && sessErr != nil {
		fmt.Fprintf(w, "\nError details:\n%s\n", sessErr.ToJSON())
	}
	return err
}
