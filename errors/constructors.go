package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SessionError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SessionError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// SessionsFileNotFound is returned when the sessions log does not exist.
func SessionsFileNotFound(path string) *SessionError {
	return New(ErrCodeSessionsFileNotFound, fmt.Sprintf("sessions file not found: %s", path)).
		WithDetail("path", path)
}

// ReadFailed wraps a failure to read the sessions log.
func ReadFailed(path string, err error) *SessionError {
	return Wrap(err, ErrCodeReadFailed, fmt.Sprintf("failed to read %s", path)).
		WithDetail("path", path)
}

// WriteFailed wraps a failure to write the sessions log.
func WriteFailed(path string, err error) *SessionError {
	return Wrap(err, ErrCodeWriteFailed, fmt.Sprintf("failed to write %s", path)).
		WithDetail("path", path)
}

// BackupFailed wraps a failure to create a backup copy.
func BackupFailed(path string, err error) *SessionError {
	return Wrap(err, ErrCodeBackupFailed, fmt.Sprintf("failed to back up %s", path)).
		WithDetail("path", path)
}

// MalformedTimestamp reports a timestamp that could not be parsed in strict mode.
func MalformedTimestamp(field, value, session string) *SessionError {
	return New(ErrCodeMalformedTimestamp,
		fmt.Sprintf("malformed %s timestamp %q", field, value)).
		WithDetail("field", field).
		WithDetail("value", value).
		WithDetail("session", session)
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *SessionError {
	return New(ErrCodeInvalidInput, reason)
}
