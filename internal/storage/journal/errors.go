package journal

import "errors"

var (
	// Configuration errors
	ErrInvalidDriver          = errors.New("invalid journal driver")
	ErrMissingDSN             = errors.New("journal dsn is required")
	ErrInvalidMaxOpenConns    = errors.New("max open connections must be >= 0")
	ErrInvalidMaxIdleConns    = errors.New("max idle connections must be >= 0")
	ErrMaxIdleExceedsMaxOpen  = errors.New("max idle connections cannot exceed max open connections")
	ErrInvalidTimeout         = errors.New("timeout must be positive")
	ErrInvalidConnMaxLifetime = errors.New("connection max lifetime must be >= 0")

	// ErrClosed is returned by every call after Close
	ErrClosed = errors.New("journal is closed")

	// ErrEntryNotFound is returned when no entry has the requested id
	ErrEntryNotFound = errors.New("journal entry not found")
)
