package services

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed is matched by every FetchError.
	ErrFetchFailed = errors.New("fetch failed")

	// Preset errors
	ErrPresetNameRequired = errors.New("preset name is required")
	ErrPresetNameTaken    = errors.New("a preset with this name already exists")
	ErrPresetNotFound     = errors.New("preset not found")

	// Export errors
	ErrExportInProgress        = errors.New("an export is already being generated")
	ErrInvalidExportTransition = errors.New("invalid export menu transition")
	ErrUnknownExportFormat     = errors.New("unknown export format")
)

// FetchError is returned when the row source cannot produce rows. The
// message is shown to the user as-is.
type FetchError struct {
	Organization string
	Message      string
	Err          error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for organization %q: %s", e.Organization, e.Message)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}
