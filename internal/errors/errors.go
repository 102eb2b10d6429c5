package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/tracker/internal/logger"
)

var (
	// ErrStorageRead is returned when persisted trackers or records cannot be loaded.
	ErrStorageRead = stderrors.New("storage read failed")
	// ErrStorageWrite is returned when a change cannot be persisted.
	ErrStorageWrite = stderrors.New("storage write failed")
	// ErrToggleRejected is returned when completion is toggled for a date after today.
	ErrToggleRejected = stderrors.New("cannot toggle completion for a future date")
	// ErrDecoding marks a single persisted row that could not be decoded.
	ErrDecoding = stderrors.New("malformed persisted row")

	ErrDuplicateCategory = stderrors.New("category already exists")
	ErrCategoryNotFound  = stderrors.New("category not found")
	ErrTrackerNotFound   = stderrors.New("tracker not found")
	ErrInvalidTracker    = stderrors.New("invalid tracker")
	ErrInvalidCategory   = stderrors.New("invalid category")
)

// Is and As re-export the standard helpers so callers need a single errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// Wrap annotates err with kind so that errors.Is(result, kind) holds.
func Wrap(kind error, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
