package tablet

import (
	"errors"
	"fmt"
)

var (
	// ErrBrokenName is returned when a path has no base name to derive a
	// tablet name from.
	ErrBrokenName = errors.New("tablet has no valid name")

	// ErrInvalidRange is returned for ranges with a negative start or an end
	// before the start.
	ErrInvalidRange = errors.New("invalid line range")

	// ErrEmpty is returned for documents that contain no lines.
	ErrEmpty = errors.New("tablet has no lines")
)

// UnreadableError indicates the file behind a tablet could not be opened or read.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("tablet %s is unreadable: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}

// IsUnreadable checks if err came from reading a tablet's file.
func IsUnreadable(err error) bool {
	var unreadable *UnreadableError
	return errors.As(err, &unreadable)
}
