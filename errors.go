package fat16

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds returned by this package. Every exported operation either
// returns one of these sentinels directly or the result of wrapErr
// wrapping one of them around an underlying cause, so errors.Is(err,
// ErrXxx) works regardless of how many call frames wrapped it. The
// exception is io.EOF and io.ErrUnexpectedEOF, which wrapErr returns
// unwrapped.
var (
	// ErrBadArgument is returned when a required argument is missing or
	// nonsensical (nil device, empty name, zero-sized buffer, ...).
	ErrBadArgument = errors.New("fat16: bad argument")

	// ErrNotFound is returned when an image file, directory entry or
	// directory path does not exist.
	ErrNotFound = errors.New("fat16: not found")

	// ErrInvalidFormat is returned when the boot sector signature does
	// not match or the derived geometry is impossible.
	ErrInvalidFormat = errors.New("fat16: invalid format")

	// ErrIsDirectory is returned when a directory or volume-label entry
	// is opened as a file.
	ErrIsDirectory = errors.New("fat16: is a directory")

	// ErrOutOfRange is returned when a seek target falls outside
	// [0, size] or a requested sector lies outside the image.
	ErrOutOfRange = errors.New("fat16: out of range")

	// ErrCorrupt is returned when the FAT chain hits a bad-cluster
	// sentinel, a reserved/free entry mid-chain, or a cycle.
	ErrCorrupt = errors.New("fat16: corrupt filesystem")

	// ErrOutOfMemory is returned when an allocation for a chain or a
	// scratch buffer fails.
	ErrOutOfMemory = errors.New("fat16: out of memory")

	// ErrIoError is returned when the underlying block device fails
	// mid-stream.
	ErrIoError = errors.New("fat16: i/o error")
)

// wrapErr folds a lower-level cause into one of the kind sentinels above,
// keeping both matchable via errors.Is. io.EOF and io.ErrUnexpectedEOF
// pass through unwrapped, since callers compare against those directly
// (see https://github.com/golang/go/issues/39155 for why that matters).
// Returns nil if cause is nil.
func wrapErr(cause error, kind error) error {
	if cause == nil {
		return nil
	}
	if cause == io.EOF || cause == io.ErrUnexpectedEOF {
		return cause
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
