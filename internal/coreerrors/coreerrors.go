// Package coreerrors collects the sentinel error kinds from spec §7, in
// the teacher's error.go convention of one grouped var block of
// errors.New values that callers compare with errors.Is.
package coreerrors

import "errors"

var (
	ErrIoError             = errors.New("io error")
	ErrCloudPlaceholder    = errors.New("cannot hash a cloud placeholder")
	ErrCacheUnavailable    = errors.New("hash cache unavailable, falling back to memory")
	ErrCancelled           = errors.New("scan cancelled")
	ErrScanInProgress      = errors.New("a scan is already in progress")
	ErrMoveConflict        = errors.New("destination exists and name resolution was exhausted")
	ErrInvalidName         = errors.New("invalid file name")
	ErrNotFound            = errors.New("file not found")
	ErrCouldNotResolvePath = errors.New("could not resolve path")
)
