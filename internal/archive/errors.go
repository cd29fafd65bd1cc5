package archive

import "errors"

// Bundle errors.
// Both are user-facing conditions rather than faults; callers turn them
// into a short notice.
var (
	// ErrDirectoryMissing is returned when the staging directory does not exist
	// or is not a directory.
	ErrDirectoryMissing = errors.New("staging directory is missing")

	// ErrNothingToBundle is returned when no file in the staging directory
	// can be bundled.
	ErrNothingToBundle = errors.New("nothing to bundle")
)

// SkippedFile records a file left out of an archive and why.
type SkippedFile struct {
	Name string
	Err  error
}
