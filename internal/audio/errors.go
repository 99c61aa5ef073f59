package audio

import "errors"

// Error kinds surfaced by the loader and writer. Callers match with
// errors.Is to distinguish "this format will never work" from "this
// specific file is broken". None of these are retried internally.
var (
	// ErrUnsupportedFormat marks a recognized-but-unimplemented or
	// unrecognized container/encoding
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrDecode marks malformed contents inside a supported container
	ErrDecode = errors.New("malformed audio data")

	// ErrIO marks a file read/write failure
	ErrIO = errors.New("audio file io failure")
)
