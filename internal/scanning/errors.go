package scanning

import "errors"

// Failure kinds for the capture pipeline. Callers branch on these with
// errors.Is; every error returned by this package wraps exactly one of them.
var (
	// ErrImageDecode means the source image could not be decoded.
	ErrImageDecode = errors.New("image decode failed")

	// ErrServiceFailure means the extraction service returned a transport
	// or non-success failure.
	ErrServiceFailure = errors.New("extraction service failure")

	// ErrEmptyResponse means the extraction service returned no text.
	ErrEmptyResponse = errors.New("empty extraction response")

	// ErrParseFailure means the extraction response was not valid JSON or
	// was missing required fields.
	ErrParseFailure = errors.New("extraction response parse failure")
)
