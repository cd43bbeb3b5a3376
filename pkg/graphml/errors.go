package graphml

import "errors"

// Errors surfaced by the GraphML serialization collaborator (spec
// section 7).
var (
	// ErrFileNotFound is returned when the path given to Load does not
	// exist. Other read failures are returned wrapped, not as this error.
	ErrFileNotFound = errors.New("graphml: file not found")

	// ErrUnsupportedFormat is returned when the path's extension does
	// not match the requested compression flag, or names neither
	// .graphml nor .graphmlz.
	ErrUnsupportedFormat = errors.New("graphml: unsupported file format")

	// ErrMalformedGraphML is returned when the document cannot be
	// parsed as GraphML, or whose root element is not graphml in the
	// declared namespace.
	ErrMalformedGraphML = errors.New("graphml: malformed document")
)
