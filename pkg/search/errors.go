package search

import "errors"

// Sentinel errors for the search engine.
var (
	// ErrInvalidPath is returned when the index filepath does not end in ".json".
	ErrInvalidPath = errors.New("search: index filepath must have a .json suffix")

	// ErrMalformedIndex is returned when the persistence artifact fails to
	// parse or violates the schema.
	ErrMalformedIndex = errors.New("search: malformed index artifact")

	// ErrNoArchive is returned when document content is requested but no
	// archive store is configured.
	ErrNoArchive = errors.New("search: no document archive configured")
)
