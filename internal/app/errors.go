package app

import (
	"fmt"
	"strings"
)

// ValidationFailedError is returned when at least one document is invalid.
type ValidationFailedError struct {
	Failed int
	Total  int
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%d of %d documents failed validation", e.Failed, e.Total)
}

// NoDocumentsError is returned when the given paths contain no documents.
type NoDocumentsError struct {
	Paths []string
}

func (e *NoDocumentsError) Error() string {
	return fmt.Sprintf("no OIS documents found in: %s", strings.Join(e.Paths, ", "))
}

type NoPathsError struct{}

func (e *NoPathsError) Error() string {
	return "no paths given. Pass one or more OIS documents or directories to validate"
}
