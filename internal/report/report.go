// Package report renders the outcome of validating a set of OIS documents.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/api3dao/ois/internal/ois"
)

// Format is an output format for reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// SupportedFormats lists the names accepted by New.
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON)}
}

type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format '%s'. Supported formats are: %v", e.Format, SupportedFormats())
}

// FileResult is the outcome for one document. Err is set when the document could not be
// read or decoded, otherwise Result is set.
type FileResult struct {
	Path   string
	Data   []byte
	Result *ois.Result
	Err    error
}

// Passed reports whether the document was read and is valid.
func (f *FileResult) Passed() bool {
	return f.Err == nil && f.Result != nil && f.Result.Valid
}

type Report struct {
	StartTime        time.Time
	EndTime          time.Time
	ReferenceVersion string
	Files            []FileResult
}

// Totals counts passed and failed documents.
func (r *Report) Totals() (passed, failed int) {
	for i := range r.Files {
		if r.Files[i].Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Reporter writes a Report.
type Reporter interface {
	Write(w io.Writer, r *Report) error
}

func New(format Format, verbose, colour bool) (Reporter, error) {
	switch format {
	case FormatText:
		return &TextReporter{Verbose: verbose, UseColour: colour}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	}
	return nil, &UnknownFormatError{Format: string(format)}
}
