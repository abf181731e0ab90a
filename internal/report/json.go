package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/api3dao/ois/internal/ois"
)

// JSONReporter writes the report as an indented JSON document.
type JSONReporter struct{}

type jsonFile struct {
	Path   string      `json:"path"`
	Valid  bool        `json:"valid"`
	Issues []ois.Issue `json:"issues,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type jsonOutput struct {
	StartTime        string `json:"startTime,omitempty"`
	EndTime          string `json:"endTime,omitempty"`
	Duration         string `json:"duration,omitempty"`
	ReferenceVersion string `json:"referenceVersion"`
	Stats            struct {
		TotalPassed int `json:"totalPassed"`
		TotalFailed int `json:"totalFailed"`
	} `json:"stats"`
	Results []jsonFile `json:"results"`
}

func (jr *JSONReporter) Write(w io.Writer, r *Report) error {
	out := jsonOutput{
		ReferenceVersion: r.ReferenceVersion,
		Results:          make([]jsonFile, 0, len(r.Files)),
	}
	if !r.StartTime.IsZero() {
		out.StartTime = r.StartTime.Format(time.RFC3339)
		out.EndTime = r.EndTime.Format(time.RFC3339)
		out.Duration = r.EndTime.Sub(r.StartTime).String()
	}
	out.Stats.TotalPassed, out.Stats.TotalFailed = r.Totals()

	for i := range r.Files {
		f := &r.Files[i]
		jf := jsonFile{Path: f.Path, Valid: f.Passed()}
		switch {
		case f.Err != nil:
			jf.Error = f.Err.Error()
		case f.Result != nil:
			jf.Issues = f.Result.Issues
		}
		out.Results = append(out.Results, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
