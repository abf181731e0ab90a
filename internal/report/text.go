package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// TextReporter writes a human readable report.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colRed       = "\033[31m"
	colGreen     = "\033[32m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

const maxValueLen = 80

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, r *Report) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "OIS VALIDATION REPORT\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Reference:"), tr.cs(colWhite, r.ReferenceVersion))
	if !r.StartTime.IsZero() {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started:  "), tr.cs(colWhite, r.StartTime.Format("15:04:05")))
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration: "), tr.cs(colWhite, r.EndTime.Sub(r.StartTime).String()))
	}
	fmt.Fprintf(w, "%s\n", divider)

	for i := range r.Files {
		tr.writeFile(w, &r.Files[i])
	}

	passed, failed := r.Totals()
	fmt.Fprintf(w, "%s\n", divider)
	summaryLabel := tr.cs(colBoldWhite, "Validation summary: ")
	summaryStats := fmt.Sprintf("%d passed, %d failed", passed, failed)
	statsColor := colBoldGreen
	if failed > 0 {
		statsColor = colBoldRed
	}
	fmt.Fprintf(w, "%s%s\n", summaryLabel, tr.cs(statsColor, summaryStats))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}

func (tr *TextReporter) writeFile(w io.Writer, f *FileResult) {
	if f.Passed() {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGreen, "[PASS]"), tr.cs(colWhite, f.Path))
		if tr.Verbose && f.Result.Document != nil {
			fmt.Fprintf(w, "  %s %s\n", tr.cs(colGreen, "✓"),
				tr.cs(colGrey, fmt.Sprintf("%s %s (%d endpoints)",
					f.Result.Document.Title, f.Result.Document.Version, len(f.Result.Document.Endpoints))))
		}
		return
	}

	if f.Err != nil {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colRed, "[FAIL]"), tr.cs(colRed, f.Path))
		fmt.Fprintf(w, "  %s %v\n", tr.cs(colRed, "✗"), f.Err)
		return
	}

	issues := f.Result.Issues
	fmt.Fprintf(w, "%s %s %s\n", tr.cs(colRed, "[FAIL]"), tr.cs(colRed, f.Path),
		tr.cs(colRed, fmt.Sprintf("(%d issues)", len(issues))))
	for _, issue := range issues {
		location := issue.Path.String()
		if location == "" {
			location = "(root)"
		}
		fmt.Fprintf(w, "  %s %s: %s %s\n",
			tr.cs(colRed, "✗"),
			tr.cs(colGrey, location),
			issue.Message,
			tr.cs(colGrey, "("+string(issue.Code)+")"))

		if !tr.Verbose || len(issue.Path) == 0 {
			continue
		}
		if v := gjson.GetBytes(f.Data, issue.Path.GJSON()); v.Exists() {
			fmt.Fprintf(w, "    %s %s\n", tr.cs(colGrey, "value:"), truncate(compact(v.Raw)))
		}
	}
}

func compact(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// truncate shortens s to maxValueLen runes.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxValueLen {
		return s
	}
	return string([]rune(s)[:maxValueLen-3]) + "..."
}
