package align

import (
	"fmt"
	"strings"
)

// FileProcessResult is the per-file outcome of an import. It is reporting
// data only and is never persisted.
type FileProcessResult struct {
	Filename      string `json:"filename"`
	Success       bool   `json:"success"`
	Matched       int    `json:"matched"`
	Expected      int    `json:"expected"`
	FoundSegments int    `json:"found_segments"`
	ChapterRange  string `json:"chapter_range,omitempty"`
	ChapterCount  int    `json:"chapter_count,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// ResultClass buckets a result for the aggregate report.
type ResultClass string

const (
	ClassSuccess ResultClass = "success"
	ClassWarning ResultClass = "warning"
	ClassError   ResultClass = "error"
)

// Class reports the result's bucket. A file where some lines received audio
// but coverage was incomplete is a warning, not an error: the user needs to
// know the import is usable but not fully covered.
func (r FileProcessResult) Class() ResultClass {
	switch {
	case r.Success:
		return ClassSuccess
	case r.Matched > 0:
		return ClassWarning
	default:
		return ClassError
	}
}

// Summarize renders a batch's results into the human-readable report shown
// after an import run.
func Summarize(results []FileProcessResult) string {
	var successes, warnings, errors int
	totalMatched := 0
	for _, r := range results {
		totalMatched += r.Matched
		switch r.Class() {
		case ClassSuccess:
			successes++
		case ClassWarning:
			warnings++
		case ClassError:
			errors++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d file(s): %d succeeded, %d with warnings, %d failed. %d line(s) received audio.",
		len(results), successes, warnings, errors, totalMatched)

	for _, r := range results {
		switch r.Class() {
		case ClassSuccess:
			continue
		case ClassWarning:
			fmt.Fprintf(&b, "\n[warning] %s: matched %d of %d line(s) with %d marker(s)",
				r.Filename, r.Matched, r.Expected, r.FoundSegments)
			if r.ErrorMessage != "" {
				fmt.Fprintf(&b, ": %s", r.ErrorMessage)
			}
		case ClassError:
			fmt.Fprintf(&b, "\n[failed] %s: %s", r.Filename, r.ErrorMessage)
			if r.Expected > 0 {
				fmt.Fprintf(&b, " (%d line(s) expected)", r.Expected)
			}
		}
		if r.ChapterRange != "" {
			fmt.Fprintf(&b, " [chapters %s]", r.ChapterRange)
		}
	}
	return b.String()
}
