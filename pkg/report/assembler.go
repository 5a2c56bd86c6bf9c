package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/lburgazzoli/kube-triage/pkg/probe"
)

// Entry is a single probe result in the report, flattened for serialization.
type Entry struct {
	ID       string       `json:"id"                 yaml:"id"`
	Name     string       `json:"name"               yaml:"name"`
	Section  string       `json:"section"            yaml:"section"`
	Status   probe.Status `json:"status"             yaml:"status"`
	Reason   string       `json:"reason,omitempty"   yaml:"reason,omitempty"`
	Lines    []string     `json:"lines,omitempty"    yaml:"lines,omitempty"`
	Degraded bool         `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Skipped  bool         `json:"skipped,omitempty"  yaml:"skipped,omitempty"`
}

// Summary counts probe results per state.
type Summary struct {
	Success int `json:"success" yaml:"success"`
	Warning int `json:"warning" yaml:"warning"`
	Failure int `json:"failure" yaml:"failure"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Report is the assembled result of one triage run. Entries keep catalog
// order; the report itself is append-only once assembled.
type Report struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Entries   []Entry   `json:"entries"   yaml:"entries"`
	Summary   Summary   `json:"summary"   yaml:"summary"`

	sections []Section
}

// Section groups consecutive entries sharing a report section.
type Section struct {
	Title   string
	Entries []Entry
}

// Assemble builds a report from probe executions, preserving their order.
func Assemble(executions []probe.Execution) *Report {
	r := &Report{
		Timestamp: time.Now(),
		Entries:   make([]Entry, 0, len(executions)),
	}

	for _, execution := range executions {
		entry := Entry{
			ID:      execution.Probe.ID(),
			Name:    execution.Probe.Name(),
			Section: string(execution.Probe.Section()),
			Skipped: execution.Skipped,
		}

		if execution.Outcome != nil {
			entry.Status = execution.Outcome.Status
			entry.Reason = execution.Outcome.Reason
			entry.Lines = execution.Outcome.Lines
			entry.Degraded = execution.Outcome.Degraded
		}

		switch {
		case entry.Skipped:
			r.Summary.Skipped++
		case entry.Status == probe.StatusSuccess:
			r.Summary.Success++
		case entry.Status == probe.StatusWarning:
			r.Summary.Warning++
		case entry.Status == probe.StatusFailure:
			r.Summary.Failure++
		}

		r.Entries = append(r.Entries, entry)

		title := execution.Probe.Section().Title()
		if len(r.sections) == 0 || r.sections[len(r.sections)-1].Title != title {
			r.sections = append(r.sections, Section{Title: title})
		}

		last := len(r.sections) - 1
		r.sections[last].Entries = append(r.sections[last].Entries, entry)
	}

	return r
}

// Render writes the human-readable report. Tags are colorized only when
// requested, so saved reports stay plain text.
func (r *Report) Render(w io.Writer, colored bool) error {
	for _, section := range r.sections {
		if _, err := fmt.Fprintf(w, "=== %s ===\n", section.Title); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		for _, entry := range section.Entries {
			if err := renderEntry(w, entry, colored); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	_, err := fmt.Fprintf(w, "Summary: %d succeeded, %d warnings, %d failed, %d skipped\n",
		r.Summary.Success, r.Summary.Warning, r.Summary.Failure, r.Summary.Skipped)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

func renderEntry(w io.Writer, entry Entry, colored bool) error {
	summary := entry.Reason
	if summary == "" && len(entry.Lines) > 0 {
		summary = entry.Lines[0]
	}

	if _, err := fmt.Fprintf(w, "%s %s: %s\n", tag(entry, colored), entry.Name, summary); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	lines := entry.Lines
	if entry.Reason == "" && len(lines) > 0 {
		lines = lines[1:]
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "       %s\n", line); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	return nil
}

// tag renders the fixed-width status marker for an entry.
func tag(entry Entry, colored bool) string {
	var text string
	var paint *color.Color

	switch {
	case entry.Skipped:
		text = "[SKIP]"
		paint = color.New(color.FgCyan)
	case entry.Status == probe.StatusSuccess && entry.Degraded:
		text = "[ OK*]"
		paint = color.New(color.FgYellow)
	case entry.Status == probe.StatusSuccess:
		text = "[ OK ]"
		paint = color.New(color.FgGreen)
	case entry.Status == probe.StatusWarning:
		text = "[WARN]"
		paint = color.New(color.FgYellow)
	default:
		text = "[FAIL]"
		paint = color.New(color.FgRed)
	}

	if !colored {
		return text
	}

	return paint.Sprint(text)
}

// Save writes the plain-text rendition of the report into dir and returns the
// file path. The file name embeds the report timestamp.
func (r *Report) Save(dir string) (string, error) {
	name := fmt.Sprintf("cluster-triage-%s.txt", r.Timestamp.Format("20060102-150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}

	defer f.Close()

	if err := r.Render(f, false); err != nil {
		return "", err
	}

	return path, nil
}
