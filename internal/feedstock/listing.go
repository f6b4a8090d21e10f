package feedstock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/condatools/feedstocks/internal/common/conda"
	"github.com/condatools/feedstocks/internal/common/config"
	"github.com/condatools/feedstocks/internal/common/logger"
	"github.com/condatools/feedstocks/internal/common/output"
)

// Status classifies a configured package against its published feedstock
type Status int

const (
	// StatusUpToDate means the published version equals the pin
	StatusUpToDate Status = iota
	// StatusOutdated means the published version sorts before the pin
	StatusOutdated
	// StatusAhead means the published version sorts after the pin
	StatusAhead
	// StatusMissing means the feedstock is absent or could not be resolved
	StatusMissing
)

// String returns a human-readable status
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up to date"
	case StatusOutdated:
		return "outdated"
	case StatusAhead:
		return "ahead"
	case StatusMissing:
		return "not found"
	default:
		return "unknown"
	}
}

// VersionStatus is the per-package outcome of a listing run.
type VersionStatus struct {
	Name     string
	Expected string
	Current  string // empty when the feedstock is absent
	Status   Status
	Err      error // resolution failure behind a missing status, if any
}

// UpToDate reports whether the published version matches the pin exactly.
func (v VersionStatus) UpToDate() bool {
	return v.Status == StatusUpToDate
}

// Report contains a full listing run.
type Report struct {
	Statuses []VersionStatus

	UpToDateCount int
	OutdatedCount int
	AheadCount    int
	MissingCount  int
}

// List resolves the status of every entry, in input order, exactly one
// status per entry. A failed resolution degrades to a missing status
// carrying the error and never suppresses the remaining entries.
func List(src MetaSource, entries []config.Entry) *Report {
	report := &Report{Statuses: make([]VersionStatus, 0, len(entries))}

	for _, entry := range entries {
		status := resolveStatus(src, entry)

		switch status.Status {
		case StatusUpToDate:
			report.UpToDateCount++
		case StatusOutdated:
			report.OutdatedCount++
		case StatusAhead:
			report.AheadCount++
		case StatusMissing:
			report.MissingCount++
		}

		report.Statuses = append(report.Statuses, status)
	}

	return report
}

func resolveStatus(src MetaSource, entry config.Entry) VersionStatus {
	status := VersionStatus{Name: entry.Name, Expected: entry.ExpectedVersion}

	current, err := PublishedVersion(src, entry.Name)
	if err != nil {
		status.Status = StatusMissing
		status.Err = err
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("resolving %s: %v", entry.Name, err)
		}
		return status
	}

	status.Current = current
	switch {
	case current == entry.ExpectedVersion:
		status.Status = StatusUpToDate
	case conda.CompareVersions(current, entry.ExpectedVersion) > 0:
		status.Status = StatusAhead
	default:
		status.Status = StatusOutdated
	}
	return status
}

// FormatLine renders one listing line.
func FormatLine(v VersionStatus) string {
	name := output.FormatPackage(v.Name)
	switch v.Status {
	case StatusUpToDate:
		return fmt.Sprintf("%s: %s", name, output.Sprint(output.UpToDate, "up to date"))
	case StatusOutdated:
		return fmt.Sprintf("%s: %s", name,
			output.Sprintf(output.Outdated, "%s -> %s (outdated)", v.Current, v.Expected))
	case StatusAhead:
		return fmt.Sprintf("%s: %s", name,
			output.Sprintf(output.Ahead, "%s -> %s (ahead)", v.Current, v.Expected))
	default:
		return fmt.Sprintf("%s: %s", name, output.Sprint(output.Missing, "not found"))
	}
}

// FormatReport renders every line of the report.
func FormatReport(report *Report) string {
	var sb strings.Builder
	for _, status := range report.Statuses {
		sb.WriteString(FormatLine(status))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatTable renders the report as a table with a summary block.
func FormatTable(report *Report) string {
	if len(report.Statuses) == 0 {
		return output.Sprint(output.Dim, "No feedstocks configured.") + "\n"
	}

	var sb strings.Builder

	// Calculate column widths
	maxNameLen := 7     // "Package"
	maxExpectedLen := 8 // "Expected"
	maxCurrentLen := 9  // "Published"
	maxStatusLen := 10  // "Status"

	for _, s := range report.Statuses {
		if len(s.Name) > maxNameLen {
			maxNameLen = len(s.Name)
		}
		if len(s.Expected) > maxExpectedLen {
			maxExpectedLen = len(s.Expected)
		}
		if len(displayCurrent(s)) > maxCurrentLen {
			maxCurrentLen = len(displayCurrent(s))
		}
		if len(s.Status.String()) > maxStatusLen {
			maxStatusLen = len(s.Status.String())
		}
	}

	// Cap the name column for readability
	if maxNameLen > 30 {
		maxNameLen = 30
	}

	sb.WriteString(tableLine(maxNameLen, maxExpectedLen, maxCurrentLen, maxStatusLen, "top"))
	sb.WriteString(tableRow(maxNameLen, maxExpectedLen, maxCurrentLen, maxStatusLen,
		"Package", "Expected", "Published", "Status", true, nil))
	sb.WriteString(tableLine(maxNameLen, maxExpectedLen, maxCurrentLen, maxStatusLen, "mid"))

	for _, s := range report.Statuses {
		sb.WriteString(tableRow(maxNameLen, maxExpectedLen, maxCurrentLen, maxStatusLen,
			truncate(s.Name, maxNameLen), s.Expected, displayCurrent(s), s.Status.String(),
			false, statusColor(s.Status)))
	}

	sb.WriteString(tableLine(maxNameLen, maxExpectedLen, maxCurrentLen, maxStatusLen, "bottom"))

	// Summary
	sb.WriteString("\n")
	if report.UpToDateCount > 0 {
		sb.WriteString(fmt.Sprintf("Up-to-date: %s | ",
			output.Sprint(output.UpToDate, fmt.Sprintf("%d", report.UpToDateCount))))
	}
	if report.OutdatedCount > 0 {
		sb.WriteString(fmt.Sprintf("Outdated: %s | ",
			output.Sprint(output.Outdated, fmt.Sprintf("%d", report.OutdatedCount))))
	}
	if report.AheadCount > 0 {
		sb.WriteString(fmt.Sprintf("Ahead: %s | ",
			output.Sprint(output.Ahead, fmt.Sprintf("%d", report.AheadCount))))
	}
	if report.MissingCount > 0 {
		sb.WriteString(fmt.Sprintf("Missing: %s | ",
			output.Sprint(output.Missing, fmt.Sprintf("%d", report.MissingCount))))
	}
	sb.WriteString(fmt.Sprintf("Total: %d\n", len(report.Statuses)))

	return sb.String()
}

func displayCurrent(s VersionStatus) string {
	if s.Current == "" {
		return "-"
	}
	return s.Current
}

// statusColor returns the color for a Status
func statusColor(s Status) *color.Color {
	switch s {
	case StatusUpToDate:
		return output.UpToDate
	case StatusOutdated:
		return output.Outdated
	case StatusAhead:
		return output.Ahead
	case StatusMissing:
		return output.Missing
	default:
		return nil
	}
}

// tableLine creates a horizontal table line
func tableLine(nameW, expectedW, currentW, statusW int, position string) string {
	var left, mid, right, horiz string

	switch position {
	case "top":
		left, mid, right, horiz = "┌", "┬", "┐", "─"
	case "mid":
		left, mid, right, horiz = "├", "┼", "┤", "─"
	case "bottom":
		left, mid, right, horiz = "└", "┴", "┘", "─"
	}

	return fmt.Sprintf("%s%s%s%s%s%s%s%s%s\n",
		left, strings.Repeat(horiz, nameW+2),
		mid, strings.Repeat(horiz, expectedW+2),
		mid, strings.Repeat(horiz, currentW+2),
		mid, strings.Repeat(horiz, statusW+2), right)
}

// tableRow creates a table row, coloring the status cell
func tableRow(nameW, expectedW, currentW, statusW int, name, expected, current, status string, header bool, c *color.Color) string {
	if header {
		row := fmt.Sprintf("│ %-*s │ %-*s │ %-*s │ %-*s │\n",
			nameW, name, expectedW, expected, currentW, current, statusW, status)
		return output.Sprint(output.Header, row)
	}

	statusCell := fmt.Sprintf("%-*s", statusW, status)
	if c != nil {
		statusCell = output.Sprintf(c, "%-*s", statusW, status)
	}

	return fmt.Sprintf("│ %-*s │ %-*s │ %-*s │ %s │\n",
		nameW, name, expectedW, expected, currentW, current, statusCell)
}

// truncate shortens a string to maxLen with an ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-1] + "…"
}
