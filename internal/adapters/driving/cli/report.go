package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/custodia-labs/tallybridge/internal/core/domain"
)

// printReport writes the operator summary of a run to w.
func printReport(w io.Writer, report *domain.RunReport) {
	if report == nil {
		return
	}
	st := newReportStyles(w)

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s%s\n", st.Label.Render(label), value)
	}
	count := func(n int) string {
		return st.Value.Render(fmt.Sprintf("%d", n))
	}
	warnCount := func(n int) string {
		if n == 0 {
			return count(n)
		}
		return st.Warning.Render(fmt.Sprintf("%d", n))
	}

	fmt.Fprintln(w)
	title := "Run summary"
	if report.RunID != "" {
		title += " " + st.Muted.Render(report.RunID)
	}
	fmt.Fprintln(w, st.Title.Render(title))

	crosswalk := count(report.CrosswalkEntries)
	if report.CrosswalkDuplicates > 0 {
		crosswalk += " " + st.Warning.Render(fmt.Sprintf("(%d duplicate)", report.CrosswalkDuplicates))
	}
	row("Crosswalk entries", crosswalk)
	row("Scanned documents", count(report.Scanned))
	row("Emitted records", count(report.Emitted))
	row("Unmapped", warnCount(report.Unmapped))
	row("Failed extraction", warnCount(report.Failed))
	row("Canonical collisions", warnCount(report.Collisions))
	row("Office A total", st.Value.Render(fmt.Sprintf("%d", report.TotalOfficeA)))
	row("Office B total", st.Value.Render(fmt.Sprintf("%d", report.TotalOfficeB)))
	row("Verification", verificationText(st, report))

	if report.OutputPath != "" {
		row("Artifact", report.OutputPath)
	} else {
		row("Artifact", st.Muted.Render("not written"))
	}

	if summary := issueSummary(report.Issues); summary != "" {
		row("Issues", st.Muted.Render(summary))
	}
}

func verificationText(st reportStyles, report *domain.RunReport) string {
	v := report.Verification
	if !v.Consistent {
		return st.Error.Render("INCONSISTENT")
	}
	if !v.Checked {
		return st.Muted.Render("no expected totals")
	}
	if v.Matches {
		return st.Success.Render("matches expected totals")
	}

	var diffs []string
	if v.ExpectedOfficeA > 0 && v.ExpectedOfficeA != report.TotalOfficeA {
		diffs = append(diffs, fmt.Sprintf("office A expected %d", v.ExpectedOfficeA))
	}
	if v.ExpectedOfficeB > 0 && v.ExpectedOfficeB != report.TotalOfficeB {
		diffs = append(diffs, fmt.Sprintf("office B expected %d", v.ExpectedOfficeB))
	}
	return st.Error.Render("MISMATCH (" + strings.Join(diffs, ", ") + ")")
}

// issueSummary counts issues per kind, e.g. "1 extraction_failed, 2 unmapped".
func issueSummary(issues []domain.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	counts := make(map[domain.IssueKind]int)
	for _, issue := range issues {
		counts[issue.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[domain.IssueKind(kind)], kind))
	}
	return strings.Join(parts, ", ")
}
