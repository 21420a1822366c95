package compare

import (
	"fmt"
	"strings"
)

// statusHeadings names each status group in report output.
var statusHeadings = map[MatchStatus]string{
	StatusFail:                 "FAILURES",
	StatusMissingActual:        "MISSING FROM OUTPUT",
	StatusMissingExpected:      "MISSING FROM BASELINE",
	StatusNotImplemented:       "NOT IMPLEMENTED",
	StatusIntentionalDeviation: "INTENTIONAL DEVIATIONS",
	StatusTolerancePass:        "WITHIN TOLERANCE",
	StatusMatch:                "MATCHES",
}

// Summary renders counts and percentages by status. Output is
// deterministic for a given report.
func Summary(r *FullComparisonReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Comparison %s: %d parts, %d fields\n", r.ID, len(r.Parts), r.FieldCount())
	for _, s := range allStatuses {
		fmt.Fprintf(&b, "  %-22s %5d  (%.1f%%)\n", statusHeadings[s]+":", r.CountByStatus(s), r.PercentByStatus(s))
	}
	return b.String()
}

// Detailed renders a per-part breakdown grouped by status. Matches are
// omitted; groups appear worst first and empty groups are skipped.
func Detailed(r *FullComparisonReport) string {
	var b strings.Builder
	b.WriteString(Summary(r))

	for i := range r.Parts {
		part := &r.Parts[i]
		if part.OverallStatus() == StatusMatch {
			continue
		}
		fmt.Fprintf(&b, "\nPart %s [%s]\n", part.PartNumber, part.OverallStatus())
		for _, s := range reportOrder {
			fields := part.fieldsWithStatus(s)
			if len(fields) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s:\n", statusHeadings[s])
			for _, fc := range fields {
				writeFieldLine(&b, fc)
			}
		}
	}
	return b.String()
}

func writeFieldLine(b *strings.Builder, fc FieldComparison) {
	fmt.Fprintf(b, "    %s: expected %q, actual %q", fc.Field, fc.Expected, fc.Actual)
	if fc.Tolerance > 0 {
		fmt.Fprintf(b, " (tol %g)", fc.Tolerance)
	}
	if fc.Note != "" {
		fmt.Fprintf(b, " - %s", fc.Note)
	}
	b.WriteByte('\n')
}
