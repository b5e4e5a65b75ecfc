package query

import (
	"fmt"
	"strings"
)

// SummaryOptions describes one find result for rendering.
type SummaryOptions struct {
	Subject      string   // singular noun, e.g. "task"
	Items        []string // one preview line per matched item, already formatted
	FilterHints  []string // one line per applied facet, for traceability
	ZeroHints    []string // static suggestions shown when nothing matched
	PreviewLimit int      // max preview lines; <= 0 means no bound
	NextCursor   string   // forwarded verbatim into the pagination hint
}

// RenderSummary builds the canonical text summary: a count header, the
// applied-filter lines, then either zero-result hints or a bounded preview
// with an "…and N more" trailer, and a pagination hint when more data
// exists. Identical inputs always produce identical output.
func RenderSummary(opts SummaryOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s found", len(opts.Items), plural(opts.Subject, len(opts.Items)))
	for _, hint := range opts.FilterHints {
		b.WriteString("\n")
		b.WriteString(hint)
	}
	if len(opts.Items) == 0 {
		for _, hint := range opts.ZeroHints {
			b.WriteString("\n")
			b.WriteString(hint)
		}
	} else {
		limit := opts.PreviewLimit
		if limit <= 0 || limit > len(opts.Items) {
			limit = len(opts.Items)
		}
		for _, line := range opts.Items[:limit] {
			b.WriteString("\n")
			b.WriteString(line)
		}
		if rest := len(opts.Items) - limit; rest > 0 {
			fmt.Fprintf(&b, "\n…and %d more", rest)
		}
	}
	if opts.NextCursor != "" {
		fmt.Fprintf(&b, "\nMore results available. Resubmit cursor %q to fetch the next page.", opts.NextCursor)
	}
	return b.String()
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
