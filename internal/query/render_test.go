package query

import (
	"fmt"
	"strings"
	"testing"
)

func TestRenderSummaryGolden(t *testing.T) {
	tests := []struct {
		name string
		opts SummaryOptions
		want string
	}{
		{
			name: "zero results show hints and no preview",
			opts: SummaryOptions{
				Subject:     "task",
				FilterHints: []string{"Filter: @work & search: report"},
				ZeroHints:   []string{"Try broader search terms"},
			},
			want: "0 tasks found\nFilter: @work & search: report\nTry broader search terms",
		},
		{
			name: "single result uses singular subject",
			opts: SummaryOptions{
				Subject:      "project",
				Items:        []string{"[p1] Website redesign"},
				PreviewLimit: 10,
			},
			want: "1 project found\n[p1] Website redesign",
		},
		{
			name: "preview bounded with more trailer",
			opts: SummaryOptions{
				Subject:      "task",
				Items:        []string{"a", "b", "c", "d", "e"},
				PreviewLimit: 3,
			},
			want: "5 tasks found\na\nb\nc\n…and 2 more",
		},
		{
			name: "pagination hint carries the cursor verbatim",
			opts: SummaryOptions{
				Subject:      "task",
				Items:        []string{"a"},
				PreviewLimit: 10,
				NextCursor:   "opaque-cursor==",
			},
			want: "1 task found\na\nMore results available. Resubmit cursor \"opaque-cursor==\" to fetch the next page.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderSummary(tt.opts)
			if got != tt.want {
				t.Errorf("RenderSummary =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRenderSummaryPreviewTrailerCount(t *testing.T) {
	items := make([]string, 15)
	for i := range items {
		items[i] = fmt.Sprintf("task %d", i)
	}
	got := RenderSummary(SummaryOptions{Subject: "task", Items: items, PreviewLimit: 10})
	if !strings.HasSuffix(got, "…and 5 more") {
		t.Errorf("summary does not end with trailer: %q", got)
	}
	if strings.Contains(got, "task 10") {
		t.Errorf("summary leaks items past the preview limit: %q", got)
	}
}

func TestRenderSummaryDeterministic(t *testing.T) {
	opts := SummaryOptions{
		Subject:      "comment",
		Items:        []string{"x", "y"},
		FilterHints:  []string{"Task: 42"},
		PreviewLimit: 1,
		NextCursor:   "c1",
	}
	first := RenderSummary(opts)
	for i := 0; i < 3; i++ {
		if got := RenderSummary(opts); got != first {
			t.Fatalf("RenderSummary not deterministic: %q vs %q", got, first)
		}
	}
}
