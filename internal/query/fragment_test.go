package query

import (
	"testing"

	"github.com/taskdeck/taskdeck-mcp/internal/models"
)

func TestCompileLabelFilter(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		op     LabelOperator
		want   Fragment
	}{
		{
			name:   "empty set yields empty fragment",
			labels: nil,
			op:     LabelsAll,
			want:   "",
		},
		{
			name:   "empty set with or yields empty fragment",
			labels: []string{},
			op:     LabelsAny,
			want:   "",
		},
		{
			name:   "single label and",
			labels: []string{"urgent"},
			op:     LabelsAll,
			want:   "@urgent",
		},
		{
			name:   "single label or is not parenthesized",
			labels: []string{"urgent"},
			op:     LabelsAny,
			want:   "@urgent",
		},
		{
			name:   "multiple labels and",
			labels: []string{"urgent", "work"},
			op:     LabelsAll,
			want:   "@urgent&@work",
		},
		{
			name:   "multiple labels or is parenthesized",
			labels: []string{"urgent", "work", "home"},
			op:     LabelsAny,
			want:   "(@urgent,@work,@home)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompileLabelFilter(tt.labels, tt.op)
			if got != tt.want {
				t.Errorf("CompileLabelFilter(%v, %q) = %q, want %q", tt.labels, tt.op, got, tt.want)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		base     Fragment
		addition Fragment
		want     Fragment
	}{
		{name: "both empty", base: "", addition: "", want: ""},
		{name: "empty base is identity", base: "", addition: "@work", want: "@work"},
		{name: "empty addition is identity", base: "@work", addition: "", want: "@work"},
		{name: "both set joins with padded ampersand", base: "@work", addition: "search: report", want: "@work & search: report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.base, tt.addition); got != tt.want {
				t.Errorf("Compose(%q, %q) = %q, want %q", tt.base, tt.addition, got, tt.want)
			}
		})
	}
}

// Compose(a, b) must equal Compose(Compose(a, ""), b) for all fragments.
func TestComposeEmptyIdentityLaw(t *testing.T) {
	fragments := []Fragment{"", "@work", "(@a,@b)", "search: x"}
	for _, a := range fragments {
		for _, b := range fragments {
			direct := Compose(a, b)
			viaEmpty := Compose(Compose(a, ""), b)
			if direct != viaEmpty {
				t.Errorf("Compose(%q, %q) = %q but Compose(Compose(%q, \"\"), %q) = %q", a, b, direct, a, b, viaEmpty)
			}
		}
	}
}

func TestComposeAll(t *testing.T) {
	if got := ComposeAll(); got != "" {
		t.Errorf("ComposeAll() = %q, want empty", got)
	}
	if got := ComposeAll("", "", ""); got != "" {
		t.Errorf("ComposeAll of empties = %q, want empty", got)
	}
	got := ComposeAll("(@a,@b)", "", "assigned to: x@y.z", "search: budget")
	want := Fragment("(@a,@b) & assigned to: x@y.z & search: budget")
	if got != want {
		t.Errorf("ComposeAll = %q, want %q", got, want)
	}
}

func TestAssigneeFragment(t *testing.T) {
	if got := AssigneeFragment(nil); got != "" {
		t.Errorf("AssigneeFragment(nil) = %q, want empty", got)
	}
	withEmail := &models.Collaborator{ID: "7", Name: "John Doe", Email: "john@example.com"}
	if got := AssigneeFragment(withEmail); got != "assigned to: john@example.com" {
		t.Errorf("AssigneeFragment = %q", got)
	}
	noEmail := &models.Collaborator{ID: "8", Name: "Jane"}
	if got := AssigneeFragment(noEmail); got != "assigned to: Jane" {
		t.Errorf("AssigneeFragment without email = %q", got)
	}
}

func TestSearchFragment(t *testing.T) {
	if got := SearchFragment(""); got != "" {
		t.Errorf("SearchFragment(\"\") = %q, want empty", got)
	}
	if got := SearchFragment("quarterly report"); got != "search: quarterly report" {
		t.Errorf("SearchFragment = %q", got)
	}
}
