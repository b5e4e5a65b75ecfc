// Package query implements the shared query, pagination and response layer
// behind every "find" style tool: filter composition, sentinel project and
// assignee resolution, date-window normalization, cursor pagination and the
// canonical text summary.
package query

import (
	"strings"

	"github.com/taskdeck/taskdeck-mcp/internal/models"
)

// Fragment is one facet of a filter expression. A fragment is either empty
// (contributes nothing) or a syntactically complete boolean sub-expression
// in the Taskdeck filter language. Fragments are combined, never parsed
// back apart.
type Fragment string

// LabelOperator selects how multiple labels combine in a label fragment.
type LabelOperator string

const (
	LabelsAll LabelOperator = "and"
	LabelsAny LabelOperator = "or"
)

// CompileLabelFilter renders a set of label names into a filter fragment.
// Labels become "@name" tokens joined with "&" (and) or "," (or). A
// multi-label OR group is parenthesized so its precedence survives later
// composition with other facets.
func CompileLabelFilter(labels []string, op LabelOperator) Fragment {
	if len(labels) == 0 {
		return ""
	}
	tokens := make([]string, len(labels))
	for i, label := range labels {
		tokens[i] = "@" + label
	}
	if op == LabelsAny {
		expr := strings.Join(tokens, ",")
		if len(tokens) > 1 {
			expr = "(" + expr + ")"
		}
		return Fragment(expr)
	}
	return Fragment(strings.Join(tokens, "&"))
}

// SearchFragment renders the free-text facet.
func SearchFragment(text string) Fragment {
	if text == "" {
		return ""
	}
	return Fragment("search: " + text)
}

// AssigneeFragment renders the facet matching tasks assigned to the given
// collaborator. A nil collaborator contributes nothing.
func AssigneeFragment(c *models.Collaborator) Fragment {
	if c == nil {
		return ""
	}
	if c.Email != "" {
		return Fragment("assigned to: " + c.Email)
	}
	return Fragment("assigned to: " + c.Name)
}

// Compose joins two fragments with a logical AND. Empty fragments are
// identity elements, so callers can chain facets without branching.
// Composition is order-preserving: the same fragments in the same order
// always yield the same string.
func Compose(base, addition Fragment) Fragment {
	if base == "" {
		return addition
	}
	if addition == "" {
		return base
	}
	return base + " & " + addition
}

// ComposeAll folds any number of fragments left to right. Composing zero
// non-empty fragments yields the empty Fragment, which callers translate to
// "no filter parameter at all" rather than an empty query string.
func ComposeAll(fragments ...Fragment) Fragment {
	var out Fragment
	for _, f := range fragments {
		out = Compose(out, f)
	}
	return out
}
