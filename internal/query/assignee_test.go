package query

import (
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck-mcp/internal/models"
)

type fakeCollaboratorLister struct {
	collaborators []models.Collaborator
	err           error
}

func (f *fakeCollaboratorLister) ListCollaborators(projectID string) ([]models.Collaborator, error) {
	return f.collaborators, f.err
}

func TestResolveAssignee(t *testing.T) {
	lister := &fakeCollaboratorLister{collaborators: []models.Collaborator{
		{ID: "10", Name: "John Doe", Email: "john@example.com"},
		{ID: "11", Name: "jane roe", Email: "jane@example.com"},
		{ID: "john@example.com", Name: "Impostor", Email: "other@example.com"},
	}}

	tests := []struct {
		name       string
		identifier string
		wantID     string
	}{
		{name: "exact id wins over email", identifier: "john@example.com", wantID: "john@example.com"},
		{name: "id match", identifier: "10", wantID: "10"},
		{name: "case-insensitive email", identifier: "JOHN@EXAMPLE.COM", wantID: "10"},
		{name: "case-insensitive display name", identifier: "Jane Roe", wantID: "11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAssignee(lister, "p1", tt.identifier)
			if err != nil {
				t.Fatalf("ResolveAssignee: %v", err)
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("ResolveAssignee(%q) = %+v, want id %q", tt.identifier, got, tt.wantID)
			}
		})
	}
}

func TestResolveAssigneeEmptyIdentifier(t *testing.T) {
	got, err := ResolveAssignee(&fakeCollaboratorLister{}, "p1", "")
	if err != nil {
		t.Fatalf("ResolveAssignee: %v", err)
	}
	if got != nil {
		t.Errorf("ResolveAssignee(\"\") = %+v, want nil", got)
	}
}

func TestResolveAssigneeNotFound(t *testing.T) {
	lister := &fakeCollaboratorLister{collaborators: []models.Collaborator{
		{ID: "10", Name: "John", Email: "john@example.com"},
	}}
	_, err := ResolveAssignee(lister, "p1", "nobody@example.com")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ResolveAssignee error = %v, want NotFoundError", err)
	}
	if notFound.Name != "nobody@example.com" {
		t.Errorf("NotFoundError names %q, want the unmatched identifier", notFound.Name)
	}
}

func TestResolveAssigneePropagatesListError(t *testing.T) {
	wantErr := errors.New("remote failure")
	_, err := ResolveAssignee(&fakeCollaboratorLister{err: wantErr}, "p1", "john")
	if !errors.Is(err, wantErr) {
		t.Errorf("ResolveAssignee error = %v, want %v", err, wantErr)
	}
}
