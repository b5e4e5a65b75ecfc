package query

import (
	"strings"

	"github.com/taskdeck/taskdeck-mcp/internal/models"
)

// CollaboratorLister is the slice of the API client that assignee
// resolution needs.
type CollaboratorLister interface {
	ListCollaborators(projectID string) ([]models.Collaborator, error)
}

// ResolveAssignee maps a human-supplied identifier (raw id, email, or
// display name) to a collaborator on the given project. Match order is
// exact id, then case-insensitive email, then case-insensitive name; the
// first match wins. An empty identifier resolves to nil (no assignee
// filter); an unmatched one fails with a NotFoundError naming it.
func ResolveAssignee(client CollaboratorLister, projectID, identifier string) (*models.Collaborator, error) {
	if identifier == "" {
		return nil, nil
	}
	collaborators, err := client.ListCollaborators(projectID)
	if err != nil {
		return nil, err
	}
	for i := range collaborators {
		if collaborators[i].ID == identifier {
			return &collaborators[i], nil
		}
	}
	for i := range collaborators {
		if strings.EqualFold(collaborators[i].Email, identifier) {
			return &collaborators[i], nil
		}
	}
	for i := range collaborators {
		if strings.EqualFold(collaborators[i].Name, identifier) {
			return &collaborators[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "collaborator", Name: identifier}
}
