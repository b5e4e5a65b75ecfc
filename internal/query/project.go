package query

import "github.com/taskdeck/taskdeck-mcp/internal/models"

// InboxSentinel is the reserved project identifier that stands for the
// caller's default (inbox) project.
const InboxSentinel = "inbox"

// UserFetcher is the slice of the API client that project resolution needs.
type UserFetcher interface {
	GetUser() (*models.User, error)
}

// ProjectRef identifies a project either explicitly by id or through the
// inbox sentinel. The zero ref means "no project filter".
type ProjectRef struct {
	id    string
	inbox bool
}

// ExplicitProject builds a ref for a concrete project id.
func ExplicitProject(id string) ProjectRef { return ProjectRef{id: id} }

// InboxProject builds a ref for the caller's default project.
func InboxProject() ProjectRef { return ProjectRef{inbox: true} }

// ParseProjectRef maps a raw tool argument to a ProjectRef. The empty
// string yields the zero ref.
func ParseProjectRef(raw string) ProjectRef {
	if raw == InboxSentinel {
		return InboxProject()
	}
	return ProjectRef{id: raw}
}

// IsZero reports whether the ref carries no project at all.
func (r ProjectRef) IsZero() bool { return !r.inbox && r.id == "" }

// ProjectResolver resolves ProjectRefs to concrete project ids. The
// caller's profile is fetched at most once per resolver, no matter how many
// refs a batch operation resolves through it.
type ProjectResolver struct {
	users UserFetcher
	user  *models.User
}

// NewProjectResolver builds a resolver backed by the given profile source.
func NewProjectResolver(users UserFetcher) *ProjectResolver {
	return &ProjectResolver{users: users}
}

// Prime seeds the resolver with a profile that was already fetched for
// other reasons, so inbox resolution spends no extra remote call.
func (r *ProjectResolver) Prime(user *models.User) { r.user = user }

// Resolve returns the concrete project id for ref, or "" for the zero ref.
// Explicit ids pass through without an existence check; a bad id surfaces
// later as a remote not-found.
func (r *ProjectResolver) Resolve(ref ProjectRef) (string, error) {
	if ref.IsZero() {
		return "", nil
	}
	if !ref.inbox {
		return ref.id, nil
	}
	if r.user == nil {
		user, err := r.users.GetUser()
		if err != nil {
			return "", err
		}
		r.user = user
	}
	return r.user.InboxProjectID, nil
}
