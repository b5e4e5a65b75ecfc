package query

import (
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck-mcp/internal/models"
)

type fakeUserFetcher struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeUserFetcher) GetUser() (*models.User, error) {
	f.calls++
	return f.user, f.err
}

func TestResolveProjectRef(t *testing.T) {
	user := &models.User{ID: "u1", InboxProjectID: "inbox-42"}

	tests := []struct {
		name      string
		ref       ProjectRef
		want      string
		wantCalls int
	}{
		{name: "zero ref resolves to no filter", ref: ProjectRef{}, want: "", wantCalls: 0},
		{name: "explicit id passes through unchanged", ref: ParseProjectRef("123"), want: "123", wantCalls: 0},
		{name: "inbox sentinel resolves via profile", ref: ParseProjectRef("inbox"), want: "inbox-42", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeUserFetcher{user: user}
			resolver := NewProjectResolver(fetcher)
			got, err := resolver.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
			if fetcher.calls != tt.wantCalls {
				t.Errorf("profile fetches = %d, want %d", fetcher.calls, tt.wantCalls)
			}
		})
	}
}

// A batch of inbox resolutions through one resolver must fetch the profile
// at most once.
func TestResolverFetchesProfileOnce(t *testing.T) {
	fetcher := &fakeUserFetcher{user: &models.User{InboxProjectID: "inbox-42"}}
	resolver := NewProjectResolver(fetcher)
	for i := 0; i < 5; i++ {
		got, err := resolver.Resolve(InboxProject())
		if err != nil {
			t.Fatalf("Resolve #%d: %v", i, err)
		}
		if got != "inbox-42" {
			t.Fatalf("Resolve #%d = %q", i, got)
		}
	}
	if fetcher.calls != 1 {
		t.Errorf("profile fetches = %d, want 1", fetcher.calls)
	}
}

// A primed resolver never touches the remote profile endpoint.
func TestResolverPrimeAvoidsFetch(t *testing.T) {
	fetcher := &fakeUserFetcher{err: errors.New("should not be called")}
	resolver := NewProjectResolver(fetcher)
	resolver.Prime(&models.User{InboxProjectID: "inbox-7"})

	got, err := resolver.Resolve(InboxProject())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "inbox-7" {
		t.Errorf("Resolve = %q, want inbox-7", got)
	}
	if fetcher.calls != 0 {
		t.Errorf("profile fetches = %d, want 0", fetcher.calls)
	}
}

func TestResolverPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("upstream down")
	resolver := NewProjectResolver(&fakeUserFetcher{err: wantErr})
	if _, err := resolver.Resolve(InboxProject()); !errors.Is(err, wantErr) {
		t.Errorf("Resolve error = %v, want %v", err, wantErr)
	}
}
