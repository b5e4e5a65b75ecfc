package query

import (
	"errors"
	"fmt"
	"testing"
)

// pagedFixture simulates a remote endpoint serving fixed-size pages of
// sequential ints chained by synthetic cursors.
func pagedFixture(sizes []int) PageFunc[int] {
	return func(cursor string) (Page[int], error) {
		index := 0
		if cursor != "" {
			if _, err := fmt.Sscanf(cursor, "page-%d", &index); err != nil {
				return Page[int]{}, fmt.Errorf("bad cursor %q", cursor)
			}
		}
		if index >= len(sizes) {
			return Page[int]{}, fmt.Errorf("cursor %q past end", cursor)
		}
		start := 0
		for _, s := range sizes[:index] {
			start += s
		}
		items := make([]int, sizes[index])
		for i := range items {
			items[i] = start + i
		}
		next := ""
		if index+1 < len(sizes) {
			next = fmt.Sprintf("page-%d", index+1)
		}
		return Page[int]{Items: items, NextCursor: next}, nil
	}
}

func TestPaginateSinglePage(t *testing.T) {
	fetch := pagedFixture([]int{50, 50, 20})

	page, err := Paginate(fetch, PageOptions{})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(page.Items) != 50 {
		t.Errorf("first page has %d items, want 50", len(page.Items))
	}
	if page.NextCursor != "page-1" {
		t.Errorf("NextCursor = %q, want server-reported cursor forwarded unchanged", page.NextCursor)
	}

	page, err = Paginate(fetch, PageOptions{Cursor: "page-2"})
	if err != nil {
		t.Fatalf("Paginate at cursor: %v", err)
	}
	if len(page.Items) != 20 {
		t.Errorf("last page has %d items, want 20", len(page.Items))
	}
	if page.NextCursor != "" {
		t.Errorf("NextCursor = %q, want empty on last page", page.NextCursor)
	}
}

func TestPaginateExhaustive(t *testing.T) {
	page, err := Paginate(pagedFixture([]int{50, 50, 20}), PageOptions{Exhaustive: true})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(page.Items) != 120 {
		t.Fatalf("exhaustive walk returned %d items, want 120", len(page.Items))
	}
	for i, v := range page.Items {
		if v != i {
			t.Fatalf("item %d = %d, concatenation out of order", i, v)
		}
	}
	if page.NextCursor != "" {
		t.Errorf("exhaustive result exposes cursor %q, want none", page.NextCursor)
	}
}

func TestPaginateExhaustiveSinglePageChain(t *testing.T) {
	page, err := Paginate(pagedFixture([]int{3}), PageOptions{Exhaustive: true})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(page.Items) != 3 || page.NextCursor != "" {
		t.Errorf("got %d items, cursor %q", len(page.Items), page.NextCursor)
	}
}

// A failure mid-chain aborts the walk with no partial concatenation.
func TestPaginateExhaustiveAllOrNothing(t *testing.T) {
	wantErr := errors.New("remote failure")
	calls := 0
	fetch := func(cursor string) (Page[int], error) {
		calls++
		if calls == 2 {
			return Page[int]{}, wantErr
		}
		return Page[int]{Items: []int{1, 2}, NextCursor: "more"}, nil
	}

	page, err := Paginate(fetch, PageOptions{Exhaustive: true})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Paginate error = %v, want %v", err, wantErr)
	}
	if len(page.Items) != 0 {
		t.Errorf("failed walk returned %d items, want none", len(page.Items))
	}
}

func TestPaginateForwardsFetchError(t *testing.T) {
	wantErr := errors.New("boom")
	_, err := Paginate(func(string) (Page[int], error) { return Page[int]{}, wantErr }, PageOptions{})
	if !errors.Is(err, wantErr) {
		t.Errorf("Paginate error = %v, want %v", err, wantErr)
	}
}
