package query

// Page is one page of results from a cursor-paginated endpoint. NextCursor
// is empty exactly when no further page exists.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// PageFunc fetches one page at the given cursor; the empty cursor means the
// first page. The page size is fixed by the closure, not by the adapter.
type PageFunc[T any] func(cursor string) (Page[T], error)

// PageOptions selects the pagination mode for one fetch.
type PageOptions struct {
	// Exhaustive walks the whole cursor chain and concatenates every page.
	// Callers enable it when a free-text match filter is active, because a
	// match may sit on any page and a single page would silently hide it.
	Exhaustive bool
	// Cursor is the caller-supplied resume point. Ignored in exhaustive
	// mode, which always starts from the first page.
	Cursor string
}

// Paginate drives a cursor-paginated fetch. In the default mode it fetches
// exactly one page at opts.Cursor and returns the server's result, next
// cursor included, unchanged. In exhaustive mode it fetches pages strictly
// in cursor-chain order until the chain ends and returns one concatenated,
// cursorless page. Any fetch failure aborts the whole operation; an
// exhaustive walk never returns a partial concatenation.
func Paginate[T any](fetch PageFunc[T], opts PageOptions) (Page[T], error) {
	if !opts.Exhaustive {
		return fetch(opts.Cursor)
	}
	var all []T
	cursor := ""
	for {
		page, err := fetch(cursor)
		if err != nil {
			return Page[T]{}, err
		}
		all = append(all, page.Items...)
		if page.NextCursor == "" {
			return Page[T]{Items: all}, nil
		}
		cursor = page.NextCursor
	}
}
