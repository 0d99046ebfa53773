// Package pagination provides a generic cursor-based page abstraction.
// Ordering and cursor comparison belong to the caller; this package only
// carries page contents, the has-next/has-previous flags, and cursor
// extraction.
package pagination

// CursorPageRequest asks for one page of results. A nil Cursor means "from
// the most recent".
type CursorPageRequest[C any] struct {
	Cursor   *C
	PageSize int
}

// CursorPage is one page of results plus navigation flags.
type CursorPage[T, C any] struct {
	Content     []T
	PageSize    int
	HasPrevious bool
	HasNext     bool

	toCursor func(T) *C
}

// NewCursorPage builds a page. toCursor extracts the cursor value from an
// item; it is used to derive the cursor of the last retained item.
func NewCursorPage[T, C any](content []T, pageSize int, toCursor func(T) *C, hasPrevious, hasNext bool) CursorPage[T, C] {
	return CursorPage[T, C]{
		Content:     content,
		PageSize:    pageSize,
		HasPrevious: hasPrevious,
		HasNext:     hasNext,
		toCursor:    toCursor,
	}
}

// NextCursor returns the cursor delimiting the next page: the cursor of the
// last item on this page, or nil for an empty page.
func (p CursorPage[T, C]) NextCursor() *C {
	if len(p.Content) == 0 || p.toCursor == nil {
		return nil
	}
	return p.toCursor(p.Content[len(p.Content)-1])
}
