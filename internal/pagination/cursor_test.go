package pagination

import "testing"

type item struct {
	id     int
	cursor int
}

func itemCursor(it item) *int {
	c := it.cursor
	return &c
}

func TestCursorPage_NextCursor(t *testing.T) {
	page := NewCursorPage([]item{{1, 100}, {2, 90}, {3, 80}}, 3, itemCursor, false, true)

	got := page.NextCursor()
	if got == nil || *got != 80 {
		t.Errorf("NextCursor() = %v, want 80", got)
	}
}

func TestCursorPage_NextCursor_empty(t *testing.T) {
	page := NewCursorPage(nil, 3, itemCursor, true, false)

	if got := page.NextCursor(); got != nil {
		t.Errorf("NextCursor() = %v, want nil", got)
	}
}

func TestCursorPage_flags(t *testing.T) {
	page := NewCursorPage([]item{{1, 100}}, 5, itemCursor, true, false)

	if !page.HasPrevious {
		t.Error("HasPrevious = false, want true")
	}
	if page.HasNext {
		t.Error("HasNext = true, want false")
	}
	if page.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", page.PageSize)
	}
}
