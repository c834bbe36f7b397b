package console

import "strings"

// ListView holds one page's loaded collection and its filtered
// projection. The filter is a case-insensitive substring match over the
// configured display fields, recomputed from the full collection on
// every query change; clearing the query restores the full sequence.
type ListView[T any] struct {
	id     func(T) string
	fields []func(T) string

	items    []T
	filtered []T
	query    string
}

// NewListView builds a view keyed by id with the given searchable
// display fields.
func NewListView[T any](id func(T) string, fields ...func(T) string) *ListView[T] {
	return &ListView[T]{id: id, fields: fields}
}

// Load replaces the collection and reapplies the current query.
func (v *ListView[T]) Load(items []T) {
	v.items = items
	v.applyFilter()
}

// Search sets the filter query. An empty or blank query restores the
// full sequence.
func (v *ListView[T]) Search(query string) {
	v.query = strings.TrimSpace(query)
	v.applyFilter()
}

// Clear drops the filter query and restores the full sequence.
func (v *ListView[T]) Clear() {
	v.Search("")
}

// Items returns the currently visible rows.
func (v *ListView[T]) Items() []T {
	return v.filtered
}

// Len returns the count of currently visible rows.
func (v *ListView[T]) Len() int {
	return len(v.filtered)
}

// Query returns the active filter query.
func (v *ListView[T]) Query() string {
	return v.query
}

// Remove drops the row with the given id from both the full collection
// and the visible projection, reporting whether it was present. Used
// after a confirmed remote delete so no reload is needed.
func (v *ListView[T]) Remove(id string) bool {
	found := false
	kept := v.items[:0]
	for _, item := range v.items {
		if v.id(item) == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	v.items = kept
	if found {
		v.applyFilter()
	}
	return found
}

func (v *ListView[T]) applyFilter() {
	if v.query == "" {
		v.filtered = v.items
		return
	}
	needle := strings.ToLower(v.query)
	filtered := make([]T, 0, len(v.items))
	for _, item := range v.items {
		for _, field := range v.fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	v.filtered = filtered
}
