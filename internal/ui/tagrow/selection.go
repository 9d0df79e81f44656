package tagrow

import "slices"

// ToggleName returns a new selection with name removed if present (first
// occurrence only) or appended otherwise. The input slice is never modified.
func ToggleName(selected []string, name string) []string {
	idx := slices.Index(selected, name)
	if idx == -1 {
		next := make([]string, 0, len(selected)+1)
		next = append(next, selected...)
		return append(next, name)
	}

	next := make([]string, 0, len(selected)-1)
	next = append(next, selected[:idx]...)
	return append(next, selected[idx+1:]...)
}

// IsSelected is a membership test; position in the selection does not matter
func IsSelected(selected []string, name string) bool {
	return slices.Contains(selected, name)
}
