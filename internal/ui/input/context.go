package input

import (
	"tagrow/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
}

func (c *ModelContext) TagCount() int {
	return len(c.State.Tags)
}

func (c *ModelContext) SelectedCount() int {
	return len(c.State.Selected)
}

func (c *ModelContext) HasSelection() bool {
	return len(c.State.Selected) > 0
}

func (c *ModelContext) IsDisabled() bool {
	return c.State.Disabled
}

func (c *ModelContext) IsLoading() bool {
	return c.State.LoadingTags
}
