package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"tagrow/internal/ui/input/types"
)

// NewTagMode reads the name of a tag to add
type NewTagMode struct {
	TextInputMode
}

func NewNewTagMode(ti *textinput.Model) *NewTagMode {
	return &NewTagMode{
		TextInputMode: NewTextInputMode(types.ModeNewTag, "new tag", "New tag: ", ti),
	}
}
