package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tagrow/internal/ui/input/types"
)

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.Abort):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true

	case key.Matches(msg, m.keys.NewTag):
		// No point naming a tag while the catalogue is still replacing the list
		if ctx.IsLoading() {
			return nil, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNewTag}}, true

	case key.Matches(msg, m.keys.Clear):
		if !ctx.HasSelection() || ctx.IsDisabled() {
			return nil, true
		}
		return []types.Action{types.ClearSelectionAction{}}, true

	case key.Matches(msg, m.keys.Disable):
		return []types.Action{types.ToggleDisabledAction{}}, true

	case key.Matches(msg, m.keys.Reload):
		return []types.Action{types.ReloadAction{}}, true
	}

	// Everything else belongs to the tag row
	return []types.Action{types.RowKeyAction{Msg: msg}}, true
}
