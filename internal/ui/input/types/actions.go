package types

import tea "github.com/charmbracelet/bubbletea"

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Tag row actions

// RowKeyAction hands a key the mode did not claim to the tag row
type RowKeyAction struct {
	Msg tea.KeyMsg
}

func (a RowKeyAction) Type() string { return "row_key" }

type ClearSelectionAction struct{}

func (a ClearSelectionAction) Type() string { return "clear_selection" }

type ToggleDisabledAction struct{}

func (a ToggleDisabledAction) Type() string { return "toggle_disabled" }

type ReloadAction struct{}

func (a ReloadAction) Type() string { return "reload" }

// UI actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

// QuitAction ends the program. Force means the user aborted and the
// selection should not be reported.
type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
