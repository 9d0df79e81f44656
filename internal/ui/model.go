package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tagrow/internal/catalog"
	"tagrow/internal/config"
	"tagrow/internal/eventbus"
	"tagrow/internal/ui/input"
	inputtypes "tagrow/internal/ui/input/types"
	"tagrow/internal/ui/state"
	"tagrow/internal/ui/tagrow"
	"tagrow/internal/ui/views"
)

// statusTimeout is how long success messages stay on screen
const statusTimeout = 3 * time.Second

// Model is the tag picker: it owns the tags and the selection and lends
// both to the tag row
type Model struct {
	bus   eventbus.EventBus
	state *state.AppState // centralized state

	// UI-specific state not in AppState
	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	inPagerMode bool // tracks if we're currently in pager mode
	aborted     bool

	row          tagrow.Model
	renderer     *views.Renderer
	inputHandler *input.Handler
	helpRenderer *HelpRenderer
	helpOps      *HelpOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config) *Model {
	keys := inputtypes.DefaultKeyMap()
	renderer := views.NewRenderer()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = renderer.Styles().StatusLoading

	row := tagrow.New()
	row.KeyMap = keys.Row
	row.Styles = renderer.Styles().Badge
	row.FadeStyle = renderer.Styles().Fade
	row.Variant = views.ParseVariant(cfg.UISettings.Variant)
	row.Mouse = cfg.UISettings.Mouse
	row.SetGap(cfg.UISettings.Gap)
	row.SetScrollStep(cfg.UISettings.ScrollStep)
	row.SetFadeTolerance(cfg.UISettings.FadeTolerance)
	row.SetSelected(cfg.Selected)
	row.SetLoading(true)
	row.SetOrigin(renderer.RowOrigin())
	row.Focus()

	appState := state.NewAppState(cfg.Selected)
	appState.LoadingTags = true

	m := &Model{
		bus:          bus,
		state:        appState,
		help:         help.New(),
		spinner:      sp,
		row:          row,
		renderer:     renderer,
		inputHandler: input.New(keys),
		helpRenderer: NewHelpRenderer(keys),
		helpOps:      NewHelpOps(nil),
	}
	// Toggles land in the host state at once; the row is handed the result
	// after each update
	m.row.SetOnChange(m.setSelection)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// SetDisabled locks or unlocks the selection
func (m *Model) SetDisabled(disabled bool) {
	m.state.Disabled = disabled
	m.row.SetDisabled(disabled)
}

// Selected returns a copy of the current selection
func (m *Model) Selected() []string {
	return append([]string{}, m.state.Selected...)
}

// Aborted reports whether the user quit without confirming
func (m *Model) Aborted() bool {
	return m.aborted
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.row.Init(), m.spinner.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.row.SetWidth(m.renderer.RowWidth(msg.Width))
		m.row.SetOrigin(m.renderer.RowOrigin())
		return m, m.updateRow(msg)

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}

		ctx := &input.ModelContext{State: m.state}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if m.inPagerMode || m.inputHandler.CurrentMode() != inputtypes.ModeNormal {
			return m, nil
		}
		return m, m.updateRow(msg)

	case tagrow.ScrollMsg:
		return m, m.updateRow(msg)

	case tagrow.SelectionChangedMsg:
		// Already applied through OnChange when the toggle happened
		return m, nil

	case spinner.TickMsg:
		if !m.state.LoadingTags {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed: log only; do not surface in status bar
			log.Printf("Help pager failed: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.state.ClearStatus()
		return m, nil
	}

	// Cursor blink and friends for the text input
	return m, m.inputHandler.Update(msg)
}

// handleEvent processes domain events
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.CatalogLoadStartedEvent:
		wasLoading := m.state.LoadingTags
		m.state.LoadingTags = true
		m.state.CatalogSource = e.Source
		m.row.SetLoading(true)
		if !wasLoading {
			return m.spinner.Tick
		}

	case eventbus.CatalogLoadedEvent:
		m.state.LoadingTags = false
		m.state.Tags = e.Tags
		m.state.CatalogSource = e.Source
		m.row.SetTags(e.Tags)
		m.row.SetLoading(false)
		return tea.Batch(m.row.Prime(), m.flash(fmt.Sprintf("Loaded %d tags", len(e.Tags))))

	case eventbus.CatalogLoadFailedEvent:
		m.state.LoadingTags = false
		m.row.SetLoading(false)
		m.state.SetStatus(state.StatusError, fmt.Sprintf("Failed to load tags: %v", e.Err))

	case eventbus.ConfigSavedEvent:
		log.Printf("Saved %s", e.Path)
	}
	return nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.RowKeyAction:
		return m.updateRow(a.Msg)

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeNewTag {
			return m.addTag(a.Text)
		}

	case inputtypes.CancelTextAction:
		m.state.ClearStatus()

	case inputtypes.ClearSelectionAction:
		m.setSelection([]string{})
		return m.flash("Selection cleared")

	case inputtypes.ToggleDisabledAction:
		m.SetDisabled(!m.state.Disabled)
		if m.state.Disabled {
			return m.flash("Selection locked")
		}
		return m.flash("Selection unlocked")

	case inputtypes.ReloadAction:
		if m.state.LoadingTags {
			return nil
		}
		if m.bus != nil {
			m.bus.Publish(eventbus.CatalogRequestedEvent{})
		}

	case inputtypes.ToggleHelpAction:
		if m.program != nil {
			return m.showHelpInPager()
		}
		m.state.ShowFullHelp = !m.state.ShowFullHelp
		m.help.ShowAll = m.state.ShowFullHelp

	case inputtypes.QuitAction:
		m.aborted = a.Force
		return tea.Quit
	}
	return nil
}

// addTag appends a new tag named by the user and selects it
func (m *Model) addTag(text string) tea.Cmd {
	name := strings.TrimSpace(text)
	if name == "" {
		m.state.SetStatus(state.StatusError, "Tag name cannot be empty")
		return nil
	}
	if m.state.HasTagNamed(name) {
		m.state.SetStatus(state.StatusError, fmt.Sprintf("Tag %q already exists", name))
		return nil
	}

	tag := catalog.NewTag(name)
	m.state.AddTag(tag)
	m.row.SetTags(m.state.Tags)
	m.row.SetCursor(len(m.state.Tags) - 1)

	if m.bus != nil {
		m.bus.Publish(eventbus.TagAddedEvent{Tag: tag})
	}
	var cmds []tea.Cmd
	if lookalike, ok := catalog.Similar(m.state.Tags, name); ok {
		m.state.SetStatus(state.StatusInfo, fmt.Sprintf("Added %q (similar to %q)", name, lookalike))
	} else {
		cmds = append(cmds, m.flash(fmt.Sprintf("Added %q", name)))
	}
	if !m.row.IsActive(name) {
		cmds = append(cmds, m.row.Toggle(name))
	}
	return tea.Batch(cmds...)
}

// updateRow passes msg to the tag row and hands it the current selection,
// which a toggle during the update may have changed
func (m *Model) updateRow(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.row, cmd = m.row.Update(msg)
	m.row.SetSelected(m.state.Selected)
	return cmd
}

// setSelection stores a new selection, hands it back to the row and
// announces it
func (m *Model) setSelection(selected []string) {
	m.state.Selected = append([]string{}, selected...)
	m.row.SetSelected(m.state.Selected)
	if m.bus != nil {
		m.bus.Publish(eventbus.SelectionChangedEvent{Selected: m.Selected()})
	}
}

// flash shows a success message that clears itself
func (m *Model) flash(msg string) tea.Cmd {
	m.state.SetStatus(state.StatusSuccess, msg)
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// showHelpInPager hands the terminal to the help pager
func (m *Model) showHelpInPager() tea.Cmd {
	helpContent := m.helpRenderer.RenderHelpContent()
	return func() tea.Msg {
		// Tell the UI to stop drawing while the pager runs
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Row:           m.row.View(),
		Loading:       m.state.LoadingTags,
		Spinner:       m.spinner.View(),
		CatalogSource: m.state.CatalogSource,
		TagCount:      len(m.state.Tags),
		Selected:      m.state.Selected,
		Disabled:      m.state.Disabled,
		Prompt:        m.inputHandler.Prompt(),
		StatusMessage: m.state.StatusMessage,
		StatusKind:    views.StatusKind(m.state.StatusKind),
		HelpView:      m.help.View(m.inputHandler.Keys()),
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.TextInput = ti.View()
	}
	return m.renderer.Render(vs)
}
