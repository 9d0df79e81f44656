package ui

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagrow/internal/config"
	"tagrow/internal/domain"
	"tagrow/internal/eventbus"
	"tagrow/internal/ui/state"
	"tagrow/internal/ui/tagrow"
)

var sampleTags = []domain.Tag{
	{ID: "1", Name: "go"},
	{ID: "2", Name: "rust"},
	{ID: "3", Name: "zig"},
}

type recorder struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (r *recorder) add(e eventbus.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []eventbus.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]eventbus.DomainEvent(nil), r.events...)
}

func newTestModel(t *testing.T) (*Model, *recorder) {
	t.Helper()
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	rec := &recorder{}
	for _, et := range []eventbus.EventType{eventbus.EventSelectionChanged, eventbus.EventTagAdded, eventbus.EventCatalogRequested} {
		bus.Subscribe(et, rec.add)
	}

	m := NewModel(bus, config.DefaultConfig())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, rec
}

func loaded(m *Model) {
	m.Update(EventMsg{Event: eventbus.CatalogLoadedEvent{Source: "tags.toml", Tags: sampleTags}})
}

// collect runs cmd and returns the messages that arrive promptly. Timers
// such as status flashes and spinner ticks are left behind.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func selectionMsg(msgs []tea.Msg) (tagrow.SelectionChangedMsg, bool) {
	for _, msg := range msgs {
		if sel, ok := msg.(tagrow.SelectionChangedMsg); ok {
			return sel, true
		}
	}
	return tagrow.SelectionChangedMsg{}, false
}

func press(m *Model, msgs ...tea.KeyMsg) []tea.Msg {
	var out []tea.Msg
	for _, msg := range msgs {
		_, cmd := m.Update(msg)
		out = append(out, collect(cmd)...)
	}
	return out
}

func runes(s string) []tea.KeyMsg {
	var out []tea.KeyMsg
	for _, r := range s {
		out = append(out, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return out
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	right = tea.KeyMsg{Type: tea.KeyRight}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func TestLoadingShowsPlaceholderUntilCatalogArrives(t *testing.T) {
	m, _ := newTestModel(t)

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "loading tags")
	assert.NotContains(t, view, "[ go ]")

	loaded(m)

	view = ansi.Strip(m.View())
	assert.NotContains(t, view, "loading tags")
	assert.Contains(t, view, "[ go ]")
	assert.Contains(t, view, "3 tags from tags.toml")
	assert.Contains(t, view, "Loaded 3 tags")
}

func TestLoadFailureSurfacesInStatus(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(EventMsg{Event: eventbus.CatalogLoadFailedEvent{Source: "x.toml", Err: errors.New("boom")}})

	assert.False(t, m.state.LoadingTags)
	assert.Equal(t, state.StatusError, m.state.StatusKind)
	assert.Contains(t, ansi.Strip(m.View()), "Failed to load tags: boom")
}

func TestToggleAppliesSelectionImmediately(t *testing.T) {
	m, rec := newTestModel(t)
	loaded(m)

	msgs := press(m, right, space)
	assert.Equal(t, []string{"rust"}, m.Selected())
	assert.True(t, m.row.IsActive("rust"))
	assert.Contains(t, ansi.Strip(m.View()), "Selected (1): rust")

	// the row still reports the change; delivering it is harmless
	sel, ok := selectionMsg(msgs)
	require.True(t, ok)
	assert.Equal(t, []string{"rust"}, sel.Selected)
	m.Update(sel)
	assert.Equal(t, []string{"rust"}, m.Selected())

	require.Eventually(t, func() bool {
		for _, e := range rec.all() {
			if ev, ok := e.(eventbus.SelectionChangedEvent); ok {
				return assert.ObjectsAreEqual([]string{"rust"}, ev.Selected)
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestBackToBackTogglesBeforeDelivery(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)

	var pending []tea.Msg
	for _, k := range []tea.KeyMsg{space, right, space} {
		_, cmd := m.Update(k)
		pending = append(pending, collect(cmd)...)
	}
	assert.Equal(t, []string{"go", "rust"}, m.Selected())

	for _, msg := range pending {
		m.Update(msg)
	}
	assert.Equal(t, []string{"go", "rust"}, m.Selected())
	assert.True(t, m.row.IsActive("go"))
	assert.True(t, m.row.IsActive("rust"))
}

func TestDoubleToggleBeforeDeliveryDeselects(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)

	var pending []tea.Msg
	for _, k := range []tea.KeyMsg{space, space} {
		_, cmd := m.Update(k)
		pending = append(pending, collect(cmd)...)
	}
	for _, msg := range pending {
		m.Update(msg)
	}
	assert.Empty(t, m.Selected())
	assert.False(t, m.row.IsActive("go"))
}

func TestMouseTogglesApplyImmediately(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)

	x, y := m.renderer.RowOrigin()
	click := tea.MouseMsg{X: x + 2, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	m.Update(click)
	m.Update(click)
	m.Update(click)
	assert.Equal(t, []string{"go"}, m.Selected())
}

func TestSelectionChangedMsgDoesNotOverwrite(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)

	m.Update(tagrow.SelectionChangedMsg{ID: m.row.ID() + 1000, Selected: []string{"go"}})
	assert.Empty(t, m.Selected())

	press(m, space)
	m.Update(tagrow.SelectionChangedMsg{ID: m.row.ID(), Selected: []string{}})
	assert.Equal(t, []string{"go"}, m.Selected())
}

func TestDisabledBlocksToggle(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)
	m.SetDisabled(true)

	_, ok := selectionMsg(press(m, space))
	assert.False(t, ok)
	assert.Contains(t, ansi.Strip(m.View()), "locked")

	press(m, runes("d")...)
	assert.False(t, m.state.Disabled)
	_, ok = selectionMsg(press(m, space))
	assert.True(t, ok)
}

func TestClearSelection(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Selected = []string{"go", "zig"}
	bus := eventbus.New()
	defer bus.Close()

	m := NewModel(bus, cfg)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	loaded(m)
	require.Equal(t, []string{"go", "zig"}, m.Selected())

	press(m, runes("c")...)
	assert.Empty(t, m.Selected())
	assert.False(t, m.row.IsActive("go"))
}

func TestNewTagIsAddedAndSelected(t *testing.T) {
	m, rec := newTestModel(t)
	loaded(m)

	press(m, runes("n")...)
	assert.Contains(t, ansi.Strip(m.View()), "New tag:")

	press(m, runes("elm")...)
	msgs := press(m, enter)

	require.Len(t, m.state.Tags, 4)
	tag := m.state.Tags[3]
	assert.Equal(t, "elm", tag.Name)
	assert.NotEmpty(t, tag.ID)

	_, ok := selectionMsg(msgs)
	require.True(t, ok)
	assert.Equal(t, []string{"elm"}, m.Selected())
	assert.Equal(t, 3, m.row.Cursor())
	assert.NotContains(t, ansi.Strip(m.View()), "New tag:")

	require.Eventually(t, func() bool {
		for _, e := range rec.all() {
			if ev, ok := e.(eventbus.TagAddedEvent); ok {
				return ev.Tag == tag
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestNewTagRejectsEmptyAndDuplicate(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)

	press(m, runes("n")...)
	press(m, runes("  ")...)
	press(m, enter)
	assert.Equal(t, "Tag name cannot be empty", m.state.StatusMessage)

	press(m, runes("n")...)
	press(m, runes("go")...)
	press(m, enter)
	assert.Contains(t, m.state.StatusMessage, "already exists")
	assert.Len(t, m.state.Tags, 3)
}

func TestNewTagKeysDoNotReachRow(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)

	press(m, runes("n")...)
	msgs := press(m, runes("q l")...)
	_, ok := selectionMsg(msgs)
	assert.False(t, ok)
	assert.Equal(t, 0, m.row.Cursor())

	press(m, esc)
	assert.Len(t, m.state.Tags, 3)
}

func TestReloadPublishesRequestWhenIdle(t *testing.T) {
	m, rec := newTestModel(t)

	press(m, runes("r")...)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.all(), "still loading")

	loaded(m)
	press(m, runes("r")...)
	require.Eventually(t, func() bool {
		for _, e := range rec.all() {
			if _, ok := e.(eventbus.CatalogRequestedEvent); ok {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	m.Update(EventMsg{Event: eventbus.CatalogLoadStartedEvent{Source: "tags.toml"}})
	assert.True(t, m.state.LoadingTags)
	assert.True(t, m.row.Loading())
}

func TestHelpTogglesInlineWithoutProgram(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})

	press(m, runes("?")...)
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, ansi.Strip(m.View()), "lock/unlock")

	press(m, runes("?")...)
	assert.False(t, m.help.ShowAll)
}

func TestQuitAndAbort(t *testing.T) {
	m, _ := newTestModel(t)

	msgs := press(m, runes("q")...)
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
	assert.False(t, m.Aborted())

	msgs = press(m, ctrlC)
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
	assert.True(t, m.Aborted())
}

func TestWindowSizeSetsRowWidth(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, 76, m.row.Width())

	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 26, m.row.Width())
}

func TestNewTagWarnsAboutLookalike(t *testing.T) {
	m, _ := newTestModel(t)
	loaded(m)

	press(m, runes("n")...)
	press(m, runes("Rust")...)
	press(m, enter)

	require.Len(t, m.state.Tags, 4)
	assert.Equal(t, state.StatusInfo, m.state.StatusKind)
	assert.Equal(t, `Added "Rust" (similar to "rust")`, m.state.StatusMessage)
}
