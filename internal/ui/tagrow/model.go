package tagrow

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"tagrow/internal/domain"
	"tagrow/internal/ui/views"
)

// gutter is the width reserved on each side for the fade glyph
const gutter = 1

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// ScrollMsg scrolls the row with the matching ID by Delta cells. A zero
// delta just re-measures, which is how a row primes its fade state.
type ScrollMsg struct {
	ID    int
	Delta int
}

// SelectionChangedMsg is emitted after a toggle with the full new selection
type SelectionChangedMsg struct {
	ID       int
	Selected []string
}

// span is the horizontal extent of one badge in content coordinates
type span struct {
	start, end int
}

// Model is a horizontally scrollable row of toggleable tag badges.
// The tag list and selection belong to the caller: a toggle reports the
// new selection through OnChange and SelectionChangedMsg, and the caller
// feeds it back with SetSelected.
type Model struct {
	id int

	tags     []domain.Tag
	selected []string
	disabled bool
	loading  bool
	focused  bool
	onChange func([]string)

	KeyMap  KeyMap
	Styles  views.BadgeStyles
	Variant views.Variant
	// FadeStyle renders the edge glyphs
	FadeStyle lipgloss.Style
	Mouse     bool

	width      int
	gap        int
	scrollStep int
	tolerance  float64
	originX    int
	originY    int

	offset int
	cursor int
	fade   Fade

	spans        []span
	contentWidth int
	rowHeight    int
}

// New creates a tag row with default styles and keys. It has no width
// until SetWidth is called and renders nothing before that.
func New() Model {
	m := Model{
		id:         nextID(),
		selected:   []string{},
		KeyMap:     DefaultKeyMap(),
		Styles:     views.NewBadgeStyles(),
		FadeStyle:  views.NewStyles().Fade,
		Mouse:      true,
		gap:        1,
		scrollStep: 4,
		tolerance:  0.5,
		rowHeight:  1,
	}
	return m
}

// ID returns the instance identifier carried by this row's messages
func (m Model) ID() int {
	return m.id
}

// Init primes the fade state with a synthetic zero-delta scroll
func (m Model) Init() tea.Cmd {
	return m.Prime()
}

// Prime returns a command that re-measures this row
func (m Model) Prime() tea.Cmd {
	id := m.id
	return func() tea.Msg {
		return ScrollMsg{ID: id}
	}
}

// SetTags replaces the tag list
func (m *Model) SetTags(tags []domain.Tag) {
	m.tags = append([]domain.Tag(nil), tags...)
	m.relayout()
}

// Tags returns the current tag list
func (m Model) Tags() []domain.Tag {
	return m.tags
}

// SetSelected replaces the caller-owned selection shown by the row
func (m *Model) SetSelected(selected []string) {
	m.selected = append([]string{}, selected...)
}

// Selected returns the selection currently shown
func (m Model) Selected() []string {
	return m.selected
}

// SetOnChange registers the selection callback
func (m *Model) SetOnChange(fn func([]string)) {
	m.onChange = fn
}

// SetDisabled makes toggles inert
func (m *Model) SetDisabled(disabled bool) {
	m.disabled = disabled
}

// Disabled reports whether toggles are inert
func (m Model) Disabled() bool {
	return m.disabled
}

// SetLoading hides all tags while true
func (m *Model) SetLoading(loading bool) {
	if m.loading == loading {
		return
	}
	m.loading = loading
	m.relayout()
}

// Loading reports whether tags are hidden for loading
func (m Model) Loading() bool {
	return m.loading
}

// SetWidth sets the total width of the row, fade gutters included
func (m *Model) SetWidth(width int) {
	if width < 0 {
		width = 0
	}
	if m.width == width {
		return
	}
	m.width = width
	m.ensureCursorVisible()
}

// Width returns the total width of the row
func (m Model) Width() int {
	return m.width
}

// Height returns the number of lines the row occupies
func (m Model) Height() int {
	return m.rowHeight
}

// SetGap sets the number of blank cells between badges
func (m *Model) SetGap(gap int) {
	if gap < 0 {
		gap = 0
	}
	m.gap = gap
	m.relayout()
}

// SetScrollStep sets how many cells a scroll key or wheel notch moves
func (m *Model) SetScrollStep(step int) {
	if step < 1 {
		step = 1
	}
	m.scrollStep = step
}

// SetFadeTolerance sets the slack allowed when deciding the row is at an edge
func (m *Model) SetFadeTolerance(tolerance float64) {
	if tolerance < 0 {
		tolerance = 0
	}
	m.tolerance = tolerance
	m.recompute()
}

// SetOrigin records where the row is drawn on screen, for mouse hit-testing
func (m *Model) SetOrigin(x, y int) {
	m.originX = x
	m.originY = y
}

// Focus enables keyboard handling
func (m *Model) Focus() {
	m.focused = true
}

// Blur disables keyboard handling
func (m *Model) Blur() {
	m.focused = false
}

// Focused reports whether the row handles keys
func (m Model) Focused() bool {
	return m.focused
}

// Cursor returns the index of the badge under the keyboard cursor
func (m Model) Cursor() int {
	return m.cursor
}

// Offset returns the horizontal scroll offset in cells
func (m Model) Offset() int {
	return m.offset
}

// Fade returns the current edge indicator state
func (m Model) Fade() Fade {
	return m.fade
}

// Metrics returns the live measurements behind Fade
func (m Model) Metrics() Metrics {
	return Metrics{
		ScrollOffset: float64(m.offset),
		ContentWidth: float64(m.contentWidth),
		VisibleWidth: float64(m.visibleWidth()),
	}
}

// IsActive reports whether a tag name is part of the selection
func (m Model) IsActive(name string) bool {
	return IsSelected(m.selected, name)
}

// Toggle flips membership of name in the selection and reports the result.
// It does nothing while disabled.
func (m Model) Toggle(name string) tea.Cmd {
	if m.disabled {
		return nil
	}
	next := ToggleName(m.selected, name)
	if m.onChange != nil {
		m.onChange(next)
	}
	id := m.id
	return func() tea.Msg {
		return SelectionChangedMsg{ID: id, Selected: next}
	}
}

// ToggleAt toggles the tag at a badge index. Out of range is ignored.
func (m Model) ToggleAt(index int) tea.Cmd {
	if m.loading || index < 0 || index >= len(m.tags) {
		return nil
	}
	return m.Toggle(m.tags[index].Name)
}

// ScrollBy moves the scroll offset by delta cells
func (m *Model) ScrollBy(delta int) {
	m.offset += delta
	m.recompute()
}

// ScrollTo sets the scroll offset
func (m *Model) ScrollTo(offset int) {
	m.offset = offset
	m.recompute()
}

// SetCursor moves the keyboard cursor and scrolls it into view
func (m *Model) SetCursor(index int) {
	m.cursor = index
	m.ensureCursorVisible()
}

// Update handles scroll, resize, key and mouse messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScrollMsg:
		if msg.ID != m.id {
			return m, nil
		}
		m.ScrollBy(msg.Delta)

	case tea.WindowSizeMsg:
		// Width is assigned by the host; the window changing is only a cue to re-measure
		m.recompute()

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.Mouse {
			return m, nil
		}
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.KeyMap.Prev):
		m.SetCursor(m.cursor - 1)
	case key.Matches(msg, m.KeyMap.Next):
		m.SetCursor(m.cursor + 1)
	case key.Matches(msg, m.KeyMap.ScrollLeft):
		m.ScrollBy(-m.scrollStep)
	case key.Matches(msg, m.KeyMap.ScrollRight):
		m.ScrollBy(m.scrollStep)
	case key.Matches(msg, m.KeyMap.Start):
		m.cursor = 0
		m.ScrollTo(0)
	case key.Matches(msg, m.KeyMap.End):
		if len(m.spans) > 0 {
			m.cursor = len(m.spans) - 1
		}
		m.ScrollTo(m.contentWidth)
	case key.Matches(msg, m.KeyMap.Toggle):
		return m, m.ToggleAt(m.cursor)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if !m.contains(msg.X, msg.Y) {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		m.ScrollBy(-m.scrollStep)
		return m, nil
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		m.ScrollBy(m.scrollStep)
		return m, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		col := msg.X - m.originX - gutter
		if col < 0 || col >= m.visibleWidth() {
			return m, nil
		}
		idx := m.hitTest(col + m.offset)
		if idx < 0 {
			return m, nil
		}
		m.cursor = idx
		return m, m.ToggleAt(idx)
	}
	return m, nil
}

// contains reports whether a screen cell lies within the row
func (m Model) contains(x, y int) bool {
	return x >= m.originX && x < m.originX+m.width &&
		y >= m.originY && y < m.originY+m.rowHeight
}

// hitTest returns the badge index at a content column, or -1 for a gap
func (m Model) hitTest(x int) int {
	for i, s := range m.spans {
		if x >= s.start && x < s.end {
			return i
		}
	}
	return -1
}

func (m Model) visibleWidth() int {
	w := m.width - 2*gutter
	if w < 0 {
		return 0
	}
	return w
}

func (m Model) maxOffset() int {
	if over := m.contentWidth - m.visibleWidth(); over > 0 {
		return over
	}
	return 0
}

// relayout measures badge extents. Widths do not depend on badge state, so
// this only runs when the tags, gap or loading flag change.
func (m *Model) relayout() {
	// fresh slice: copies of the model must not share layout
	m.spans = nil
	m.contentWidth = 0
	m.rowHeight = 1

	if !m.loading {
		x := 0
		for i, t := range m.tags {
			if i > 0 {
				x += m.gap
			}
			rendered := m.Styles.Render(views.Badge{Label: t.Name, Variant: m.Variant})
			w := lipgloss.Width(rendered)
			m.spans = append(m.spans, span{start: x, end: x + w})
			x += w
			if h := lipgloss.Height(rendered); h > m.rowHeight {
				m.rowHeight = h
			}
		}
		m.contentWidth = x
	}

	m.ensureCursorVisible()
}

// ensureCursorVisible clamps the cursor and scrolls its badge into view
func (m *Model) ensureCursorVisible() {
	if len(m.spans) == 0 {
		m.cursor = 0
		m.recompute()
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.spans) {
		m.cursor = len(m.spans) - 1
	}

	visible := m.visibleWidth()
	if visible > 0 {
		s := m.spans[m.cursor]
		if s.end > m.offset+visible {
			m.offset = s.end - visible
		}
		if s.start < m.offset {
			m.offset = s.start
		}
	}
	m.recompute()
}

// recompute clamps the offset and derives the fade flags. Without a
// measured width there is nothing to derive and the state is left as is.
func (m *Model) recompute() {
	if m.width <= 0 {
		return
	}
	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	if m.offset < 0 {
		m.offset = 0
	}
	m.fade = ComputeFade(m.Metrics(), m.tolerance)
}

// Badges returns the badges that make up the row, in tag order
func (m Model) Badges() []views.Badge {
	if m.loading {
		return nil
	}
	badges := make([]views.Badge, 0, len(m.tags))
	for i, t := range m.tags {
		badges = append(badges, views.Badge{
			Label:    t.Name,
			Variant:  m.Variant,
			Active:   IsSelected(m.selected, t.Name),
			Disabled: m.disabled,
			Focused:  m.focused && !m.disabled && i == m.cursor,
		})
	}
	return badges
}

// View renders the visible window of the row with its fade gutters
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}

	visible := m.visibleWidth()
	lines := make([]string, m.rowHeight)

	if badges := m.Badges(); len(badges) > 0 {
		parts := make([]string, 0, 2*len(badges))
		spacer := strings.Repeat(" ", m.gap)
		for i, b := range badges {
			if i > 0 && m.gap > 0 {
				parts = append(parts, spacer)
			}
			parts = append(parts, m.Styles.Render(b))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
		for i, line := range strings.Split(row, "\n") {
			if i < len(lines) {
				lines[i] = ansi.Cut(line, m.offset, m.offset+visible)
			}
		}
	}

	left, right := " ", " "
	if m.fade.Left {
		left = m.FadeStyle.Render(views.FadeGlyphLeft)
	}
	if m.fade.Right {
		right = m.FadeStyle.Render(views.FadeGlyphRight)
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(left)
		b.WriteString(line)
		if pad := visible - ansi.StringWidth(line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(right)
	}
	return b.String()
}
