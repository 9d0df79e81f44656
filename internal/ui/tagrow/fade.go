package tagrow

// Metrics are the live measurements a fade decision is made from, in cells.
// Fractional values are allowed so hosts with sub-cell layouts can reuse ComputeFade.
type Metrics struct {
	ScrollOffset float64
	ContentWidth float64
	VisibleWidth float64
}

// Fade says which edges should show a "more content" indicator
type Fade struct {
	Left  bool
	Right bool
}

// Scrollable reports whether the content overflows the visible area
func (m Metrics) Scrollable() bool {
	return m.ContentWidth > m.VisibleWidth
}

// MaxOffset is the right extreme of the scroll range
func (m Metrics) MaxOffset() float64 {
	if !m.Scrollable() {
		return 0
	}
	return m.ContentWidth - m.VisibleWidth
}

// ComputeFade derives the fade flags. The start and end checks allow
// tolerance cells of slack so fractional offsets still count as an extreme.
func ComputeFade(m Metrics, tolerance float64) Fade {
	if !m.Scrollable() {
		return Fade{}
	}
	atStart := m.ScrollOffset <= tolerance
	atEnd := m.ScrollOffset >= m.MaxOffset()-tolerance
	return Fade{
		Left:  !atStart,
		Right: !atEnd,
	}
}
