package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind mirrors state.StatusKind without importing the state package
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Row           string // the rendered tag row
	Loading       bool
	Spinner       string
	CatalogSource string
	TagCount      int
	Selected      []string
	Disabled      bool
	Prompt        string // non-empty while a text mode is active
	TextInput     string
	StatusMessage string
	StatusKind    StatusKind
	HelpView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles exposes the styles in use
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// RowOrigin returns the screen cell where the tag row starts
func (r *Renderer) RowOrigin() (int, int) {
	x := r.styles.Main.GetPaddingLeft()
	y := r.styles.Main.GetPaddingTop() + lipgloss.Height(r.styles.Title.Render("tagrow"))
	return x, y
}

// RowWidth returns the width available to the tag row
func (r *Renderer) RowWidth(termWidth int) int {
	w := termWidth - r.styles.Main.GetHorizontalPadding()
	if w < 0 {
		return 0
	}
	return w
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	switch {
	case state.Loading:
		// The row renders nothing while loading; the placeholder is ours
		content.WriteString(r.styles.StatusLoading.Render(fmt.Sprintf("%s loading tags…", state.Spinner)))
	case state.TagCount == 0:
		content.WriteString(r.styles.Dim.Render("No tags yet. Press n to add one."))
	default:
		content.WriteString(state.Row)
	}
	content.WriteString("\n")

	content.WriteString(r.renderSelection(state))

	if state.Prompt != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Prompt.Render(state.Prompt))
		content.WriteString(state.TextInput)
	}

	if state.StatusMessage != "" {
		content.WriteString("\n")
		content.WriteString(r.renderStatus(state))
	}

	if state.HelpView != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	return r.styles.Main.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("tagrow")

	indicators := []string{}
	if state.Loading {
		indicators = append(indicators, fmt.Sprintf("%s Loading", state.Spinner))
	} else if state.CatalogSource != "" {
		indicators = append(indicators, fmt.Sprintf("%d tags from %s", state.TagCount, state.CatalogSource))
	}
	if state.Disabled {
		indicators = append(indicators, "⊘ locked")
	}

	if len(indicators) == 0 {
		return logo
	}

	// Title has a bottom margin; align the indicators with its first line
	logoLines := strings.Split(logo, "\n")
	right := r.styles.Dim.Render(strings.Join(indicators, " | "))

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	available := termWidth - r.styles.Main.GetHorizontalPadding()
	padding := available - lipgloss.Width(logoLines[0]) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	logoLines[0] = logoLines[0] + strings.Repeat(" ", padding) + right
	return strings.Join(logoLines, "\n")
}

func (r *Renderer) renderSelection(state ViewState) string {
	if len(state.Selected) == 0 {
		return r.styles.Status.Render("Nothing selected")
	}
	return r.styles.Status.Render(fmt.Sprintf("Selected (%d): %s", len(state.Selected), strings.Join(state.Selected, ", ")))
}

func (r *Renderer) renderStatus(state ViewState) string {
	switch state.StatusKind {
	case StatusError:
		return r.styles.StatusError.Render(state.StatusMessage)
	case StatusSuccess:
		return r.styles.StatusSuccess.Render(state.StatusMessage)
	default:
		return r.styles.StatusLoading.Render(state.StatusMessage)
	}
}
