package state

import (
	"tagrow/internal/domain"
)

// StatusKind selects how the status line is drawn
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// AppState contains all the application state
type AppState struct {
	// Tag data, owned here and lent to the tag row
	Tags          []domain.Tag
	Selected      []string // selected tag names, insertion order
	CatalogSource string

	// Flags handed to the tag row
	LoadingTags bool
	Disabled    bool

	// UI state
	ShowFullHelp  bool
	StatusMessage string
	StatusKind    StatusKind
}

// NewAppState creates a new application state
func NewAppState(selected []string) *AppState {
	return &AppState{
		Tags:     make([]domain.Tag, 0),
		Selected: append([]string{}, selected...),
	}
}

// SetStatus replaces the status line
func (s *AppState) SetStatus(kind StatusKind, msg string) {
	s.StatusKind = kind
	s.StatusMessage = msg
}

// ClearStatus empties the status line
func (s *AppState) ClearStatus() {
	s.StatusKind = StatusInfo
	s.StatusMessage = ""
}

// AddTag appends a tag to the list
func (s *AppState) AddTag(tag domain.Tag) {
	s.Tags = append(s.Tags, tag)
}

// HasTagNamed reports whether any tag uses name
func (s *AppState) HasTagNamed(name string) bool {
	for _, t := range s.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
