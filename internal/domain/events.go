package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCatalogLoadStarted EventType = "CatalogLoadStarted"
	EventCatalogLoaded      EventType = "CatalogLoaded"
	EventCatalogLoadFailed  EventType = "CatalogLoadFailed"
	EventCatalogRequested   EventType = "CatalogRequested"
	EventTagAdded           EventType = "TagAdded"
	EventSelectionChanged   EventType = "SelectionChanged"
	EventConfigSaved        EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CatalogLoadStartedEvent is emitted when the tag catalogue starts loading
type CatalogLoadStartedEvent struct {
	Source string
}

func (e CatalogLoadStartedEvent) Type() EventType { return EventCatalogLoadStarted }

// CatalogLoadedEvent carries the full tag list, in catalogue order
type CatalogLoadedEvent struct {
	Source string
	Tags   []Tag
}

func (e CatalogLoadedEvent) Type() EventType { return EventCatalogLoaded }

// CatalogLoadFailedEvent is emitted when the catalogue could not be read
type CatalogLoadFailedEvent struct {
	Source string
	Err    error
}

func (e CatalogLoadFailedEvent) Type() EventType { return EventCatalogLoadFailed }

// CatalogRequestedEvent asks the catalogue service to (re)load
type CatalogRequestedEvent struct{}

func (e CatalogRequestedEvent) Type() EventType { return EventCatalogRequested }

// TagAddedEvent is emitted when the user creates a tag
type TagAddedEvent struct {
	Tag Tag
}

func (e TagAddedEvent) Type() EventType { return EventTagAdded }

// SelectionChangedEvent carries the full selection after a change, never a delta
type SelectionChangedEvent struct {
	Selected []string
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
