package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"tagrow/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventCatalogLoadStarted = domain.EventCatalogLoadStarted
	EventCatalogLoaded      = domain.EventCatalogLoaded
	EventCatalogLoadFailed  = domain.EventCatalogLoadFailed
	EventCatalogRequested   = domain.EventCatalogRequested
	EventTagAdded           = domain.EventTagAdded
	EventSelectionChanged   = domain.EventSelectionChanged
	EventConfigSaved        = domain.EventConfigSaved
)

// Re-export domain event types
type CatalogLoadStartedEvent = domain.CatalogLoadStartedEvent
type CatalogLoadedEvent = domain.CatalogLoadedEvent
type CatalogLoadFailedEvent = domain.CatalogLoadFailedEvent
type CatalogRequestedEvent = domain.CatalogRequestedEvent
type TagAddedEvent = domain.TagAddedEvent
type SelectionChangedEvent = domain.SelectionChangedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish queues an event for all subscribers. Events are dropped once the
// bus is closed or the queue is full.
func (b *bus) Publish(event DomainEvent) {
	log.Printf("EventBus: Publishing event %s", event.Type())

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops accepting events, delivers the ones already queued and waits
// for the dispatcher to finish.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch delivers events to subscribers in publish order
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.publishToHandlers(event)

		case <-b.quit:
			// Flush what was queued before Close
			for {
				select {
				case event := <-b.eventChan:
					b.publishToHandlers(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) publishToHandlers(event DomainEvent) {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	// Copy so handlers can (un)subscribe without deadlocking
	handlersCopy := make([]EventHandler, 0, len(subs))
	for _, s := range subs {
		handlersCopy = append(handlersCopy, s.handler)
	}
	b.mu.RUnlock()

	for _, handler := range handlersCopy {
		deliver(handler, event)
	}
}

func deliver(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler panic for %s: %v\nStack: %s", event.Type(), r, debug.Stack())
		}
	}()
	h(event)
}
