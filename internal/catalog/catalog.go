package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"tagrow/internal/domain"
	"tagrow/internal/eventbus"
)

// ErrLoadInProgress is returned when a load is requested while one is running
var ErrLoadInProgress = errors.New("catalog load already in progress")

// inlineSource names the source of tags taken straight from config
const inlineSource = "config"

// CatalogService loads the tag catalogue and publishes the result on the bus
type CatalogService interface {
	StartLoad(ctx context.Context) error
	StopLoad()
	// AddInline records a tag added at runtime so later loads of the
	// inline catalogue keep it
	AddInline(tag domain.Tag)
}

// catalogService is the concrete implementation
type catalogService struct {
	bus        eventbus.EventBus
	path       string
	inline     []domain.Tag
	mu         sync.Mutex
	isLoading  bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// catalogFile is the on-disk layout of a catalogue
type catalogFile struct {
	Tags []domain.Tag `toml:"tags"`
}

// NewCatalogService creates a catalogue service. When path is empty the
// inline tags are used instead.
func NewCatalogService(bus eventbus.EventBus, path string, inline []domain.Tag) CatalogService {
	cs := &catalogService{
		bus:    bus,
		path:   path,
		inline: append([]domain.Tag(nil), inline...),
	}

	bus.Subscribe(eventbus.EventCatalogRequested, func(e eventbus.DomainEvent) {
		if err := cs.StartLoad(context.Background()); err != nil {
			log.Printf("Catalog reload skipped: %v", err)
		}
	})

	return cs
}

func (cs *catalogService) source() string {
	if cs.path == "" {
		return inlineSource
	}
	return cs.path
}

// StartLoad loads the catalogue in the background
func (cs *catalogService) StartLoad(ctx context.Context) error {
	cs.mu.Lock()
	if cs.isLoading {
		cs.mu.Unlock()
		return ErrLoadInProgress
	}
	cs.isLoading = true

	loadCtx, cancel := context.WithCancel(ctx)
	cs.cancelFunc = cancel
	inline := append([]domain.Tag(nil), cs.inline...)
	cs.mu.Unlock()

	source := cs.source()
	cs.bus.Publish(eventbus.CatalogLoadStartedEvent{Source: source})

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		defer func() {
			cs.mu.Lock()
			cs.isLoading = false
			cs.cancelFunc = nil
			cs.mu.Unlock()
			cancel()
		}()

		var (
			tags []domain.Tag
			err  error
		)
		if cs.path == "" {
			tags = Normalize(inline)
		} else {
			tags, err = ReadFile(cs.path)
		}

		if loadCtx.Err() != nil {
			log.Printf("Catalog load from %s cancelled", source)
			return
		}

		if err != nil {
			log.Printf("Catalog load from %s failed: %v", source, err)
			cs.bus.Publish(eventbus.CatalogLoadFailedEvent{Source: source, Err: err})
			return
		}

		log.Printf("Loaded %d tags from %s", len(tags), source)
		cs.bus.Publish(eventbus.CatalogLoadedEvent{Source: source, Tags: tags})
	}()

	return nil
}

// AddInline appends a tag to the inline catalogue
func (cs *catalogService) AddInline(tag domain.Tag) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.inline = append(cs.inline, tag)
}

// StopLoad cancels any ongoing load and waits for it to finish
func (cs *catalogService) StopLoad() {
	cs.mu.Lock()
	if cs.cancelFunc != nil {
		cs.cancelFunc()
	}
	cs.mu.Unlock()

	cs.wg.Wait()
}

// ReadFile parses a TOML catalogue file
func ReadFile(path string) ([]domain.Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML catalogue
func Parse(data []byte) ([]domain.Tag, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return Normalize(file.Tags), nil
}

// Normalize trims names, drops nameless tags and assigns IDs where missing.
// Duplicate names are kept; they select together.
func Normalize(tags []domain.Tag) []domain.Tag {
	out := make([]domain.Tag, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			log.Printf("Skipping catalog entry %q without a name", t.ID)
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if seen[t.Name] {
			log.Printf("Catalog has more than one tag named %q", t.Name)
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}

// NewTag creates a tag with a fresh identifier
func NewTag(name string) domain.Tag {
	return domain.Tag{ID: uuid.NewString(), Name: strings.TrimSpace(name)}
}

// WriteFile stores tags as a TOML catalogue
func WriteFile(path string, tags []domain.Tag) error {
	data, err := toml.Marshal(catalogFile{Tags: tags})
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// Append adds a tag to the catalogue at path, creating the file if needed
func Append(path string, tag domain.Tag) error {
	tags, err := ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return WriteFile(path, append(tags, tag))
}

// similarityThreshold is the largest edit distance, relative to the longer
// name, at which two names count as lookalikes
const similarityThreshold = 0.34

// Similar returns the existing tag name closest to name when it is a likely
// typo of it. Exact matches are not reported.
func Similar(tags []domain.Tag, name string) (string, bool) {
	upper := strings.ToUpper(name)
	best, bestScore := "", similarityThreshold
	for _, t := range tags {
		if t.Name == name {
			continue
		}
		other := strings.ToUpper(t.Name)
		// edit distance counts runes, so the length must too
		longest := max(utf8.RuneCountInString(upper), utf8.RuneCountInString(other))
		if longest == 0 {
			continue
		}
		score := float64(levenshtein.ComputeDistance(upper, other)) / float64(longest)
		if score < bestScore {
			best, bestScore = t.Name, score
		}
	}
	return best, best != ""
}
