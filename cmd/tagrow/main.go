package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"tagrow/internal/catalog"
	"tagrow/internal/config"
	"tagrow/internal/eventbus"
	"tagrow/internal/ui"
	"tagrow/internal/ui/views"
)

// exitAborted is the conventional status for a run cancelled with ctrl+c
const exitAborted = 130

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("tagrow", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", config.DefaultPath(), "Path to the config file")
	flags.String("catalog", "", "Path to a TOML tag catalogue")
	flags.String("theme", "", "Colour theme: auto, light or dark")
	flags.Bool("mouse", true, "Enable mouse support")
	disabled := flags.Bool("disabled", false, "Start with the selection locked")
	print0 := flags.Bool("print0", false, "Separate printed tags with NUL instead of newline")
	logPath := flags.String("log", "", "Write logs to this file")
	_ = flags.Parse(os.Args[1:])

	// Set up logging
	if *logPath != "" {
		logFile, err := tea.LogToFile(*logPath, "tagrow")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
			return 1
		}
		defer logFile.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	// Load configuration
	configSvc := config.NewConfigService(flags)
	cfg, err := configSvc.LoadFromPath(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	log.Printf("Loaded config from %s", *configPath)

	// The picker draws on stderr so stdout stays free for the result
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr))
	views.ApplyTheme(cfg.UISettings.Theme)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	catalogPath := resolveCatalogPath(cfg.Catalog, *configPath)
	catalogSvc := catalog.NewCatalogService(bus, catalogPath, cfg.Tags)

	// Persist what the user does
	saver := &persister{
		bus:         bus,
		configSvc:   configSvc,
		cfg:         cfg,
		configPath:  *configPath,
		catalogSvc:  catalogSvc,
		catalogPath: catalogPath,
	}
	bus.Subscribe(eventbus.EventSelectionChanged, saver.selectionChanged)
	bus.Subscribe(eventbus.EventTagAdded, saver.tagAdded)

	// Create UI model
	uiModel := ui.NewModel(bus, cfg)
	uiModel.SetDisabled(*disabled)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithOutput(os.Stderr), tea.WithContext(ctx)}
	if cfg.UISettings.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(uiModel, opts...)
	uiModel.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Println("Event channel full, dropping event")
		}
	}
	for _, et := range []eventbus.EventType{
		eventbus.EventCatalogLoadStarted,
		eventbus.EventCatalogLoaded,
		eventbus.EventCatalogLoadFailed,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(et, forward)
	}

	// Start forwarding events to UI in background
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Handle termination signals; ctrl+c arrives as a key in raw mode
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := catalogSvc.StartLoad(ctx); err != nil {
		log.Printf("Initial catalog load failed: %v", err)
	}

	// Run the UI
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}

	// Cleanup
	catalogSvc.StopLoad()
	cancel()

	if uiModel.Aborted() || ctx.Err() != nil {
		return exitAborted
	}
	printSelection(os.Stdout, uiModel.Selected(), *print0)
	return 0
}

// persister writes selection changes and new tags back to disk
type persister struct {
	bus         eventbus.EventBus
	configSvc   config.ConfigService
	cfg         *config.Config
	configPath  string
	catalogSvc  catalog.CatalogService
	catalogPath string
}

func (p *persister) selectionChanged(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.SelectionChangedEvent)
	if !ok || !p.cfg.UISettings.PersistSelection {
		return
	}
	p.cfg.Selected = event.Selected
	saveConfig(p.bus, p.configSvc, p.cfg, p.configPath)
}

// tagAdded appends to the catalogue file, or to the inline tags when there
// is none
func (p *persister) tagAdded(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.TagAddedEvent)
	if !ok {
		return
	}
	if p.catalogPath != "" {
		if err := catalog.Append(p.catalogPath, event.Tag); err != nil {
			log.Printf("Failed to add tag to catalog: %v", err)
		}
		return
	}
	p.catalogSvc.AddInline(event.Tag)
	p.cfg.Tags = append(p.cfg.Tags, event.Tag)
	saveConfig(p.bus, p.configSvc, p.cfg, p.configPath)
}

// resolveCatalogPath makes a relative catalogue path relative to the config file
func resolveCatalogPath(catalogPath, configPath string) string {
	if catalogPath == "" || filepath.IsAbs(catalogPath) {
		return catalogPath
	}
	if strings.HasPrefix(catalogPath, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, catalogPath[2:])
		}
	}
	return filepath.Join(filepath.Dir(configPath), catalogPath)
}

func saveConfig(bus eventbus.EventBus, svc config.ConfigService, cfg *config.Config, path string) {
	if err := svc.SaveToPath(cfg, path); err != nil {
		log.Printf("Failed to save config: %v", err)
		return
	}
	log.Printf("Config saved to %s", path)
	bus.Publish(eventbus.ConfigSavedEvent{Path: path})
}

func printSelection(w io.Writer, selected []string, print0 bool) {
	sep := "\n"
	if print0 {
		sep = "\x00"
	}
	for _, name := range selected {
		fmt.Fprint(w, name+sep)
	}
}
