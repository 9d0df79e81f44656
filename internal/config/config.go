package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tagrow/internal/domain"
)

// Theme values accepted by ui.theme
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config represents the application configuration
type Config struct {
	Version    int          `mapstructure:"version" toml:"version"`
	Catalog    string       `mapstructure:"catalog" toml:"catalog,omitempty"` // path to a tag catalogue file
	Tags       []domain.Tag `mapstructure:"tags" toml:"tags,omitempty"`       // inline tags, used when Catalog is empty
	Selected   []string     `mapstructure:"selected" toml:"selected"`
	UISettings UISettings   `mapstructure:"ui" toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Theme            string  `mapstructure:"theme" toml:"theme"`
	Variant          string  `mapstructure:"variant" toml:"variant"` // badge look: outline or solid
	FadeTolerance    float64 `mapstructure:"fade_tolerance" toml:"fade_tolerance"`
	ScrollStep       int     `mapstructure:"scroll_step" toml:"scroll_step"`
	Gap              int     `mapstructure:"gap" toml:"gap"`
	PersistSelection bool    `mapstructure:"persist_selection" toml:"persist_selection"`
	Mouse            bool    `mapstructure:"mouse" toml:"mouse"`
}

// ConfigService handles configuration management
type ConfigService interface {
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	flags *pflag.FlagSet
}

// NewConfigService creates a config service. Values from flags that were
// explicitly set override the file and environment.
func NewConfigService(flags *pflag.FlagSet) ConfigService {
	return &configService{flags: flags}
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"catalog": "catalog",
	"theme":   "ui.theme",
	"mouse":   "ui.mouse",
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("selected", d.Selected)
	v.SetDefault("ui.theme", d.UISettings.Theme)
	v.SetDefault("ui.variant", d.UISettings.Variant)
	v.SetDefault("ui.fade_tolerance", d.UISettings.FadeTolerance)
	v.SetDefault("ui.scroll_step", d.UISettings.ScrollStep)
	v.SetDefault("ui.gap", d.UISettings.Gap)
	v.SetDefault("ui.persist_selection", d.UISettings.PersistSelection)
	v.SetDefault("ui.mouse", d.UISettings.Mouse)
}

// LoadFromPath loads configuration from a specific path. A missing file is
// not an error: defaults, environment (TAGROW_*) and flags still apply.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetEnvPrefix("TAGROW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cs.flags != nil {
		for flagName, key := range flagKeys {
			if f := cs.flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
				}
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Selected == nil {
		cfg.Selected = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be corrected silently
func (c *Config) Validate() error {
	switch c.UISettings.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme %q: want auto, light or dark", c.UISettings.Theme)
	}
	if c.UISettings.Variant != "outline" && c.UISettings.Variant != "solid" {
		return fmt.Errorf("invalid ui.variant %q: want outline or solid", c.UISettings.Variant)
	}
	if c.UISettings.FadeTolerance < 0 {
		return fmt.Errorf("invalid ui.fade_tolerance %v: must not be negative", c.UISettings.FadeTolerance)
	}
	if c.UISettings.ScrollStep < 1 {
		return fmt.Errorf("invalid ui.scroll_step %d: must be at least 1", c.UISettings.ScrollStep)
	}
	if c.UISettings.Gap < 0 {
		return fmt.Errorf("invalid ui.gap %d: must not be negative", c.UISettings.Gap)
	}
	return nil
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "tagrow", "config.toml")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Selected: []string{},
		UISettings: UISettings{
			Theme:            ThemeAuto,
			Variant:          "outline",
			FadeTolerance:    0.5,
			ScrollStep:       4,
			Gap:              1,
			PersistSelection: true,
			Mouse:            true,
		},
	}
}
