package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagrow/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigService(nil)

	cfg, err := svc.LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigService(nil)

	cfg := DefaultConfig()
	cfg.Tags = []domain.Tag{{ID: "1", Name: "go"}, {ID: "2", Name: "rust"}}
	cfg.Selected = []string{"rust", "go"}
	cfg.UISettings.Theme = ThemeDark
	cfg.UISettings.ScrollStep = 7

	require.NoError(t, svc.SaveToPath(cfg, path))

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Tags, loaded.Tags)
	assert.Equal(t, []string{"rust", "go"}, loaded.Selected)
	assert.Equal(t, ThemeDark, loaded.UISettings.Theme)
	assert.Equal(t, 7, loaded.UISettings.ScrollStep)
	assert.InDelta(t, 0.5, loaded.UISettings.FadeTolerance, 1e-9)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("catalog = \"tags.toml\"\n[ui]\ngap = 2\n"), 0644))

	cfg, err := NewConfigService(nil).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "tags.toml", cfg.Catalog)
	assert.Equal(t, 2, cfg.UISettings.Gap)
	assert.Equal(t, ThemeAuto, cfg.UISettings.Theme)
	assert.True(t, cfg.UISettings.PersistSelection)
	assert.Empty(t, cfg.Selected)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0644))
	t.Setenv("TAGROW_UI_THEME", "light")

	cfg, err := NewConfigService(nil).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, cfg.UISettings.Theme)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("catalog = \"a.toml\"\n"), 0644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("catalog", "", "")
	flags.String("theme", "", "")
	require.NoError(t, flags.Parse([]string{"--catalog", "b.toml"}))

	cfg, err := NewConfigService(flags).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "b.toml", cfg.Catalog)
	// unset flag does not clobber the default
	assert.Equal(t, ThemeAuto, cfg.UISettings.Theme)
}

func TestInvalidValuesAreRejected(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"theme": "[ui]\ntheme = \"sepia\"\n",
		"step":  "[ui]\nscroll_step = 0\n",
		"tol":   "[ui]\nfade_tolerance = -1.0\n",
		"gap":   "[ui]\ngap = -3\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := NewConfigService(nil).LoadFromPath(path)
			require.Error(t, err)
		})
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("ui = [unterminated"), 0644))

	_, err := NewConfigService(nil).LoadFromPath(path)
	require.ErrorContains(t, err, "failed to parse config")
}
