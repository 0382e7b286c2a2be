package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barpack/pkg/cache"
	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/grid"
	"github.com/matzehuels/barpack/pkg/pipeline"
	"github.com/matzehuels/barpack/pkg/render/sink"
)

const configFile = "config.toml"

// Config is the TOML preset. Its values replace flag defaults; flags given
// on the command line still win.
type Config struct {
	Packing PackingConfig `toml:"packing"`
	Grid    grid.Params   `toml:"grid"`
	Render  RenderConfig  `toml:"render"`
	Cache   CacheConfig   `toml:"cache"`
}

// PackingConfig holds the packing engine parameters.
type PackingConfig struct {
	Density       int    `toml:"density"`
	SizeVariation int    `toml:"size_variation"`
	Overlap       int    `toml:"overlap"`
	Seed          uint64 `toml:"seed"`
}

// RenderConfig holds the bar size and output styling shared by both modes.
type RenderConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Formats    string  `toml:"formats"`
	Fill       bool    `toml:"fill"`
	Color      string  `toml:"color"`
	Background string  `toml:"background"`
	Scale      float64 `toml:"scale"`
	OffsetX    float64 `toml:"offset_x"`
	OffsetY    float64 `toml:"offset_y"`
}

// CacheConfig selects the layout cache backend.
type CacheConfig struct {
	Backend    string             `toml:"backend"`
	Dir        string             `toml:"dir"`
	MaxEntries int                `toml:"max_entries"`
	Redis      cache.RedisOptions `toml:"redis"`
}

// DefaultConfig returns the built-in preset.
func DefaultConfig() Config {
	return Config{
		Packing: PackingConfig{Density: pipeline.DefaultDensity},
		Grid:    grid.DefaultParams(),
		Render: RenderConfig{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Formats: pipeline.FormatSVG,
			Color:   pipeline.DefaultColor,
			Scale:   sink.DefaultScale,
		},
		Cache: CacheConfig{
			Backend:    cache.BackendFile,
			MaxEntries: cache.DefaultMemoryEntries,
			Redis:      cache.RedisOptions{Addr: "localhost:6379"},
		},
	}
}

// LoadConfig decodes the preset at path over the defaults. Keys missing from
// the file keep their default values; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that flags would otherwise reject.
func (c Config) Validate() error {
	if !cache.ValidBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend: %s (must be file, memory, redis or none)", c.Cache.Backend)
	}
	if err := errors.ValidateLayout(string(c.Grid.Layout)); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(parseFormats(c.Render.Formats)); err != nil {
		return err
	}
	return errors.ValidateHexColor(c.Render.Color)
}

// defaultPreset is written by "config init".
const defaultPreset = `# barpack preset. Command-line flags override these values.

[packing]
# Target coverage in percent (10-100).
density = 50
# Spread of circle sizes in percent (0-100).
size_variation = 0
# 0 keeps circles apart, 100 lets them overlap down to 20% of their radii.
overlap = 0
# Fixed seed for reproducible bars; 0 picks a random one.
seed = 0

[grid]
rows = 2
density = 100
size_variation_y = 0
size_variation_x = 0
overlap = 0
# straight or stagger
layout = "straight"

[render]
width = 250.0
height = 18.0
# Comma-separated: svg, png, pdf, dxf, json
formats = "svg"
fill = false
color = "#000000"
background = ""
scale = 2.0
offset_x = 0.0
offset_y = 0.0

[cache]
# file, memory, redis or none
backend = "file"
# Empty uses $XDG_CACHE_HOME/barpack.
dir = ""
max_entries = 1024

[cache.redis]
addr = "localhost:6379"
password = ""
db = 0
`

// configCommand creates the preset management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the TOML preset",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default preset",
		Args:  cobra.MaximumNArgs(1),
		// The preset may not exist yet, so it is not loaded.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.presetPath(args)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := os.WriteFile(path, []byte(defaultPreset), 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Wrote preset")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing preset")
	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(c.Config); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}
}

func (c *CLI) presetPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if c.configPath != "" {
		return c.configPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, configFile), nil
}
