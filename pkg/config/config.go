// Package config handles loading and saving hs configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/hs/config.yaml
//   - Data:    ~/.local/share/hs/ (default export directory)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/model"
)

const appName = "hs"

// ChartConfig holds canvas geometry, marker style and the starting axes.
type ChartConfig struct {
	Width         float64      `yaml:"width,omitempty"`
	Height        float64      `yaml:"height,omitempty"`
	Margin        chart.Margin `yaml:"margin,omitempty"`
	TransitionMS  int          `yaml:"transition_ms,omitempty"`
	MarkerRadius  float64      `yaml:"marker_radius,omitempty"`
	MarkerFill    string       `yaml:"marker_fill,omitempty"`
	MarkerOpacity float64      `yaml:"marker_opacity,omitempty"`
	LabelFontSize float64      `yaml:"label_font_size,omitempty"`
	DefaultX      string       `yaml:"default_x,omitempty"` // poverty, age, income
	DefaultY      string       `yaml:"default_y,omitempty"` // obesity, smokes, healthcare
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	FPS        int   `yaml:"fps,omitempty"`         // Animation frame rate
	ShowLabels *bool `yaml:"show_labels,omitempty"` // Draw state codes next to markers
	Watch      *bool `yaml:"watch,omitempty"`       // Reload when the data file changes
}

// DataConfig locates the dataset.
type DataConfig struct {
	Path string `yaml:"path,omitempty"`
}

// ExportConfig controls snapshot output.
type ExportConfig struct {
	Dir     string   `yaml:"dir,omitempty"`
	Formats []string `yaml:"formats,omitempty"` // svg, png, html
}

// Config is the top-level configuration for hs.
type Config struct {
	Chart  ChartConfig  `yaml:"chart,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Data   DataConfig   `yaml:"data,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// ExportFormats lists the formats understood by the exporter.
var ExportFormats = []string{"svg", "png", "html"}

// DefaultConfig returns a Config matching the built-in chart defaults.
func DefaultConfig() Config {
	layout := chart.DefaultLayout()
	style := chart.DefaultStyle()
	return Config{
		Chart: ChartConfig{
			Width:         layout.Width,
			Height:        layout.Height,
			Margin:        layout.Margin,
			TransitionMS:  int(chart.DefaultTransitionDuration / time.Millisecond),
			MarkerRadius:  style.MarkerRadius,
			MarkerFill:    style.MarkerFill,
			MarkerOpacity: style.MarkerOpacity,
			LabelFontSize: style.LabelFontSize,
			DefaultX:      model.ColumnPoverty.Tag(),
			DefaultY:      model.ColumnHealthcare.Tag(),
		},
		UI: UIConfig{FPS: 30},
		Export: ExportConfig{
			Dir:     ".",
			Formats: append([]string(nil), ExportFormats...),
		},
	}
}

// ConfigDir returns the XDG config directory for hs.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG data directory for hs.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Missing keys keep their
// defaults; a missing file yields DefaultConfig.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Path = expandHome(cfg.Data.Path)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks that the chart settings produce a usable session and
// that export formats are known.
func (c Config) Validate() error {
	if _, err := c.ChartOptions(); err != nil {
		return err
	}
	if c.UI.FPS < 0 || c.UI.FPS > 120 {
		return fmt.Errorf("ui.fps must be between 1 and 120, got %d", c.UI.FPS)
	}
	for _, f := range c.Export.Formats {
		if !isExportFormat(f) {
			return fmt.Errorf("unknown export format %q (want one of %s)", f, strings.Join(ExportFormats, ", "))
		}
	}
	return nil
}

// ChartOptions converts the chart section into session options.
func (c Config) ChartOptions() (chart.Options, error) {
	opts := chart.DefaultOptions()
	opts.Layout = chart.Layout{Width: c.Chart.Width, Height: c.Chart.Height, Margin: c.Chart.Margin}
	opts.Style = chart.Style{
		MarkerRadius:  c.Chart.MarkerRadius,
		MarkerFill:    c.Chart.MarkerFill,
		MarkerOpacity: c.Chart.MarkerOpacity,
		LabelFontSize: c.Chart.LabelFontSize,
	}
	opts.TransitionDuration = time.Duration(c.Chart.TransitionMS) * time.Millisecond

	var err error
	if c.Chart.DefaultX != "" {
		if opts.DefaultX, err = model.ParseAxisColumn(model.AxisX, c.Chart.DefaultX); err != nil {
			return opts, fmt.Errorf("chart.default_x: %w", err)
		}
	}
	if c.Chart.DefaultY != "" {
		if opts.DefaultY, err = model.ParseAxisColumn(model.AxisY, c.Chart.DefaultY); err != nil {
			return opts, fmt.Errorf("chart.default_y: %w", err)
		}
	}
	if opts.Style.MarkerRadius <= 0 {
		return opts, fmt.Errorf("chart.marker_radius must be positive")
	}
	if opts.Style.MarkerOpacity < 0 || opts.Style.MarkerOpacity > 1 {
		return opts, fmt.Errorf("chart.marker_opacity must be within [0, 1]")
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("chart: %w", err)
	}
	return opts, nil
}

// FrameInterval returns the delay between animation frames.
func (c Config) FrameInterval() time.Duration {
	fps := c.UI.FPS
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

// LabelsVisible reports whether state codes are drawn (default true).
func (c Config) LabelsVisible() bool {
	return c.UI.ShowLabels == nil || *c.UI.ShowLabels
}

// WatchEnabled reports whether live reload is on (default true).
func (c Config) WatchEnabled() bool {
	return c.UI.Watch == nil || *c.UI.Watch
}

func isExportFormat(f string) bool {
	for _, known := range ExportFormats {
		if strings.EqualFold(f, known) {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
