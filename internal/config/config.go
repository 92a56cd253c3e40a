package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abelbrown/tracelens/internal/correlation"
)

// Config is the persistent application configuration
type Config struct {
	// Correlation engine tuning
	Engine EngineConfig `json:"engine"`

	// Codebase scan settings
	Scan ScanConfig `json:"scan"`

	// UI Preferences
	UI UIConfig `json:"ui"`
}

// EngineConfig tunes the correlation engine
type EngineConfig struct {
	// MaxTimeDeltaMS is the correlation window in milliseconds
	MaxTimeDeltaMS float64 `json:"max_time_delta_ms"`

	// MinConfidence is the emission threshold, 0..1
	MinConfidence float64 `json:"min_confidence"`
}

// ScanConfig tunes the codebase batch scanner
type ScanConfig struct {
	// Extensions limits scans to these file suffixes
	Extensions []string `json:"extensions"`

	// Workers bounds concurrent file analysis; 0 means NumCPU
	Workers int `json:"workers"`

	// FilesPerSecond throttles the scan; 0 disables throttling
	FilesPerSecond float64 `json:"files_per_second"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme       string `json:"theme"`
	EventLimit  int    `json:"event_limit"`
	DensityMode string `json:"density_mode"` // "comfortable" or "compact"
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxTimeDeltaMS: correlation.DefaultMaxTimeDeltaMS,
			MinConfidence:  correlation.DefaultMinConfidence,
		},
		Scan: ScanConfig{
			Extensions: []string{"dart", "swift", "kt", "java", "js", "ts", "py"},
			Workers:    0,
		},
		UI: UIConfig{
			Theme:       "dark",
			EventLimit:  500,
			DensityMode: "comfortable",
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tracelens", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	return loadFrom(ConfigPath())
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.fillDefaults()
	return &cfg, nil
}

// fillDefaults patches zero values left by older config files
func (c *Config) fillDefaults() {
	if c.Engine.MaxTimeDeltaMS <= 0 {
		c.Engine.MaxTimeDeltaMS = correlation.DefaultMaxTimeDeltaMS
	}
	if c.Engine.MinConfidence <= 0 || c.Engine.MinConfidence > 1 {
		c.Engine.MinConfidence = correlation.DefaultMinConfidence
	}
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = DefaultConfig().Scan.Extensions
	}
	if c.UI.EventLimit <= 0 {
		c.UI.EventLimit = 500
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "dark"
	}
	if c.UI.DensityMode == "" {
		c.UI.DensityMode = "comfortable"
	}
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// NewEngine builds a correlation engine from the configured tuning
func (c *Config) NewEngine() *correlation.Engine {
	return correlation.NewEngine(c.Engine.MaxTimeDeltaMS, c.Engine.MinConfidence)
}
