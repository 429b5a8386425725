package grab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chuachunmin/issuegrab/browser"
	"github.com/chuachunmin/issuegrab/capture"
	"github.com/chuachunmin/issuegrab/viewer"
)

// Config is the top-level issuegrab configuration.
type Config struct {
	Browser BrowserConfig         `yaml:"browser"`
	Viewer  viewer.Config         `yaml:"viewer"`
	Surface browser.SurfaceConfig `yaml:"surface"`
	Capture capture.Config        `yaml:"capture"`
	Output  OutputConfig          `yaml:"output"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome. Empty = launch.
	Remote string `yaml:"remote"`

	// Headless runs without a window. Default false: credential flows are
	// easier to supervise headful.
	Headless bool `yaml:"headless"`

	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
}

// OutputConfig says where artifacts land.
type OutputConfig struct {
	// PagesDir receives the individual page images. Default: output_pages.
	PagesDir string `yaml:"pages_dir"`

	// OutDir receives the assembled PDF. Default: output.
	OutDir string `yaml:"out_dir"`

	// JournalPath is the SQLite capture journal. Default: issuegrab.db.
	JournalPath string `yaml:"journal"`
}

// Environment variables consulted for credentials. Never stored in YAML.
const (
	EnvUsername = "ISSUEGRAB_USERNAME"
	EnvPassword = "ISSUEGRAB_PASSWORD"
)

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("grab: parse config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// DefaultConfig returns a usable configuration for the stock portal layout.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields. Component-level defaults (capture
// thresholds, surface selectors) are applied by their own packages on
// construction; this covers the wiring-level ones.
func (c *Config) ApplyDefaults() {
	if c.Output.PagesDir == "" {
		c.Output.PagesDir = "output_pages"
	}
	if c.Output.OutDir == "" {
		c.Output.OutDir = "output"
	}
	if c.Output.JournalPath == "" {
		c.Output.JournalPath = "issuegrab.db"
	}
}

// LoadCredentialsFromEnv copies the credential environment variables into the
// viewer config. Returns an error when either is missing.
func (c *Config) LoadCredentialsFromEnv() error {
	c.Viewer.Username = os.Getenv(EnvUsername)
	c.Viewer.Password = os.Getenv(EnvPassword)
	if c.Viewer.Username == "" || c.Viewer.Password == "" {
		return fmt.Errorf("grab: %s and %s must be set", EnvUsername, EnvPassword)
	}
	return nil
}
