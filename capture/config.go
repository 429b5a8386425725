package capture

import "time"

// Config holds the engine's tuning knobs. The zero value is usable: New
// applies the defaults below.
type Config struct {
	// MinPageWidth is the minimum rendered width, in pixels, for an element
	// to count as a real page. Default: 800.
	MinPageWidth int `yaml:"min_page_width"`

	// StabilizeTimeout bounds how long one capture step waits for the
	// surface to yield full-size pages. Default: 20s.
	StabilizeTimeout time.Duration `yaml:"stabilize_timeout"`

	// PollInterval is the spacing between classifier samples while
	// stabilizing. Default: 1s.
	PollInterval time.Duration `yaml:"poll_interval"`

	// NavMaxAttempts is how many advance actions to try before declaring
	// end of document. Default: 2.
	NavMaxAttempts int `yaml:"nav_max_attempts"`

	// NavSettle is the fixed wait after each advance action before
	// re-checking for new content. Default: 4s.
	NavSettle time.Duration `yaml:"nav_settle"`
}

func (c *Config) defaults() {
	if c.MinPageWidth <= 0 {
		c.MinPageWidth = 800
	}
	if c.StabilizeTimeout <= 0 {
		c.StabilizeTimeout = 20 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.NavMaxAttempts <= 0 {
		c.NavMaxAttempts = 2
	}
	if c.NavSettle <= 0 {
		c.NavSettle = 4 * time.Second
	}
}
