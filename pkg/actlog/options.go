package actlog

import (
	"fmt"
	"log/slog"

	"github.com/actlog/actlog-go/pkg/actlog/classify"
)

// Defaults for scan options.
const (
	// DefaultWindowSize is the number of bytes processed between yields.
	DefaultWindowSize = 1 << 20

	// DefaultMaxEvents caps the decoded event list.
	DefaultMaxEvents = 500_000

	// DefaultMaxStatusEvents caps status add/remove events.
	DefaultMaxStatusEvents = 100_000
)

// ProgressFunc receives the fraction of input consumed, in [0, 1].
// Returning an error aborts the scan.
type ProgressFunc func(fraction float64) error

// Option configures Scan, ScanImmediate, ScanStructure and Extract using the
// functional options pattern.
type Option func(*config)

// config holds internal configuration for a scan.
type config struct {
	maxEvents       int
	maxStatusEvents int
	includeStatus   bool
	includeRawLine  bool
	windowSize      int
	progress        ProgressFunc
	classifier      *classify.Classifier
	logger          *slog.Logger

	zonePlayers    []Combatant
	zonePlayersSet bool
}

// defaultConfig returns a config with sensible defaults.
func defaultConfig() *config {
	return &config{
		maxEvents:       DefaultMaxEvents,
		maxStatusEvents: DefaultMaxStatusEvents,
		includeStatus:   true,
		windowSize:      DefaultWindowSize,
		classifier:      classify.Default,
		logger:          discardLogger,
	}
}

// applyOptions applies functional options to a config.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option values.
func (c *config) validate() error {
	if c.maxEvents <= 0 {
		return fmt.Errorf("max events must be positive, got %d", c.maxEvents)
	}
	if c.maxStatusEvents < 0 {
		return fmt.Errorf("max status events must be non-negative, got %d", c.maxStatusEvents)
	}
	if c.windowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.windowSize)
	}
	return nil
}

// WithMaxEvents caps the total number of decoded events.
// Lines past the cap are dropped and the result is marked Truncated.
// Default: 500000.
func WithMaxEvents(n int) Option {
	return func(c *config) {
		c.maxEvents = n
	}
}

// WithMaxStatusEvents caps status add/remove events (counted together).
// Default: 100000.
func WithMaxStatusEvents(n int) Option {
	return func(c *config) {
		c.maxStatusEvents = n
	}
}

// WithIncludeStatus controls whether status add/remove lines are decoded at all.
// Skipped status lines do not mark the result as truncated.
// Default: true.
func WithIncludeStatus(include bool) Option {
	return func(c *config) {
		c.includeStatus = include
	}
}

// WithIncludeRawLine keeps the original log line on each event.
// Default: false.
func WithIncludeRawLine(include bool) Option {
	return func(c *config) {
		c.includeRawLine = include
	}
}

// WithWindowSize sets how many bytes are processed between yields and
// cancellation checks. Windows always end on a line boundary.
// Default: 1 MiB.
func WithWindowSize(n int) Option {
	return func(c *config) {
		c.windowSize = n
	}
}

// WithProgress sets a callback reporting the fraction of input consumed.
// It is called after every window and exactly once with 1.0.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithClassifier sets the player/pet classifier.
// If cls is nil, this option has no effect.
func WithClassifier(cls *classify.Classifier) Option {
	return func(c *config) {
		if cls != nil {
			c.classifier = cls
		}
	}
}

// WithLogger sets a logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithZonePlayers supplies the player roster for Extract, typically
// ZoneSession.Players. A supplied roster is used as-is and takes precedence
// over players re-derived from the window. Other scans ignore it.
func WithZonePlayers(players []Combatant) Option {
	return func(c *config) {
		c.zonePlayers = players
		c.zonePlayersSet = true
	}
}
