// Package config loads the window manager's tunables from
// ~/.config/tilewm/config.yaml, merging user overrides on top of the
// built-in keybinding library and the hardcoded defaults. Grounded on the
// teacher's own internal/config package: a typed Config, a pointer-field
// RawConfig for "was this set by the user", and a default/builtin/file
// merge performed once at startup.
package config

import "fmt"

// Config holds every tunable the core needs once loaded. Geometry fields
// are pixels; ratios are fractions of a split's total length.
type Config struct {
	Gap                   int
	EdgeInset             int
	StatusBarHeight       int
	DefaultSplitRatio     float64
	MinSplitRatio         float64
	MaxSplitRatio         float64
	Keybindings           map[string]string
	BorderColorFocused    uint32
	BorderColorUnfocused  uint32
	TransparencyUnfocused uint8
	LogLevel              string
}

// DefaultConfig returns the hardcoded defaults, including the full
// built-in keybinding library.
func DefaultConfig() *Config {
	return &Config{
		Gap:                   8,
		EdgeInset:             8,
		StatusBarHeight:       24,
		DefaultSplitRatio:     0.5,
		MinSplitRatio:         0.1,
		MaxSplitRatio:         0.9,
		Keybindings:           BuiltinKeybindings(),
		BorderColorFocused:    0x5E81ACFF,
		BorderColorUnfocused:  0x4C566AFF,
		TransparencyUnfocused: 0xE6,
		LogLevel:              "info",
	}
}

// Validate rejects configurations the core could not run against safely.
func (c *Config) Validate() error {
	if c.Gap < 0 {
		return fmt.Errorf("gap: must be >= 0, got %d", c.Gap)
	}
	if c.EdgeInset < 0 {
		return fmt.Errorf("edge_inset: must be >= 0, got %d", c.EdgeInset)
	}
	if c.StatusBarHeight < 0 {
		return fmt.Errorf("status_bar_height: must be >= 0, got %d", c.StatusBarHeight)
	}
	if c.MinSplitRatio <= 0 || c.MaxSplitRatio >= 1 || c.MinSplitRatio >= c.MaxSplitRatio {
		return fmt.Errorf("split ratio bounds invalid: min=%v max=%v", c.MinSplitRatio, c.MaxSplitRatio)
	}
	if c.DefaultSplitRatio < c.MinSplitRatio || c.DefaultSplitRatio > c.MaxSplitRatio {
		return fmt.Errorf("default_split_ratio %v out of [%v,%v]", c.DefaultSplitRatio, c.MinSplitRatio, c.MaxSplitRatio)
	}
	return nil
}
