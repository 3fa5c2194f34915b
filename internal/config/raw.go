package config

// RawConfig mirrors Config but with pointer/nil-able fields, so the loader
// can tell "absent from the file" apart from "explicitly zero".
type RawConfig struct {
	Gap                   *int              `yaml:"gap"`
	EdgeInset             *int              `yaml:"edge_inset"`
	StatusBarHeight       *int              `yaml:"status_bar_height"`
	DefaultSplitRatio     *float64          `yaml:"default_split_ratio"`
	MinSplitRatio         *float64          `yaml:"min_split_ratio"`
	MaxSplitRatio         *float64          `yaml:"max_split_ratio"`
	Keybindings           map[string]string `yaml:"keybindings"`
	BorderColorFocused    *uint32           `yaml:"border_color_focused"`
	BorderColorUnfocused  *uint32           `yaml:"border_color_unfocused"`
	TransparencyUnfocused *uint8            `yaml:"transparency_unfocused"`
	LogLevel              *string           `yaml:"log_level"`
}

// applyTo overlays raw's set fields onto cfg, and merges Keybindings
// key-wise on top of the built-in library rather than replacing it wholesale.
func (raw RawConfig) applyTo(cfg *Config) {
	if raw.Gap != nil {
		cfg.Gap = *raw.Gap
	}
	if raw.EdgeInset != nil {
		cfg.EdgeInset = *raw.EdgeInset
	}
	if raw.StatusBarHeight != nil {
		cfg.StatusBarHeight = *raw.StatusBarHeight
	}
	if raw.DefaultSplitRatio != nil {
		cfg.DefaultSplitRatio = *raw.DefaultSplitRatio
	}
	if raw.MinSplitRatio != nil {
		cfg.MinSplitRatio = *raw.MinSplitRatio
	}
	if raw.MaxSplitRatio != nil {
		cfg.MaxSplitRatio = *raw.MaxSplitRatio
	}
	if raw.BorderColorFocused != nil {
		cfg.BorderColorFocused = *raw.BorderColorFocused
	}
	if raw.BorderColorUnfocused != nil {
		cfg.BorderColorUnfocused = *raw.BorderColorUnfocused
	}
	if raw.TransparencyUnfocused != nil {
		cfg.TransparencyUnfocused = *raw.TransparencyUnfocused
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	for action, chord := range raw.Keybindings {
		cfg.Keybindings[action] = chord
	}
}
