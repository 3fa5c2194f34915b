// Package statusbar defines the render contract the reconciler calls into
// on every pass. A real pixel renderer is out of scope; the default
// implementation logs the state at debug level, matching the teacher's
// habit of a log-only stub for a surface not yet built out (see the
// teacher's own tui package's headless fallbacks).
package statusbar

import (
	"log/slog"

	"github.com/tilewm/tilewm/internal/platform"
)

// State is the snapshot a Renderer draws from, refreshed once per
// reconcile pass.
type State struct {
	ActiveWorkspace int
	Monitors        []MonitorState
	Visible         bool
}

// MonitorState is one monitor's worth of status-bar content.
type MonitorState struct {
	MonitorID    platform.MonitorID
	WorkspaceTag string
	FocusedTitle string
}

// Renderer draws (or otherwise surfaces) the current State.
type Renderer interface {
	Render(state State)
}

// LogRenderer is the default Renderer: it logs the state at debug level
// and draws nothing. It exists so the reconcile pass always has something
// to call, without committing this repository to a pixel-drawing toolkit.
type LogRenderer struct {
	logger *slog.Logger
}

// NewLogRenderer builds a LogRenderer. logger defaults to slog's default
// handler when nil.
func NewLogRenderer(logger *slog.Logger) *LogRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRenderer{logger: logger}
}

func (r *LogRenderer) Render(state State) {
	r.logger.Debug("statusbar state",
		"active_workspace", state.ActiveWorkspace,
		"visible", state.Visible,
		"monitors", len(state.Monitors),
	)
}
