// Package reconcile implements the reconciler (C5): it diffs the model
// against the last state it applied and issues the minimal set of
// platform calls to catch reality up. Grounded on the diff contract in
// §4.5 and on the teacher's internal/daemon/reconciler.go for the overall
// shape of a reconcile pass (compare expected-vs-actual, act on the
// difference, never abort on a single failure).
package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/layout"
	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/statusbar"
)

// Config carries the layout and decoration parameters the reconciler needs
// that don't belong to the model itself.
type Config struct {
	Gap                   int
	EdgeInset             int
	StatusBarHeight       int
	BorderColorFocused    uint32
	BorderColorUnfocused  uint32
	TransparencyUnfocused uint8
}

// Reconciler owns the per-handle caches that make a reconcile pass
// idempotent: the last rect applied to each handle, and the DWM frame
// inset measured for it. Both are scoped to the reconciler's own
// lifetime, per §9's "global mutable state" note.
type Reconciler struct {
	backend  platform.Backend
	cfg      Config
	logger   *slog.Logger
	renderer statusbar.Renderer

	lastRect       map[platform.WindowHandle]geometry.Rect
	insetCache     map[platform.WindowHandle]geometry.Insets
	lastTopmost    map[platform.WindowHandle]bool
	lastForeground platform.WindowHandle
}

// New builds a Reconciler bound to backend. logger defaults to slog's
// default handler when nil, matching the teacher's daemon package
// convention of always having a usable logger. renderer defaults to a
// statusbar.LogRenderer when nil.
func New(backend platform.Backend, cfg Config, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		backend:     backend,
		cfg:         cfg,
		logger:      logger,
		renderer:    statusbar.NewLogRenderer(logger),
		lastRect:    make(map[platform.WindowHandle]geometry.Rect),
		insetCache:  make(map[platform.WindowHandle]geometry.Insets),
		lastTopmost: make(map[platform.WindowHandle]bool),
	}
}

// SetRenderer overrides the default log-only statusbar.Renderer.
func (r *Reconciler) SetRenderer(renderer statusbar.Renderer) {
	r.renderer = renderer
}

// Forget drops every cache entry for handle. Called on destroy events so a
// handle reused by the OS never sees stale compensation data (§4.2's
// "invalidated on destroy").
func (r *Reconciler) Forget(handle platform.WindowHandle) {
	delete(r.lastRect, handle)
	delete(r.insetCache, handle)
	delete(r.lastTopmost, handle)
}

// Reconcile brings every monitor's state in line with m. It never returns
// an error: individual platform-call failures are logged and skipped per
// §4.5/§7's transient-failure policy, and a failed call never updates the
// corresponding cache, so the next pass retries it.
//
// Order matters: hide, then show, then position — a window newly active on
// this pass must be shown before reconcileMonitor seeds its lastRect cache,
// or the corrective reposition-after-show gets suppressed as a no-op cache
// hit and the window sits at whatever stale rect it had while hidden.
func (r *Reconciler) Reconcile(m *model.Model) {
	r.hideInactive(m)
	r.showActive(m)
	for mi, mon := range m.Monitors {
		r.reconcileMonitor(m, mi, mon)
	}
	r.reconcileDecorations(m)
	r.renderer.Render(r.statusbarState(m))

	for _, mon := range m.Monitors {
		for ws := 1; ws <= model.WorkspaceCount; ws++ {
			mon.Workspaces[ws].Dirty = false
		}
	}
}

func (r *Reconciler) statusbarState(m *model.Model) statusbar.State {
	state := statusbar.State{
		ActiveWorkspace: m.ActiveWorkspace,
		Visible:         m.StatusBarVisible,
		Monitors:        make([]statusbar.MonitorState, len(m.Monitors)),
	}
	for i, mon := range m.Monitors {
		focusedTitle := ""
		if w, ok := m.Window(m.LastFocusedHandle); ok && w.MonitorIndex == i {
			focusedTitle = w.Title
		}
		state.Monitors[i] = statusbar.MonitorState{
			MonitorID:    mon.ID,
			WorkspaceTag: fmt.Sprintf("%d", mon.ActiveWorkspaceIndex),
			FocusedTitle: focusedTitle,
		}
	}
	return state
}

func (r *Reconciler) reconcileMonitor(m *model.Model, mi int, mon *model.Monitor) {
	ws := mon.Workspaces[mon.ActiveWorkspaceIndex]

	var tiled []platform.WindowHandle
	var fullscreen []*model.Window
	for _, h := range ws.Sequence {
		w, ok := m.Window(h)
		if !ok {
			continue
		}
		switch {
		case w.IsFullscreen:
			fullscreen = append(fullscreen, w)
		case w.IsTiled:
			tiled = append(tiled, h)
		}
	}

	region := r.tileRegion(mon, m.StatusBarVisible)
	ws.Tree = layout.Compute(region, r.cfg.Gap, tiled, ws.Tree)

	for _, p := range layout.Leaves(ws.Tree) {
		r.applyRect(p.Window, p.Rect)
		if w, ok := m.Window(p.Window); ok {
			w.Rect = p.Rect
			// Keeps OriginalRect current with the last tiled rect (§9's
			// hotplug decision), so a later fullscreen toggle restores to
			// a rect that's still on a monitor that exists.
			w.OriginalRect = p.Rect
		}
	}

	for _, w := range fullscreen {
		r.applyRect(w.Handle, mon.FullRect)
		r.applyTopmost(w.Handle, true)
		w.Rect = mon.FullRect
	}

	_ = mi
}

// tileRegion computes the tiling region for a monitor: its work rect,
// inset by the configured edge gap, minus a status bar band reserved at
// the top when the bar is visible.
func (r *Reconciler) tileRegion(mon *model.Monitor, statusBarVisible bool) geometry.Rect {
	region := mon.WorkRect.Inset(r.cfg.EdgeInset)
	if statusBarVisible && r.cfg.StatusBarHeight > 0 {
		region.Top += r.cfg.StatusBarHeight
		if region.Top > region.Bottom {
			region.Top = region.Bottom
		}
	}
	return region
}

// applyRect repositions handle to target (expanded by its cached frame
// inset) only if it differs from the last rect applied to that handle.
func (r *Reconciler) applyRect(handle platform.WindowHandle, target geometry.Rect) {
	compensated := target.Expand(r.frameInset(handle))
	if last, ok := r.lastRect[handle]; ok && last.Equal(compensated) {
		return
	}
	if err := r.backend.Reposition(handle, compensated); err != nil {
		r.logger.Warn("reposition failed", "handle", handle, "error", err)
		return
	}
	r.lastRect[handle] = compensated
}

func (r *Reconciler) applyTopmost(handle platform.WindowHandle, topmost bool) {
	if last, ok := r.lastTopmost[handle]; ok && last == topmost {
		return
	}
	if err := r.backend.SetTopmost(handle, topmost); err != nil {
		r.logger.Warn("set topmost failed", "handle", handle, "error", err)
		return
	}
	r.lastTopmost[handle] = topmost
}

// frameInset returns the cached per-edge compensation for handle, querying
// and caching it on first use.
func (r *Reconciler) frameInset(handle platform.WindowHandle) geometry.Insets {
	if insets, ok := r.insetCache[handle]; ok {
		return insets
	}
	insets, err := r.backend.FrameInset(handle)
	if err != nil {
		r.logger.Warn("frame inset query failed", "handle", handle, "error", err)
		return geometry.Insets{}
	}
	r.insetCache[handle] = insets
	return insets
}

// hideInactive implements the hide half of §4.5's visibility contract: every
// modeled window on a workspace other than the active one gets hidden,
// regardless of which monitor it's on.
func (r *Reconciler) hideInactive(m *model.Model) {
	for _, w := range m.Windows() {
		if w.Workspace == m.ActiveWorkspace || w.HiddenByUs {
			continue
		}
		if err := r.backend.Hide(w.Handle); err != nil {
			r.logger.Warn("hide failed", "handle", w.Handle, "error", err)
			continue
		}
		w.HiddenByUs = true
	}
}

// showActive implements the show half of §4.5's visibility contract. It
// must run before reconcileMonitor positions the active workspace's tiled
// windows, so the show call always precedes the reposition call for a
// window that just became active — never the reverse.
func (r *Reconciler) showActive(m *model.Model) {
	for _, w := range m.Windows() {
		if w.Workspace != m.ActiveWorkspace || !w.HiddenByUs {
			continue
		}
		if err := r.backend.Show(w.Handle); err != nil {
			r.logger.Warn("show failed", "handle", w.Handle, "error", err)
			continue
		}
		w.HiddenByUs = false
	}
}

// reconcileDecorations updates border color and transparency only for the
// previously and newly foregrounded windows, and only when
// LastFocusedHandle actually changed since the prior pass — §4.5 and §9's
// flicker-avoidance note.
func (r *Reconciler) reconcileDecorations(m *model.Model) {
	if m.LastFocusedHandle == r.lastForeground {
		return
	}
	previous := r.lastForeground
	current := m.LastFocusedHandle
	r.lastForeground = current

	if previous != 0 {
		r.decorate(previous, false)
	}
	if current != 0 {
		r.decorate(current, true)
	}
}

func (r *Reconciler) decorate(handle platform.WindowHandle, focused bool) {
	color := r.cfg.BorderColorUnfocused
	alpha := uint8(0xFF)
	if focused {
		color = r.cfg.BorderColorFocused
	} else {
		alpha = r.cfg.TransparencyUnfocused
	}
	if err := r.backend.SetBorderColor(handle, color); err != nil {
		r.logger.Warn("set border color failed", "handle", handle, "error", err)
	}
	if err := r.backend.SetTransparency(handle, alpha); err != nil {
		r.logger.Warn("set transparency failed", "handle", handle, "error", err)
	}
}
