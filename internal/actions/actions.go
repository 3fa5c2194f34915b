// Package actions implements the hotkey-triggered action handlers (C7):
// focus/swap/move/close/float/fullscreen/resize/flip/workspace-switch.
// Each handler mutates the model only; the next reconcile pass (driven by
// the event loop) is responsible for making the OS agree. Grounded on the
// move/focus flow in the original implementation's workspace_manager.rs
// (find_next_focus, move_window, set_window_focus) and on the spec's C7
// table in §4.4.
package actions

import (
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/layout"
	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/platform"
)

const resizeStep = 0.05

// Handler dispatches inbound Action values against the model, issuing the
// handful of platform calls (foreground, close) that can't wait for the
// next reconcile pass.
type Handler struct {
	model   *model.Model
	backend platform.Backend
}

// New builds a Handler bound to m and backend.
func New(m *model.Model, backend platform.Backend) *Handler {
	return &Handler{model: m, backend: backend}
}

// Dispatch applies action to the model. ActionExit is intentionally not
// handled here — the event loop intercepts it before calling Dispatch, since
// it has no model effect.
func (h *Handler) Dispatch(action platform.Action) {
	switch action.Kind {
	case platform.ActionFocusDir:
		h.focusDir(action.Dir)
	case platform.ActionSwapDir:
		h.swapDir(action.Dir)
	case platform.ActionSwitchWorkspace:
		h.switchWorkspace(action.Workspace)
	case platform.ActionMoveToWorkspace:
		h.moveToWorkspace(action.Workspace)
	case platform.ActionClose:
		h.close()
	case platform.ActionToggleFloat:
		h.toggleFloat()
	case platform.ActionToggleFullscreen:
		h.toggleFullscreen()
	case platform.ActionToggleStatusBar:
		h.model.StatusBarVisible = !h.model.StatusBarVisible
		h.markActiveWorkspacesDirty()
	case platform.ActionFlipNode:
		h.flipNode()
	case platform.ActionResizeHoriz:
		h.resize(action.Delta)
	case platform.ActionResizeVert:
		h.resize(action.Delta)
	case platform.ActionMoveMonitor:
		h.moveMonitor(action.Dir)
	}
}

func (h *Handler) focused() *model.Window {
	w, ok := h.model.Window(h.model.LastFocusedHandle)
	if !ok {
		return nil
	}
	return w
}

// focusDir moves input focus to the nearest window in dir, per §4.4:
// search the focused window's own monitor first, then fall back to every
// monitor's active-workspace windows.
func (h *Handler) focusDir(dir platform.Direction) {
	focused := h.focused()
	if focused == nil {
		return
	}

	candidates := h.model.WorkspaceWindows(focused.MonitorIndex, focused.Workspace)
	neighbor := model.FindNeighbor(focused, candidates, dir)
	if neighbor == nil {
		neighbor = h.findNeighborAcrossMonitors(focused, dir)
	}
	if neighbor == nil {
		return
	}

	if err := h.backend.SetForeground(neighbor.Handle); err != nil {
		return
	}
	h.model.LastFocusedHandle = neighbor.Handle
}

func (h *Handler) findNeighborAcrossMonitors(focused *model.Window, dir platform.Direction) *model.Window {
	var all []*model.Window
	for mi, mon := range h.model.Monitors {
		if mi == focused.MonitorIndex {
			continue
		}
		all = append(all, h.model.WorkspaceWindows(mi, mon.ActiveWorkspaceIndex)...)
	}
	return model.FindNeighbor(focused, all, dir)
}

// swapDir exchanges the focused window's sequence position with its
// neighbor in dir. Swap only changes ordering — the reconciler rebuilds
// the layout and focus tracks the previously focused handle's new index.
func (h *Handler) swapDir(dir platform.Direction) {
	focused := h.focused()
	if focused == nil {
		return
	}
	h.model.SwapAdjacent(focused.Handle, dir)
}

// switchWorkspace changes the global active workspace. Per the Fullscreen
// state machine (§4.8), any fullscreen window on the workspace being left
// is first restored to Tiled so it doesn't hide while still fullscreen.
func (h *Handler) switchWorkspace(n int) {
	if n < 1 || n > model.WorkspaceCount {
		return
	}
	for _, w := range h.model.Windows() {
		if w.Workspace == h.model.ActiveWorkspace && w.IsFullscreen {
			h.restoreFromFullscreen(w)
		}
	}
	h.model.SetActiveWorkspace(n)
}

func (h *Handler) moveToWorkspace(n int) {
	focused := h.focused()
	if focused == nil {
		return
	}
	h.model.MoveWindow(focused.Handle, n)
}

func (h *Handler) close() {
	focused := h.focused()
	if focused == nil {
		return
	}
	h.backend.Close(focused.Handle)
}

// toggleFloat flips a window between Tiled and Floating. A floating
// window is excluded from the Dwindle tree and keeps its last user-set
// rect (§4.8). Nothing is captured on entering float: the reconciler only
// positions tiled and fullscreen windows, so a floating window stays where
// it was last placed and its Rect keeps the last value the reconciler set.
func (h *Handler) toggleFloat() {
	focused := h.focused()
	if focused == nil || focused.IsFullscreen {
		return
	}
	focused.IsTiled = !focused.IsTiled
}

// toggleFullscreen enters or restores fullscreen per the state machine in
// §4.8. Entering only sets IsFullscreen: OriginalRect already holds the
// last tiled rect (the reconciler keeps it in sync), and the reconciler's
// next pass places the window on the monitor's full rect and sets it
// topmost. Restoring clears IsFullscreen, returns the window to Tiled at
// OriginalRect and clears topmost.
func (h *Handler) toggleFullscreen() {
	focused := h.focused()
	if focused == nil {
		return
	}
	if focused.IsFullscreen {
		h.restoreFromFullscreen(focused)
		return
	}
	focused.IsFullscreen = true
}

func (h *Handler) restoreFromFullscreen(w *model.Window) {
	w.IsFullscreen = false
	w.IsTiled = true
	w.Rect = w.OriginalRect
	h.backend.SetTopmost(w.Handle, false)
}

// flipNode toggles the split direction of the split nearest the focused
// window's leaf in the active workspace's tile tree (the "current node" of
// §4.2). Split directions are kept across rebuilds at every depth while the
// window count is unchanged.
func (h *Handler) flipNode() {
	focused := h.focused()
	if focused == nil {
		return
	}
	ws := h.model.Monitors[focused.MonitorIndex].Workspaces[focused.Workspace]
	if node := layout.ParentOf(ws.Tree, focused.Handle); node != nil {
		node.Flip()
	}
}

// resize adjusts the active workspace's tile tree root ratio by delta,
// per §4.2's "Resize horizontally/vertically modify the root's ratio".
func (h *Handler) resize(delta float64) {
	focused := h.focused()
	if focused == nil {
		return
	}
	ws := h.model.Monitors[focused.MonitorIndex].Workspaces[focused.Workspace]
	if ws.Tree != nil {
		ws.Tree.Resize(delta)
	}
}

// moveMonitor relocates the focused window to the adjacent monitor in
// dir, chosen by comparing monitor work-rect centers, preserving its
// workspace number.
func (h *Handler) moveMonitor(dir platform.Direction) {
	focused := h.focused()
	if focused == nil || len(h.model.Monitors) < 2 {
		return
	}
	target := nearestMonitor(h.model, focused.MonitorIndex, dir)
	if target < 0 || target == focused.MonitorIndex {
		return
	}

	ws := h.model.Monitors[focused.MonitorIndex].Workspaces[focused.Workspace]
	for i, hdl := range ws.Sequence {
		if hdl == focused.Handle {
			ws.Sequence = append(ws.Sequence[:i], ws.Sequence[i+1:]...)
			break
		}
	}
	ws.Dirty = true

	targetWs := h.model.Monitors[target].Workspaces[focused.Workspace]
	targetWs.Sequence = append(targetWs.Sequence, focused.Handle)
	targetWs.Dirty = true

	focused.MonitorIndex = target
	h.model.RebuildLocationIndex()
}

func nearestMonitor(m *model.Model, from int, dir platform.Direction) int {
	origin := m.Monitors[from].WorkRect
	best, bestDist := -1, 0
	for i, mon := range m.Monitors {
		if i == from {
			continue
		}
		ok, dist := monitorDirectionMatch(origin, mon.WorkRect, dir)
		if !ok {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

func monitorDirectionMatch(origin, candidate geometry.Rect, dir platform.Direction) (bool, int) {
	ox, oy := origin.CenterX(), origin.CenterY()
	cx, cy := candidate.CenterX(), candidate.CenterY()
	switch dir {
	case platform.Left:
		if cx < ox {
			return true, ox - cx
		}
	case platform.Right:
		if cx > ox {
			return true, cx - ox
		}
	case platform.Up:
		if cy < oy {
			return true, oy - cy
		}
	case platform.Down:
		if cy > oy {
			return true, cy - oy
		}
	}
	return false, 0
}

func (h *Handler) markActiveWorkspacesDirty() {
	for _, mon := range h.model.Monitors {
		mon.Workspaces[mon.ActiveWorkspaceIndex].Dirty = true
	}
}
