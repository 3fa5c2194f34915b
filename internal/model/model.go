// Package model holds the durable in-memory state of monitors, workspaces,
// and managed windows (C4): the single root reachable from the event loop,
// mutated only on the loop's own goroutine. Grounded on the original
// implementation's workspace.rs (Window/Workspace/Monitor) but reshaped
// around index-based lookups per the spec's "cyclic references" design
// note, in the style of the teacher's internal/tiling/workspace.go (a
// mutex-guarded struct owning its own derived state).
package model

import (
	"fmt"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/layout"
	"github.com/tilewm/tilewm/internal/platform"
)

// WorkspaceCount is the fixed number of workspaces every monitor carries.
const WorkspaceCount = 9

// Window is the model's record for one managed top-level window.
type Window struct {
	Handle       platform.WindowHandle
	Title        string
	Workspace    int // 1..WorkspaceCount
	MonitorIndex int
	Rect         geometry.Rect
	OriginalRect geometry.Rect // pre-fullscreen tiled rect
	IsFocused    bool
	IsFullscreen bool
	IsTiled      bool
	HiddenByUs   bool
}

// Workspace is an ordered sequence of window handles plus its cached tile
// tree. Insertion order is preserved; newest handles are appended last.
type Workspace struct {
	Sequence []platform.WindowHandle
	Tree     *layout.TileNode
	Dirty    bool
}

// Monitor owns a fixed array of WorkspaceCount workspaces.
type Monitor struct {
	ID                   platform.MonitorID
	WorkRect             geometry.Rect
	FullRect             geometry.Rect
	Workspaces           [WorkspaceCount + 1]*Workspace // 1-indexed; index 0 unused
	ActiveWorkspaceIndex int
}

// NewMonitor builds an empty Monitor (all WorkspaceCount workspaces
// present but empty) from backend-reported info. Exported so the hotplug
// detector can construct monitors for newly connected displays.
func NewMonitor(info platform.MonitorInfo) *Monitor {
	m := &Monitor{
		ID:                   info.ID,
		WorkRect:             info.WorkRect,
		FullRect:             info.FullRect,
		ActiveWorkspaceIndex: 1,
	}
	for i := 1; i <= WorkspaceCount; i++ {
		m.Workspaces[i] = &Workspace{}
	}
	return m
}

// Location is the reverse-lookup value kept in the window location index.
type Location struct {
	MonitorIndex int
	Workspace    int
}

// Model is the root of all core state.
type Model struct {
	Monitors          []*Monitor
	ActiveWorkspace   int
	StatusBarVisible  bool
	LastFocusedHandle platform.WindowHandle

	windows       map[platform.WindowHandle]*Window
	locationIndex map[platform.WindowHandle]Location
}

// New builds a Model from the backend's reported monitors, starting on
// workspace 1 with the status bar visible.
func New(infos []platform.MonitorInfo) *Model {
	m := &Model{
		ActiveWorkspace:  1,
		StatusBarVisible: true,
		windows:          make(map[platform.WindowHandle]*Window),
		locationIndex:    make(map[platform.WindowHandle]Location),
	}
	for _, info := range infos {
		m.Monitors = append(m.Monitors, NewMonitor(info))
	}
	return m
}

// Window looks up a window by handle.
func (m *Model) Window(h platform.WindowHandle) (*Window, bool) {
	w, ok := m.windows[h]
	return w, ok
}

// Windows returns every modeled window, in no particular order.
func (m *Model) Windows() []*Window {
	out := make([]*Window, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, w)
	}
	return out
}

// WorkspaceWindows returns the Window records for monitor mi's workspace ws,
// in sequence order.
func (m *Model) WorkspaceWindows(mi, ws int) []*Window {
	wk := m.Monitors[mi].Workspaces[ws]
	out := make([]*Window, 0, len(wk.Sequence))
	for _, h := range wk.Sequence {
		if w, ok := m.windows[h]; ok {
			out = append(out, w)
		}
	}
	return out
}

// InsertWindow appends handle to monitor mi's workspace ws and records it
// in the index. It is the caller's responsibility to have already decided
// admission (C1) and placement.
func (m *Model) InsertWindow(handle platform.WindowHandle, mi, ws int, title string, rect geometry.Rect) {
	w := &Window{
		Handle:       handle,
		Title:        title,
		Workspace:    ws,
		MonitorIndex: mi,
		Rect:         rect,
		OriginalRect: rect,
		IsTiled:      true,
	}
	m.windows[handle] = w

	wk := m.Monitors[mi].Workspaces[ws]
	wk.Sequence = append(wk.Sequence, handle)
	wk.Dirty = true

	m.locationIndex[handle] = Location{MonitorIndex: mi, Workspace: ws}
}

// RemoveWindow deletes handle from the model entirely, returning the
// removed record if it existed.
func (m *Model) RemoveWindow(handle platform.WindowHandle) (*Window, bool) {
	w, ok := m.windows[handle]
	if !ok {
		return nil, false
	}

	wk := m.Monitors[w.MonitorIndex].Workspaces[w.Workspace]
	wk.Sequence = removeHandle(wk.Sequence, handle)
	wk.Dirty = true

	delete(m.windows, handle)
	delete(m.locationIndex, handle)
	return w, true
}

// MoveWindow moves handle to a new workspace number on its current
// monitor. §4.3: monitor is preserved; hidden_by_us is adjusted by the
// reconciler on the next pass, not here.
func (m *Model) MoveWindow(handle platform.WindowHandle, newWorkspace int) error {
	w, ok := m.windows[handle]
	if !ok {
		return fmt.Errorf("move_window: handle %v not modeled", handle)
	}
	if newWorkspace < 1 || newWorkspace > WorkspaceCount {
		return fmt.Errorf("move_window: workspace %d out of range", newWorkspace)
	}
	if w.Workspace == newWorkspace {
		return nil
	}

	oldWk := m.Monitors[w.MonitorIndex].Workspaces[w.Workspace]
	oldWk.Sequence = removeHandle(oldWk.Sequence, handle)
	oldWk.Dirty = true

	newWk := m.Monitors[w.MonitorIndex].Workspaces[newWorkspace]
	newWk.Sequence = append(newWk.Sequence, handle)
	newWk.Dirty = true

	w.Workspace = newWorkspace
	m.locationIndex[handle] = Location{MonitorIndex: w.MonitorIndex, Workspace: newWorkspace}
	return nil
}

// SwapAdjacent finds the closest window to handle's window in direction dir
// (within the same monitor+workspace, per §4.4) and exchanges their
// sequence positions. It reports whether a swap occurred.
func (m *Model) SwapAdjacent(handle platform.WindowHandle, dir platform.Direction) bool {
	focused, ok := m.windows[handle]
	if !ok {
		return false
	}
	candidates := m.WorkspaceWindows(focused.MonitorIndex, focused.Workspace)
	neighbor := FindNeighbor(focused, candidates, dir)
	if neighbor == nil {
		return false
	}

	wk := m.Monitors[focused.MonitorIndex].Workspaces[focused.Workspace]
	i, j := indexOf(wk.Sequence, handle), indexOf(wk.Sequence, neighbor.Handle)
	if i < 0 || j < 0 {
		return false
	}
	wk.Sequence[i], wk.Sequence[j] = wk.Sequence[j], wk.Sequence[i]
	wk.Dirty = true
	return true
}

// SetActiveWorkspace updates the global active workspace and mirrors it
// onto every monitor (P4), marking the previously active and newly active
// workspaces dirty on each monitor. The caller (event loop) is responsible
// for triggering the corresponding reconcile pass.
func (m *Model) SetActiveWorkspace(n int) error {
	if n < 1 || n > WorkspaceCount {
		return fmt.Errorf("set_active_workspace: %d out of range", n)
	}
	previous := m.ActiveWorkspace
	m.ActiveWorkspace = n
	for _, mon := range m.Monitors {
		mon.ActiveWorkspaceIndex = n
		if previous >= 1 && previous <= WorkspaceCount {
			mon.Workspaces[previous].Dirty = true
		}
		mon.Workspaces[n].Dirty = true
	}
	return nil
}

// MarkDirty flags monitor mi's workspace ws for re-layout.
func (m *Model) MarkDirty(mi, ws int) {
	m.Monitors[mi].Workspaces[ws].Dirty = true
}

// RebuildLocationIndex recomputes the reverse-lookup index from scratch.
// Called after any structural change whose correctness the caller doesn't
// want to trust incrementally (e.g. post-hotplug), per §9's "never the
// source of truth" note.
func (m *Model) RebuildLocationIndex() {
	m.locationIndex = make(map[platform.WindowHandle]Location, len(m.windows))
	for mi, mon := range m.Monitors {
		for ws := 1; ws <= WorkspaceCount; ws++ {
			for _, h := range mon.Workspaces[ws].Sequence {
				m.locationIndex[h] = Location{MonitorIndex: mi, Workspace: ws}
			}
		}
	}
}

// Locate returns the modeled location of handle.
func (m *Model) Locate(handle platform.WindowHandle) (Location, bool) {
	loc, ok := m.locationIndex[handle]
	return loc, ok
}

func removeHandle(seq []platform.WindowHandle, h platform.WindowHandle) []platform.WindowHandle {
	i := indexOf(seq, h)
	if i < 0 {
		return seq
	}
	return append(seq[:i], seq[i+1:]...)
}

func indexOf(seq []platform.WindowHandle, h platform.WindowHandle) int {
	for i, v := range seq {
		if v == h {
			return i
		}
	}
	return -1
}
