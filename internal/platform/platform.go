// Package platform defines the boundary between the window-manager core and
// the operating system. Every OS-specific binding (X11 today) implements
// Backend; every inbound OS notification and hotkey action is expressed as
// one of the types below. The core never imports an OS-specific package
// directly.
package platform

import "github.com/tilewm/tilewm/internal/geometry"

// WindowHandle is an opaque, platform-neutral window identifier. It is only
// ever compared for equality or used as a map key — the core never
// interprets its bits.
type WindowHandle uint32

// MonitorID is an opaque, platform-neutral monitor identifier.
type MonitorID string

// MonitorInfo describes one physical display as reported by the backend.
type MonitorInfo struct {
	ID      MonitorID
	Name    string
	Primary bool
	// WorkRect is the monitor rectangle minus any OS-reserved edges
	// (taskbar, panels, docks). FullRect is the raw display rectangle,
	// used for fullscreen placement.
	WorkRect geometry.Rect
	FullRect geometry.Rect
}

// WindowQuery answers the predicates the window filter (C1) needs. A
// backend returns one per handle on demand; nothing is cached here.
type WindowQuery interface {
	Valid() bool
	Visible() bool
	Minimized() bool
	Title() string
	ClassName() string
	Owner() (WindowHandle, bool)
	ToolWindow() bool
	NoActivate() bool
	DialogModalFrame() bool
	ThickFrame() bool
	PopUp() bool
	LayeredZeroAlpha() bool
	Rect() geometry.Rect
	OwningProcessIsSelf() bool
}

// Backend abstracts window-system operations across platforms. All mutating
// methods are best-effort: an error is logged by the caller and never
// aborts a reconcile pass (§7 of the spec).
type Backend interface {
	Monitors() ([]MonitorInfo, error)
	Query(h WindowHandle) (WindowQuery, error)
	FrameInset(h WindowHandle) (geometry.Insets, error)

	Reposition(h WindowHandle, r geometry.Rect) error
	Show(h WindowHandle) error
	Hide(h WindowHandle) error
	SetForeground(h WindowHandle) error
	SetTopmost(h WindowHandle, topmost bool) error
	SetBorderColor(h WindowHandle, rgba uint32) error
	SetTransparency(h WindowHandle, alpha uint8) error
	Close(h WindowHandle) error
	Destroy(h WindowHandle) error

	// Events returns the channel of inbound OS notifications. It must be
	// called exactly once; the backend owns the channel's lifetime. The
	// X11 backend never closes it, not even on Shutdown.
	Events() <-chan Event
}

// EventKind tags the inbound OS event union.
type EventKind int

const (
	EventCreated EventKind = iota
	EventDestroyed
	EventShown
	EventHidden
	EventLocationChanged
	EventForegroundChanged
	EventMinimizeStart
	EventMinimizeEnd
	EventDisplayChanged
)

// Event is one inbound OS notification. Handle is zero-valued for
// EventDisplayChanged, which carries no window.
type Event struct {
	Kind   EventKind
	Handle WindowHandle
}

// Direction is a screen-relative cardinal direction used by focus/swap/move
// actions and by monitor traversal.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// ActionKind tags the inbound hotkey action union (§6).
type ActionKind int

const (
	ActionFocusDir ActionKind = iota
	ActionSwapDir
	ActionSwitchWorkspace
	ActionMoveToWorkspace
	ActionClose
	ActionToggleFloat
	ActionToggleFullscreen
	ActionToggleStatusBar
	ActionFlipNode
	ActionResizeHoriz
	ActionResizeVert
	ActionMoveMonitor
	ActionExit
)

// Action is one hotkey-triggered action. Only the fields relevant to Kind
// are meaningful; it is a tagged union, not a struct-of-everything.
type Action struct {
	Kind      ActionKind
	Dir       Direction // FocusDir, SwapDir, MoveMonitor
	Workspace int       // SwitchWorkspace, MoveToWorkspace (1..9)
	Delta     float64   // ResizeHoriz, ResizeVert (+/-0.05)
}
