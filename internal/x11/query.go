package x11

import (
	"os"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// windowQuery answers the filter's (C1) predicates for one window, grounded
// on the teacher's windowTitle/windowAppID/windowRect helpers and extended
// with the EWMH/ICCCM lookups each predicate needs. The window attributes
// and EWMH type/state lists are fetched once when the query is built; the
// other predicates query the X server on each call. Nothing is kept from
// one query to the next, matching the "a backend returns one per handle on
// demand" contract.
type windowQuery struct {
	conn *Connection
	win  xproto.Window

	attrs *xproto.GetWindowAttributesReply
	types []string
	state []string
}

// Query builds a platform.WindowQuery for windowID, fetching the window
// attributes and EWMH state/type lists once up front since most predicates
// below need at least one of them.
func (c *Connection) Query(windowID xproto.Window) *windowQuery {
	q := &windowQuery{conn: c, win: windowID}
	q.attrs, _ = xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	q.types, _ = ewmh.WmWindowTypeGet(c.XUtil, windowID)
	q.state, _ = ewmh.WmStateGet(c.XUtil, windowID)
	return q
}

func (q *windowQuery) hasType(t string) bool {
	for _, v := range q.types {
		if v == t {
			return true
		}
	}
	return false
}

func (q *windowQuery) hasState(s string) bool {
	for _, v := range q.state {
		if v == s {
			return true
		}
	}
	return false
}

// Valid reports whether the window still exists on the server.
func (q *windowQuery) Valid() bool {
	return q.attrs != nil
}

// Visible reports whether the window is mapped and not withdrawn.
func (q *windowQuery) Visible() bool {
	if q.attrs == nil {
		return false
	}
	if q.attrs.MapState != xproto.MapStateViewable {
		return false
	}
	return !q.hasState("_NET_WM_STATE_HIDDEN")
}

// Minimized reports ICCCM WM_STATE == IconicState.
func (q *windowQuery) Minimized() bool {
	state, err := icccm.WmStateGet(q.conn.XUtil, q.win)
	if err != nil {
		return false
	}
	return state.State == icccm.StateIconic
}

// Title tries _NET_WM_NAME first, falling back to WM_NAME, same order as
// the teacher's windowTitle.
func (q *windowQuery) Title() string {
	if title, err := ewmh.WmNameGet(q.conn.XUtil, q.win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(q.conn.XUtil, q.win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// ClassName returns the WM_CLASS class string, as the teacher's windowAppID
// does for app identification.
func (q *windowQuery) ClassName() string {
	class, err := icccm.WmClassGet(q.conn.XUtil, q.win)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(class.Class)
}

// Owner returns the WM_TRANSIENT_FOR target, if any.
func (q *windowQuery) Owner() (platform.WindowHandle, bool) {
	owner, err := icccm.WmTransientForGet(q.conn.XUtil, q.win)
	if err != nil || owner == 0 {
		return 0, false
	}
	return platform.WindowHandle(owner), true
}

// ToolWindow maps to the EWMH utility/toolbar window types.
func (q *windowQuery) ToolWindow() bool {
	return q.hasType("_NET_WM_WINDOW_TYPE_UTILITY") || q.hasType("_NET_WM_WINDOW_TYPE_TOOLBAR")
}

// NoActivate reports ICCCM WM_HINTS input = false: the client has told us
// it never wants keyboard focus.
func (q *windowQuery) NoActivate() bool {
	hints, err := icccm.WmHintsGet(q.conn.XUtil, q.win)
	if err != nil {
		return false
	}
	if hints.Flags&icccm.HintInput == 0 {
		return false
	}
	return hints.Input == 0
}

// DialogModalFrame maps to an EWMH dialog type carrying the modal state.
func (q *windowQuery) DialogModalFrame() bool {
	return q.hasType("_NET_WM_WINDOW_TYPE_DIALOG") && q.hasState("_NET_WM_STATE_MODAL")
}

// ThickFrame reports whether the client's size hints allow resizing (its
// minimum and maximum size differ), the X11 analogue of a resizable frame.
func (q *windowQuery) ThickFrame() bool {
	hints, err := icccm.WmNormalHintsGet(q.conn.XUtil, q.win)
	if err != nil {
		return true
	}
	hasMin := hints.Flags&icccm.SizeHintPMinSize != 0
	hasMax := hints.Flags&icccm.SizeHintPMaxSize != 0
	if !hasMin || !hasMax {
		return true
	}
	return hints.MinWidth != hints.MaxWidth || hints.MinHeight != hints.MaxHeight
}

// PopUp reports the override-redirect attribute: clients set this to opt a
// window fully out of window-manager control (menus, tooltips).
func (q *windowQuery) PopUp() bool {
	return q.attrs != nil && q.attrs.OverrideRedirect
}

// LayeredZeroAlpha reports whether _NET_WM_WINDOW_OPACITY is set to zero.
// That property has no typed ewmh accessor, so it's fetched raw via xprop.
func (q *windowQuery) LayeredZeroAlpha() bool {
	opacity, err := xprop.PropValNum(xprop.GetProperty(q.conn.XUtil, q.win, "_NET_WM_WINDOW_OPACITY"))
	if err != nil {
		return false
	}
	return opacity == 0
}

// Rect reports the window's geometry translated into root coordinates,
// same GetGeometry+TranslateCoordinates pair the teacher uses.
func (q *windowQuery) Rect() geometry.Rect {
	geom, err := xproto.GetGeometry(q.conn.XUtil.Conn(), xproto.Drawable(q.win)).Reply()
	if err != nil {
		return geometry.Rect{}
	}
	translate, err := xproto.TranslateCoordinates(q.conn.XUtil.Conn(), q.win, q.conn.Root, 0, 0).Reply()
	if err != nil {
		return geometry.Rect{}
	}
	x, y := int(translate.DstX), int(translate.DstY)
	return geometry.Rect{Left: x, Top: y, Right: x + int(geom.Width), Bottom: y + int(geom.Height)}
}

// OwningProcessIsSelf reports whether _NET_WM_PID names our own process,
// guarding against the window manager ever managing its own windows.
func (q *windowQuery) OwningProcessIsSelf() bool {
	pid, err := ewmh.WmPidGet(q.conn.XUtil, q.win)
	if err != nil {
		return false
	}
	return int(pid) == os.Getpid()
}
