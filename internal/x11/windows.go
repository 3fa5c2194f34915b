package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// First, check if window is maximized and unmaximize it
	if err := c.unmaximizeWindow(windowID); err != nil {
		// Log but don't fail - some windows might not support this
	}

	// Create xwindow wrapper
	win := xwindow.New(c.XUtil, windowID)

	// Use EWMH MoveResize for better WM compatibility
	err := ewmh.MoveresizeWindow(
		c.XUtil,
		windowID,
		x, y, width, height,
	)

	if err != nil {
		// Fallback to direct window manipulation
		win.MoveResize(x, y, width, height)
		return nil
	}

	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	// Get current window states
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	// Check if window is maximized
	hasMaxH := false
	hasMaxV := false

	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" {
			hasMaxH = true
		}
		if state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			hasMaxV = true
		}
	}

	// Remove maximized states if present
	if hasMaxH || hasMaxV {
		// Request state removal
		if hasMaxH {
			ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_MAXIMIZED_HORZ")
		}
		if hasMaxV {
			ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_MAXIMIZED_VERT")
		}
	}

	return nil
}

// GetFrameExtents returns the window decoration sizes (if available)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int, err error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		// No frame extents available, return zeros
		return 0, 0, 0, 0, nil
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom), nil
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// CloseWindow requests a graceful close by sending a WM_DELETE_WINDOW
// client message, per ICCCM §4.2.8.1. Built by hand rather than through an
// xgbutil helper, the same manual-client-message idiom this package already
// uses for _NET_ACTIVE_WINDOW below — xgbutil has no typed wrapper for
// WM_PROTOCOLS delete requests.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	wmProtocols, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}
	wmDelete, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   wmProtocols.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(wmDelete.Atom), 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, windowID, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// DestroyWindow force-kills the client that owns windowID, the forceful
// counterpart to CloseWindow. Backend.Destroy calls it; nothing in the
// core issues Destroy.
func (c *Connection) DestroyWindow(windowID xproto.Window) error {
	return xproto.KillClientChecked(c.XUtil.Conn(), uint32(windowID)).Check()
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// Sends a client message to the root window per EWMH spec. Built by hand
// (same as CloseWindow) because the xgbutil ewmh helpers panic on this
// library version.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return err
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
