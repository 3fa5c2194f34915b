package x11

import (
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

const displayPollInterval = 2 * time.Second

// Backend is the X11 implementation of platform.Backend. It owns a single
// Connection and the goroutine that runs xgbutil's callback-driven event
// loop, translating xevent callbacks into platform.Event values on a
// channel the core reads from.
type Backend struct {
	conn   *Connection
	logger *slog.Logger

	events  chan platform.Event
	stop    chan struct{}
	lastMon map[platform.MonitorID]struct{}
}

var _ platform.Backend = (*Backend)(nil)

// NewBackend opens a fresh X11 connection and wires up EWMH/ICCCM event
// subscriptions. The returned Backend's Events channel is live as soon as
// this returns; Shutdown tears the connection down.
func NewBackend(logger *slog.Logger) (*Backend, error) {
	conn, err := NewConnection()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{
		conn:   conn,
		logger: logger,
		events: make(chan platform.Event, 64),
		stop:   make(chan struct{}),
	}
	b.subscribe()
	go xevent.Main(conn.XUtil)
	go b.pollDisplayChanges()
	logger.Info("x11 backend connected", "root", conn.Root)
	return b, nil
}

// Shutdown tears down the underlying X11 connection and stops the
// background goroutines.
func (b *Backend) Shutdown() {
	close(b.stop)
	b.conn.Close()
}

// XUtilHandle and RootWindow expose the underlying X11 connection for
// packages that need direct xgbutil access, such as internal/hotkeys'
// key-grab registration.
func (b *Backend) XUtilHandle() *xgbutil.XUtil {
	return b.conn.XUtil
}

func (b *Backend) RootWindow() xproto.Window {
	return b.conn.Root
}

func (b *Backend) Monitors() ([]platform.MonitorInfo, error) {
	return b.conn.Infos()
}

func (b *Backend) Query(h platform.WindowHandle) (platform.WindowQuery, error) {
	return b.conn.Query(xproto.Window(h)), nil
}

func (b *Backend) FrameInset(h platform.WindowHandle) (geometry.Insets, error) {
	left, right, top, bottom, err := b.conn.GetFrameExtents(xproto.Window(h))
	if err != nil {
		return geometry.Insets{}, err
	}
	return geometry.Insets{Left: left, Right: right, Top: top, Bottom: bottom}, nil
}

func (b *Backend) Reposition(h platform.WindowHandle, r geometry.Rect) error {
	return b.conn.MoveResizeWindow(xproto.Window(h), r.Left, r.Top, r.Width(), r.Height())
}

func (b *Backend) Show(h platform.WindowHandle) error {
	return xproto.MapWindowChecked(b.conn.XUtil.Conn(), xproto.Window(h)).Check()
}

func (b *Backend) Hide(h platform.WindowHandle) error {
	return xproto.UnmapWindowChecked(b.conn.XUtil.Conn(), xproto.Window(h)).Check()
}

func (b *Backend) SetForeground(h platform.WindowHandle) error {
	return b.conn.FocusWindow(xproto.Window(h))
}

func (b *Backend) SetTopmost(h platform.WindowHandle, topmost bool) error {
	action := ewmh.StateRemove
	if topmost {
		action = ewmh.StateAdd
	}
	return ewmh.WmStateReq(b.conn.XUtil, xproto.Window(h), action, "_NET_WM_STATE_ABOVE")
}

// SetBorderColor sets the raw X11 border pixel. There is no EWMH property
// for per-window border color, so this goes straight through
// ChangeWindowAttributes the way the teacher's MoveResizeWindow falls back
// to direct xwindow calls when the EWMH path doesn't cover something.
func (b *Backend) SetBorderColor(h platform.WindowHandle, rgba uint32) error {
	win := xproto.Window(h)
	if err := xproto.ConfigureWindowChecked(b.conn.XUtil.Conn(), win,
		xproto.ConfigWindowBorderWidth, []uint32{2}).Check(); err != nil {
		return err
	}
	return xproto.ChangeWindowAttributesChecked(b.conn.XUtil.Conn(), win,
		xproto.CwBorderPixel, []uint32{rgba}).Check()
}

// SetTransparency writes _NET_WM_WINDOW_OPACITY, replicating the 0-255
// alpha across a 32-bit CARDINAL the way compositors expect.
func (b *Backend) SetTransparency(h platform.WindowHandle, alpha uint8) error {
	opacity := uint32(alpha) * 0x01010101
	atom, err := xproto.InternAtom(b.conn.XUtil.Conn(), false,
		uint16(len("_NET_WM_WINDOW_OPACITY")), "_NET_WM_WINDOW_OPACITY").Reply()
	if err != nil {
		return err
	}
	buf := []byte{
		byte(opacity), byte(opacity >> 8), byte(opacity >> 16), byte(opacity >> 24),
	}
	return xproto.ChangePropertyChecked(b.conn.XUtil.Conn(), xproto.PropModeReplace,
		xproto.Window(h), atom.Atom, xproto.AtomCardinal, 32, 1, buf).Check()
}

func (b *Backend) Close(h platform.WindowHandle) error {
	return b.conn.CloseWindow(xproto.Window(h))
}

func (b *Backend) Destroy(h platform.WindowHandle) error {
	return b.conn.DestroyWindow(xproto.Window(h))
}

func (b *Backend) Events() <-chan platform.Event {
	return b.events
}

func (b *Backend) emit(kind platform.EventKind, h xproto.Window) {
	select {
	case b.events <- platform.Event{Kind: kind, Handle: platform.WindowHandle(h)}:
	case <-b.stop:
	}
}

// subscribe wires the SubstructureNotify window-lifecycle events and the
// root window's _NET_ACTIVE_WINDOW property change into emit calls. Each
// typed Fun wrapper below mirrors the keybind.KeyPressFun pattern the
// teacher's hotkey handler already uses for keypress callbacks.
func (b *Backend) subscribe() {
	xu := b.conn.XUtil
	root := b.conn.Root

	xevent.CreateNotifyFun(func(xu *xgbutil.XUtil, ev xevent.CreateNotifyEvent) {
		b.emit(platform.EventCreated, ev.Window)
	}).Connect(xu, root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		b.emit(platform.EventDestroyed, ev.Window)
	}).Connect(xu, root)

	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		b.emit(platform.EventShown, ev.Window)
	}).Connect(xu, root)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		b.emit(platform.EventHidden, ev.Window)
	}).Connect(xu, root)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		b.emit(platform.EventLocationChanged, ev.Window)
	}).Connect(xu, root)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_ACTIVE_WINDOW":
			active, err := ewmh.ActiveWindowGet(xu)
			if err == nil {
				b.emit(platform.EventForegroundChanged, active)
			}
		case "WM_STATE":
			state, err := icccm.WmStateGet(xu, ev.Window)
			if err != nil {
				return
			}
			if state.State == icccm.StateIconic {
				b.emit(platform.EventMinimizeStart, ev.Window)
			} else {
				b.emit(platform.EventMinimizeEnd, ev.Window)
			}
		}
	}).Connect(xu, root)
}

// pollDisplayChanges compares the set of monitor IDs on a fixed interval
// and emits EventDisplayChanged when it changes. xgbutil/xevent has no
// typed wrapper for RandR's ScreenChangeNotify, so this polls instead; the
// core's 500ms hotplug debounce absorbs the extra latency.
func (b *Backend) pollDisplayChanges() {
	ticker := time.NewTicker(displayPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			infos, err := b.conn.Infos()
			if err != nil {
				continue
			}
			current := make(map[platform.MonitorID]struct{}, len(infos))
			for _, info := range infos {
				current[info.ID] = struct{}{}
			}
			if b.lastMon != nil && !sameMonitorSet(b.lastMon, current) {
				b.emit(platform.EventDisplayChanged, 0)
			}
			b.lastMon = current
		}
	}
}

func sameMonitorSet(a, b map[platform.MonitorID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}
