// Package hotkeys binds the configured keybinding library onto X11 global
// key grabs and turns each press into a platform.Action on a channel the
// core event loop selects on. Grounded on the teacher's internal/hotkeys
// handler: keybind.KeyPressFun for the grab itself, configureIgnoreMods/
// modMaskForKeysym for NumLock/ScrollLock/CapsLock-insensitive chords.
package hotkeys

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/tilewm/tilewm/internal/platform"
)

// x11Accessor is implemented by backends that expose the X11 internals a
// key grab needs. The x11.Backend satisfies it.
type x11Accessor interface {
	XUtilHandle() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Provider registers every configured chord as a global key grab and
// emits the resolved platform.Action for each press.
type Provider struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	actions chan platform.Action
}

var ignoreModsOnce sync.Once

// NewProvider builds a Provider bound to backend's X11 connection and
// registers every chord in bindings. Unresolvable action names or chords
// are logged and skipped rather than failing startup over one bad entry.
func NewProvider(backend x11Accessor, bindings map[string]string, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	xu := backend.XUtilHandle()
	root := backend.RootWindow()
	if xu == nil {
		return nil, fmt.Errorf("hotkeys: backend has no X11 connection")
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	p := &Provider{
		xu:      xu,
		root:    root,
		logger:  logger,
		actions: make(chan platform.Action, 16),
	}

	for name, chord := range bindings {
		action, ok := resolveAction(name)
		if !ok {
			logger.Warn("hotkeys: unknown action in keybindings", "action", name)
			continue
		}
		if err := p.registerChord(chord, action); err != nil {
			logger.Warn("hotkeys: failed to register chord", "action", name, "chord", chord, "error", err)
		}
	}

	return p, nil
}

// Actions returns the channel of resolved hotkey presses.
func (p *Provider) Actions() <-chan platform.Action {
	return p.actions
}

func (p *Provider) registerChord(chord string, action platform.Action) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		select {
		case p.actions <- action:
		default:
			p.logger.Warn("hotkeys: action channel full, dropping press")
		}
	}).Connect(p.xu, p.root, chord, true)
}

// resolveAction maps one builtin keybinding name (internal/config/builtin.go)
// onto the platform.Action it should raise. switch_workspace_N and
// move_to_workspace_N carry their N as the Workspace field.
func resolveAction(name string) (platform.Action, bool) {
	switch {
	case name == "focus_left":
		return platform.Action{Kind: platform.ActionFocusDir, Dir: platform.Left}, true
	case name == "focus_right":
		return platform.Action{Kind: platform.ActionFocusDir, Dir: platform.Right}, true
	case name == "focus_up":
		return platform.Action{Kind: platform.ActionFocusDir, Dir: platform.Up}, true
	case name == "focus_down":
		return platform.Action{Kind: platform.ActionFocusDir, Dir: platform.Down}, true
	case name == "swap_left":
		return platform.Action{Kind: platform.ActionSwapDir, Dir: platform.Left}, true
	case name == "swap_right":
		return platform.Action{Kind: platform.ActionSwapDir, Dir: platform.Right}, true
	case name == "swap_up":
		return platform.Action{Kind: platform.ActionSwapDir, Dir: platform.Up}, true
	case name == "swap_down":
		return platform.Action{Kind: platform.ActionSwapDir, Dir: platform.Down}, true
	case strings.HasPrefix(name, "switch_workspace_"):
		n, ok := workspaceSuffix(name, "switch_workspace_")
		return platform.Action{Kind: platform.ActionSwitchWorkspace, Workspace: n}, ok
	case strings.HasPrefix(name, "move_to_workspace_"):
		n, ok := workspaceSuffix(name, "move_to_workspace_")
		return platform.Action{Kind: platform.ActionMoveToWorkspace, Workspace: n}, ok
	case name == "close":
		return platform.Action{Kind: platform.ActionClose}, true
	case name == "toggle_float":
		return platform.Action{Kind: platform.ActionToggleFloat}, true
	case name == "toggle_fullscreen":
		return platform.Action{Kind: platform.ActionToggleFullscreen}, true
	case name == "toggle_status_bar":
		return platform.Action{Kind: platform.ActionToggleStatusBar}, true
	case name == "flip_node":
		return platform.Action{Kind: platform.ActionFlipNode}, true
	case name == "resize_horiz_grow":
		return platform.Action{Kind: platform.ActionResizeHoriz, Delta: 0.05}, true
	case name == "resize_horiz_shrink":
		return platform.Action{Kind: platform.ActionResizeHoriz, Delta: -0.05}, true
	case name == "resize_vert_grow":
		return platform.Action{Kind: platform.ActionResizeVert, Delta: 0.05}, true
	case name == "resize_vert_shrink":
		return platform.Action{Kind: platform.ActionResizeVert, Delta: -0.05}, true
	case name == "move_monitor_left":
		return platform.Action{Kind: platform.ActionMoveMonitor, Dir: platform.Left}, true
	case name == "move_monitor_right":
		return platform.Action{Kind: platform.ActionMoveMonitor, Dir: platform.Right}, true
	case name == "exit":
		return platform.Action{Kind: platform.ActionExit}, true
	default:
		return platform.Action{}, false
	}
}

func workspaceSuffix(name, prefix string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
	if err != nil || n < 1 || n > 9 {
		return 0, false
	}
	return n, true
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
