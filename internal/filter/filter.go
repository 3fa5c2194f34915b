// Package filter implements the window-admission predicate (C1): a pure
// function over a platform.WindowQuery that decides whether a window handle
// is a "managed" window. Grounded on is_normal_window in the original
// implementation and on the teacher's IsNormalWindow/blacklist checks in
// internal/x11/windows.go.
package filter

import (
	"strings"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// blacklistedClasses mirrors the system window classes that must never be
// tiled, regardless of their other attributes.
var blacklistedClasses = map[string]struct{}{
	"Shell_TrayWnd":                {},
	"Shell_SecondaryTrayWnd":       {},
	"WorkerW":                      {},
	"Progman":                      {},
	"DV2ControlHost":               {},
	"XamlExplorerHostIslandWindow": {},
	"TaskListThumbnailWnd":         {},
	"#32770":                       {},
	"Windows.UI.Core.CoreWindow":   {},
	"Xdnd":                         {},
}

// Admit decides whether q describes a window the tiler should manage.
// Every sub-condition short-circuits on the first disqualifying attribute,
// mirroring the all-must-hold language of §4.1.
func Admit(q platform.WindowQuery, monitors []geometry.Rect) bool {
	if q == nil || !q.Valid() {
		return false
	}
	if !q.Visible() || q.Minimized() {
		return false
	}
	if strings.TrimSpace(q.Title()) == "" {
		return false
	}
	if q.ToolWindow() || q.NoActivate() {
		return false
	}
	if q.DialogModalFrame() {
		return false
	}
	if _, hasOwner := q.Owner(); hasOwner {
		return false
	}
	if !q.ThickFrame() && q.PopUp() {
		return false
	}
	if _, blacklisted := blacklistedClasses[q.ClassName()]; blacklisted {
		return false
	}
	if q.LayeredZeroAlpha() {
		return false
	}
	if q.OwningProcessIsSelf() {
		return false
	}
	if !intersectsAny(q.Rect(), monitors) {
		return false
	}
	return true
}

func intersectsAny(r geometry.Rect, monitors []geometry.Rect) bool {
	for _, m := range monitors {
		if r.Intersects(m) {
			return true
		}
	}
	return false
}
