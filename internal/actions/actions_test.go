package actions

import (
	"testing"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/layout"
	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/platform"
)

type fakeBackend struct {
	foreground []platform.WindowHandle
	closed     []platform.WindowHandle
	topmosts   []bool
}

func (f *fakeBackend) Monitors() ([]platform.MonitorInfo, error) { return nil, nil }
func (f *fakeBackend) Query(platform.WindowHandle) (platform.WindowQuery, error) {
	return nil, nil
}
func (f *fakeBackend) FrameInset(platform.WindowHandle) (geometry.Insets, error) {
	return geometry.Insets{}, nil
}
func (f *fakeBackend) Reposition(platform.WindowHandle, geometry.Rect) error { return nil }
func (f *fakeBackend) Show(platform.WindowHandle) error                     { return nil }
func (f *fakeBackend) Hide(platform.WindowHandle) error                     { return nil }
func (f *fakeBackend) SetForeground(h platform.WindowHandle) error {
	f.foreground = append(f.foreground, h)
	return nil
}
func (f *fakeBackend) SetTopmost(h platform.WindowHandle, topmost bool) error {
	f.topmosts = append(f.topmosts, topmost)
	return nil
}
func (f *fakeBackend) SetBorderColor(platform.WindowHandle, uint32) error { return nil }
func (f *fakeBackend) SetTransparency(platform.WindowHandle, uint8) error { return nil }
func (f *fakeBackend) Close(h platform.WindowHandle) error {
	f.closed = append(f.closed, h)
	return nil
}
func (f *fakeBackend) Destroy(platform.WindowHandle) error { return nil }
func (f *fakeBackend) Events() <-chan platform.Event       { return nil }

func twoWindowModel() (*model.Model, *fakeBackend, *Handler) {
	m := model.New([]platform.MonitorInfo{
		{ID: "M0", WorkRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}},
	})
	m.InsertWindow(1, 0, 1, "A", geometry.Rect{Left: 0, Top: 0, Right: 900, Bottom: 1080})
	m.InsertWindow(2, 0, 1, "B", geometry.Rect{Left: 1000, Top: 0, Right: 1900, Bottom: 1080})
	m.LastFocusedHandle = 1
	backend := &fakeBackend{}
	return m, backend, New(m, backend)
}

func TestFocusDirSetsForegroundAndLastFocused(t *testing.T) {
	m, backend, h := twoWindowModel()
	h.Dispatch(platform.Action{Kind: platform.ActionFocusDir, Dir: platform.Right})

	if m.LastFocusedHandle != 2 {
		t.Fatalf("expected focus to move to handle 2, got %v", m.LastFocusedHandle)
	}
	if len(backend.foreground) != 1 || backend.foreground[0] != 2 {
		t.Fatalf("expected one SetForeground(2) call, got %v", backend.foreground)
	}
}

func TestSwapDirExchangesSequence(t *testing.T) {
	m, _, h := twoWindowModel()
	h.Dispatch(platform.Action{Kind: platform.ActionSwapDir, Dir: platform.Right})

	seq := m.Monitors[0].Workspaces[1].Sequence
	if seq[0] != 2 || seq[1] != 1 {
		t.Fatalf("expected sequence [2,1], got %v", seq)
	}
}

func TestSwitchWorkspaceRestoresFullscreenBeforeLeaving(t *testing.T) {
	m, backend, h := twoWindowModel()
	w1, _ := m.Window(1)
	w1.IsFullscreen = true
	w1.OriginalRect = geometry.Rect{Left: 10, Top: 10, Right: 100, Bottom: 100}

	h.Dispatch(platform.Action{Kind: platform.ActionSwitchWorkspace, Workspace: 2})

	if w1.IsFullscreen {
		t.Fatal("expected fullscreen cleared before switching workspace")
	}
	if !w1.IsTiled {
		t.Fatal("expected window restored to tiled")
	}
	if w1.Rect != w1.OriginalRect {
		t.Fatalf("expected rect restored to original, got %+v", w1.Rect)
	}
	if m.ActiveWorkspace != 2 {
		t.Fatalf("expected active workspace 2, got %d", m.ActiveWorkspace)
	}
	if len(backend.topmosts) != 1 || backend.topmosts[0] {
		t.Fatalf("expected topmost cleared, got %v", backend.topmosts)
	}
}

func TestMoveToWorkspacePreservesMonitor(t *testing.T) {
	m, _, h := twoWindowModel()
	h.Dispatch(platform.Action{Kind: platform.ActionMoveToWorkspace, Workspace: 7})

	w1, _ := m.Window(1)
	if w1.Workspace != 7 || w1.MonitorIndex != 0 {
		t.Fatalf("unexpected placement after move: %+v", w1)
	}
}

func TestCloseIssuesGracefulClose(t *testing.T) {
	m, backend, h := twoWindowModel()
	_ = m
	h.Dispatch(platform.Action{Kind: platform.ActionClose})

	if len(backend.closed) != 1 || backend.closed[0] != 1 {
		t.Fatalf("expected Close(1), got %v", backend.closed)
	}
}

func TestToggleFloatTwiceReturnsToTiled(t *testing.T) {
	m, _, h := twoWindowModel()
	w1, _ := m.Window(1)
	if !w1.IsTiled {
		t.Fatal("precondition: window should start tiled")
	}

	h.Dispatch(platform.Action{Kind: platform.ActionToggleFloat})
	if w1.IsTiled {
		t.Fatal("expected floating after first toggle")
	}
	h.Dispatch(platform.Action{Kind: platform.ActionToggleFloat})
	if !w1.IsTiled {
		t.Fatal("expected tiled again after second toggle")
	}
}

func TestToggleFullscreenTwiceRestoresOriginalRect(t *testing.T) {
	m, _, h := twoWindowModel()
	w1, _ := m.Window(1)
	original := w1.Rect

	h.Dispatch(platform.Action{Kind: platform.ActionToggleFullscreen})
	if !w1.IsFullscreen {
		t.Fatal("expected fullscreen after first toggle")
	}

	h.Dispatch(platform.Action{Kind: platform.ActionToggleFullscreen})
	if w1.IsFullscreen {
		t.Fatal("expected fullscreen cleared after second toggle")
	}
	if w1.Rect != original {
		t.Fatalf("expected rect restored to %+v, got %+v", original, w1.Rect)
	}
}

func TestResizeAdjustsTreeRootRatio(t *testing.T) {
	m, _, h := twoWindowModel()
	ws := m.Monitors[0].Workspaces[1]
	ws.Tree = layout.Compute(geometry.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 1000}, 0, []platform.WindowHandle{1, 2}, nil)

	h.Dispatch(platform.Action{Kind: platform.ActionResizeHoriz, Delta: 0.2})
	if ws.Tree.Ratio != 0.7 {
		t.Fatalf("expected ratio 0.7, got %v", ws.Tree.Ratio)
	}
}

func TestFlipNodeTogglesRootSplit(t *testing.T) {
	m, _, h := twoWindowModel()
	ws := m.Monitors[0].Workspaces[1]
	ws.Tree = layout.Compute(geometry.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 1000}, 0, []platform.WindowHandle{1, 2}, nil)
	original := ws.Tree.Split

	h.Dispatch(platform.Action{Kind: platform.ActionFlipNode})
	if ws.Tree.Split == original {
		t.Fatal("expected split direction to change")
	}
}

func TestMoveMonitorRelocatesWindow(t *testing.T) {
	m := model.New([]platform.MonitorInfo{
		{ID: "M0", WorkRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}},
		{ID: "M1", WorkRect: geometry.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}},
	})
	m.InsertWindow(1, 0, 3, "A", geometry.Rect{})
	m.LastFocusedHandle = 1
	backend := &fakeBackend{}
	h := New(m, backend)

	h.Dispatch(platform.Action{Kind: platform.ActionMoveMonitor, Dir: platform.Right})

	w1, _ := m.Window(1)
	if w1.MonitorIndex != 1 {
		t.Fatalf("expected window moved to monitor 1, got %d", w1.MonitorIndex)
	}
	if w1.Workspace != 3 {
		t.Fatalf("expected workspace preserved as 3, got %d", w1.Workspace)
	}
	loc, ok := m.Locate(1)
	if !ok || loc.MonitorIndex != 1 {
		t.Fatalf("expected location index updated, got %+v ok=%v", loc, ok)
	}
}
