package core

import (
	"context"
	"testing"
	"time"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/ipc"
	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/reconcile"
)

// fakeQuery is a hand-rolled, fully-admissible WindowQuery double.
type fakeQuery struct {
	valid bool
	title string
	rect  geometry.Rect
}

func (q *fakeQuery) Valid() bool                          { return q.valid }
func (q *fakeQuery) Visible() bool                        { return true }
func (q *fakeQuery) Minimized() bool                      { return false }
func (q *fakeQuery) Title() string                        { return q.title }
func (q *fakeQuery) ClassName() string                    { return "NormalWindow" }
func (q *fakeQuery) Owner() (platform.WindowHandle, bool) { return 0, false }
func (q *fakeQuery) ToolWindow() bool                      { return false }
func (q *fakeQuery) NoActivate() bool                      { return false }
func (q *fakeQuery) DialogModalFrame() bool                { return false }
func (q *fakeQuery) ThickFrame() bool                      { return true }
func (q *fakeQuery) PopUp() bool                           { return false }
func (q *fakeQuery) LayeredZeroAlpha() bool                { return false }
func (q *fakeQuery) Rect() geometry.Rect                   { return q.rect }
func (q *fakeQuery) OwningProcessIsSelf() bool             { return false }

// fakeBackend is a controllable platform.Backend test double: tests push
// events onto its channel and inspect the slices it records.
type fakeBackend struct {
	monitors []platform.MonitorInfo
	queries  map[platform.WindowHandle]*fakeQuery

	events chan platform.Event

	shows  []platform.WindowHandle
	hides  []platform.WindowHandle
}

func newFakeBackend(monitors []platform.MonitorInfo) *fakeBackend {
	return &fakeBackend{
		monitors: monitors,
		queries:  make(map[platform.WindowHandle]*fakeQuery),
		events:   make(chan platform.Event, 8),
	}
}

func (f *fakeBackend) Monitors() ([]platform.MonitorInfo, error) { return f.monitors, nil }
func (f *fakeBackend) Query(h platform.WindowHandle) (platform.WindowQuery, error) {
	q, ok := f.queries[h]
	if !ok {
		return nil, nil
	}
	return q, nil
}
func (f *fakeBackend) FrameInset(platform.WindowHandle) (geometry.Insets, error) {
	return geometry.Insets{}, nil
}
func (f *fakeBackend) Reposition(platform.WindowHandle, geometry.Rect) error { return nil }
func (f *fakeBackend) Show(h platform.WindowHandle) error {
	f.shows = append(f.shows, h)
	return nil
}
func (f *fakeBackend) Hide(h platform.WindowHandle) error {
	f.hides = append(f.hides, h)
	return nil
}
func (f *fakeBackend) SetForeground(platform.WindowHandle) error          { return nil }
func (f *fakeBackend) SetTopmost(platform.WindowHandle, bool) error       { return nil }
func (f *fakeBackend) SetBorderColor(platform.WindowHandle, uint32) error { return nil }
func (f *fakeBackend) SetTransparency(platform.WindowHandle, uint8) error { return nil }
func (f *fakeBackend) Close(platform.WindowHandle) error                 { return nil }
func (f *fakeBackend) Destroy(platform.WindowHandle) error               { return nil }
func (f *fakeBackend) Events() <-chan platform.Event                     { return f.events }

func oneMonitor() []platform.MonitorInfo {
	return []platform.MonitorInfo{
		{ID: "M0", WorkRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}, FullRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}},
	}
}

func testLoop(t *testing.T, backend *fakeBackend, cfg Config) (*Loop, *model.Model) {
	t.Helper()
	m := model.New(backend.monitors)
	if cfg.Reconcile == (reconcile.Config{}) {
		cfg.Reconcile = reconcile.Config{Gap: 4, EdgeInset: 2}
	}
	cfg.TickInterval = 10 * time.Millisecond
	return New(m, backend, cfg), m
}

func TestLoopAdmitsCreatedWindowOntoActiveWorkspace(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	backend.queries[1] = &fakeQuery{valid: true, title: "term", rect: geometry.Rect{Left: 10, Top: 10, Right: 100, Bottom: 100}}

	loop, m := testLoop(t, backend, Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	backend.events <- platform.Event{Kind: platform.EventCreated, Handle: 1}
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if _, ok := m.Window(1); !ok {
		t.Fatal("expected handle 1 to be modeled after EventCreated")
	}
}

func TestLoopRejectsInadmissibleWindow(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	backend.queries[2] = &fakeQuery{valid: true, title: "", rect: geometry.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}}

	loop, m := testLoop(t, backend, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	backend.events <- platform.Event{Kind: platform.EventCreated, Handle: 2}
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if _, ok := m.Window(2); ok {
		t.Fatal("expected an empty-titled window to be rejected by the filter")
	}
}

func TestLoopRemovesWindowOnDestroyed(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	loop, m := testLoop(t, backend, Config{})
	m.InsertWindow(3, 0, 1, "A", geometry.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	backend.events <- platform.Event{Kind: platform.EventDestroyed, Handle: 3}
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if _, ok := m.Window(3); ok {
		t.Fatal("expected handle 3 to be removed after EventDestroyed")
	}
}

func TestLoopExitActionRunsCleanupAndStops(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	loop, m := testLoop(t, backend, Config{})
	m.InsertWindow(4, 0, 2, "A", geometry.Rect{}) // inactive workspace, will be hidden_by_us false initially
	w, _ := m.Window(4)
	w.HiddenByUs = true

	hotkeys := make(chan platform.Action, 1)
	loop.hotkeys = hotkeys

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	hotkeys <- platform.Action{Kind: platform.ActionExit}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after ActionExit")
	}

	if len(backend.shows) != 1 || backend.shows[0] != 4 {
		t.Fatalf("expected cleanup to show handle 4, got %v", backend.shows)
	}
}

func TestLoopIPCExitSignalStopsRun(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	exit := make(chan struct{}, 1)
	loop, _ := testLoop(t, backend, Config{Exit: exit})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	exit <- struct{}{}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after an ipc Exit signal")
	}
}

func TestLoopAnswersStatusRequest(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	statusRequests := make(chan ipc.StatusRequest)
	loop, m := testLoop(t, backend, Config{StatusRequests: statusRequests})
	m.InsertWindow(5, 0, 1, "A", geometry.Rect{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	reply := make(chan ipc.StatusData, 1)
	statusRequests <- ipc.StatusRequest{Reply: reply}

	select {
	case status := <-reply:
		if status.ManagedWindows != 1 {
			t.Fatalf("expected 1 managed window, got %d", status.ManagedWindows)
		}
		if status.ActiveWorkspace != 1 {
			t.Fatalf("expected active workspace 1, got %d", status.ActiveWorkspace)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a reply to the status request")
	}
}

func TestLoopToggleStatusBarFlipsVisibility(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	toggle := make(chan struct{}, 1)
	loop, m := testLoop(t, backend, Config{ToggleStatusBar: toggle})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	before := m.StatusBarVisible
	toggle <- struct{}{}
	time.Sleep(50 * time.Millisecond)

	if m.StatusBarVisible == before {
		t.Fatal("expected StatusBarVisible to flip")
	}
}

func TestLoopTickPrunesInvalidHandleOnActiveWorkspace(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	backend.queries[6] = &fakeQuery{valid: false}
	loop, m := testLoop(t, backend, Config{})
	m.InsertWindow(6, 0, 1, "A", geometry.Rect{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if _, ok := m.Window(6); ok {
		t.Fatal("expected handle 6 to be pruned once its query reports invalid")
	}
}

func TestLoopContextCancellationRunsCleanup(t *testing.T) {
	backend := newFakeBackend(oneMonitor())
	loop, m := testLoop(t, backend, Config{})
	m.InsertWindow(7, 0, 2, "A", geometry.Rect{}) // inactive workspace, so the tick's prune leaves it alone
	w, _ := m.Window(7)
	w.HiddenByUs = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if len(backend.shows) != 1 || backend.shows[0] != 7 {
		t.Fatalf("expected cleanup to show handle 7 on cancellation, got %v", backend.shows)
	}
}
