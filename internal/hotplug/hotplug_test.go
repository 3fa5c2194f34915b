package hotplug

import (
	"testing"
	"time"

	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/reconcile"
)

type fakeBackend struct {
	monitors []platform.MonitorInfo
	shows    []platform.WindowHandle
}

func (f *fakeBackend) Monitors() ([]platform.MonitorInfo, error) { return f.monitors, nil }
func (f *fakeBackend) Query(platform.WindowHandle) (platform.WindowQuery, error) {
	return nil, nil
}
func (f *fakeBackend) FrameInset(platform.WindowHandle) (geometry.Insets, error) {
	return geometry.Insets{}, nil
}
func (f *fakeBackend) Reposition(platform.WindowHandle, geometry.Rect) error { return nil }
func (f *fakeBackend) Show(h platform.WindowHandle) error                   { f.shows = append(f.shows, h); return nil }
func (f *fakeBackend) Hide(platform.WindowHandle) error                     { return nil }
func (f *fakeBackend) SetForeground(platform.WindowHandle) error            { return nil }
func (f *fakeBackend) SetTopmost(platform.WindowHandle, bool) error         { return nil }
func (f *fakeBackend) SetBorderColor(platform.WindowHandle, uint32) error   { return nil }
func (f *fakeBackend) SetTransparency(platform.WindowHandle, uint8) error   { return nil }
func (f *fakeBackend) Close(platform.WindowHandle) error                    { return nil }
func (f *fakeBackend) Destroy(platform.WindowHandle) error                  { return nil }
func (f *fakeBackend) Events() <-chan platform.Event                        { return nil }

func twoMonitorModel() (*model.Model, *fakeBackend) {
	infos := []platform.MonitorInfo{
		{ID: "M0", WorkRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}, FullRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}},
		{ID: "M1", WorkRect: geometry.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}, FullRect: geometry.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}},
	}
	m := model.New(infos)
	backend := &fakeBackend{monitors: infos}
	return m, backend
}

func TestCheckDebouncesWithinMinInterval(t *testing.T) {
	m, backend := twoMonitorModel()
	r := reconcile.New(backend, reconcile.Config{}, nil)
	d := New(backend, r, nil)

	base := time.Unix(1000, 0)
	if !d.Check(m, base) {
		t.Fatal("expected first check to run")
	}
	if d.Check(m, base.Add(100*time.Millisecond)) {
		t.Fatal("expected second check within debounce window to be skipped")
	}
	if !d.Check(m, base.Add(600*time.Millisecond)) {
		t.Fatal("expected check past the debounce window to run")
	}
}

func TestMigrateShowsEveryWindowAsSafetyNet(t *testing.T) {
	m, backend := twoMonitorModel()
	m.InsertWindow(1, 0, 1, "A", geometry.Rect{})
	m.InsertWindow(2, 1, 2, "B", geometry.Rect{})

	r := reconcile.New(backend, reconcile.Config{}, nil)
	d := New(backend, r, nil)
	d.migrate(m)

	if len(backend.shows) != 2 {
		t.Fatalf("expected a safety-net show for every modeled window, got %v", backend.shows)
	}
}

func TestMigrateSkipsWhenEnumerationEmpty(t *testing.T) {
	m, backend := twoMonitorModel()
	backend.monitors = nil

	r := reconcile.New(backend, reconcile.Config{}, nil)
	d := New(backend, r, nil)
	originalMonitors := m.Monitors
	d.migrate(m)

	if len(m.Monitors) != len(originalMonitors) {
		t.Fatal("expected monitor array untouched when enumeration is empty")
	}
}

func TestMigrateRedistributesOrphanedWindowsRoundRobin(t *testing.T) {
	m, backend := twoMonitorModel()
	m.InsertWindow(1, 0, 3, "A", geometry.Rect{})
	m.InsertWindow(2, 0, 5, "B", geometry.Rect{})

	// Monitor M0 disconnects; only M1 remains.
	backend.monitors = []platform.MonitorInfo{
		{ID: "M1", WorkRect: geometry.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}, FullRect: geometry.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}},
	}

	r := reconcile.New(backend, reconcile.Config{}, nil)
	d := New(backend, r, nil)
	d.migrate(m)

	if len(m.Monitors) != 1 {
		t.Fatalf("expected exactly 1 monitor after disconnect, got %d", len(m.Monitors))
	}

	w1, ok1 := m.Window(1)
	w2, ok2 := m.Window(2)
	if !ok1 || !ok2 {
		t.Fatal("expected both orphaned windows to remain modeled")
	}
	if w1.MonitorIndex != 0 || w2.MonitorIndex != 0 {
		t.Fatalf("expected both windows relocated to the surviving monitor, got %d and %d", w1.MonitorIndex, w2.MonitorIndex)
	}
	if w1.Workspace != 3 {
		t.Fatalf("expected workspace number preserved as 3, got %d", w1.Workspace)
	}
	if w2.Workspace != 5 {
		t.Fatalf("expected workspace number preserved as 5, got %d", w2.Workspace)
	}
}

func TestMigrateReusesMatchingMonitorByID(t *testing.T) {
	m, backend := twoMonitorModel()
	m.InsertWindow(1, 0, 1, "A", geometry.Rect{})

	// M0's geometry changes but its ID survives; M1 disconnects.
	backend.monitors = []platform.MonitorInfo{
		{ID: "M0", WorkRect: geometry.Rect{Left: 0, Top: 0, Right: 2560, Bottom: 1440}, FullRect: geometry.Rect{Left: 0, Top: 0, Right: 2560, Bottom: 1440}},
	}

	r := reconcile.New(backend, reconcile.Config{}, nil)
	d := New(backend, r, nil)
	d.migrate(m)

	w1, ok := m.Window(1)
	if !ok {
		t.Fatal("expected window to remain modeled")
	}
	if w1.MonitorIndex != 0 {
		t.Fatalf("expected window to stay on the reused monitor, got index %d", w1.MonitorIndex)
	}
	if m.Monitors[0].WorkRect.Right != 2560 {
		t.Fatalf("expected reused monitor's geometry updated, got %+v", m.Monitors[0].WorkRect)
	}
}

func TestMigrateRoundTripPreservesWorkspaceNumbers(t *testing.T) {
	m, backend := twoMonitorModel()
	m.InsertWindow(1, 1, 4, "A", geometry.Rect{})

	withoutM1 := []platform.MonitorInfo{
		{ID: "M0", WorkRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}, FullRect: geometry.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}},
	}
	backend.monitors = withoutM1

	r := reconcile.New(backend, reconcile.Config{}, nil)
	d := New(backend, r, nil)
	d.migrate(m)

	w1, _ := m.Window(1)
	if w1.Workspace != 4 {
		t.Fatalf("expected workspace 4 preserved after disconnect, got %d", w1.Workspace)
	}

	// Reconnect M1; the round trip should leave the window modeled with its
	// workspace number intact (it does not migrate back automatically,
	// since §4.7 never reshuffles windows off a monitor that still holds
	// them).
	backend.monitors = []platform.MonitorInfo{
		withoutM1[0],
		{ID: "M1", WorkRect: geometry.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}, FullRect: geometry.Rect{Left: 1920, Top: 0, Right: 3840, Bottom: 1080}},
	}
	d.migrate(m)

	w1, ok := m.Window(1)
	if !ok {
		t.Fatal("expected window to remain modeled after reconnect")
	}
	if w1.Workspace != 4 {
		t.Fatalf("expected workspace number still 4 after round trip, got %d", w1.Workspace)
	}
	if err := m.CheckInvariants(); len(err) != 0 {
		t.Fatalf("expected no invariant violations after round trip, got %v", err)
	}
}
