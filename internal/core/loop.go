// Package core implements the single-threaded event loop (C6): the only
// goroutine that ever mutates internal/model.Model. Every other subsystem
// either hands it work over a channel or is called synchronously from
// inside Run. Grounded on the teacher's internal/daemon.Reconciler.Run for
// the ctx/ticker select shape, extended with the OS-event and hotkey-action
// cases §4.6 requires, and on §5's "lock-free MPSC hand-off, consumed on
// the main thread" for the ipc request/reply channels.
package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/tilewm/tilewm/internal/actions"
	"github.com/tilewm/tilewm/internal/filter"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/hotplug"
	"github.com/tilewm/tilewm/internal/ipc"
	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/reconcile"
)

const defaultTickInterval = 250 * time.Millisecond

// Config carries everything Run needs beyond the model and backend it is
// constructed with. Any channel left nil simply never fires in Run's
// select — the zero value of a feature the caller doesn't wire up.
type Config struct {
	TickInterval     time.Duration
	Reconcile        reconcile.Config
	Hotkeys          <-chan platform.Action
	StatusRequests   chan ipc.StatusRequest
	MonitorsRequests chan ipc.MonitorsRequest
	Exit             chan struct{}
	Reload           chan struct{}
	ToggleStatusBar  chan struct{}
	OnReload         func()
	Logger           *slog.Logger
}

// Loop owns the model and drives it to match reality: draining OS events
// and hotkey actions, running periodic pruning and hotplug checks, and
// delegating every reconcile pass to a reconcile.Reconciler.
type Loop struct {
	model      *model.Model
	backend    platform.Backend
	actions    *actions.Handler
	reconciler *reconcile.Reconciler
	hotplug    *hotplug.Detector

	hotkeys          <-chan platform.Action
	statusRequests   chan ipc.StatusRequest
	monitorsRequests chan ipc.MonitorsRequest
	exit             chan struct{}
	reload           chan struct{}
	toggleStatusBar  chan struct{}
	onReload         func()

	tickInterval time.Duration
	logger       *slog.Logger
	hotplugDirty bool
}

// New builds a Loop bound to m and backend.
func New(m *model.Model, backend platform.Backend, cfg Config) *Loop {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	reconciler := reconcile.New(backend, cfg.Reconcile, cfg.Logger)
	return &Loop{
		model:      m,
		backend:    backend,
		actions:    actions.New(m, backend),
		reconciler: reconciler,
		hotplug:    hotplug.New(backend, reconciler, cfg.Logger),

		hotkeys:          cfg.Hotkeys,
		statusRequests:   cfg.StatusRequests,
		monitorsRequests: cfg.MonitorsRequests,
		exit:             cfg.Exit,
		reload:           cfg.Reload,
		toggleStatusBar:  cfg.ToggleStatusBar,
		onReload:         cfg.OnReload,

		tickInterval: cfg.TickInterval,
		logger:       cfg.Logger,
	}
}

// Run blocks, draining events and actions until ctx is cancelled, the
// backend's event channel closes, or an exit signal arrives (either the
// hotkey Action or the ipc Exit channel). On every exit path it runs the
// shutdown cleanup pass (§7.4) before returning.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.tickInterval)
	defer ticker.Stop()

	events := l.backend.Events()

	for {
		select {
		case <-ctx.Done():
			l.cleanup()
			return

		case <-l.exit:
			l.cleanup()
			return

		case ev, ok := <-events:
			if !ok {
				l.logger.Warn("backend event channel closed, shutting down")
				l.cleanup()
				return
			}
			l.handleEvent(ev)
			l.drainPendingEvents(events)
			l.reconciler.Reconcile(l.model)

		case action, ok := <-l.hotkeys:
			if !ok {
				l.hotkeys = nil
				continue
			}
			if action.Kind == platform.ActionExit {
				l.cleanup()
				return
			}
			l.actions.Dispatch(action)
			l.reconciler.Reconcile(l.model)

		case req := <-l.statusRequests:
			req.Reply <- l.statusData()

		case req := <-l.monitorsRequests:
			req.Reply <- l.monitorsData()

		case <-l.toggleStatusBar:
			l.model.StatusBarVisible = !l.model.StatusBarVisible
			l.markActiveWorkspacesDirty()
			l.reconciler.Reconcile(l.model)

		case <-l.reload:
			if l.onReload != nil {
				l.onReload()
			}

		case now := <-ticker.C:
			l.tick(now)
		}
	}
}

// drainPendingEvents consumes every event already queued on events without
// blocking, so one tick's worth of OS notifications collapses into a
// single reconcile pass per §4.6.
func (l *Loop) drainPendingEvents(events <-chan platform.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			l.handleEvent(ev)
		default:
			return
		}
	}
}

func (l *Loop) handleEvent(ev platform.Event) {
	switch ev.Kind {
	case platform.EventCreated, platform.EventShown, platform.EventMinimizeEnd:
		l.admitAndInsert(ev.Handle)
	case platform.EventDestroyed, platform.EventHidden, platform.EventMinimizeStart:
		l.removeWindow(ev.Handle)
	case platform.EventLocationChanged:
		// Cheap no-op unless the handle is unmodeled and has become
		// admissible since the last check (late admission, §4.6).
		l.admitAndInsert(ev.Handle)
	case platform.EventForegroundChanged:
		l.model.LastFocusedHandle = ev.Handle
	case platform.EventDisplayChanged:
		l.hotplugDirty = true
	}
}

// admitAndInsert assigns handle to the active workspace on the monitor
// containing its center, per §4.6's create/show rule. It is a no-op if
// handle is already modeled or the filter rejects it.
func (l *Loop) admitAndInsert(handle platform.WindowHandle) {
	if _, ok := l.model.Window(handle); ok {
		return
	}
	q, err := l.backend.Query(handle)
	if err != nil || q == nil {
		return
	}
	rects := make([]geometry.Rect, len(l.model.Monitors))
	for i, mon := range l.model.Monitors {
		rects[i] = mon.WorkRect
	}
	if !filter.Admit(q, rects) {
		return
	}
	mi := l.monitorForRect(q.Rect())
	ws := l.model.ActiveWorkspace
	l.model.InsertWindow(handle, mi, ws, q.Title(), q.Rect())
	l.model.MarkDirty(mi, ws)
}

// monitorForRect returns the index of the monitor whose work rect contains
// r's center, falling back to monitor 0 when none claims it (e.g. a window
// straddling a now-disconnected display).
func (l *Loop) monitorForRect(r geometry.Rect) int {
	cx, cy := r.CenterX(), r.CenterY()
	for i, mon := range l.model.Monitors {
		if mon.WorkRect.Contains(cx, cy) {
			return i
		}
	}
	return 0
}

func (l *Loop) removeWindow(handle platform.WindowHandle) {
	w, ok := l.model.RemoveWindow(handle)
	if !ok {
		return
	}
	l.reconciler.Forget(handle)
	l.model.MarkDirty(w.MonitorIndex, w.Workspace)
}

// tick runs the §4.6 timer-tick work: prune invalid handles on the active
// workspace, run the hotplug check if a display-change event is pending,
// and reconcile only if something actually went dirty.
func (l *Loop) tick(now time.Time) {
	l.pruneActiveWorkspace()
	if l.hotplugDirty {
		if l.hotplug.Check(l.model, now) {
			l.hotplugDirty = false
		}
	}
	if l.anyDirty() {
		l.reconciler.Reconcile(l.model)
	}
}

func (l *Loop) pruneActiveWorkspace() {
	for _, w := range l.model.Windows() {
		if w.Workspace != l.model.ActiveWorkspace {
			continue
		}
		q, err := l.backend.Query(w.Handle)
		if err != nil || q == nil || !q.Valid() {
			l.removeWindow(w.Handle)
		}
	}
}

func (l *Loop) anyDirty() bool {
	for _, mon := range l.model.Monitors {
		for ws := 1; ws <= model.WorkspaceCount; ws++ {
			if mon.Workspaces[ws].Dirty {
				return true
			}
		}
	}
	return false
}

func (l *Loop) markActiveWorkspacesDirty() {
	for _, mon := range l.model.Monitors {
		mon.Workspaces[mon.ActiveWorkspaceIndex].Dirty = true
	}
}

// cleanup is the §7.4 shutdown policy: best-effort restoration of every
// hidden_by_us window, never aborting on a single failure, wrapped in the
// same panic-recovery the teacher's reconciler uses for its own periodic
// pass.
func (l *Loop) cleanup() {
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("cleanup panic recovered", "error", err)
		}
	}()
	for _, w := range l.model.Windows() {
		if err := l.backend.Show(w.Handle); err != nil {
			l.logger.Warn("cleanup show failed", "handle", w.Handle, "error", err)
		}
	}
}

func (l *Loop) statusData() ipc.StatusData {
	return ipc.StatusData{
		ActiveWorkspace:  l.model.ActiveWorkspace,
		ManagedWindows:   len(l.model.Windows()),
		MonitorCount:     len(l.model.Monitors),
		StatusBarVisible: l.model.StatusBarVisible,
	}
}

func (l *Loop) monitorsData() ipc.MonitorsData {
	data := ipc.MonitorsData{Monitors: make([]ipc.MonitorInfo, len(l.model.Monitors))}
	for i, mon := range l.model.Monitors {
		data.Monitors[i] = ipc.MonitorInfo{
			ID:     string(mon.ID),
			Left:   mon.WorkRect.Left,
			Top:    mon.WorkRect.Top,
			Right:  mon.WorkRect.Right,
			Bottom: mon.WorkRect.Bottom,
		}
	}
	return data
}
