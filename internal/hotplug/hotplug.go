// Package hotplug implements monitor hotplug migration (C8): reconciling
// the model's monitor array against a fresh backend enumeration without
// ever dropping a window. Grounded on reenumerate_monitors/
// check_monitor_changes in the original implementation's
// workspace_manager.rs, following the six-step procedure of §4.7.
package hotplug

import (
	"log/slog"
	"time"

	"github.com/tilewm/tilewm/internal/model"
	"github.com/tilewm/tilewm/internal/platform"
	"github.com/tilewm/tilewm/internal/reconcile"
)

const minInterval = 500 * time.Millisecond

// Detector debounces display-change notifications and runs the migration
// procedure no more than once per minInterval.
type Detector struct {
	backend  platform.Backend
	reconcil *reconcile.Reconciler
	logger   *slog.Logger

	lastRun time.Time
}

// New builds a Detector bound to backend, delegating the final
// recompute/reposition/re-hide step to r.
func New(backend platform.Backend, r *reconcile.Reconciler, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{backend: backend, reconcil: r, logger: logger}
}

// Check runs the migration procedure if at least minInterval has passed
// since the last run, using now as the debounce clock (supplied by the
// caller so tests don't depend on wall time). It reports whether a
// migration actually ran.
func (d *Detector) Check(m *model.Model, now time.Time) bool {
	if !d.lastRun.IsZero() && now.Sub(d.lastRun) < minInterval {
		return false
	}
	d.lastRun = now
	d.migrate(m)
	return true
}

// migrate runs the six-step procedure of §4.7. It never drops a window:
// every window stays modeled throughout, and the pre-step safety net
// guarantees visibility even if a later step fails partway.
func (d *Detector) migrate(m *model.Model) {
	for _, w := range m.Windows() {
		if err := d.backend.Show(w.Handle); err != nil {
			d.logger.Warn("hotplug safety-net show failed", "handle", w.Handle, "error", err)
		}
	}

	newInfos, err := d.backend.Monitors()
	if err != nil {
		d.logger.Warn("hotplug monitor enumeration failed", "error", err)
		return
	}
	if len(newInfos) == 0 {
		d.logger.Warn("hotplug enumeration returned no monitors, skipping")
		return
	}

	presentIDs := make(map[platform.MonitorID]bool, len(newInfos))
	for _, info := range newInfos {
		presentIDs[info.ID] = true
	}

	var orphaned []*model.Monitor
	for _, mon := range m.Monitors {
		if !presentIDs[mon.ID] {
			orphaned = append(orphaned, mon)
		}
	}

	type orphanedWindow struct {
		handle    platform.WindowHandle
		workspace int
	}
	var orphanedWindows []orphanedWindow
	for _, mon := range orphaned {
		for ws := 1; ws <= model.WorkspaceCount; ws++ {
			for _, h := range mon.Workspaces[ws].Sequence {
				orphanedWindows = append(orphanedWindows, orphanedWindow{handle: h, workspace: ws})
			}
		}
	}

	byID := make(map[platform.MonitorID]*model.Monitor, len(m.Monitors))
	for _, mon := range m.Monitors {
		byID[mon.ID] = mon
	}

	newMonitors := make([]*model.Monitor, 0, len(newInfos))
	for _, info := range newInfos {
		if existing, ok := byID[info.ID]; ok {
			existing.WorkRect = info.WorkRect
			existing.FullRect = info.FullRect
			existing.ActiveWorkspaceIndex = m.ActiveWorkspace
			newMonitors = append(newMonitors, existing)
			continue
		}
		fresh := model.NewMonitor(info)
		fresh.ActiveWorkspaceIndex = m.ActiveWorkspace
		newMonitors = append(newMonitors, fresh)
	}

	for i, ow := range orphanedWindows {
		target := newMonitors[i%len(newMonitors)]
		w, ok := m.Window(ow.handle)
		if !ok {
			continue
		}
		ws := target.Workspaces[ow.workspace]
		ws.Tree = nil
		ws.Sequence = append(ws.Sequence, ow.handle)
		ws.Dirty = true
		w.MonitorIndex = indexOf(newMonitors, target)
		w.Workspace = ow.workspace
		w.IsTiled = true
	}

	m.Monitors = newMonitors
	for mi, mon := range m.Monitors {
		for ws := 1; ws <= model.WorkspaceCount; ws++ {
			mon.Workspaces[ws].Tree = nil
			for _, h := range mon.Workspaces[ws].Sequence {
				if w, ok := m.Window(h); ok {
					w.MonitorIndex = mi
				}
			}
		}
	}
	m.RebuildLocationIndex()

	d.reconcil.Reconcile(m)
}

func indexOf(monitors []*model.Monitor, target *model.Monitor) int {
	for i, mon := range monitors {
		if mon == target {
			return i
		}
	}
	return -1
}
