package model

import (
	"fmt"

	"github.com/tilewm/tilewm/internal/platform"
)

// CheckInvariants verifies P1, P4, P5, and P6 from §8. P2 (coverage) and P3
// (no-overlap) are properties of a specific Dwindle tree rather than the
// model alone, and are not checked here; internal/layout's tests check them
// against computed trees. Violations are returned, never panicked on; the
// caller decides what to do with them (only tests call this today).
func (m *Model) CheckInvariants() []error {
	var errs []error

	errs = append(errs, m.checkUniqueness()...)
	errs = append(errs, m.checkWorkspaceUniformity()...)
	errs = append(errs, m.checkVisibility()...)
	errs = append(errs, m.checkIndexConsistency()...)

	return errs
}

// checkUniqueness is P1: every handle appears in exactly one workspace on
// exactly one monitor.
func (m *Model) checkUniqueness() []error {
	var errs []error
	seen := make(map[platform.WindowHandle]Location)
	for mi, mon := range m.Monitors {
		for ws := 1; ws <= WorkspaceCount; ws++ {
			for _, h := range mon.Workspaces[ws].Sequence {
				if prior, dup := seen[h]; dup {
					errs = append(errs, fmt.Errorf("handle %v appears in both (monitor %d, workspace %d) and (monitor %d, workspace %d)", h, prior.MonitorIndex, prior.Workspace, mi, ws))
					continue
				}
				seen[h] = Location{MonitorIndex: mi, Workspace: ws}
			}
		}
	}
	return errs
}

// checkWorkspaceUniformity is P4: all monitors share the active workspace.
func (m *Model) checkWorkspaceUniformity() []error {
	var errs []error
	for i, mon := range m.Monitors {
		if mon.ActiveWorkspaceIndex != m.ActiveWorkspace {
			errs = append(errs, fmt.Errorf("monitor %d active workspace %d != model active workspace %d", i, mon.ActiveWorkspaceIndex, m.ActiveWorkspace))
		}
	}
	return errs
}

// checkVisibility is P5: hidden_by_us mirrors whether the window's
// workspace is currently active.
func (m *Model) checkVisibility() []error {
	var errs []error
	for _, w := range m.windows {
		wantHidden := w.Workspace != m.ActiveWorkspace
		if w.HiddenByUs != wantHidden {
			errs = append(errs, fmt.Errorf("handle %v: hidden_by_us=%v but workspace=%d active=%d", w.Handle, w.HiddenByUs, w.Workspace, m.ActiveWorkspace))
		}
	}
	return errs
}

// checkIndexConsistency is P6: the location index matches each window's
// actual (monitor, workspace).
func (m *Model) checkIndexConsistency() []error {
	var errs []error
	for h, w := range m.windows {
		loc, ok := m.locationIndex[h]
		if !ok {
			errs = append(errs, fmt.Errorf("handle %v missing from location index", h))
			continue
		}
		if loc.MonitorIndex != w.MonitorIndex || loc.Workspace != w.Workspace {
			errs = append(errs, fmt.Errorf("handle %v: index says (%d,%d), actual (%d,%d)", h, loc.MonitorIndex, loc.Workspace, w.MonitorIndex, w.Workspace))
		}
	}
	return errs
}
