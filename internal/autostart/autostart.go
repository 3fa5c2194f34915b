// Package autostart treats "does this daemon start on login" as an opaque
// bool behind a one-method-pair interface, so the core and tilewmctl never
// need to know the XDG autostart mechanism exists. Grounded on the teacher's
// runtimepath package for the XDG path-resolution style (os.UserHomeDir,
// filepath.Join, create-parent-dirs-on-write).
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
)

// Controller reports and toggles whether the daemon is registered to start
// on login.
type Controller interface {
	Enabled() (bool, error)
	SetEnabled(bool) error
}

const desktopEntry = `[Desktop Entry]
Type=Application
Name=tilewm
Exec=tilewmd
X-GNOME-Autostart-enabled=true
`

// xdgAutostart is the Linux implementation: a .desktop file dropped into
// (or removed from) the XDG autostart directory.
type xdgAutostart struct {
	path string
}

// New builds a Controller backed by ~/.config/autostart/tilewm.desktop.
func New() (Controller, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	return &xdgAutostart{path: filepath.Join(configHome, "autostart", "tilewm.desktop")}, nil
}

func (a *xdgAutostart) Enabled() (bool, error) {
	_, err := os.Stat(a.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("%s: %w", a.path, err)
}

func (a *xdgAutostart) SetEnabled(enabled bool) error {
	if !enabled {
		if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%s: failed to remove: %w", a.path, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}
	if err := os.WriteFile(a.path, []byte(desktopEntry), 0644); err != nil {
		return fmt.Errorf("%s: failed to write: %w", a.path, err)
	}
	return nil
}
