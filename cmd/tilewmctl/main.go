// Command tilewmctl talks to a running tilewmd over its control socket.
// Each subcommand is a thin wrapper around one internal/ipc.Client call;
// the printf-style status output is grounded on the teacher's runStatus.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilewm/tilewm/internal/ipc"
)

func main() {
	root := &cobra.Command{
		Use:   "tilewmctl",
		Short: "control a running tilewmd daemon",
	}

	root.AddCommand(
		statusCmd(),
		exitCmd(),
		reloadCmd(),
		monitorsCmd(),
		autostartCmd(),
		statusBarCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			fmt.Printf("active_workspace:   %d\n", status.ActiveWorkspace)
			fmt.Printf("managed_windows:    %d\n", status.ManagedWindows)
			fmt.Printf("monitor_count:      %d\n", status.MonitorCount)
			fmt.Printf("status_bar_visible: %v\n", status.StatusBarVisible)
			fmt.Printf("uptime_seconds:     %d\n", status.UptimeSeconds)
			return nil
		},
	}
}

func exitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exit",
		Short: "ask the daemon to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().Exit()
		},
	}
}

func reloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "ask the daemon to re-validate its config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().Reload()
		},
	}
}

func monitorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "list the daemon's current monitor layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			monitors, err := ipc.NewClient().GetMonitors()
			if err != nil {
				return err
			}
			for _, mon := range monitors.Monitors {
				fmt.Printf("%-20s primary=%-5v rect=(%d,%d)-(%d,%d)\n",
					mon.ID, mon.Primary, mon.Left, mon.Top, mon.Right, mon.Bottom)
			}
			return nil
		},
	}
}

func autostartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autostart",
		Short: "toggle whether tilewmd starts on login",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ipc.NewClient().ToggleAutoStart()
			if err != nil {
				return err
			}
			fmt.Printf("autostart enabled: %v\n", data.Enabled)
			return nil
		},
	}
}

func statusBarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statusbar",
		Short: "toggle the status bar's visibility",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().ToggleStatusBar()
		},
	}
}
