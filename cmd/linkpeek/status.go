package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := newClient()
	status, err := client.GetStatus()
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", client.SocketPath(), err)
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("started: %s\n", humanize.Time(status.StartedAt))
	fmt.Printf("previews: %d (%d minimized)\n", status.WindowCount, status.Minimized)
	if status.Focused != "" {
		fmt.Printf("focused: %s\n", status.Focused)
	}
	fmt.Printf("viewport: %s\n", status.Viewport)
	fmt.Printf("enabled: %v\n", status.Enabled)
	fmt.Printf("mode: %s\n", status.Mode)
	if status.Page != "" {
		fmt.Printf("page: %s\n", status.Page)
	}
	return nil
}
