package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/linkpeek/internal/daemon"
	"github.com/1broseidon/linkpeek/internal/runtimepath"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the linkpeek daemon (foreground)",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	socket := globalOpts.socketPath
	if socket == "" {
		var err error
		socket, err = runtimepath.SocketPath()
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return daemon.Run(ctx, daemon.Options{
		Config:     cfg,
		SocketPath: socket,
		Logger:     logger,
	})
}
