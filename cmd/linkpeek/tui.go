package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/linkpeek/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive overview of open previews",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(newClient())
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
