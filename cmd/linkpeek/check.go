package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/linkpeek/internal/daemon"
	"github.com/1broseidon/linkpeek/internal/trigger"
)

var checkPage string

var checkCmd = &cobra.Command{
	Use:   "check URL",
	Short: "Report whether a link would open a preview",
	Long: `Evaluate the admission rules (settings, page exclusions, ban list and
the internal/external split) for URL without contacting the daemon.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPage, "page", "", "Page path the link appears on")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	prefs, err := openSettings()
	if err != nil {
		return err
	}
	policy := daemon.Policy(cfg, prefs)
	verdict := policy.Evaluate(args[0], checkPage)

	fmt.Printf("url: %s\n", args[0])
	if d := trigger.Domain(args[0]); d != "" {
		fmt.Printf("domain: %s\n", d)
	}
	fmt.Printf("verdict: %s\n", verdict)
	if verdict != trigger.Allowed {
		return fmt.Errorf("not allowed: %s", verdict)
	}
	return nil
}
