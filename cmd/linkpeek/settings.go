package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/1broseidon/linkpeek/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preview settings",
	Long: `Show or change the persisted preview settings. Changes are written to the
settings file and pushed to a running daemon.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		printSettings(store.Path(), store.Current())
		return nil
	},
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode [all|external|off]",
	Short: "Set which links open previews",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsMode,
}

var settingsEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable previews",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettings(func(s *settings.Settings) { s.Enabled = true })
	},
}

var settingsDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable previews",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettings(func(s *settings.Settings) { s.Enabled = false })
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsModeCmd, settingsEnableCmd, settingsDisableCmd)
	rootCmd.AddCommand(settingsCmd)
}

func openSettings() (*settings.Store, error) {
	path, err := cfg.GetSettingsPath()
	if err != nil {
		return nil, err
	}
	return settings.Open(path)
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		store, err := openSettings()
		if err != nil {
			return err
		}
		name = string(store.Current().Mode)
		err = huh.NewSelect[string]().
			Title("Preview mode").
			Options(
				huh.NewOption("all: internal and external links", string(settings.ModeAll)),
				huh.NewOption("external: links to other sites only", string(settings.ModeExternal)),
				huh.NewOption("off: no hover previews", string(settings.ModeOff)),
			).
			Value(&name).
			Run()
		if err != nil {
			return err
		}
	}

	mode, err := settings.ParseMode(name)
	if err != nil {
		return err
	}
	return updateSettings(func(s *settings.Settings) { s.Mode = mode })
}

func updateSettings(fn func(*settings.Settings)) error {
	store, err := openSettings()
	if err != nil {
		return err
	}
	next, err := store.Update(fn)
	if err != nil {
		return err
	}
	printSettings(store.Path(), next)

	// The daemon also watches the file; this just makes the change immediate.
	if _, err := newClient().ReloadSettings(); err != nil {
		logger.Debug("daemon not notified", "error", err)
	}
	return nil
}

func printSettings(path string, s settings.Settings) {
	fmt.Printf("settings: %s\n", path)
	fmt.Printf("enabled: %v\n", s.Enabled)
	fmt.Printf("mode: %s\n", s.Mode)
}
