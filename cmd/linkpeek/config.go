package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/linkpeek/internal/config"
)

var (
	configDefaults bool
	configSources  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configSources {
			return printConfigSources()
		}
		c := cfg
		if configDefaults {
			c = config.DefaultConfig()
		}
		data, err := c.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configPrintCmd.Flags().BoolVar(&configDefaults, "defaults", false, "Print built-in defaults instead")
	configPrintCmd.Flags().BoolVar(&configSources, "sources", false, "Print where each top-level key was set")
	configCmd.AddCommand(configPrintCmd, configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func configFilePath() (string, error) {
	if globalOpts.configPath != "" {
		return globalOpts.configPath, nil
	}
	return config.DefaultConfigPath()
}

func printConfigSources() error {
	path, err := configFilePath()
	if err != nil {
		return err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	keys, err := res.TopLevelSources()
	if err != nil {
		return err
	}
	for _, ks := range keys {
		fmt.Printf("%s: %s\n", ks.Key, ks.Source)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("config: invalid: %w", err)
		}
		return err
	}
	for _, f := range res.Files {
		fmt.Printf("loaded: %s\n", f)
	}
	fmt.Println("config: ok")
	return nil
}
