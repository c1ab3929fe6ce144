/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/config"
	"github.com/ssargent/pngme/pkg/di"
	"github.com/ssargent/pngme/pkg/logging"
)

var container *di.Container

// SetContainer injects the dependency container used by all commands
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pngme",
	Short: "pngme - hide messages in PNG chunks",
	Long: `pngme reads and rewrites the chunk structure of PNG files. It can hide
text messages in ancillary chunks, read them back, remove them, and park
chunks in a local stash to restore later.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if cmd.Flags().Changed("log-level") {
			level, _ = cmd.Flags().GetString("log-level")
		}
		format, _ := cmd.Flags().GetString("log-format")
		logger, err := logging.New(level, logging.Format(format), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}

		container.Configure(cfg, logger)
		return nil
	},
}

// loadConfig reads the config file if it exists and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("stash-dir") {
		cfg.StashDir, _ = cmd.Flags().GetString("stash-dir")
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict, _ = cmd.Flags().GetBool("strict")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if container != nil {
		if cerr := container.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is ~/.config/pngme/config.yaml)")
	rootCmd.PersistentFlags().String("stash-dir", "", "Directory of the chunk stash (overrides config)")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject images whose first chunk is not IHDR or that have chunks after IEND")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "plain", "Log format (plain or json)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}
