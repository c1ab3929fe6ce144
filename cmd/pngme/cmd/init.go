/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with default settings to the --config path
(default ~/.config/pngme/config.yaml).

Examples:
  pngme init
  pngme init --config ./pngme.yaml --stash-dir ./stash --api-key`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		withKey, _ := cmd.Flags().GetBool("api-key")
		force, _ := cmd.Flags().GetBool("force")

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		stashDir := ""
		if cmd.Flags().Changed("stash-dir") {
			stashDir, _ = cmd.Flags().GetString("stash-dir")
		}

		cfg, err := config.BootstrapConfig(configPath, stashDir, withKey)
		if err != nil {
			return err
		}

		cmd.Printf("Configuration written to %s\n", configPath)
		cmd.Printf("Stash directory: %s\n", cfg.StashDir)
		if cfg.Security.APIKey != "" {
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("api-key", false, "Generate an API key for the HTTP server")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
