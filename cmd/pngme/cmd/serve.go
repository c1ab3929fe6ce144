/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the pngme REST API server. Images are posted as the request body;
the chunk stash from the configuration backs the /api/v1/stash routes.

Examples:
  pngme serve
  pngme serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.Config()
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		stash, err := container.Stash()
		if err != nil {
			return err
		}

		logger := container.Logger()
		if cfg.Security.APIKey == "" {
			logger.Warn().Msg("no API key configured, the API is unauthenticated")
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.StartServer(ctx, stash, api.ServerConfig{
			Addr:           cfg.Address(),
			APIKey:         cfg.Security.APIKey,
			Strict:         cfg.Strict,
			MaxUploadBytes: cfg.MaxUploadBytes,
		}, *logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key required in X-API-Key (overrides config)")
}

// commandContext returns the command context or a background context
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
