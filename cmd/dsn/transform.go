package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/dsn-status-service/internal/adapter/site"
	"github.com/couchcryptid/dsn-status-service/internal/config"
	"github.com/couchcryptid/dsn-status-service/internal/domain"
	"github.com/spf13/cobra"
)

func newTransformCmd() *cobra.Command {
	var (
		configPath string
		statusPath string
		html       bool
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform local copies of the feeds and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if configPath == "" || statusPath == "" {
				return errors.New("--config-xml and --status-xml are required")
			}

			configData, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("read config feed: %w", err)
			}
			statusData, err := os.ReadFile(statusPath)
			if err != nil {
				return fmt.Errorf("read status feed: %w", err)
			}

			configFeed, err := domain.ParseConfigFeed(configData)
			if err != nil {
				return err
			}
			statusFeed, err := domain.ParseStatusFeed(statusData)
			if err != nil {
				return err
			}

			out, _ := domain.Transform(cfg.BaseURL, configFeed, statusFeed, policyFromConfig(cfg))
			if html {
				return site.RenderHTML(cmd.OutOrStdout(), out)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&configPath, "config-xml", "", "path to a saved configuration feed")
	cmd.Flags().StringVar(&statusPath, "status-xml", "", "path to a saved status feed")
	cmd.Flags().BoolVar(&html, "html", false, "render the display page instead of JSON")
	return cmd
}
