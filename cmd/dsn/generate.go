package main

import (
	kafkaadapter "github.com/couchcryptid/dsn-status-service/internal/adapter/kafka"
	"github.com/couchcryptid/dsn-status-service/internal/adapter/site"
	"github.com/couchcryptid/dsn-status-service/internal/pipeline"
	"github.com/spf13/cobra"
)

func newGenerateCmd(opts options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Fetch both feeds once and write the static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			loaders := []pipeline.Loader{site.NewWriter(a.cfg.OutputDir, a.cfg.ImagesDir, a.logger)}
			if a.cfg.KafkaEnabled {
				writer := kafkaadapter.NewWriter(a.cfg, a.metrics, a.logger)
				defer func() {
					if err := writer.Close(); err != nil {
						a.logger.Error("kafka writer close error", "error", err)
					}
				}()
				loaders = append(loaders, writer)
			}

			snapshot, err := a.pipeline(loaders...).Run(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("site generated",
				"run_id", snapshot.RunID,
				"output_dir", a.cfg.OutputDir,
				"stations", len(snapshot.Output.Stations),
			)
			return nil
		},
	}
}
