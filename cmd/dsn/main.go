// Command dsn builds snapshots of NASA Deep Space Network activity.
//
// Usage:
//
//	BASE_URL=https://dsn.example.com dsn generate
//	BASE_URL=http://localhost:3000 dsn serve
//	BASE_URL=https://dsn.example.com dsn transform --config-xml config.xml --status-xml dsn.xml
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/dsn-status-service/internal/observability"
	"github.com/spf13/cobra"
)

func main() {
	opts := options{
		newMetrics: observability.NewMetrics,
		stdout:     os.Stdout,
	}
	if err := newRootCmd(opts).Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// options carries process-level dependencies so tests can swap them.
type options struct {
	newMetrics func() *observability.Metrics
	stdout     io.Writer
}

func newRootCmd(opts options) *cobra.Command {
	root := &cobra.Command{
		Use:           "dsn",
		Short:         "NASA Deep Space Network status snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.stdout)
	root.AddCommand(
		newGenerateCmd(opts),
		newServeCmd(opts),
		newTransformCmd(),
	)
	return root
}
