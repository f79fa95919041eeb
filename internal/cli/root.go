// Package cli implements the outlinetool command-line interface: headless
// silhouette extraction, orbit sweeps and preview rendering.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
)

var version = "dev"

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	version = v
}

// rootOpts holds the persistent flags and the config they select.
type rootOpts struct {
	configPath string
	verbose    bool

	cfg *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:           "outlinetool",
		Short:         "Extract and analyse silhouette outlines of meshes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if opts.verbose {
				level = "debug"
			}
			// Logs go to stderr so command output stays pipeable
			if err := logger.Setup(logger.Options{Level: level, Console: cmd.ErrOrStderr()}); err != nil {
				return err
			}

			cfg, err := config.LoadFile(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file providing defaults")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newExtractCmd(opts))
	root.AddCommand(newOrbitCmd(opts))
	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// progress logs completion of a step with its elapsed time.
type progress struct {
	log   *zap.Logger
	start time.Time
}

func newProgress(log *zap.Logger) *progress {
	return &progress{log: log, start: time.Now()}
}

func (p *progress) done(msg string, fields ...zap.Field) {
	fields = append(fields, zap.Duration("elapsed", time.Since(p.start).Round(time.Millisecond)))
	p.log.Info(msg, fields...)
}
