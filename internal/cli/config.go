package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
)

// ErrConfigExists is returned when config would overwrite a file without --force.
var ErrConfigExists = errors.New("config file already exists (use --force to overwrite)")

func newConfigCmd(root *rootOpts) *cobra.Command {
	var (
		out    string
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the effective configuration as YAML",
		Long: `Config writes the defaults, merged with --config if given, to the user
config directory or --out. The viewer and studio read this file at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdout {
				data, err := root.cfg.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = filepath.Join(config.ConfigDir(), "config.yaml")
			}
			return writeConfig(cmd, root.cfg, out, force)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: user config directory)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print to stdout instead of writing a file")
	return cmd
}

func writeConfig(cmd *cobra.Command, cfg *config.Config, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	logger.Named("config").Info("config written", zap.String("file", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
