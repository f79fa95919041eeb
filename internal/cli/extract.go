package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
)

func newExtractCmd(root *rootOpts) *cobra.Command {
	var mesh meshFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the silhouette line geometry of a mesh and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh.apply(cmd, root.cfg)
			return runExtract(cmd, root.cfg)
		},
	}
	mesh.register(cmd)
	return cmd
}

func runExtract(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Named("extract")
	prog := newProgress(log)

	node, err := loadNode(cfg)
	if err != nil {
		return err
	}
	prog.done("extracted outline", zap.String("mesh", node.Name))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mesh        %s\n", node.Name)
	fmt.Fprintf(out, "triangles   %d\n", node.Stats.Triangles)
	fmt.Fprintf(out, "segments    %d\n", node.Stats.Segments)
	fmt.Fprintf(out, "vertices    %d\n", node.Stats.Vertices)
	fmt.Fprintf(out, "degenerate  %d\n", node.Stats.Degenerate)
	return nil
}
