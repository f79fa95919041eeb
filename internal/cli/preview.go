package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/preview"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

type previewOpts struct {
	out       string
	width     int
	height    int
	lineWidth float64
	caption   bool
}

func newPreviewCmd(root *rootOpts) *cobra.Command {
	var (
		mesh    meshFlags
		outline outlineFlags
		cam     cameraFlags
	)
	opts := previewOpts{out: "preview.png", width: 800, height: 450, lineWidth: 2, caption: true}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the visible outline from one camera position to a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh.apply(cmd, root.cfg)
			outline.apply(cmd, root.cfg)
			cam.apply(cmd, root.cfg)
			return runPreview(cmd, root.cfg, opts)
		},
	}

	mesh.register(cmd)
	outline.register(cmd)
	cam.register(cmd)
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output PNG file")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "image height in pixels")
	cmd.Flags().Float64Var(&opts.lineWidth, "line-width", opts.lineWidth, "outline width in pixels")
	cmd.Flags().BoolVar(&opts.caption, "caption", opts.caption, "draw a caption with the settings")

	return cmd
}

func runPreview(cmd *cobra.Command, cfg *config.Config, opts previewOpts) error {
	s, err := setup(cmd, cfg)
	if err != nil {
		return err
	}

	imgOpts := preview.DefaultOptions()
	imgOpts.Width, imgOpts.Height = opts.width, opts.height
	imgOpts.LineWidth = opts.lineWidth
	if bg, err := visibility.ParseHex(cfg.Graphics.ClearColor); err == nil {
		imgOpts.Background = bg
	}
	if opts.caption {
		imgOpts.Caption = fmt.Sprintf("%s %s %.1f-%.1f", s.node.Name, s.policy.Variant(), s.params.MinAngle, s.params.MaxAngle)
	}

	frame := visibility.NewFrame(s.node.Model, s.camera.ViewMatrix(), s.camera.ProjectionMatrix(imgOpts.Aspect()))
	img, err := preview.Render(s.node, s.policy, s.params, frame, imgOpts)
	if err != nil {
		return err
	}
	if err := preview.SavePNG(opts.out, img); err != nil {
		return err
	}

	logger.Named("preview").Info("preview written", zap.String("file", opts.out), zap.Int("drawn", img.Drawn))
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", opts.out, img.Drawn)
	return nil
}
