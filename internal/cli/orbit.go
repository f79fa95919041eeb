package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/orbit"
	"github.com/aalavandhaann/mesh-outline/internal/preview"
)

type orbitOpts struct {
	steps   int
	workers int
	pngDir  string
	width   int
	height  int
}

func newOrbitCmd(root *rootOpts) *cobra.Command {
	var (
		mesh    meshFlags
		outline outlineFlags
		cam     cameraFlags
	)
	opts := orbitOpts{steps: 72, width: 800, height: 450}

	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "Circle the camera around a mesh and count visible outline elements per step",
		Long: `Orbit turns the camera a full circle around the mesh and classifies the
outline at every step. Collapse counts visible segments; band counts mesh
vertices inside the angle band. A summary of the curve follows the samples.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh.apply(cmd, root.cfg)
			outline.apply(cmd, root.cfg)
			cam.apply(cmd, root.cfg)
			return runOrbit(cmd, root.cfg, opts)
		},
	}

	mesh.register(cmd)
	outline.register(cmd)
	cam.register(cmd)
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "number of camera positions in the full turn")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel classifications (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.pngDir, "png-dir", "", "write one preview image per step into this directory")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "preview width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "preview height in pixels")

	return cmd
}

func runOrbit(cmd *cobra.Command, cfg *config.Config, opts orbitOpts) error {
	s, err := setup(cmd, cfg)
	if err != nil {
		return err
	}

	log := logger.Named("orbit")
	prog := newProgress(log)

	imgOpts := preview.DefaultOptions()
	imgOpts.Width, imgOpts.Height = opts.width, opts.height
	path := orbit.Path{Camera: *s.camera, Steps: opts.steps, Aspect: imgOpts.Aspect()}

	samples, err := orbit.Sweep(cmd.Context(), s.node, s.policy, s.params, path, orbit.Options{Workers: opts.workers})
	if err != nil {
		return err
	}
	summary, err := orbit.Summarize(samples)
	if err != nil {
		return err
	}
	prog.done("orbit finished", zap.String("mesh", s.node.Name), zap.Int("steps", len(samples)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s %s %.1f-%.1f\n", s.node.Name, s.policy.Variant(), s.params.MinAngle, s.params.MaxAngle)
	fmt.Fprintln(out, "step\tyaw\tvisible\ttotal")
	for _, sample := range samples {
		fmt.Fprintf(out, "%d\t%.1f\t%d\t%d\n", sample.Step, sample.Yaw, sample.Visible, sample.Total)
	}
	fmt.Fprintf(out, "# min %.0f max %.0f mean %.2f stddev %.2f max-delta %d at step %d\n",
		summary.Min, summary.Max, summary.Mean, summary.StdDev, summary.MaxDelta, summary.MaxDeltaStep)

	if opts.pngDir == "" {
		return nil
	}
	return writeOrbitPreviews(cmd, s, path, samples, imgOpts, opts.pngDir)
}

func writeOrbitPreviews(cmd *cobra.Command, s *outlineSetup, path orbit.Path, samples []orbit.Sample, opts preview.Options, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating preview dir: %w", err)
	}
	log := logger.Named("orbit")

	for _, sample := range samples {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		opts.Caption = fmt.Sprintf("%s %s yaw %.1f visible %d/%d",
			s.node.Name, s.policy.Variant(), sample.Yaw, sample.Visible, sample.Total)
		img, err := preview.Render(s.node, s.policy, s.params, path.Frame(sample.Step, s.node.Model), opts)
		if err != nil {
			return err
		}
		file := filepath.Join(dir, fmt.Sprintf("orbit_%03d.png", sample.Step))
		if err := preview.SavePNG(file, img); err != nil {
			return err
		}
		log.Debug("preview written", zap.String("file", file), zap.Int("drawn", img.Drawn))
	}
	return nil
}
