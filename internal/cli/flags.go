package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalavandhaann/mesh-outline/internal/assets"
	"github.com/aalavandhaann/mesh-outline/internal/config"
	"github.com/aalavandhaann/mesh-outline/internal/engine/camera"
	"github.com/aalavandhaann/mesh-outline/internal/scene"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// meshFlags select the mesh a command works on.
type meshFlags struct {
	shape string
	model string
	scale float32
}

func (f *meshFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shape, "shape", "", "procedural shape: torus, sphere or box")
	cmd.Flags().StringVar(&f.model, "model", "", "model file (glTF, GLB or binary STL), overrides --shape")
	cmd.Flags().Float32Var(&f.scale, "scale", 0, "uniform mesh scale")
}

func (f *meshFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("shape") {
		cfg.Mesh.Shape = f.shape
		cfg.Mesh.Model = ""
	}
	if cmd.Flags().Changed("model") {
		cfg.Mesh.Model = f.model
	}
	if cmd.Flags().Changed("scale") {
		cfg.Mesh.Scale = f.scale
	}
}

// outlineFlags select the visibility variant and its band.
type outlineFlags struct {
	variant  string
	minAngle float32
	maxAngle float32
	color    string
}

func (f *outlineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.variant, "variant", "", "visibility variant: band or collapse")
	cmd.Flags().Float32Var(&f.minAngle, "min", 0, "minimum threshold angle in degrees")
	cmd.Flags().Float32Var(&f.maxAngle, "max", 0, "maximum threshold angle in degrees")
	cmd.Flags().StringVar(&f.color, "color", "", "outline color as #rrggbb")
}

func (f *outlineFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("variant") {
		cfg.Outline.Variant = f.variant
	}
	if cmd.Flags().Changed("min") {
		cfg.Outline.MinAngle = f.minAngle
	}
	if cmd.Flags().Changed("max") {
		cfg.Outline.MaxAngle = f.maxAngle
	}
	if cmd.Flags().Changed("color") {
		cfg.Outline.Color = f.color
	}
}

// cameraFlags override the orbit camera. Angles are in degrees.
type cameraFlags struct {
	distance float32
	pitch    float32
	yaw      float32
}

func (f *cameraFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float32Var(&f.distance, "distance", 0, "camera distance from the mesh center")
	cmd.Flags().Float32Var(&f.pitch, "pitch", 0, "camera pitch in degrees")
	cmd.Flags().Float32Var(&f.yaw, "yaw", 0, "camera yaw in degrees")
}

func (f *cameraFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("distance") {
		cfg.Camera.Distance = f.distance
	}
	if cmd.Flags().Changed("pitch") {
		cfg.Camera.Pitch = f.pitch
	}
	if cmd.Flags().Changed("yaw") {
		cfg.Camera.Yaw = f.yaw
	}
}

// outlineSetup is everything a classification command needs.
type outlineSetup struct {
	node   *scene.Node
	policy visibility.Policy
	params visibility.Params
	camera *camera.OrbitCamera
}

// setup validates cfg and loads the mesh. Model files are framed by the
// camera unless a distance was given; shapes use the configured orbit.
func setup(cmd *cobra.Command, cfg *config.Config) (*outlineSetup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	variant, err := cfg.Outline.ParsedVariant()
	if err != nil {
		return nil, err
	}
	policy, err := visibility.New(variant)
	if err != nil {
		return nil, err
	}
	params, err := cfg.Outline.Params()
	if err != nil {
		return nil, err
	}

	node, err := loadNode(cfg)
	if err != nil {
		return nil, err
	}

	cam := camera.FromConfig(cfg.Camera)
	if cfg.Mesh.Model != "" && !cmd.Flags().Changed("distance") {
		lo, hi := node.Bounds()
		cam.FitToBounds(lo, hi)
	}

	return &outlineSetup{node: node, policy: policy, params: params, camera: cam}, nil
}

func loadNode(cfg *config.Config) (*scene.Node, error) {
	manager := assets.NewManager(nil)
	defer manager.Close()

	node, err := manager.Load(assets.SourceFromConfig(cfg.Mesh))
	if err != nil {
		return nil, fmt.Errorf("loading mesh: %w", err)
	}
	return node, nil
}
