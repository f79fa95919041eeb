// Package orbit simulates a camera circling a mesh and records how many
// outline segments each visibility policy keeps at every step. A smooth
// curve means edges appear and vanish gradually while the view turns.
package orbit

import (
	"context"
	"errors"
	"fmt"
	gomath "math"
	"runtime"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aalavandhaann/mesh-outline/internal/engine/camera"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/scene"
	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// ErrNoSteps is returned for a path with fewer than one step.
var ErrNoSteps = errors.New("orbit path needs at least one step")

// Path is a full turn around the camera's center, split into Steps equal
// yaw increments starting at the camera's current yaw.
type Path struct {
	Camera camera.OrbitCamera
	Steps  int
	Aspect float32 // Viewport width / height
}

// Yaw returns the yaw of step in radians.
func (p Path) Yaw(step int) float32 {
	return p.Camera.RotationY + float32(step)*2*gomath.Pi/float32(p.Steps)
}

// Frame returns the transforms of step for a mesh with the given model matrix.
func (p Path) Frame(step int, model math.Mat4) visibility.Frame {
	c := p.Camera
	c.RotationY = p.Yaw(step)
	return visibility.NewFrame(model, c.ViewMatrix(), c.ProjectionMatrix(p.Aspect))
}

// Sample is the classification outcome of one step. For the collapse
// policy the counts are outline segments; the band policy runs on the lit
// mesh and counts mesh vertices.
type Sample struct {
	Step    int
	Yaw     float32 // Degrees
	Visible int
	Total   int
}

// Options tune Sweep.
type Options struct {
	Workers int // Parallel classifications; 0 means GOMAXPROCS
}

// Sweep classifies node at every step of path. Steps run in parallel; the
// returned samples are ordered by step. The node's model matrix is applied.
func Sweep(ctx context.Context, node *scene.Node, policy visibility.Policy, params visibility.Params, path Path, opts Options) ([]Sample, error) {
	if path.Steps < 1 {
		return nil, ErrNoSteps
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	target := node.Outline
	if policy.Variant() == visibility.VariantBand {
		target = node.Mesh
	}
	total := countable(policy, target)

	samples := make([]Sample, path.Steps)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for step := range path.Steps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := policy.Classify(target, path.Frame(step, node.Model), params)
			if err != nil {
				return fmt.Errorf("step %d: %w", step, err)
			}
			samples[step] = Sample{
				Step:    step,
				Yaw:     path.Yaw(step) / math.DegToRad,
				Visible: visible(policy, res),
				Total:   total,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Named("orbit").Debug("sweep finished",
		zap.String("variant", string(policy.Variant())),
		zap.Int("steps", path.Steps),
		zap.Int("workers", workers))
	return samples, nil
}

func countable(policy visibility.Policy, g *geometry.Geometry) int {
	if policy.Variant() == visibility.VariantBand {
		return g.VertexCount()
	}
	return g.VertexCount() / 2
}

func visible(policy visibility.Policy, res *visibility.Result) int {
	if policy.Variant() == visibility.VariantBand {
		return res.KeptVertices()
	}
	return res.VisibleSegments()
}

// Summary describes the visible-segment curve of a sweep.
type Summary struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64

	// MaxDelta is the largest change between neighbouring steps, including
	// the wrap from the last step back to the first.
	MaxDelta     int
	MaxDeltaStep int // Step at which MaxDelta ends
}

// Summarize computes the statistics of samples.
func Summarize(samples []Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSteps
	}

	data := make(stats.Float64Data, len(samples))
	for i, s := range samples {
		data[i] = float64(s.Visible)
	}

	var (
		sum Summary
		err error
	)
	if sum.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if sum.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if sum.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if sum.StdDev, err = data.StandardDeviation(); err != nil {
		return Summary{}, err
	}

	for i := range samples {
		prev := samples[(i+len(samples)-1)%len(samples)]
		delta := samples[i].Visible - prev.Visible
		if delta < 0 {
			delta = -delta
		}
		if delta > sum.MaxDelta {
			sum.MaxDelta = delta
			sum.MaxDeltaStep = samples[i].Step
		}
	}
	return sum, nil
}
