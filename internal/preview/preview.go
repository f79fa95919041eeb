// Package preview rasterises a classification result to an image without a
// GL context. Outline segments are drawn as lines; band results on a solid
// mesh are drawn as filled triangles.
package preview

import (
	"errors"
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/aalavandhaann/mesh-outline/internal/scene"
	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// ErrEmptyImage is returned for non-positive image sizes.
var ErrEmptyImage = errors.New("preview size must be positive")

// Options control the output image.
type Options struct {
	Width, Height int
	Background    visibility.RGB
	LineWidth     float64
	Caption       string
}

// DefaultOptions returns an 800x450 image on the viewer's clear color.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     450,
		Background: visibility.MustParseHex("#444444"),
		LineWidth:  2,
	}
}

// Aspect returns width / height.
func (o Options) Aspect() float32 {
	if o.Height == 0 {
		return 1
	}
	return float32(o.Width) / float32(o.Height)
}

// Image is a rendered preview.
type Image struct {
	image.Image
	Drawn int // Segments or triangles that reached the image
}

// Render classifies node with policy and draws the result.
func Render(node *scene.Node, policy visibility.Policy, params visibility.Params, frame visibility.Frame, opts Options) (*Image, error) {
	if policy.Variant() == visibility.VariantBand {
		res, err := policy.Classify(node.Mesh, frame, params)
		if err != nil {
			return nil, fmt.Errorf("preview %s: %w", node.Name, err)
		}
		return Triangles(node.Mesh, res, frame, params, opts)
	}

	res, err := policy.Classify(node.Outline, frame, params)
	if err != nil {
		return nil, fmt.Errorf("preview %s: %w", node.Name, err)
	}
	return Lines(res, frame, params, opts)
}

// Lines draws every visible segment of a line classification result.
func Lines(res *visibility.Result, frame visibility.Frame, params visibility.Params, opts Options) (*Image, error) {
	dc, err := newCanvas(opts)
	if err != nil {
		return nil, err
	}
	setColor(dc, params)
	dc.SetLineWidth(opts.LineWidth)
	dc.SetLineCapRound()

	drawn := 0
	for i := 0; i+1 < len(res.Keep); i += 2 {
		if !res.Keep[i] || !res.Keep[i+1] {
			continue
		}
		a, b := res.Positions.Vec3(i), res.Positions.Vec3(i+1)
		if a == b {
			continue
		}
		pa, okA := project(frame.MVP, a, opts)
		pb, okB := project(frame.MVP, b, opts)
		if !okA || !okB {
			continue
		}
		dc.DrawLine(float64(pa.X), float64(pa.Y), float64(pb.X), float64(pb.Y))
		dc.Stroke()
		drawn++
	}

	caption(dc, opts)
	return &Image{Image: dc.Image(), Drawn: drawn}, nil
}

// Triangles fills every triangle of mesh whose three vertices were kept.
func Triangles(mesh *geometry.Geometry, res *visibility.Result, frame visibility.Frame, params visibility.Params, opts Options) (*Image, error) {
	dc, err := newCanvas(opts)
	if err != nil {
		return nil, err
	}
	setColor(dc, params)

	index := mesh.Index
	if index == nil {
		index = make([]uint32, len(res.Keep))
		for i := range index {
			index[i] = uint32(i)
		}
	}

	drawn := 0
	for t := 0; t+2 < len(index); t += 3 {
		tri := index[t : t+3]
		if !res.Keep[tri[0]] || !res.Keep[tri[1]] || !res.Keep[tri[2]] {
			continue
		}
		var pts [3]math.Vec2
		visible := true
		for k, idx := range tri {
			p, ok := project(frame.MVP, res.Positions.Vec3(int(idx)), opts)
			if !ok {
				visible = false
				break
			}
			pts[k] = p
		}
		if !visible {
			continue
		}
		dc.MoveTo(float64(pts[0].X), float64(pts[0].Y))
		dc.LineTo(float64(pts[1].X), float64(pts[1].Y))
		dc.LineTo(float64(pts[2].X), float64(pts[2].Y))
		dc.ClosePath()
		dc.Fill()
		drawn++
	}

	caption(dc, opts)
	return &Image{Image: dc.Image(), Drawn: drawn}, nil
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("saving preview %s: %w", path, err)
	}
	return nil
}

func newCanvas(opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, opts.Width, opts.Height)
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	bg := opts.Background.Array()
	dc.SetRGB(float64(bg[0]), float64(bg[1]), float64(bg[2]))
	dc.Clear()
	return dc, nil
}

func setColor(dc *gg.Context, params visibility.Params) {
	c := params.Color.Array()
	dc.SetRGBA(float64(c[0]), float64(c[1]), float64(c[2]), float64(params.Opacity))
}

// project maps p to pixel coordinates. Points behind the camera are rejected.
func project(mvp math.Mat4, p math.Vec3, opts Options) (math.Vec2, bool) {
	clip := mvp.MulVec4(math.Point4(p))
	if clip[3] <= 0 {
		return math.Vec2{}, false
	}
	ndc := clip.NDC()
	return math.Vec2{
		X: (ndc.X + 1) / 2 * float32(opts.Width),
		Y: (1 - ndc.Y) / 2 * float32(opts.Height),
	}, true
}

func caption(dc *gg.Context, opts Options) {
	if opts.Caption == "" {
		return
	}
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(opts.Caption, 8, float64(opts.Height)-8)
}
