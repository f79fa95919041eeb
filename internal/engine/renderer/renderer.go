// Package renderer draws scene nodes with OpenGL: a hemisphere-lit base
// mesh and an outline pass using the selected visibility variant.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/controls"
	"github.com/aalavandhaann/mesh-outline/internal/engine/camera"
	"github.com/aalavandhaann/mesh-outline/internal/engine/lighting"
	"github.com/aalavandhaann/mesh-outline/internal/engine/renderer/shaders"
	"github.com/aalavandhaann/mesh-outline/internal/engine/shader"
	"github.com/aalavandhaann/mesh-outline/internal/logger"
	"github.com/aalavandhaann/mesh-outline/internal/scene"
	"github.com/aalavandhaann/mesh-outline/pkg/geometry"
	"github.com/aalavandhaann/mesh-outline/pkg/math"
	"github.com/aalavandhaann/mesh-outline/pkg/visibility"
)

// Renderer handles all OpenGL rendering.
type Renderer struct {
	meshProgram     *shader.Program
	bandProgram     *shader.Program
	collapseProgram *shader.Program

	Light lighting.Hemisphere

	// GPU copies of node geometry, rebuilt when the scene version changes
	meshes       map[*geometry.Geometry]*gpuMesh
	sceneVersion uint64
	haveVersion  bool

	lineWidthRange [2]float32
	log            *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New() (*Renderer, error) {
	r := &Renderer{
		Light:  lighting.DefaultHemisphere(),
		meshes: make(map[*geometry.Geometry]*gpuMesh),
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.GetFloatv(gl.ALIASED_LINE_WIDTH_RANGE, &r.lineWidthRange[0])
	if r.lineWidthRange[1] < controls.MaxLineWidth {
		r.log.Debug("wide lines are clamped by the driver",
			zap.Float32("max", r.lineWidthRange[1]))
	}

	var err error
	if r.meshProgram, err = shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader, attributeLocations); err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	if r.bandProgram, err = shader.NewProgram(shaders.BandVertexShader, shaders.BandFragmentShader, attributeLocations); err != nil {
		r.Close()
		return nil, fmt.Errorf("band program: %w", err)
	}
	if r.collapseProgram, err = shader.NewProgram(shaders.CollapseVertexShader, shaders.CollapseFragmentShader, attributeLocations); err != nil {
		r.Close()
		return nil, fmt.Errorf("collapse program: %w", err)
	}

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.releaseMeshes()
	for _, p := range []*shader.Program{r.meshProgram, r.bandProgram, r.collapseProgram} {
		if p != nil {
			p.Delete()
		}
	}
}

// Render clears the bound framebuffer and draws every node of sc as seen
// by cam. width and height are the viewport in pixels.
func (r *Renderer) Render(sc *scene.Scene, cam *camera.OrbitCamera, state controls.State, width, height int) {
	r.sync(sc)

	gl.Viewport(0, 0, int32(width), int32(height))
	bg := state.ClearColor.Array()
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.MULTISAMPLE)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(float32(width) / float32(max(height, 1)))

	for _, node := range sc.Nodes() {
		frame := visibility.NewFrame(node.Model, view, proj)
		if state.ShowMesh && node.ShowMesh {
			r.drawMesh(node, frame, view, state)
		}
		if state.ShowOutline && node.ShowOutline {
			r.drawOutline(node, frame, state)
		}
	}

	gl.Disable(gl.BLEND)
}

// drawMesh draws the lit base mesh pushed back in depth so outline
// fragments on the same surface win the depth test.
func (r *Renderer) drawMesh(node *scene.Node, frame visibility.Frame, view math.Mat4, state controls.State) {
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(1, 1)
	defer gl.Disable(gl.POLYGON_OFFSET_FILL)

	p := r.meshProgram
	p.Use()
	p.SetFrame(frame)
	p.SetVec3("albedo", state.MeshColor.Array())
	p.SetVec3("skyColor", r.Light.Sky.Array())
	p.SetVec3("groundColor", r.Light.Ground.Array())
	p.SetFloat("intensity", r.Light.Intensity)
	p.SetVec3("lightUp", view.TransformDirection(r.Light.Up).Array())

	r.mesh(node.Mesh).draw(gl.TRIANGLES)
}

func (r *Renderer) drawOutline(node *scene.Node, frame visibility.Frame, state controls.State) {
	policy := state.Policy()

	switch state.Variant {
	case visibility.VariantBand:
		p := r.bandProgram
		p.Use()
		p.SetFrame(frame)
		p.Apply(policy.Uniforms(state.Params))
		r.mesh(node.Mesh).draw(gl.TRIANGLES)

	default:
		p := r.collapseProgram
		p.Use()
		p.SetFrame(frame)
		p.Apply(policy.Uniforms(state.Params))
		gl.LineWidth(min(max(state.LineWidth, r.lineWidthRange[0]), max(r.lineWidthRange[1], 1)))
		r.mesh(node.Outline).draw(gl.LINES)
	}
}

// mesh returns the GPU copy of g, uploading it on first use.
func (r *Renderer) mesh(g *geometry.Geometry) *gpuMesh {
	if m, ok := r.meshes[g]; ok {
		return m
	}
	m := uploadMesh(g)
	r.meshes[g] = m
	return m
}

// sync drops GPU meshes no longer referenced by sc after a scene change.
func (r *Renderer) sync(sc *scene.Scene) {
	if r.haveVersion && sc.Version() == r.sceneVersion {
		return
	}
	r.sceneVersion, r.haveVersion = sc.Version(), true

	live := make(map[*geometry.Geometry]bool, 2*sc.Len())
	for _, n := range sc.Nodes() {
		live[n.Mesh] = true
		live[n.Outline] = true
	}
	for g, m := range r.meshes {
		if !live[g] {
			m.destroy()
			delete(r.meshes, g)
		}
	}
	r.log.Debug("scene synced", zap.Int("nodes", sc.Len()), zap.Int("buffers", len(r.meshes)))
}

func (r *Renderer) releaseMeshes() {
	for g, m := range r.meshes {
		m.destroy()
		delete(r.meshes, g)
	}
}

// ReadBackBuffer reads the default framebuffer as bottom-up RGBA rows.
func ReadBackBuffer(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
