// Package ui wraps the Dear ImGui SDL backend used by the outline studio.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/aalavandhaann/mesh-outline/internal/logger"
)

// FontSize is the pixel size of the UI font.
const FontSize = 16

// latinGlyphRanges covers ASCII and Latin-1, which includes the degree sign.
// Format: pairs of [start, end] values terminated by 0.
var latinGlyphRanges = []imgui.Wchar{
	0x0020, 0x00FF, // Basic Latin + Latin Supplement
	0x2026, 0x2026, // Ellipsis
	0,              // Terminator
}

// fontPaths are tried in order when no font is configured.
var fontPaths = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",        // macOS
	"C:\\Windows\\Fonts\\segoeui.ttf",                     // Windows
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",     // Debian, Ubuntu
	"/usr/share/fonts/dejavu-sans-fonts/DejaVuSans.ttf",   // Fedora
	"/usr/share/fonts/TTF/DejaVuSans.ttf",                 // Arch
	"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf", // Linux alt
}

// Config holds backend options.
type Config struct {
	Title    string
	Width    int
	Height   int
	FontPath string // Optional TTF; system fonts are tried when empty
}

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	config  Config
	log     *zap.Logger
}

// NewBackend creates the window and its OpenGL context.
func NewBackend(cfg Config) (*Backend, error) {
	b := &Backend{
		config: cfg,
		log:    logger.Named("ui"),
	}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be added after the context exists and before the first frame
	b.backend.SetAfterCreateContextHook(func() {
		b.loadFont()
	})

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(cfg.Title, cfg.Width, cfg.Height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	return b, nil
}

// loadFont replaces the built-in bitmap font with a scalable one if found.
func (b *Backend) loadFont() {
	path := findFont(b.config.FontPath, fontPaths)
	if path == "" {
		b.log.Debug("no UI font found, using default font")
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	fonts := imgui.CurrentIO().Fonts()
	if font := fonts.AddFontFromFileTTFV(path, FontSize, fontCfg, &latinGlyphRanges[0]); font == nil {
		b.log.Warn("failed to load UI font", zap.String("path", path))
		return
	}
	b.log.Info("loaded UI font", zap.String("path", path))
}

// findFont returns preferred if it exists, else the first existing candidate.
func findFont(preferred string, candidates []string) string {
	if preferred != "" {
		if _, err := os.Stat(preferred); err == nil {
			return preferred
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Run starts the main render loop. frame is called once per frame with
// the ImGui frame already begun.
func (b *Backend) Run(frame func()) {
	b.backend.Run(frame)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// Viewport returns the main viewport work area in logical pixels.
func Viewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// FramebufferSize returns the display size in physical pixels, which
// differs from the logical size on HiDPI displays.
func FramebufferSize() (width, height int32) {
	io := imgui.CurrentIO()
	displaySize := io.DisplaySize()
	fbScale := io.DisplayFramebufferScale()
	return int32(displaySize.X * fbScale.X), int32(displaySize.Y * fbScale.Y)
}

// DrawSceneTexture draws an OpenGL color texture as a borderless window
// behind all others. The texture is flipped to match GL's bottom-up rows.
func DrawSceneTexture(x, y, w, h float32, textureID uint32) {
	if textureID == 0 {
		return
	}

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoInputs

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##SceneBackground", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
		imgui.ImageV(*texRef,
			imgui.NewVec2(w, h),
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0))
	}
	imgui.End()
	imgui.PopStyleVar()
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
