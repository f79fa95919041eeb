package screenshot

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func fixedClock(c *Capture) {
	c.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	}
}

func TestFilename(t *testing.T) {
	c := New("shots", "outline")
	fixedClock(c)

	want := filepath.Join("shots", "outline_2024-03-01_12-30-45.000.png")
	if got := c.Filename(); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	c.SetOutputDir("")
	if got := c.Filename(); strings.Contains(got, string(filepath.Separator)) {
		t.Errorf("Filename() without dir = %q", got)
	}
}

func TestFromPixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	c := New(dir, "shot")

	// 1x2 image: bottom row red, top row blue as read back from GL
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := c.FromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromPixels() error = %v", err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA); got.B != 255 || got.R != 0 {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := color.NRGBAModel.Convert(img.At(0, 1)).(color.NRGBA); got.R != 255 || got.B != 0 {
		t.Errorf("bottom pixel = %v, want red", got)
	}
}

func TestFromPixelsSizeMismatch(t *testing.T) {
	c := New(t.TempDir(), "shot")
	if _, err := c.FromPixels(make([]byte, 12), 2, 2); err == nil {
		t.Error("FromPixels() should reject a short buffer")
	}
}

func TestFromImage(t *testing.T) {
	c := New(t.TempDir(), "shot")
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))

	path, err := c.FromImage(img)
	if err != nil {
		t.Fatalf("FromImage() error = %v", err)
	}
	saved, err := imaging.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := saved.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("saved size = %v, want 4x3", b)
	}
}
