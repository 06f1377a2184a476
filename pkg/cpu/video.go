package cpu

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"gochip8/pkg/grid"
)

const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

var (
	// PixelOn is the default colour of a set pixel.
	PixelOn = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	// PixelOff is the default colour of an unset pixel.
	PixelOff = color.RGBA{A: 0xFF}
)

// Framebuffer is the monochrome 64×32 display in row-major order. It is a
// value type: copies never share storage with the CPU.
type Framebuffer [DisplayWidth * DisplayHeight]bool

func (f *Framebuffer) clear() {
	*f = Framebuffer{}
}

// drawSprite XORs rows of an 8 pixel wide sprite at (x, y), most significant
// bit leftmost. Every pixel wraps around the screen edges. It reports whether
// any set pixel was turned off.
func (f *Framebuffer) drawSprite(rows []byte, x, y byte) bool {
	collision := false
	for row, bits := range rows {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			idx := grid.Index(int(x)+col, int(y)+row, DisplayWidth, DisplayHeight)
			if f[idx] {
				collision = true
			}
			f[idx] = !f[idx]
		}
	}
	return collision
}

// Pixel reports whether the pixel at (x, y) is set. Coordinates wrap.
func (f *Framebuffer) Pixel(x, y int) bool {
	return f[grid.Index(x, y, DisplayWidth, DisplayHeight)]
}

// Lit returns the number of set pixels.
func (f *Framebuffer) Lit() int {
	n := 0
	for _, p := range f {
		if p {
			n++
		}
	}
	return n
}

// RGBA decodes the framebuffer into a 64×32 RGBA8888 byte slice
// (length 64*32*4) suitable for ebiten's WritePixels.
func (f *Framebuffer) RGBA(on, off color.RGBA) []byte {
	pixels := make([]byte, len(f)*4)
	for i, set := range f {
		c := off
		if set {
			c = on
		}
		pixels[i*4+0] = c.R
		pixels[i*4+1] = c.G
		pixels[i*4+2] = c.B
		pixels[i*4+3] = c.A
	}
	return pixels
}

// Image returns the framebuffer as an *image.RGBA using the default colours.
func (f *Framebuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.RGBA(PixelOn, PixelOff),
		Stride: DisplayWidth * 4,
		Rect:   image.Rect(0, 0, DisplayWidth, DisplayHeight),
	}
}

// SaveScreenshot encodes the framebuffer as a PNG scaled up by an integer
// factor and writes it to filename.
func (f *Framebuffer) SaveScreenshot(filename string, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid screenshot scale %d", scale)
	}
	src := f.Image()
	dst := image.NewRGBA(image.Rect(0, 0, DisplayWidth*scale, DisplayHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(out, dst); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return out.Close()
}

// SnapshotFramebuffer returns a fresh copy of the display taken between
// steps. The copy is never touched by the CPU again.
func (c *CPU) SnapshotFramebuffer() *Framebuffer {
	c.mu.Lock()
	fb := c.display
	c.mu.Unlock()
	return &fb
}
