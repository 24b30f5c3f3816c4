package cardfx

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Pixmap is a rectangular premultiplied RGBA pixel buffer, 4 bytes per
// pixel, rows packed without padding.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	width, height = max(width, 0), max(height, 0)
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Size implements Surface.
func (p *Pixmap) Size() (width, height int) {
	return p.width, p.height
}

// Data returns the raw premultiplied pixel data.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel stores a straight-alpha color at (x, y).
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	pm := c.Premultiply()
	p.data[i+0] = uint8(clamp255(pm.R*255 + 0.5))
	p.data[i+1] = uint8(clamp255(pm.G*255 + 0.5))
	p.data[i+2] = uint8(clamp255(pm.B*255 + 0.5))
	p.data[i+3] = uint8(clamp255(c.A*255 + 0.5))
}

// GetPixel returns the straight-alpha color at (x, y).
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	a := float64(p.data[i+3])
	if a == 0 {
		return Transparent
	}
	return RGBA{
		R: float64(p.data[i+0]) / a,
		G: float64(p.data[i+1]) / a,
		B: float64(p.data[i+2]) / a,
		A: a / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	p.SetPixel(0, 0, c)
	if len(p.data) < 4 {
		return
	}
	px := [4]uint8(p.data[:4])
	for i := 4; i < len(p.data); i += 4 {
		copy(p.data[i:i+4], px[:])
	}
}

// CopyFrom copies src into p. The pixmaps must have equal dimensions.
func (p *Pixmap) CopyFrom(src *Pixmap) error {
	if src.width != p.width || src.height != p.height {
		return fmt.Errorf("cardfx: pixmap size mismatch: %dx%d vs %dx%d", src.width, src.height, p.width, p.height)
	}
	copy(p.data, src.data)
	return nil
}

// Clone returns a deep copy of p.
func (p *Pixmap) Clone() *Pixmap {
	c := NewPixmap(p.width, p.height)
	copy(c.data, p.data)
	return c
}

// ToImage converts the pixmap to an image.RGBA, which shares the
// premultiplied layout.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image at its native size.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	dst := pm.rgbaView()
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return pm
}

// ScaleImage creates a width x height pixmap from img using Catmull-Rom
// resampling.
func ScaleImage(img image.Image, width, height int) *Pixmap {
	pm := NewPixmap(width, height)
	dst := pm.rgbaView()
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return pm
}

// rgbaView wraps the pixmap buffer without copying.
func (p *Pixmap) rgbaView() *image.RGBA {
	return &image.RGBA{Pix: p.data, Stride: p.width * 4, Rect: image.Rect(0, 0, p.width, p.height)}
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		_ = f.Close()
		return fmt.Errorf("cardfx: encode %s: %w", path, err)
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
