package lottie

import (
	"fmt"
	"image"
	"image/color"
)

// Surface is a render target of packed 32bit ARGB pixels
// (A<<24 | R<<16 | G<<8 | B). The pixel at (x, y) is
// Pix[y*Stride/4 + x]; Stride is in bytes, matching the convention of
// renderer surfaces elsewhere.
type Surface struct {
	Pix           []uint32
	Width, Height int
	Stride        int
}

// NewSurface allocates a width x height surface with a packed stride.
func NewSurface(width, height int) *Surface {
	return &Surface{
		Pix:    make([]uint32, width*height),
		Width:  width,
		Height: height,
		Stride: width * 4,
	}
}

// NewSurfaceWithPixels wraps an existing packed ARGB buffer.
func NewSurfaceWithPixels(pix []uint32, width, height, stride int) (*Surface, error) {
	if expected := (stride / 4) * height; len(pix) < expected {
		return nil, fmt.Errorf("the surface width and height dont match the size of the specified pixel data: width=%d height=%d stride=%d sz=%d < %d", width, height, stride, len(pix), expected)
	}
	return &Surface{Pix: pix, Width: width, Height: height, Stride: stride}, nil
}

func (s *Surface) ColorModel() color.Model { return color.NRGBAModel }

func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.Width, s.Height) }

func (s *Surface) At(x, y int) color.Color {
	return s.ARGBAt(x, y)
}

// ARGBAt returns the pixel at (x, y) unpacked into an NRGBA color.
func (s *Surface) ARGBAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(s.Bounds())) {
		return color.NRGBA{}
	}
	argb := s.Pix[s.PixOffset(x, y)]
	return color.NRGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: uint8(argb >> 24),
	}
}

// PixOffset returns the index into Pix of the pixel at (x, y).
func (s *Surface) PixOffset(x, y int) int {
	return y*(s.Stride/4) + x
}

// Clear resets every pixel to transparent black.
func (s *Surface) Clear() {
	clear(s.Pix)
}
