package raster

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/kovidgoyal/lottie/geom"
)

// DrawText rasterizes a string at the given baseline position using the
// font face's glyph coverage masks, modulating the text color's alpha by
// glyph coverage.
func DrawText(text string, color Color, pos geom.Vec2, face font.Face, buf []byte, width, height, stride int) {
	dot := fixed.Point26_6{
		X: fixed.Int26_6(pos.X * 64),
		Y: fixed.Int26_6(pos.Y * 64),
	}
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, maskImg, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			prev = r
			continue
		}
		drawGlyph(dr, maskImg, maskp, color, buf, width, height, stride)
		dot.X += advance
		prev = r
	}
}

func drawGlyph(dr image.Rectangle, maskImg image.Image, maskp image.Point, color Color, buf []byte, width, height, stride int) {
	alpha, ok := maskImg.(*image.Alpha)
	if !ok {
		return
	}
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		if y < 0 || y >= height {
			continue
		}
		for x := dr.Min.X; x < dr.Max.X; x++ {
			if x < 0 || x >= width {
				continue
			}
			cov := alpha.AlphaAt(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).A
			if cov == 0 {
				continue
			}
			c := color
			c.A = uint8(uint32(cov) * uint32(c.A) / 255)
			blendPixel(buf, stride, x, y, c)
		}
	}
}
