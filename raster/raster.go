// Package raster is a small software rasterizer. Paths are tessellated into
// triangles and filled with source-over blending into RGBA8888 buffers with
// an explicit row stride. It also rasterizes coverage masks and composes
// matte layers.
package raster

import (
	"fmt"
	"math"

	"github.com/kovidgoyal/lottie/geom"
)

var _ = fmt.Print

// Tolerance used when flattening curves for rasterization, in pixels.
const flattenTolerance = 0.2

// MatteType selects how a matte source modulates the layer drawn after it.
type MatteType int

const (
	// MatteNone disables matte compositing.
	MatteNone MatteType = iota
	// MatteAlpha uses the matte's coverage as-is.
	MatteAlpha
	// MatteAlphaInv uses the inverse of the matte's coverage.
	MatteAlphaInv
)

// DrawPath fills a path with the given paint.
func DrawPath(path *geom.Path, paint Paint, buf []byte, width, height, stride int) {
	mesh := geom.Tessellate(path, flattenTolerance)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		v0 := mesh.Vertices[mesh.Indices[i]]
		v1 := mesh.Vertices[mesh.Indices[i+1]]
		v2 := mesh.Vertices[mesh.Indices[i+2]]
		fillTriangle(v0, v1, v2, paint, nil, buf, width, height, stride)
	}
}

// DrawPathMasked fills a path, drawing only where the mask buffer (same
// dimensions and stride as buf) has non-zero alpha.
func DrawPathMasked(path *geom.Path, paint Paint, mask, buf []byte, width, height, stride int) {
	mesh := geom.Tessellate(path, flattenTolerance)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		v0 := mesh.Vertices[mesh.Indices[i]]
		v1 := mesh.Vertices[mesh.Indices[i+1]]
		v2 := mesh.Vertices[mesh.Indices[i+2]]
		fillTriangle(v0, v1, v2, paint, mask, buf, width, height, stride)
	}
}

// DrawStroke strokes a path with the given width by emitting a quad per
// flattened segment.
func DrawStroke(path *geom.Path, widthPx float32, paint Paint, buf []byte, width, height, stride int) {
	drawStroke(path, widthPx, paint, nil, buf, width, height, stride)
}

// DrawStrokeMasked strokes a path, drawing only where the mask buffer has
// non-zero alpha.
func DrawStrokeMasked(path *geom.Path, widthPx float32, paint Paint, mask, buf []byte, width, height, stride int) {
	drawStroke(path, widthPx, paint, mask, buf, width, height, stride)
}

func drawStroke(path *geom.Path, widthPx float32, paint Paint, mask, buf []byte, width, height, stride int) {
	segs := path.Flatten(flattenTolerance)
	for _, seg := range segs {
		dx := seg.To.X - seg.From.X
		dy := seg.To.Y - seg.From.Y
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx := -dy / l * widthPx * 0.5
		ny := dx / l * widthPx * 0.5
		p1 := geom.Vec2{X: seg.From.X + nx, Y: seg.From.Y + ny}
		p2 := geom.Vec2{X: seg.From.X - nx, Y: seg.From.Y - ny}
		p3 := geom.Vec2{X: seg.To.X - nx, Y: seg.To.Y - ny}
		p4 := geom.Vec2{X: seg.To.X + nx, Y: seg.To.Y + ny}
		fillTriangle(p1, p2, p3, paint, mask, buf, width, height, stride)
		fillTriangle(p1, p3, p4, paint, mask, buf, width, height, stride)
	}
}

// DrawMask rasterizes a path's coverage into a single-channel mask buffer of
// width*height bytes. Covered pixels are set to 255.
func DrawMask(path *geom.Path, mask []byte, width, height int) {
	mesh := geom.Tessellate(path, flattenTolerance)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Vertices[mesh.Indices[i]]
		b := mesh.Vertices[mesh.Indices[i+1]]
		c := mesh.Vertices[mesh.Indices[i+2]]
		minX, maxX, minY, maxY := triangleBounds(a, b, c, width, height)
		for y := minY; y < maxY; y++ {
			for x := minX; x < maxX; x++ {
				px := float32(x) + 0.5
				py := float32(y) + 0.5
				if insideTriangle(px, py, a, b, c) {
					idx := y*width + x
					if idx < len(mask) {
						mask[idx] = 255
					}
				}
			}
		}
	}
}

// BlendMasked composes src over dst, modulating src's alpha by the
// single-channel mask (inverted for MatteAlphaInv). dst and src share
// dimensions and stride; mask holds width*height coverage bytes.
func BlendMasked(dst, src, mask []byte, matte MatteType, width, height, stride int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := y*stride + x*4
			m := float32(mask[y*width+x]) / 255
			if matte == MatteAlphaInv {
				m = 1 - m
			}
			sa := float32(src[o+3]) / 255 * m
			if sa == 0 {
				continue
			}
			sr := float32(src[o]) * m
			sg := float32(src[o+1]) * m
			sb := float32(src[o+2]) * m

			dr := float32(dst[o])
			dg := float32(dst[o+1])
			db := float32(dst[o+2])
			da := float32(dst[o+3]) / 255

			ia := 1 - sa
			dst[o] = clamp255(sr + dr*ia)
			dst[o+1] = clamp255(sg + dg*ia)
			dst[o+2] = clamp255(sb + db*ia)
			dst[o+3] = clamp255((sa + da*ia) * 255)
		}
	}
}

// clampBound clamps v into [0, hi] before the int conversion. Converting an
// out-of-range float to int is implementation-defined in Go, so coordinates
// beyond the buffer (including Inf and NaN) must be clamped first.
func clampBound(v, hi float64) int {
	if !(v > 0) {
		return 0
	}
	if v > hi {
		return int(hi)
	}
	return int(v)
}

func triangleBounds(a, b, c geom.Vec2, width, height int) (minX, maxX, minY, maxY int) {
	minX = clampBound(math.Floor(float64(min(a.X, b.X, c.X))), float64(width))
	maxX = clampBound(math.Ceil(float64(max(a.X, b.X, c.X))), float64(width))
	minY = clampBound(math.Floor(float64(min(a.Y, b.Y, c.Y))), float64(height))
	maxY = clampBound(math.Ceil(float64(max(a.Y, b.Y, c.Y))), float64(height))
	return
}

func fillTriangle(a, b, c geom.Vec2, paint Paint, mask, buf []byte, width, height, stride int) {
	minX, maxX, minY, maxY := triangleBounds(a, b, c, width, height)
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			py := float32(y) + 0.5
			if !insideTriangle(px, py, a, b, c) {
				continue
			}
			if mask != nil {
				moff := y*stride + x*4 + 3
				if moff >= len(mask) || mask[moff] == 0 {
					continue
				}
			}
			blendPixel(buf, stride, x, y, paint.ColorAt(geom.Vec2{X: px, Y: py}))
		}
	}
}

func edge(px, py float32, a, b geom.Vec2) float32 {
	return (px-a.X)*(b.Y-a.Y) - (py-a.Y)*(b.X-a.X)
}

func insideTriangle(px, py float32, a, b, c geom.Vec2) bool {
	e1 := edge(px, py, a, b)
	e2 := edge(px, py, b, c)
	e3 := edge(px, py, c, a)
	return (e1 >= 0 && e2 >= 0 && e3 >= 0) || (e1 <= 0 && e2 <= 0 && e3 <= 0)
}

func blendPixel(buf []byte, stride, x, y int, src Color) {
	offset := y*stride + x*4
	if offset+3 >= len(buf) {
		return
	}
	sa := float32(src.A) / 255
	ia := 1 - sa

	dr := float32(buf[offset])
	dg := float32(buf[offset+1])
	db := float32(buf[offset+2])
	da := float32(buf[offset+3]) / 255

	buf[offset] = clamp255(float32(src.R)*sa + dr*ia)
	buf[offset+1] = clamp255(float32(src.G)*sa + dg*ia)
	buf[offset+2] = clamp255(float32(src.B)*sa + db*ia)
	buf[offset+3] = clamp255((sa + da*ia) * 255)
}

func clamp255(v float32) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}
