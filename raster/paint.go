package raster

import (
	"math"

	"github.com/kovidgoyal/lottie/geom"
)

// Color is an 8-bit per channel RGBA color, non-premultiplied.
type Color struct {
	R, G, B, A uint8
}

// WithOpacity scales the alpha channel by opacity in 0..1.
func (c Color) WithOpacity(opacity float32) Color {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(float32(c.A) * opacity)
	return c
}

// GradientStop is a color at an offset along a gradient, offset in 0..1.
type GradientStop struct {
	Offset float32
	Color  Color
}

// Paint produces the color for a pixel position. Positions are in buffer
// coordinates, the same space paths are rasterized in.
type Paint interface {
	ColorAt(p geom.Vec2) Color
}

// Solid paints every pixel the same color.
type Solid struct {
	Color Color
}

func (s Solid) ColorAt(geom.Vec2) Color { return s.Color }

// LinearGradient paints colors projected onto the start-end axis.
type LinearGradient struct {
	Start, End geom.Vec2
	Stops      []GradientStop
}

func (g LinearGradient) ColorAt(p geom.Vec2) Color {
	dx := g.End.X - g.Start.X
	dy := g.End.Y - g.Start.Y
	lenSq := dx*dx + dy*dy
	var t float32
	if lenSq != 0 {
		t = ((p.X-g.Start.X)*dx + (p.Y-g.Start.Y)*dy) / lenSq
	}
	return sampleStops(g.Stops, t)
}

// RadialGradient paints colors by distance from a center point.
type RadialGradient struct {
	Center geom.Vec2
	Radius float32
	Stops  []GradientStop
}

func (g RadialGradient) ColorAt(p geom.Vec2) Color {
	dx := float64(p.X - g.Center.X)
	dy := float64(p.Y - g.Center.Y)
	dist := float32(math.Hypot(dx, dy))
	if g.Radius == 0 {
		return sampleStops(g.Stops, 0)
	}
	return sampleStops(g.Stops, dist/g.Radius)
}

// TransformPaint maps a paint's geometry through m so gradients stay
// anchored to their shape when the shape is transformed. Solid paints are
// returned unchanged.
func TransformPaint(p Paint, m geom.Matrix) Paint {
	switch g := p.(type) {
	case LinearGradient:
		g.Start = m.Apply(g.Start)
		g.End = m.Apply(g.End)
		return g
	case RadialGradient:
		g.Center = m.Apply(g.Center)
		sx := math.Hypot(float64(m.A), float64(m.B))
		sy := math.Hypot(float64(m.C), float64(m.D))
		g.Radius *= float32((sx + sy) / 2)
		return g
	}
	return p
}

// WithOpacity wraps a paint so that every produced color has its alpha
// scaled by opacity in 0..1.
func WithOpacity(p Paint, opacity float32) Paint {
	if opacity >= 1 {
		return p
	}
	return opacityPaint{p: p, opacity: opacity}
}

type opacityPaint struct {
	p       Paint
	opacity float32
}

func (o opacityPaint) ColorAt(pt geom.Vec2) Color {
	return o.p.ColorAt(pt).WithOpacity(o.opacity)
}

func lerpColor(a, b Color, t float32) Color {
	t = min(max(t, 0), 1)
	return Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t + 0.5),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t + 0.5),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t + 0.5),
		A: uint8(float32(a.A) + (float32(b.A)-float32(a.A))*t + 0.5),
	}
}

func sampleStops(stops []GradientStop, t float32) Color {
	if len(stops) == 0 {
		return Color{A: 255}
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		s0, s1 := stops[i-1], stops[i]
		if t <= s1.Offset {
			local := (t - s0.Offset) / (s1.Offset - s0.Offset)
			return lerpColor(s0.Color, s1.Color, local)
		}
	}
	return stops[len(stops)-1].Color
}
