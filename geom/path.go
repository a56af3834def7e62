// Package geom provides the vector path primitives used by the renderer:
// 2D points, affine transforms, paths of cubic Bézier segments, flattening
// into line segments and fan tessellation into triangle meshes.
package geom

import (
	"fmt"
	"math"
)

var _ = fmt.Print

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Lerp interpolates between v and o with factor t.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Matrix is a 2x3 affine transform.
//
//	| A C E |
//	| B D F |
type Matrix struct {
	A, B, C, D, E, F float32
}

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// Translate returns a translation matrix.
func Translate(x, y float32) Matrix { return Matrix{A: 1, D: 1, E: x, F: y} }

// Scale returns a scaling matrix.
func Scale(x, y float32) Matrix { return Matrix{A: x, D: y} }

// Rotate returns a rotation matrix for an angle in degrees.
func Rotate(degrees float32) Matrix {
	rad := float64(degrees) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	s, c := float32(sin), float32(cos)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// Mul returns m·o, the transform that applies o first and then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.C*o.B,
		B: m.B*o.A + m.D*o.B,
		C: m.A*o.C + m.C*o.D,
		D: m.B*o.C + m.D*o.D,
		E: m.A*o.E + m.C*o.F + m.E,
		F: m.B*o.E + m.D*o.F + m.F,
	}
}

// Apply transforms the point p.
func (m Matrix) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// SegOp is the verb of a path segment.
type SegOp int

const (
	MoveTo SegOp = iota
	LineTo
	CubicTo
	ClosePath
)

// PathSeg is one drawing command. C1 and C2 are only meaningful for CubicTo,
// P is unused for ClosePath.
type PathSeg struct {
	Op     SegOp
	C1, C2 Vec2
	P      Vec2
}

// LineSegment is a flattened line between two points.
type LineSegment struct {
	From, To Vec2
}

// Path is an ordered sequence of drawing commands.
type Path struct {
	Segments []PathSeg
}

func (p *Path) MoveTo(pt Vec2) {
	p.Segments = append(p.Segments, PathSeg{Op: MoveTo, P: pt})
}

func (p *Path) LineTo(pt Vec2) {
	p.Segments = append(p.Segments, PathSeg{Op: LineTo, P: pt})
}

func (p *Path) CubicTo(c1, c2, pt Vec2) {
	p.Segments = append(p.Segments, PathSeg{Op: CubicTo, C1: c1, C2: c2, P: pt})
}

func (p *Path) Close() {
	p.Segments = append(p.Segments, PathSeg{Op: ClosePath})
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	ans := &Path{Segments: make([]PathSeg, len(p.Segments))}
	copy(ans.Segments, p.Segments)
	return ans
}

// Transform returns a copy of the path with m applied to every point.
func (p *Path) Transform(m Matrix) *Path {
	ans := p.Clone()
	for i := range ans.Segments {
		s := &ans.Segments[i]
		s.C1 = m.Apply(s.C1)
		s.C2 = m.Apply(s.C2)
		s.P = m.Apply(s.P)
	}
	return ans
}

// Flatten converts the path into line segments, subdividing cubics until
// both control points are within tolerance of the chord.
func (p *Path) Flatten(tolerance float32) []LineSegment {
	var result []LineSegment
	var start, current Vec2
	hasStart := false
	for _, seg := range p.Segments {
		switch seg.Op {
		case MoveTo:
			current = seg.P
			start = seg.P
			hasStart = true
		case LineTo:
			result = append(result, LineSegment{From: current, To: seg.P})
			current = seg.P
		case CubicTo:
			result = flattenCubic(current, seg.C1, seg.C2, seg.P, tolerance, result)
			current = seg.P
		case ClosePath:
			if hasStart && current != start {
				result = append(result, LineSegment{From: current, To: start})
			}
			current = start
		}
	}
	return result
}

func flattenCubic(p0, c1, c2, p3 Vec2, tolerance float32, out []LineSegment) []LineSegment {
	if cubicFlatEnough(p0, c1, c2, p3, tolerance) {
		return append(out, LineSegment{From: p0, To: p3})
	}
	m1 := mid(p0, c1)
	m2 := mid(c1, c2)
	m3 := mid(c2, p3)
	m4 := mid(m1, m2)
	m5 := mid(m2, m3)
	m6 := mid(m4, m5)
	out = flattenCubic(p0, m1, m4, m6, tolerance, out)
	return flattenCubic(m6, m5, m3, p3, tolerance, out)
}

func cubicFlatEnough(p0, c1, c2, p3 Vec2, tol float32) bool {
	d1 := pointLineDistanceSq(c1, p0, p3)
	d2 := pointLineDistanceSq(c2, p0, p3)
	return d1 <= tol*tol && d2 <= tol*tol
}

func pointLineDistanceSq(p, a, b Vec2) float32 {
	vx := b.X - a.X
	vy := b.Y - a.Y
	den := vx*vx + vy*vy
	if den == 0 {
		dx := p.X - a.X
		dy := p.Y - a.Y
		return dx*dx + dy*dy
	}
	u := ((p.X-a.X)*vx + (p.Y-a.Y)*vy) / den
	x := a.X + u*vx
	y := a.Y + u*vy
	dx := x - p.X
	dy := y - p.Y
	return dx*dx + dy*dy
}

func mid(a, b Vec2) Vec2 {
	return Vec2{(a.X + b.X) * 0.5, (a.Y + b.Y) * 0.5}
}

func segLength(s LineSegment) float32 {
	dx := float64(s.To.X - s.From.X)
	dy := float64(s.To.Y - s.From.Y)
	return float32(math.Hypot(dx, dy))
}
