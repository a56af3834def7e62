// Package timeline implements the keyframe interpolation primitives of the
// animation model: cubic Bézier easing curves and typed keyframe tracks.
package timeline

import (
	"fmt"

	"github.com/kovidgoyal/lottie/geom"
)

var _ = fmt.Print

const (
	lutSize                  = 256
	sampleStep               = 1.0 / float32(lutSize-1)
	newtonIterations         = 4
	newtonMinSlope           = 0.02
	subdivisionPrecision     = 1e-7
	subdivisionMaxIterations = 10
)

// CubicBezier is an easing curve defined by two control points, with the
// implicit end points (0,0) and (1,1). A lookup table of x samples is
// precomputed so evaluation can run a few Newton iterations from a good
// starting guess.
type CubicBezier struct {
	C1, C2  geom.Vec2
	samples [lutSize]float32
}

// NewCubicBezier creates an easing curve and precomputes its lookup table.
func NewCubicBezier(c1, c2 geom.Vec2) *CubicBezier {
	bez := &CubicBezier{C1: c1, C2: c2}
	for i := 0; i < lutSize; i++ {
		t := float32(i) * sampleStep
		bez.samples[i] = calcBezier(t, c1.X, c2.X)
	}
	return bez
}

// Linear returns the identity easing curve.
func Linear() *CubicBezier {
	return NewCubicBezier(geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 1, Y: 1})
}

func coeffA(a1, a2 float32) float32 { return 1 - 3*a2 + 3*a1 }
func coeffB(a1, a2 float32) float32 { return 3*a2 - 6*a1 }
func coeffC(a1 float32) float32     { return 3 * a1 }

func calcBezier(t, a1, a2 float32) float32 {
	return ((coeffA(a1, a2)*t+coeffB(a1, a2))*t + coeffC(a1)) * t
}

func getSlope(t, a1, a2 float32) float32 {
	return 3*coeffA(a1, a2)*t*t + 2*coeffB(a1, a2)*t + coeffC(a1)
}

func (b *CubicBezier) binarySubdivide(x, lo, hi float32) float32 {
	var t float32
	for i := 0; i < subdivisionMaxIterations; i++ {
		t = lo + (hi-lo)/2
		cx := calcBezier(t, b.C1.X, b.C2.X) - x
		if cx >= -subdivisionPrecision && cx <= subdivisionPrecision {
			break
		}
		if cx > 0 {
			hi = t
		} else {
			lo = t
		}
	}
	return t
}

func (b *CubicBezier) tForX(x float32) float32 {
	intervalStart := float32(0)
	sample := 1
	for sample < lutSize-1 && b.samples[sample] <= x {
		sample++
		intervalStart += sampleStep
	}
	sample--
	dist := (x - b.samples[sample]) / (b.samples[sample+1] - b.samples[sample])
	guess := intervalStart + dist*sampleStep
	initialSlope := getSlope(guess, b.C1.X, b.C2.X)
	switch {
	case initialSlope >= newtonMinSlope:
		for i := 0; i < newtonIterations; i++ {
			cx := calcBezier(guess, b.C1.X, b.C2.X) - x
			slope := getSlope(guess, b.C1.X, b.C2.X)
			if slope == 0 {
				return guess
			}
			guess -= cx / slope
		}
		return guess
	case initialSlope == 0:
		return guess
	default:
		return b.binarySubdivide(x, intervalStart, intervalStart+sampleStep)
	}
}

// Value evaluates the easing curve at x in 0..1.
func (b *CubicBezier) Value(x float32) float32 {
	// identity curve short-circuits to linear
	if b.C1.X == b.C1.Y && b.C2.X == b.C2.Y {
		return x
	}
	t := b.tForX(x)
	return calcBezier(t, b.C1.Y, b.C2.Y)
}

// Lerpable values can be interpolated by a keyframe track.
type Lerpable interface {
	float32 | geom.Vec2
}

func lerp[T Lerpable](a, b T, t float32) T {
	switch av := any(a).(type) {
	case float32:
		bv := any(b).(float32)
		return any(av + (bv-av)*t).(T)
	case geom.Vec2:
		bv := any(b).(geom.Vec2)
		return any(av.Lerp(bv, t)).(T)
	}
	return a
}

// Keyframe interpolates between two values over a frame range. Start is
// inclusive, End exclusive; Ease maps linear progress to eased progress.
type Keyframe[T Lerpable] struct {
	Start, End   float32
	StartV, EndV T
	Ease         *CubicBezier
}

// Sample evaluates the keyframe at a fractional frame index, clamping
// outside [Start, End].
func (k *Keyframe[T]) Sample(frame float32) T {
	if frame <= k.Start {
		return k.StartV
	}
	if frame >= k.End {
		return k.EndV
	}
	progress := (frame - k.Start) / (k.End - k.Start)
	eased := progress
	if k.Ease != nil {
		eased = k.Ease.Value(progress)
	}
	return lerp(k.StartV, k.EndV, eased)
}

// Animator is an ordered sequence of keyframes describing one animated
// property. The zero value is an empty track.
type Animator[T Lerpable] struct {
	Frames []Keyframe[T]
}

// Value samples the track at the given frame. Before the first keyframe the
// first start value is returned, after the last keyframe the last end value,
// in a gap between keyframes the last ended value is held, and the zero
// value of T is returned when the track is empty.
func (a *Animator[T]) Value(frame float32) T {
	var zero T
	if len(a.Frames) == 0 {
		return zero
	}
	first := &a.Frames[0]
	if frame <= first.Start {
		return first.StartV
	}
	last := &a.Frames[len(a.Frames)-1]
	if frame >= last.End {
		return last.EndV
	}
	held := first.StartV
	for i := range a.Frames {
		kf := &a.Frames[i]
		if frame < kf.Start {
			return held
		}
		if frame < kf.End {
			return kf.Sample(frame)
		}
		held = kf.EndV
	}
	return held
}

// IsAnimated reports whether the track has any keyframes.
func (a *Animator[T]) IsAnimated() bool { return len(a.Frames) > 0 }
