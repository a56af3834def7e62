package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kovidgoyal/lottie/geom"
)

var _ = fmt.Print

func TestBezierValueMatchesReference(t *testing.T) {
	// reference value from the rlottie C++ vinterpolator for ease(0.42,0,0.58,1)
	bez := NewCubicBezier(geom.Vec2{X: 0.42, Y: 0}, geom.Vec2{X: 0.58, Y: 1})
	require.InDelta(t, 0.129162, bez.Value(0.25), 0.0001)
}

func TestBezierLinearFastPath(t *testing.T) {
	bez := Linear()
	for _, x := range []float32{0, 0.1, 0.33, 0.5, 0.99, 1} {
		require.Equal(t, x, bez.Value(x))
	}
}

func TestBezierEndpoints(t *testing.T) {
	bez := NewCubicBezier(geom.Vec2{X: 0.25, Y: 0.1}, geom.Vec2{X: 0.25, Y: 1})
	require.InDelta(t, 0, bez.Value(0), 1e-4)
	require.InDelta(t, 1, bez.Value(1), 1e-4)
}

func TestKeyframeSample(t *testing.T) {
	kf := Keyframe[float32]{
		Start: 0, End: 10,
		StartV: 0, EndV: 1,
		Ease: NewCubicBezier(geom.Vec2{X: 0.42, Y: 0}, geom.Vec2{X: 0.58, Y: 1}),
	}
	require.InDelta(t, 0.129162, kf.Sample(2.5), 0.0001)
	require.Equal(t, float32(0), kf.Sample(-1))
	require.Equal(t, float32(1), kf.Sample(20))
}

func TestKeyframeNilEaseIsLinear(t *testing.T) {
	kf := Keyframe[float32]{Start: 0, End: 4, StartV: 0, EndV: 8}
	require.Equal(t, float32(4), kf.Sample(2))
}

func TestAnimatorValue(t *testing.T) {
	anim := Animator[float32]{Frames: []Keyframe[float32]{{
		Start: 0, End: 10, StartV: 0, EndV: 1,
		Ease: NewCubicBezier(geom.Vec2{X: 0.42, Y: 0}, geom.Vec2{X: 0.58, Y: 1}),
	}}}
	require.InDelta(t, 0.129162, anim.Value(2.5), 0.0001)
	require.Equal(t, float32(0), anim.Value(-1))
	require.Equal(t, float32(1), anim.Value(20))
}

func TestAnimatorEmpty(t *testing.T) {
	var anim Animator[float32]
	require.Equal(t, float32(0), anim.Value(5))
	require.False(t, anim.IsAnimated())

	var vanim Animator[geom.Vec2]
	require.Equal(t, geom.Vec2{}, vanim.Value(5))
}

func TestAnimatorGapHoldsLastValue(t *testing.T) {
	anim := Animator[float32]{Frames: []Keyframe[float32]{
		{Start: 0, End: 5, StartV: 1, EndV: 2, Ease: Linear()},
		{Start: 10, End: 15, StartV: 3, EndV: 4, Ease: Linear()},
	}}
	// a frame in the gap holds the value the previous keyframe ended on
	require.Equal(t, float32(2), anim.Value(7))
	require.Equal(t, float32(2), anim.Value(9.99))
	require.Equal(t, float32(3), anim.Value(10))
	require.Equal(t, float32(1), anim.Value(-1))
	require.Equal(t, float32(4), anim.Value(20))
}

func TestAnimatorMultipleKeyframes(t *testing.T) {
	anim := Animator[geom.Vec2]{Frames: []Keyframe[geom.Vec2]{
		{Start: 0, End: 10, StartV: geom.Vec2{X: 0}, EndV: geom.Vec2{X: 10}, Ease: Linear()},
		{Start: 10, End: 20, StartV: geom.Vec2{X: 10}, EndV: geom.Vec2{X: 30}, Ease: Linear()},
	}}
	require.InDelta(t, 5, anim.Value(5).X, 1e-4)
	require.InDelta(t, 20, anim.Value(15).X, 1e-4)
	require.InDelta(t, 30, anim.Value(25).X, 1e-4)
}
