package lottie

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func render_fixture(t *testing.T, name string, width, height int, frame uint) *Surface {
	t.Helper()
	anim, err := Open("testdata/" + name)
	require.NoError(t, err)
	s := NewSurface(width, height)
	require.NoError(t, anim.RenderSync(frame, s))
	return s
}

func TestRenderFillStroke(t *testing.T) {
	s := render_fixture(t, "fill_stroke.json", 8, 8, 0)
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(4, 4))
	require.Equal(t, color.NRGBA{R: 255, A: 255}, s.ARGBAt(1, 1))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(0, 0))
}

func TestRenderTrim(t *testing.T) {
	s := render_fixture(t, "trim.json", 8, 8, 0)
	require.Equal(t, color.NRGBA{G: 255, A: 255}, s.ARGBAt(1, 2))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(6, 2))
}

func TestRenderMask(t *testing.T) {
	s := render_fixture(t, "mask.json", 8, 8, 0)
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(2, 4))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(6, 4))
}

func TestRenderMatte(t *testing.T) {
	s := render_fixture(t, "matte.json", 8, 8, 0)
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(2, 4))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(6, 4))
}

func TestRenderPrecomp(t *testing.T) {
	s := render_fixture(t, "precomp.json", 8, 8, 0)
	require.Equal(t, color.NRGBA{R: 255, A: 255}, s.ARGBAt(4, 4))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(0, 0))
}

func TestRenderRepeater(t *testing.T) {
	s := render_fixture(t, "repeater.json", 8, 8, 0)
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(1, 1))
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(4, 1))
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(7, 1))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(2, 1))
}

func TestRenderGradient(t *testing.T) {
	s := render_fixture(t, "gradient.json", 8, 8, 0)
	left := s.ARGBAt(1, 4)
	right := s.ARGBAt(6, 4)
	require.Equal(t, uint8(255), left.A)
	require.Equal(t, uint8(255), right.A)
	require.Less(t, left.R, uint8(80))
	require.Greater(t, right.R, uint8(180))
}

func TestRenderText(t *testing.T) {
	s := render_fixture(t, "text.json", 32, 32, 0)
	found := false
	for _, px := range s.Pix {
		if px>>24 != 0 {
			found = true
			break
		}
	}
	require.True(t, found, "text layer should produce visible pixels")
}

func TestRenderImageLayer(t *testing.T) {
	anim, err := DecodeBytes(embedded_image_animation(t, color.NRGBA{B: 255, A: 255}))
	require.NoError(t, err)
	s := NewSurface(8, 8)
	require.NoError(t, anim.RenderSync(0, s))
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(0, 0))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(4, 4))
}

func TestRenderScalesToSurface(t *testing.T) {
	// the 8x8 composition stretched to 16x16, the shape scales with it
	s := render_fixture(t, "fill_stroke.json", 16, 16, 0)
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s.ARGBAt(8, 8))
	require.Equal(t, color.NRGBA{}, s.ARGBAt(0, 0))
}

func TestRenderAnimatedPosition(t *testing.T) {
	s0 := render_fixture(t, "animated.json", 8, 8, 0)
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s0.ARGBAt(1, 1))
	require.Equal(t, color.NRGBA{}, s0.ARGBAt(5, 1))
	s5 := render_fixture(t, "animated.json", 8, 8, 5)
	require.Equal(t, color.NRGBA{}, s5.ARGBAt(1, 1))
	require.Equal(t, color.NRGBA{B: 255, A: 255}, s5.ARGBAt(3, 1))
}

func TestRenderHugeCoordinates(t *testing.T) {
	// coordinates near the float32 limit must clip cleanly instead of
	// driving the rasterizer out of the buffer
	doc := `{"w": 4, "h": 4, "ip": 0, "op": 1, "fr": 30, "layers": [{"ty": 4, "shapes": [
		{"ty": "sh", "ks": {"d": "m 3e38 1 l 3e38 2 l 3e38 3"}},
		{"ty": "fl", "c": {"a": 0, "k": [1, 0, 0, 1]}},
		{"ty": "st", "c": {"a": 0, "k": [1, 0, 0, 1]}, "w": {"a": 0, "k": 2}}
	]}]}`
	anim, err := DecodeBytes([]byte(doc))
	require.NoError(t, err)
	s := NewSurface(4, 4)
	require.NoError(t, anim.RenderSync(0, s))
	for i, px := range s.Pix {
		require.Equal(t, uint32(0), px, "pixel %d", i)
	}
}

func TestRenderPrecompTransform(t *testing.T) {
	doc := `{"w": 8, "h": 8, "ip": 0, "op": 1, "fr": 30,
		"assets": [{"id": "comp_0", "layers": [{"ty": 4, "shapes": [
			{"ty": "sh", "ks": {"d": "m 0 0 l 2 0 l 2 2 l 0 2 o"}},
			{"ty": "fl", "c": {"a": 0, "k": [1, 0, 0, 1]}}
		]}]}],
		"layers": [{"ty": 0, "refId": "comp_0",
			"ks": {"p": {"a": 0, "k": [4, 4]}, "o": {"a": 0, "k": 50}}}]}`
	anim, err := DecodeBytes([]byte(doc))
	require.NoError(t, err)
	s := NewSurface(8, 8)
	require.NoError(t, anim.RenderSync(0, s))
	// the nested shape is shifted by the precomp layer's position
	require.Equal(t, color.NRGBA{}, s.ARGBAt(1, 1))
	moved := s.ARGBAt(5, 5)
	require.InDelta(t, 127, moved.R, 2)
	// and faded by the precomp layer's opacity
	require.InDelta(t, 127, moved.A, 2)
}

func TestRenderDeterministic(t *testing.T) {
	a := render_fixture(t, "fill_stroke.json", 8, 8, 3)
	b := render_fixture(t, "fill_stroke.json", 8, 8, 3)
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Fatalf("renders of the same frame differ (-a +b):\n%s", diff)
	}
}

func TestSurfacePixelPacking(t *testing.T) {
	s := render_fixture(t, "fill_stroke.json", 8, 8, 0)
	require.Equal(t, uint32(0xFF0000FF), s.Pix[s.PixOffset(4, 4)])
	require.Equal(t, uint32(0xFFFF0000), s.Pix[s.PixOffset(1, 1)])
	require.Equal(t, uint32(0), s.Pix[s.PixOffset(0, 0)])
}

func TestRenderSyncErrors(t *testing.T) {
	anim, err := Open("testdata/min_shape.json")
	require.NoError(t, err)
	require.Error(t, anim.RenderSync(0, nil))
	small := &Surface{Pix: make([]uint32, 2), Width: 4, Height: 4, Stride: 16}
	require.Error(t, anim.RenderSync(0, small))
}

func TestFrameLooping(t *testing.T) {
	anim, err := Open("testdata/fill_stroke.json")
	require.NoError(t, err)
	comp := anim.Composition()
	require.Equal(t, float32(0), comp.FrameAt(0))
	require.Equal(t, float32(10), comp.FrameAt(10))
	require.Equal(t, float32(0), comp.FrameAt(11))
	require.Equal(t, float32(3), comp.FrameAt(25))
	require.Equal(t, uint(11), anim.TotalFrames())
}

func TestAnimationAccessors(t *testing.T) {
	anim, err := Open("testdata/fill_stroke.json")
	require.NoError(t, err)
	w, h := anim.Size()
	require.Equal(t, 8, w)
	require.Equal(t, 8, h)
	require.Equal(t, float32(30), anim.FrameRate())
	require.InDelta(t, float64(11)/30, anim.Duration().Seconds(), 1e-6)
}

func TestNewSurfaceWithPixels(t *testing.T) {
	pix := make([]uint32, 16)
	s, err := NewSurfaceWithPixels(pix, 4, 4, 16)
	require.NoError(t, err)
	require.Equal(t, 5, s.PixOffset(1, 1))
	_, err = NewSurfaceWithPixels(pix[:3], 4, 4, 16)
	require.Error(t, err)
}
