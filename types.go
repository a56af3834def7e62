package lottie

import (
	"fmt"
	"math"

	"golang.org/x/image/font"

	"github.com/kovidgoyal/lottie/geom"
	"github.com/kovidgoyal/lottie/raster"
	"github.com/kovidgoyal/lottie/timeline"
)

var _ = fmt.Print

// Transform holds the placement of a layer: static values plus optional
// keyframe tracks for every property. Animated tracks, when present, win
// over the static value at sampling time.
type Transform struct {
	Anchor   geom.Vec2
	Position geom.Vec2
	Scale    geom.Vec2 // 1 is unscaled
	Rotation float32   // degrees
	Opacity  float32   // 0..1

	AnchorAnim   timeline.Animator[geom.Vec2]
	PositionAnim timeline.Animator[geom.Vec2]
	ScaleAnim    timeline.Animator[geom.Vec2]
	RotationAnim timeline.Animator[float32]
	OpacityAnim  timeline.Animator[float32]
}

// DefaultTransform returns the identity placement.
func DefaultTransform() Transform {
	return Transform{Scale: geom.Vec2{X: 1, Y: 1}, Opacity: 1}
}

// At samples the transform at a frame and returns the resulting affine
// matrix and opacity.
func (t *Transform) At(frame float32) (geom.Matrix, float32) {
	anchor := t.Anchor
	if t.AnchorAnim.IsAnimated() {
		anchor = t.AnchorAnim.Value(frame)
	}
	position := t.Position
	if t.PositionAnim.IsAnimated() {
		position = t.PositionAnim.Value(frame)
	}
	scale := t.Scale
	if t.ScaleAnim.IsAnimated() {
		scale = t.ScaleAnim.Value(frame)
	}
	rotation := t.Rotation
	if t.RotationAnim.IsAnimated() {
		rotation = t.RotationAnim.Value(frame)
	}
	opacity := t.Opacity
	if t.OpacityAnim.IsAnimated() {
		opacity = t.OpacityAnim.Value(frame)
	}
	m := geom.Translate(position.X, position.Y).
		Mul(geom.Rotate(rotation)).
		Mul(geom.Scale(scale.X, scale.Y)).
		Mul(geom.Translate(-anchor.X, -anchor.Y))
	return m, opacity
}

// TrimRange limits drawing to the [Start, End] fraction of a path's length.
type TrimRange struct {
	Start, End float32
}

// Layer is one element of a composition's layer stack.
type Layer interface {
	isLayer()
}

// ShapeLayer is a vector shape: paths plus fill and stroke paints.
type ShapeLayer struct {
	Paths       []*geom.Path
	Fill        raster.Paint // nil when the shape has no fill
	Stroke      raster.Paint // nil when the shape has no stroke
	StrokeWidth float32
	Mask        []*geom.Path // clip paths from masksProperties, nil if none
	Trim        *TrimRange

	// IsMatteSource marks this layer as the matte for the layer that
	// follows it; Matte selects how that following layer uses it.
	IsMatteSource bool
	Matte         raster.MatteType

	Transform Transform
}

func (*ShapeLayer) isLayer() {}

// ImageLayer is a decoded bitmap asset, pixels in RGBA8888.
type ImageLayer struct {
	Width, Height int
	Pix           []byte
	Transform     Transform
}

func (*ImageLayer) isLayer() {}

// PreCompLayer renders a nested composition.
type PreCompLayer struct {
	Comp      *Composition
	Transform Transform
}

func (*PreCompLayer) isLayer() {}

// TextLayer renders a string at a baseline position.
type TextLayer struct {
	Text     string
	Color    raster.Color
	Size     float32
	Position geom.Vec2
	Face     font.Face
}

func (*TextLayer) isLayer() {}

// Composition is the root of a loaded animation.
type Composition struct {
	Width, Height        int
	StartFrame, EndFrame float32
	FrameRate            float32
	Layers               []Layer
}

// FrameAt maps any requested frame index into the composition's
// [StartFrame, EndFrame] range by looping.
func (c *Composition) FrameAt(frame uint) float32 {
	total := c.EndFrame - c.StartFrame + 1
	if total <= 0 {
		return c.StartFrame
	}
	local := float32(math.Mod(float64(frame), float64(total)))
	return c.StartFrame + local
}
