package lottie

import (
	"fmt"
	"time"

	"github.com/kovidgoyal/lottie/geom"
	"github.com/kovidgoyal/lottie/raster"
)

var _ = fmt.Print

// Animation is a loaded composition ready for rendering.
type Animation struct {
	comp *Composition
}

// Composition exposes the underlying layer model.
func (a *Animation) Composition() *Composition { return a.comp }

// Size returns the composition's design dimensions.
func (a *Animation) Size() (width, height int) {
	return a.comp.Width, a.comp.Height
}

// TotalFrames returns the number of frames in one loop of the animation.
func (a *Animation) TotalFrames() uint {
	total := a.comp.EndFrame - a.comp.StartFrame + 1
	if total <= 0 {
		return 1
	}
	return uint(total)
}

// FrameRate returns frames per second.
func (a *Animation) FrameRate() float32 { return a.comp.FrameRate }

// Duration returns the play time of one loop.
func (a *Animation) Duration() time.Duration {
	if a.comp.FrameRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) * float64(a.TotalFrames()) / float64(a.comp.FrameRate))
}

// RenderSync renders the given frame into the surface, synchronously, on the
// calling goroutine. The frame index is looped into the composition's frame
// range. The surface is cleared first; on success it holds packed ARGB
// pixels.
func (a *Animation) RenderSync(frame uint, s *Surface) error {
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("cannot render to an empty surface")
	}
	if expected := (s.Stride / 4) * s.Height; len(s.Pix) < expected {
		return fmt.Errorf("surface pixel buffer too small: %d < %d", len(s.Pix), expected)
	}
	s.Clear()
	width, height := s.Width, s.Height
	stride := width * 4
	buf := make([]byte, width*height*4)
	a.comp.renderInto(frame, buf, width, height, stride, geom.Identity(), 1)
	words := s.Stride / 4
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := y*stride + x*4
			s.Pix[y*words+x] = uint32(buf[o+3])<<24 | uint32(buf[o])<<16 | uint32(buf[o+1])<<8 | uint32(buf[o+2])
		}
	}
	return nil
}

// satInt converts a destination coordinate to int, saturating well outside
// any plausible buffer. Out-of-range float to int conversion is
// implementation-defined in Go, so Inf, NaN and huge transforms must be
// bounded before the conversion.
func satInt(v float32) int {
	const limit = 1 << 28
	f := float64(v)
	if !(f > -limit) {
		return -limit
	}
	if f > limit {
		return limit
	}
	return int(f)
}

// renderInto draws one frame of the composition into an RGBA8888 working
// buffer. Layers are drawn in model order; a matte source layer is rendered
// to a coverage mask that modulates the next layer via BlendMasked. parent
// and parentOpacity carry the enclosing precomp layer's transform, in
// composition coordinates.
func (c *Composition) renderInto(frame uint, buf []byte, width, height, stride int, parent geom.Matrix, parentOpacity float32) {
	frameNo := c.FrameAt(frame)
	sx := float32(width) / float32(c.Width)
	sy := float32(height) / float32(c.Height)
	base := geom.Scale(sx, sy).Mul(parent)

	maskBuf := make([]byte, width*height)
	layerBuf := make([]byte, len(buf))
	haveMatte := false

	for _, layer := range c.Layers {
		switch l := layer.(type) {
		case *ShapeLayer:
			m, opacity := l.Transform.At(frameNo)
			opacity *= parentOpacity
			full := base.Mul(m)

			if l.IsMatteSource {
				clear(maskBuf)
				for _, p := range l.Paths {
					raster.DrawMask(p.Transform(full), maskBuf, width, height)
				}
				haveMatte = true
				continue
			}

			var localMask []byte
			if len(l.Mask) > 0 {
				localMask = make([]byte, len(buf))
				for _, mp := range l.Mask {
					raster.DrawPath(mp.Transform(full), raster.Solid{Color: raster.Color{A: 255}}, localMask, width, height, stride)
				}
			}

			target := buf
			matted := haveMatte && l.Matte != raster.MatteNone
			if matted {
				target = layerBuf
			}

			for _, p := range l.Paths {
				rp := p.Transform(full)
				if l.Trim != nil {
					rp = rp.Trim(l.Trim.Start, l.Trim.End, 0.2)
				}
				if l.Fill != nil {
					paint := raster.WithOpacity(raster.TransformPaint(l.Fill, full), opacity)
					if localMask != nil && !matted {
						raster.DrawPathMasked(rp, paint, localMask, target, width, height, stride)
					} else {
						raster.DrawPath(rp, paint, target, width, height, stride)
					}
				}
				if l.Stroke != nil {
					paint := raster.WithOpacity(raster.TransformPaint(l.Stroke, full), opacity)
					if localMask != nil && !matted {
						raster.DrawStrokeMasked(rp, l.StrokeWidth, paint, localMask, target, width, height, stride)
					} else {
						raster.DrawStroke(rp, l.StrokeWidth, paint, target, width, height, stride)
					}
				}
			}

			if matted {
				raster.BlendMasked(buf, layerBuf, maskBuf, l.Matte, width, height, stride)
				clear(layerBuf)
				clear(maskBuf)
				haveMatte = false
			}

		case *TextLayer:
			pos := base.Apply(l.Position)
			raster.DrawText(l.Text, l.Color, pos, l.Face, buf, width, height, stride)

		case *ImageLayer:
			m, opacity := l.Transform.At(frameNo)
			opacity *= parentOpacity
			full := base.Mul(m)
			p0 := full.Apply(geom.Vec2{})
			p1 := full.Apply(geom.Vec2{X: float32(l.Width), Y: float32(l.Height)})
			dx := satInt(min(p0.X, p1.X))
			dy := satInt(min(p0.Y, p1.Y))
			dw := satInt(max(p0.X, p1.X) - min(p0.X, p1.X))
			dh := satInt(max(p0.Y, p1.Y) - min(p0.Y, p1.Y))
			raster.DrawImage(l.Pix, l.Width, l.Height, dx, dy, dw, dh, opacity, buf, width, height, stride)

		case *PreCompLayer:
			m, opacity := l.Transform.At(frameNo)
			l.Comp.renderInto(frame, buf, width, height, stride, parent.Mul(m), parentOpacity*opacity)
		}
	}
}
