package lottie

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kovidgoyal/lottie/geom"
	"github.com/kovidgoyal/lottie/raster"
	"github.com/kovidgoyal/lottie/timeline"
)

var _ = fmt.Print

type fileSystem interface {
	Open(string) (io.ReadCloser, error)
}

type localFS struct{}

func (localFS) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

var fs fileSystem = localFS{}

// LoadOption sets an optional parameter for the Decode and Open functions.
type LoadOption func(*loader)

// BaseDir returns a LoadOption that sets the directory external image
// assets are resolved against. Open sets it to the animation file's
// directory automatically.
func BaseDir(dir string) LoadOption {
	return func(ld *loader) {
		ld.baseDir = dir
	}
}

// Open loads an animation from a Lottie JSON file. External image assets
// are resolved relative to the file's directory.
func Open(filename string, opts ...LoadOption) (*Animation, error) {
	f, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return decode(data, append([]LoadOption{BaseDir(filepath.Dir(filename))}, opts...))
}

// Decode loads an animation from a reader of Lottie JSON.
func Decode(r io.Reader, opts ...LoadOption) (*Animation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data, opts)
}

// DecodeBytes loads an animation from a byte slice of Lottie JSON.
func DecodeBytes(data []byte, opts ...LoadOption) (*Animation, error) {
	return decode(data, opts)
}

// Raw JSON shapes. Lottie properties are polymorphic (a value key can be a
// number, an array or a keyframe list), so the ambiguous parts stay
// json.RawMessage until a typed accessor resolves them.

type rawRoot struct {
	Width     int        `json:"w"`
	Height    int        `json:"h"`
	InPoint   float32    `json:"ip"`
	OutPoint  float32    `json:"op"`
	FrameRate float32    `json:"fr"`
	Assets    []rawAsset `json:"assets"`
	Layers    []rawLayer `json:"layers"`
}

type rawAsset struct {
	ID       string     `json:"id"`
	Width    int        `json:"w"`
	Height   int        `json:"h"`
	Path     string     `json:"p"`
	Dir      string     `json:"u"`
	Embedded int        `json:"e"`
	Layers   []rawLayer `json:"layers"`
}

type rawLayer struct {
	Type        int           `json:"ty"`
	RefID       string        `json:"refId"`
	Shapes      []rawShape    `json:"shapes"`
	MatteSource int           `json:"td"`
	MatteMode   int           `json:"tt"`
	Masks       []rawMask     `json:"masksProperties"`
	Transform   *rawTransform `json:"ks"`
	Text        *rawText      `json:"t"`
}

type rawShape struct {
	Type      string        `json:"ty"`
	Shape     *rawShapeKS   `json:"ks"`
	Color     *rawProperty  `json:"c"`
	Opacity   *rawProperty  `json:"o"`
	Width     *rawProperty  `json:"w"`
	Start     *rawProperty  `json:"s"`
	End       *rawProperty  `json:"e"`
	GradType  int           `json:"t"`
	Gradient  *rawGradient  `json:"g"`
	Position  *rawProperty  `json:"p"`
	Transform *rawTransform `json:"tr"`
}

type rawShapeKS struct {
	Verbs json.RawMessage `json:"d"`
	K     json.RawMessage `json:"k"`
}

type rawGradient struct {
	Count int          `json:"p"`
	K     *rawProperty `json:"k"`
}

type rawMask struct {
	Mode string       `json:"mode"`
	Pt   *rawProperty `json:"pt"`
}

type rawTransform struct {
	Anchor   *rawProperty `json:"a"`
	Position *rawProperty `json:"p"`
	Scale    *rawProperty `json:"s"`
	Rotation *rawProperty `json:"r"`
	Opacity  *rawProperty `json:"o"`
}

type rawText struct {
	D struct {
		K []struct {
			S struct {
				Text  string    `json:"t"`
				Size  float32   `json:"s"`
				Color []float32 `json:"fc"`
			} `json:"s"`
		} `json:"k"`
	} `json:"d"`
}

type rawProperty struct {
	Animated int             `json:"a"`
	K        json.RawMessage `json:"k"`
}

type rawKeyframe struct {
	T   float32         `json:"t"`
	S   json.RawMessage `json:"s"`
	E   json.RawMessage `json:"e"`
	Out *rawEase        `json:"o"`
	In  *rawEase        `json:"i"`
}

type rawEase struct {
	X json.RawMessage `json:"x"`
	Y json.RawMessage `json:"y"`
}

type rawBezier struct {
	Closed   bool        `json:"c"`
	Vertices [][]float32 `json:"v"`
	InTan    [][]float32 `json:"i"`
	OutTan   [][]float32 `json:"o"`
}

// jsonFloats resolves a raw value that is either a number or an array of
// numbers.
func jsonFloats(raw json.RawMessage) []float32 {
	if len(raw) == 0 {
		return nil
	}
	var f float32
	if err := json.Unmarshal(raw, &f); err == nil {
		return []float32{f}
	}
	var arr []float32
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr
	}
	return nil
}

func firstFloat(raw json.RawMessage, fallback float32) float32 {
	if vals := jsonFloats(raw); len(vals) > 0 {
		return vals[0]
	}
	return fallback
}

func (p *rawProperty) keyframes() []rawKeyframe {
	if p == nil || len(p.K) == 0 {
		return nil
	}
	var kfs []rawKeyframe
	if err := json.Unmarshal(p.K, &kfs); err != nil || len(kfs) == 0 {
		return nil
	}
	return kfs
}

func (p *rawProperty) staticFloats() []float32 {
	if p == nil {
		return nil
	}
	if vals := jsonFloats(p.K); vals != nil {
		return vals
	}
	if kfs := p.keyframes(); len(kfs) > 0 {
		return jsonFloats(kfs[0].S)
	}
	return nil
}

func (p *rawProperty) staticFloat(fallback float32) float32 {
	if vals := p.staticFloats(); len(vals) > 0 {
		return vals[0]
	}
	return fallback
}

func (p *rawProperty) staticVec2(fallback geom.Vec2) geom.Vec2 {
	vals := p.staticFloats()
	if len(vals) < 2 {
		return fallback
	}
	return geom.Vec2{X: vals[0], Y: vals[1]}
}

func parseEase(kf *rawKeyframe) *timeline.CubicBezier {
	if kf.Out == nil || kf.In == nil {
		return timeline.Linear()
	}
	c1 := geom.Vec2{X: firstFloat(kf.Out.X, 0), Y: firstFloat(kf.Out.Y, 0)}
	c2 := geom.Vec2{X: firstFloat(kf.In.X, 1), Y: firstFloat(kf.In.Y, 1)}
	return timeline.NewCubicBezier(c1, c2)
}

func (p *rawProperty) floatAnimator(scale float32) timeline.Animator[float32] {
	var anim timeline.Animator[float32]
	kfs := p.keyframes()
	for i := 0; i+1 < len(kfs); i++ {
		startV := firstFloat(kfs[i].S, 0) * scale
		endV := startV
		if len(kfs[i].E) > 0 {
			endV = firstFloat(kfs[i].E, 0) * scale
		} else if len(kfs[i+1].S) > 0 {
			endV = firstFloat(kfs[i+1].S, 0) * scale
		}
		anim.Frames = append(anim.Frames, timeline.Keyframe[float32]{
			Start:  kfs[i].T,
			End:    kfs[i+1].T,
			StartV: startV,
			EndV:   endV,
			Ease:   parseEase(&kfs[i]),
		})
	}
	return anim
}

func vec2At(raw json.RawMessage, fallback geom.Vec2, scale float32) geom.Vec2 {
	vals := jsonFloats(raw)
	if len(vals) < 2 {
		return fallback
	}
	return geom.Vec2{X: vals[0] * scale, Y: vals[1] * scale}
}

func (p *rawProperty) vec2Animator(scale float32) timeline.Animator[geom.Vec2] {
	var anim timeline.Animator[geom.Vec2]
	kfs := p.keyframes()
	for i := 0; i+1 < len(kfs); i++ {
		startV := vec2At(kfs[i].S, geom.Vec2{}, scale)
		endV := startV
		if len(kfs[i].E) > 0 {
			endV = vec2At(kfs[i].E, startV, scale)
		} else if len(kfs[i+1].S) > 0 {
			endV = vec2At(kfs[i+1].S, startV, scale)
		}
		anim.Frames = append(anim.Frames, timeline.Keyframe[geom.Vec2]{
			Start:  kfs[i].T,
			End:    kfs[i+1].T,
			StartV: startV,
			EndV:   endV,
			Ease:   parseEase(&kfs[i]),
		})
	}
	return anim
}

func (p *rawProperty) isAnimated() bool {
	return p != nil && p.Animated == 1 && len(p.keyframes()) > 1
}

func parseTransform(rt *rawTransform) Transform {
	t := DefaultTransform()
	if rt == nil {
		return t
	}
	if rt.Anchor != nil {
		if rt.Anchor.isAnimated() {
			t.AnchorAnim = rt.Anchor.vec2Animator(1)
		} else {
			t.Anchor = rt.Anchor.staticVec2(t.Anchor)
		}
	}
	if rt.Position != nil {
		if rt.Position.isAnimated() {
			t.PositionAnim = rt.Position.vec2Animator(1)
		} else {
			t.Position = rt.Position.staticVec2(t.Position)
		}
	}
	if rt.Scale != nil {
		if rt.Scale.isAnimated() {
			t.ScaleAnim = rt.Scale.vec2Animator(1.0 / 100)
		} else {
			s := rt.Scale.staticVec2(geom.Vec2{X: 100, Y: 100})
			t.Scale = geom.Vec2{X: s.X / 100, Y: s.Y / 100}
		}
	}
	if rt.Rotation != nil {
		if rt.Rotation.isAnimated() {
			t.RotationAnim = rt.Rotation.floatAnimator(1)
		} else {
			t.Rotation = rt.Rotation.staticFloat(0)
		}
	}
	if rt.Opacity != nil {
		if rt.Opacity.isAnimated() {
			t.OpacityAnim = rt.Opacity.floatAnimator(1.0 / 100)
		} else {
			t.Opacity = rt.Opacity.staticFloat(100) / 100
		}
	}
	return t
}

// parseVerbPath parses the compact verb form: whitespace separated tokens
// where m/l take a point, c takes two control points and an end point and o
// closes the current sub-path.
func parseVerbPath(data string) *geom.Path {
	path := &geom.Path{}
	toks := strings.Fields(data)
	next := func(i *int) float32 {
		if *i >= len(toks) {
			return 0
		}
		v, _ := strconv.ParseFloat(toks[*i], 32)
		*i++
		return float32(v)
	}
	for i := 0; i < len(toks); {
		switch toks[i] {
		case "m":
			i++
			x := next(&i)
			y := next(&i)
			path.MoveTo(geom.Vec2{X: x, Y: y})
		case "l":
			i++
			x := next(&i)
			y := next(&i)
			path.LineTo(geom.Vec2{X: x, Y: y})
		case "c":
			i++
			x1 := next(&i)
			y1 := next(&i)
			x2 := next(&i)
			y2 := next(&i)
			x := next(&i)
			y := next(&i)
			path.CubicTo(geom.Vec2{X: x1, Y: y1}, geom.Vec2{X: x2, Y: y2}, geom.Vec2{X: x, Y: y})
		case "o":
			i++
			path.Close()
		default:
			i++
		}
	}
	return path
}

func vecOf(pts [][]float32, i int) geom.Vec2 {
	if i >= len(pts) || len(pts[i]) < 2 {
		return geom.Vec2{}
	}
	return geom.Vec2{X: pts[i][0], Y: pts[i][1]}
}

// parseBezierPath builds a path from the standard Lottie vertex form: a list
// of vertices with per-vertex in/out tangents relative to the vertex.
func parseBezierPath(bez *rawBezier) *geom.Path {
	path := &geom.Path{}
	n := len(bez.Vertices)
	if n == 0 {
		return path
	}
	path.MoveTo(vecOf(bez.Vertices, 0))
	for i := 1; i < n; i++ {
		from := vecOf(bez.Vertices, i-1)
		to := vecOf(bez.Vertices, i)
		c1 := from.Add(vecOf(bez.OutTan, i-1))
		c2 := to.Add(vecOf(bez.InTan, i))
		path.CubicTo(c1, c2, to)
	}
	if bez.Closed {
		from := vecOf(bez.Vertices, n-1)
		to := vecOf(bez.Vertices, 0)
		c1 := from.Add(vecOf(bez.OutTan, n-1))
		c2 := to.Add(vecOf(bez.InTan, 0))
		path.CubicTo(c1, c2, to)
		path.Close()
	}
	return path
}

func bezierFrom(raw json.RawMessage) *rawBezier {
	if len(raw) == 0 {
		return nil
	}
	var bez rawBezier
	if err := json.Unmarshal(raw, &bez); err == nil && len(bez.Vertices) > 0 {
		return &bez
	}
	// keyframed path: take the shape of the first keyframe
	var kfs []rawKeyframe
	if err := json.Unmarshal(raw, &kfs); err == nil && len(kfs) > 0 && len(kfs[0].S) > 0 {
		var shapes []rawBezier
		if err := json.Unmarshal(kfs[0].S, &shapes); err == nil && len(shapes) > 0 {
			return &shapes[0]
		}
	}
	return nil
}

func parsePathShape(ks *rawShapeKS) *geom.Path {
	if ks == nil {
		return nil
	}
	var verbs string
	if err := json.Unmarshal(ks.Verbs, &verbs); err == nil && verbs != "" {
		return parseVerbPath(verbs)
	}
	if bez := bezierFrom(ks.K); bez != nil {
		return parseBezierPath(bez)
	}
	return nil
}

func parseColor(p *rawProperty) (raster.Color, bool) {
	vals := p.staticFloats()
	if len(vals) < 3 {
		return raster.Color{}, false
	}
	a := float32(1)
	if len(vals) >= 4 {
		a = vals[3]
	}
	return raster.Color{
		R: uint8(vals[0] * 255),
		G: uint8(vals[1] * 255),
		B: uint8(vals[2] * 255),
		A: uint8(a * 255),
	}, true
}

func parseGradient(s *rawShape) raster.Paint {
	if s.Gradient == nil || s.Gradient.K == nil {
		return nil
	}
	vals := s.Gradient.K.staticFloats()
	count := s.Gradient.Count
	if count <= 0 {
		count = len(vals) / 4
	}
	var stops []raster.GradientStop
	for i := 0; i < count && i*4+3 < len(vals); i++ {
		stops = append(stops, raster.GradientStop{
			Offset: vals[i*4],
			Color: raster.Color{
				R: uint8(vals[i*4+1] * 255),
				G: uint8(vals[i*4+2] * 255),
				B: uint8(vals[i*4+3] * 255),
				A: 255,
			},
		})
	}
	start := s.Start.staticVec2(geom.Vec2{})
	end := s.End.staticVec2(geom.Vec2{})
	if s.GradType == 2 {
		d := end.Sub(start)
		radius := float32(math.Hypot(float64(d.X), float64(d.Y)))
		return raster.RadialGradient{Center: start, Radius: radius, Stops: stops}
	}
	return raster.LinearGradient{Start: start, End: end, Stops: stops}
}

// rectPath builds a rectangle path from a center point and size.
func rectPath(center, size geom.Vec2) *geom.Path {
	hw := size.X / 2
	hh := size.Y / 2
	p := &geom.Path{}
	p.MoveTo(geom.Vec2{X: center.X - hw, Y: center.Y - hh})
	p.LineTo(geom.Vec2{X: center.X + hw, Y: center.Y - hh})
	p.LineTo(geom.Vec2{X: center.X + hw, Y: center.Y + hh})
	p.LineTo(geom.Vec2{X: center.X - hw, Y: center.Y + hh})
	p.Close()
	return p
}

// ellipsePath approximates an ellipse with four cubic segments.
func ellipsePath(center, size geom.Vec2) *geom.Path {
	const kappa = 0.5522848
	rx := size.X / 2
	ry := size.Y / 2
	ox := rx * kappa
	oy := ry * kappa
	cx, cy := center.X, center.Y
	p := &geom.Path{}
	p.MoveTo(geom.Vec2{X: cx, Y: cy - ry})
	p.CubicTo(geom.Vec2{X: cx + ox, Y: cy - ry}, geom.Vec2{X: cx + rx, Y: cy - oy}, geom.Vec2{X: cx + rx, Y: cy})
	p.CubicTo(geom.Vec2{X: cx + rx, Y: cy + oy}, geom.Vec2{X: cx + ox, Y: cy + ry}, geom.Vec2{X: cx, Y: cy + ry})
	p.CubicTo(geom.Vec2{X: cx - ox, Y: cy + ry}, geom.Vec2{X: cx - rx, Y: cy + oy}, geom.Vec2{X: cx - rx, Y: cy})
	p.CubicTo(geom.Vec2{X: cx - rx, Y: cy - oy}, geom.Vec2{X: cx - ox, Y: cy - ry}, geom.Vec2{X: cx, Y: cy - ry})
	p.Close()
	return p
}

type loader struct {
	baseDir string
	assets  map[string]*rawAsset
	images  map[string]*ImageLayer
}

func decode(data []byte, opts []LoadOption) (*Animation, error) {
	var root rawRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid animation JSON: %w", err)
	}
	ld := &loader{
		assets: make(map[string]*rawAsset),
		images: make(map[string]*ImageLayer),
	}
	for _, opt := range opts {
		opt(ld)
	}
	for i := range root.Assets {
		a := &root.Assets[i]
		ld.assets[a.ID] = a
		if a.Path != "" {
			img, err := ld.decodeImageAsset(a)
			if err != nil {
				return nil, fmt.Errorf("decoding image asset %q: %w", a.ID, err)
			}
			if img != nil {
				ld.images[a.ID] = img
			}
		}
	}
	comp := &Composition{
		Width:      root.Width,
		Height:     root.Height,
		StartFrame: root.InPoint,
		EndFrame:   root.OutPoint,
		FrameRate:  root.FrameRate,
	}
	comp.Layers = ld.parseLayers(root.Layers, root.Width, root.Height, root.FrameRate)
	return &Animation{comp: comp}, nil
}

func (ld *loader) parseLayers(raw []rawLayer, width, height int, fps float32) []Layer {
	var out []Layer
	for i := range raw {
		if l := ld.parseLayer(&raw[i], width, height, fps); l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (ld *loader) parseLayer(layer *rawLayer, width, height int, fps float32) Layer {
	switch layer.Type {
	case 4:
		return ld.parseShapeLayer(layer)
	case 2:
		if img, ok := ld.images[layer.RefID]; ok {
			l := *img
			l.Transform = parseTransform(layer.Transform)
			return &l
		}
	case 0:
		asset, ok := ld.assets[layer.RefID]
		if !ok || len(asset.Layers) == 0 {
			return nil
		}
		comp := &Composition{
			Width:     width,
			Height:    height,
			FrameRate: fps,
		}
		comp.Layers = ld.parseLayers(asset.Layers, width, height, fps)
		return &PreCompLayer{Comp: comp, Transform: parseTransform(layer.Transform)}
	case 5:
		return ld.parseTextLayer(layer)
	}
	return nil
}

func (ld *loader) parseShapeLayer(layer *rawLayer) Layer {
	l := &ShapeLayer{
		StrokeWidth:   1,
		IsMatteSource: layer.MatteSource == 1,
		Transform:     parseTransform(layer.Transform),
	}
	switch layer.MatteMode {
	case 1:
		l.Matte = raster.MatteAlpha
	case 2:
		l.Matte = raster.MatteAlphaInv
	}

	copies := 0
	var offset geom.Vec2
	for i := range layer.Shapes {
		shape := &layer.Shapes[i]
		switch shape.Type {
		case "sh":
			if p := parsePathShape(shape.Shape); p != nil {
				l.Paths = append(l.Paths, p)
			}
		case "rc":
			center := shape.Position.staticVec2(geom.Vec2{})
			size := shape.Start.staticVec2(geom.Vec2{})
			l.Paths = append(l.Paths, rectPath(center, size))
		case "el":
			center := shape.Position.staticVec2(geom.Vec2{})
			size := shape.Start.staticVec2(geom.Vec2{})
			l.Paths = append(l.Paths, ellipsePath(center, size))
		case "fl":
			if c, ok := parseColor(shape.Color); ok {
				l.Fill = raster.Solid{Color: c}
			}
		case "st":
			if c, ok := parseColor(shape.Color); ok {
				l.Stroke = raster.Solid{Color: c}
			}
			l.StrokeWidth = shape.Width.staticFloat(1)
		case "gf":
			if g := parseGradient(shape); g != nil {
				l.Fill = g
			}
		case "gs":
			if g := parseGradient(shape); g != nil {
				l.Stroke = g
			}
			l.StrokeWidth = shape.Width.staticFloat(1)
		case "tm":
			l.Trim = &TrimRange{
				Start: shape.Start.staticFloat(0) / 100,
				End:   shape.End.staticFloat(100) / 100,
			}
		case "rp":
			copies = int(shape.Color.staticFloat(0))
			if shape.Transform != nil && shape.Transform.Position != nil {
				offset = shape.Transform.Position.staticVec2(geom.Vec2{})
			}
		}
	}

	for i := range layer.Masks {
		if bez := bezierFrom(layer.Masks[i].Pt.kRaw()); bez != nil {
			l.Mask = append(l.Mask, parseBezierPath(bez))
		}
	}

	if copies > 1 && len(l.Paths) > 0 {
		base := l.Paths
		for i := 1; i < copies; i++ {
			m := geom.Translate(offset.X*float32(i), offset.Y*float32(i))
			for _, p := range base {
				l.Paths = append(l.Paths, p.Transform(m))
			}
		}
	}
	return l
}

func (p *rawProperty) kRaw() json.RawMessage {
	if p == nil {
		return nil
	}
	return p.K
}

func (ld *loader) parseTextLayer(layer *rawLayer) Layer {
	if layer.Text == nil || len(layer.Text.D.K) == 0 {
		return nil
	}
	doc := &layer.Text.D.K[0].S
	if doc.Text == "" {
		return nil
	}
	color := raster.Color{A: 255}
	if len(doc.Color) >= 3 {
		color.R = uint8(doc.Color[0] * 255)
		color.G = uint8(doc.Color[1] * 255)
		color.B = uint8(doc.Color[2] * 255)
	}
	size := doc.Size
	if size <= 0 {
		size = 12
	}
	face, err := defaultFace(size)
	if err != nil {
		return nil
	}
	var pos geom.Vec2
	if layer.Transform != nil && layer.Transform.Position != nil {
		pos = layer.Transform.Position.staticVec2(geom.Vec2{})
	}
	return &TextLayer{
		Text:     doc.Text,
		Color:    color,
		Size:     size,
		Position: pos,
		Face:     face,
	}
}
