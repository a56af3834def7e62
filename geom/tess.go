package geom

// Mesh is a triangle mesh produced by tessellation. Indices come in triples.
type Mesh struct {
	Vertices []Vec2
	Indices  []uint32
}

// Tessellate flattens the path and fan-triangulates the resulting outline.
// Good enough for the convex and star-convex shapes Lottie files are mostly
// made of; concave outlines degrade gracefully rather than failing.
func Tessellate(path *Path, tolerance float32) Mesh {
	segs := path.Flatten(tolerance)
	if len(segs) == 0 {
		return Mesh{}
	}
	vertices := make([]Vec2, 0, len(segs)+1)
	vertices = append(vertices, segs[0].From)
	for _, seg := range segs {
		vertices = append(vertices, seg.To)
	}
	if len(vertices) > 1 && vertices[len(vertices)-1] == vertices[0] {
		vertices = vertices[:len(vertices)-1]
	}
	var indices []uint32
	for i := 1; i+1 < len(vertices); i++ {
		indices = append(indices, 0, uint32(i), uint32(i)+1)
	}
	return Mesh{Vertices: vertices, Indices: indices}
}
