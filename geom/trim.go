package geom

// Trim returns a new path containing only the [start, end] fraction of the
// path's arc length, both in 0..1. The result is built from line segments of
// the flattened path, so tolerance controls how faithfully curves are kept.
func (p *Path) Trim(start, end, tolerance float32) *Path {
	if start <= 0 && end >= 1 {
		return p.Clone()
	}
	ans := &Path{}
	if end <= start {
		return ans
	}
	segs := p.Flatten(tolerance)
	var total float32
	for _, s := range segs {
		total += segLength(s)
	}
	if total == 0 {
		return ans
	}
	from := start * total
	to := end * total

	var walked float32
	drawing := false
	for _, s := range segs {
		l := segLength(s)
		if l == 0 {
			continue
		}
		segStart := walked
		segEnd := walked + l
		walked = segEnd
		if segEnd <= from || segStart >= to {
			continue
		}
		a := s.From
		b := s.To
		if segStart < from {
			t := (from - segStart) / l
			a = s.From.Lerp(s.To, t)
		}
		if segEnd > to {
			t := (to - segStart) / l
			b = s.From.Lerp(s.To, t)
		}
		if !drawing || len(ans.Segments) == 0 || ans.Segments[len(ans.Segments)-1].P != a {
			ans.MoveTo(a)
			drawing = true
		}
		ans.LineTo(b)
	}
	return ans
}
