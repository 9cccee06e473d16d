package rail

// Region is a set of rectangles supporting union and intersection. The
// paint path only ever needs the extents of the final set, so rectangles
// are kept as-is rather than banded.
type Region struct {
	rects []Rect
}

func (r *Region) UnionRect(rc Rect) {
	if rc.Empty() {
		return
	}
	r.rects = append(r.rects, rc)
}

func (r *Region) IntersectRect(rc Rect) {
	out := r.rects[:0]
	for _, cur := range r.rects {
		clipped := intersect(cur, rc)
		if !clipped.Empty() {
			out = append(out, clipped)
		}
	}
	r.rects = out
}

func (r *Region) IsEmpty() bool {
	return len(r.rects) == 0
}

// Extents returns the bounding rectangle of the set.
func (r *Region) Extents() Rect {
	if len(r.rects) == 0 {
		return Rect{}
	}

	ext := r.rects[0]
	for _, cur := range r.rects[1:] {
		if cur.Left < ext.Left {
			ext.Left = cur.Left
		}
		if cur.Top < ext.Top {
			ext.Top = cur.Top
		}
		if cur.Right > ext.Right {
			ext.Right = cur.Right
		}
		if cur.Bottom > ext.Bottom {
			ext.Bottom = cur.Bottom
		}
	}
	return ext
}

func intersect(a, b Rect) Rect {
	r := Rect{
		Left:   max32(a.Left, b.Left),
		Top:    max32(a.Top, b.Top),
		Right:  min32(a.Right, b.Right),
		Bottom: min32(a.Bottom, b.Bottom),
	}
	if r.Empty() {
		return Rect{}
	}
	return r
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
