package rail

// WindowPaint is one window-local redraw rectangle produced from a global
// dirty rectangle.
type WindowPaint struct {
	Window *Window
	Rect   Rect
}

// ComputeDirty clips the global dirty rectangle against every window and
// translates the result into window-local coordinates. Windows fully
// outside the dirty rect are skipped. Pure and order-independent.
func ComputeDirty(dirty Rect, registry *Registry) []WindowPaint {
	var paints []WindowPaint

	registry.ForEach(func(w *Window) bool {
		windowRect := Rect{
			Left:   max32(w.X, 0),
			Top:    max32(w.Y, 0),
			Right:  max32(w.X+w.Width, 0),
			Bottom: max32(w.Y+w.Height, 0),
		}

		var invalid Region
		invalid.UnionRect(windowRect)
		invalid.IntersectRect(dirty)

		if !invalid.IsEmpty() {
			ext := invalid.Extents()
			paints = append(paints, WindowPaint{
				Window: w,
				Rect: Rect{
					Left:   ext.Left - w.X,
					Top:    ext.Top - w.Y,
					Right:  ext.Right - w.X,
					Bottom: ext.Bottom - w.Y,
				},
			})
		}
		return true
	})

	return paints
}
