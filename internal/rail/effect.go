package rail

// Effect is one local surface operation produced by applying an order.
// Effects must be applied in list order; visibility rects always follow the
// geometry change they belong to so they never clip against a stale
// viewport.
type Effect interface{ effect() }

// EffectCreate asks the surface to create the backend window.
type EffectCreate struct {
	Window *Window
}

// EffectDestroy asks the caller to remove the window from the registry,
// which releases the backend window.
type EffectDestroy struct {
	WindowID uint64
}

type EffectMove struct {
	Window *Window
	X      int32
	Y      int32
	Width  int32
	Height int32
}

type EffectRedraw struct {
	Window *Window
	X      int32
	Y      int32
	Width  int32
	Height int32
}

type EffectVisibilityRects struct {
	Window  *Window
	OffsetX int32
	OffsetY int32
	Rects   []Rect
}

type EffectMaximize struct {
	Window *Window
}

type EffectShow struct {
	Window *Window
	State  ShowState
}

type EffectTitle struct {
	Window *Window
	Title  string
}

type EffectStyle struct {
	Window        *Window
	Style         uint32
	ExtendedStyle uint32
}

type EffectSetIcon struct {
	Window  *Window
	Icon    *Icon
	Replace bool
}

func (EffectCreate) effect()          {}
func (EffectDestroy) effect()         {}
func (EffectMove) effect()            {}
func (EffectRedraw) effect()          {}
func (EffectVisibilityRects) effect() {}
func (EffectMaximize) effect()        {}
func (EffectShow) effect()            {}
func (EffectTitle) effect()           {}
func (EffectStyle) effect()           {}
func (EffectSetIcon) effect()         {}
