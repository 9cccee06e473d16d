package rail

// Surface is the local windowing capability the core drives. Implemented by
// the X11 backend; faked in tests.
type Surface interface {
	CreateWindow(w *Window) error
	DestroyWindow(w *Window)
	MoveWindow(w *Window, x, y, width, height int32) error
	UpdateArea(w *Window, x, y, width, height int32) error
	ShowWindow(w *Window, state ShowState) error
	SetTitle(w *Window, title string) error
	SetStyle(w *Window, style, extendedStyle uint32) error
	SetIcon(w *Window, icon *Icon, replace bool) error
	SetVisibilityRects(w *Window, offsetX, offsetY int32, rects []Rect) error
	Maximize(w *Window) error
	SetMinMaxInfo(w *Window, o MinMaxInfoOrder) error

	// StartMoveSize begins a native interactive drag/resize at root
	// coordinates (x, y).
	StartMoveSize(w *Window, direction Direction, x, y int32) error
	// QueryPointer returns the current pointer position in root coordinates.
	QueryPointer(w *Window) (x, y int32, err error)
	// TranslateToRoot converts window-local coordinates to root coordinates.
	TranslateToRoot(w *Window, x, y int32) (int32, int32, error)

	EnableSeamless() error
	DisableSeamless() error
}

// Channel accepts outbound orders for the remote peer. Framing and encoding
// live behind this interface.
type Channel interface {
	ClientHandshake(o ClientHandshakeOrder) error
	ClientExec(o ExecOrder) error
	ClientWindowMove(o WindowMoveOrder) error
	ClientActivate(o ActivateOrder) error
	ClientSystemCommand(o SysCommandOrder) error

	// ClientButtonRelease reports a pointer button release at root
	// coordinates; a pointer-driven move/resize ends on button release.
	ClientButtonRelease(x, y int32) error
}
