package rail

import "fmt"

// fakeSurface records every call as a formatted string so tests can assert
// on call order.
type fakeSurface struct {
	calls []string

	pointerX int32
	pointerY int32

	createErr error
}

func (f *fakeSurface) call(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSurface) CreateWindow(w *Window) error {
	f.call("create %d", w.ID)
	return f.createErr
}

func (f *fakeSurface) DestroyWindow(w *Window) {
	f.call("destroy %d", w.ID)
}

func (f *fakeSurface) MoveWindow(w *Window, x, y, width, height int32) error {
	f.call("move %d %d,%d %dx%d", w.ID, x, y, width, height)
	return nil
}

func (f *fakeSurface) UpdateArea(w *Window, x, y, width, height int32) error {
	f.call("update %d %d,%d %dx%d", w.ID, x, y, width, height)
	return nil
}

func (f *fakeSurface) ShowWindow(w *Window, state ShowState) error {
	f.call("show %d %d", w.ID, state)
	return nil
}

func (f *fakeSurface) SetTitle(w *Window, title string) error {
	f.call("title %d %q", w.ID, title)
	return nil
}

func (f *fakeSurface) SetStyle(w *Window, style, extendedStyle uint32) error {
	f.call("style %d %08X %08X", w.ID, style, extendedStyle)
	return nil
}

func (f *fakeSurface) SetIcon(w *Window, icon *Icon, replace bool) error {
	f.call("icon %d %dx%d replace=%v", w.ID, icon.Width, icon.Height, replace)
	return nil
}

func (f *fakeSurface) SetVisibilityRects(w *Window, offsetX, offsetY int32, rects []Rect) error {
	f.call("visibility %d %d,%d n=%d", w.ID, offsetX, offsetY, len(rects))
	return nil
}

func (f *fakeSurface) Maximize(w *Window) error {
	f.call("maximize %d", w.ID)
	return nil
}

func (f *fakeSurface) SetMinMaxInfo(w *Window, o MinMaxInfoOrder) error {
	f.call("minmax %d", w.ID)
	return nil
}

func (f *fakeSurface) StartMoveSize(w *Window, direction Direction, x, y int32) error {
	f.call("startmovesize %d %d %d,%d", w.ID, direction, x, y)
	return nil
}

func (f *fakeSurface) QueryPointer(w *Window) (int32, int32, error) {
	f.call("querypointer %d", w.ID)
	return f.pointerX, f.pointerY, nil
}

func (f *fakeSurface) TranslateToRoot(w *Window, x, y int32) (int32, int32, error) {
	return w.X + x, w.Y + y, nil
}

func (f *fakeSurface) EnableSeamless() error {
	f.call("seamless on")
	return nil
}

func (f *fakeSurface) DisableSeamless() error {
	f.call("seamless off")
	return nil
}

type fakeChannel struct {
	handshakes []ClientHandshakeOrder
	execs      []ExecOrder
	moves      []WindowMoveOrder
	activates  []ActivateOrder
	commands   []SysCommandOrder
	releases   [][2]int32
}

func (f *fakeChannel) ClientHandshake(o ClientHandshakeOrder) error {
	f.handshakes = append(f.handshakes, o)
	return nil
}

func (f *fakeChannel) ClientExec(o ExecOrder) error {
	f.execs = append(f.execs, o)
	return nil
}

func (f *fakeChannel) ClientWindowMove(o WindowMoveOrder) error {
	f.moves = append(f.moves, o)
	return nil
}

func (f *fakeChannel) ClientActivate(o ActivateOrder) error {
	f.activates = append(f.activates, o)
	return nil
}

func (f *fakeChannel) ClientSystemCommand(o SysCommandOrder) error {
	f.commands = append(f.commands, o)
	return nil
}

func (f *fakeChannel) ClientButtonRelease(x, y int32) error {
	f.releases = append(f.releases, [2]int32{x, y})
	return nil
}

func encodeTitle(t string) []byte {
	b := make([]byte, 0, len(t)*2)
	for _, r := range t {
		b = append(b, byte(r), byte(r>>8))
	}
	return b
}
