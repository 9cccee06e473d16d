// Package xwm implements the local window surface on X11.
package xwm

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-railview/internal/rail"
	"github.com/ItsNotGoodName/x-railview/internal/xcursor"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
)

// _NET_WM_MOVERESIZE directions.
const (
	netMoveResizeSizeTopLeft     = 0
	netMoveResizeSizeTop         = 1
	netMoveResizeSizeTopRight    = 2
	netMoveResizeSizeRight       = 3
	netMoveResizeSizeBottomRight = 4
	netMoveResizeSizeBottom      = 5
	netMoveResizeSizeBottomLeft  = 6
	netMoveResizeSizeLeft        = 7
	netMoveResizeMove            = 8
)

// Window styles this backend cares about.
const (
	styleCaption      = 0x00C00000
	exStyleToolWindow = 0x00000080
	wmStateIconic     = 3
	netWmStateAdd     = 1
)

// System commands forwarded to the peer for local window gestures.
const (
	SysCommandClose    uint16 = 0xF060
	SysCommandMinimize uint16 = 0xF020
)

type atoms struct {
	wmProtocols        xproto.Atom
	wmDeleteWindow     xproto.Atom
	wmChangeState      xproto.Atom
	netWmName          xproto.Atom
	utf8String         xproto.Atom
	netWmIcon          xproto.Atom
	netWmMoveResize    xproto.Atom
	netWmState         xproto.Atom
	netWmStateMaxVert  xproto.Atom
	netWmStateMaxHorz  xproto.Atom
	netWmStateSkipTask xproto.Atom
	motifWmHints       xproto.Atom
}

type Surface struct {
	conn     *xgb.Conn
	screen   *xproto.ScreenInfo
	cursor   xproto.Cursor
	atoms    atoms
	seamless bool
}

func NewSurface(conn *xgb.Conn) (*Surface, error) {
	if err := shape.Init(conn); err != nil {
		return nil, fmt.Errorf("shape extension: %w", err)
	}

	cursor, err := xcursor.CreateCursor(conn, xcursor.LeftPtr)
	if err != nil {
		return nil, err
	}

	s := &Surface{
		conn:   conn,
		screen: xproto.Setup(conn).DefaultScreen(conn),
		cursor: cursor,
	}
	if err := s.internAtoms(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Surface) internAtoms() error {
	intern := func(name string) (xproto.Atom, error) {
		reply, err := xproto.InternAtom(s.conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return 0, fmt.Errorf("intern %s: %w", name, err)
		}
		return reply.Atom, nil
	}

	var err error
	for _, a := range []struct {
		dst  *xproto.Atom
		name string
	}{
		{&s.atoms.wmProtocols, "WM_PROTOCOLS"},
		{&s.atoms.wmDeleteWindow, "WM_DELETE_WINDOW"},
		{&s.atoms.wmChangeState, "WM_CHANGE_STATE"},
		{&s.atoms.netWmName, "_NET_WM_NAME"},
		{&s.atoms.utf8String, "UTF8_STRING"},
		{&s.atoms.netWmIcon, "_NET_WM_ICON"},
		{&s.atoms.netWmMoveResize, "_NET_WM_MOVERESIZE"},
		{&s.atoms.netWmState, "_NET_WM_STATE"},
		{&s.atoms.netWmStateMaxVert, "_NET_WM_STATE_MAXIMIZED_VERT"},
		{&s.atoms.netWmStateMaxHorz, "_NET_WM_STATE_MAXIMIZED_HORZ"},
		{&s.atoms.netWmStateSkipTask, "_NET_WM_STATE_SKIP_TASKBAR"},
		{&s.atoms.motifWmHints, "_MOTIF_WM_HINTS"},
	} {
		if *a.dst, err = intern(a.name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) CreateWindow(w *rail.Window) error {
	wid, err := xproto.NewWindowId(s.conn)
	if err != nil {
		return err
	}

	if err := xproto.CreateWindowChecked(s.conn, s.screen.RootDepth,
		wid, s.screen.Root,
		int16(w.X), int16(w.Y), uint16(max1(w.Width)), uint16(max1(w.Height)), 0,
		xproto.WindowClassInputOutput, s.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask|xproto.CwCursor, // 1, 2, 3
		[]uint32{
			0, // 1
			xproto.EventMaskStructureNotify | xproto.EventMaskExposure | xproto.EventMaskFocusChange | xproto.EventMaskPropertyChange, // 2
			uint32(s.cursor), // 3
		}).Check(); err != nil {
		return err
	}

	// Opt into close requests instead of getting killed.
	deleteWindow := make([]byte, 4)
	binary.LittleEndian.PutUint32(deleteWindow, uint32(s.atoms.wmDeleteWindow))
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, wid,
		s.atoms.wmProtocols, xproto.AtomAtom, 32, 1, deleteWindow)

	if err := xproto.MapWindowChecked(s.conn, wid).Check(); err != nil {
		xproto.DestroyWindow(s.conn, wid)
		return err
	}

	w.Handle = uint32(wid)
	slog.Debug("Created window", "id", w.ID, "handle", w.Handle)
	return nil
}

func (s *Surface) DestroyWindow(w *rail.Window) {
	if w.Handle == 0 {
		return
	}
	xproto.DestroyWindow(s.conn, xproto.Window(w.Handle))
	w.Handle = 0
}

func (s *Surface) MoveWindow(w *rail.Window, x, y, width, height int32) error {
	return xproto.ConfigureWindowChecked(s.conn, xproto.Window(w.Handle),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(x), uint32(y), uint32(max1(width)), uint32(max1(height))}).
		Check()
}

// UpdateArea invalidates an area of the window so the damaged content is
// repainted from the session surface.
func (s *Surface) UpdateArea(w *rail.Window, x, y, width, height int32) error {
	return xproto.ClearAreaChecked(s.conn, true, xproto.Window(w.Handle),
		int16(x), int16(y), uint16(max1(width)), uint16(max1(height))).
		Check()
}

func (s *Surface) ShowWindow(w *rail.Window, state rail.ShowState) error {
	wid := xproto.Window(w.Handle)
	switch state {
	case rail.ShowHidden:
		return xproto.UnmapWindowChecked(s.conn, wid).Check()
	case rail.ShowMinimized:
		return s.clientMessage(wid, s.atoms.wmChangeState, [5]uint32{wmStateIconic})
	case rail.ShowMaximized:
		if err := xproto.MapWindowChecked(s.conn, wid).Check(); err != nil {
			return err
		}
		return s.Maximize(w)
	case rail.ShowNormal:
		return xproto.MapWindowChecked(s.conn, wid).Check()
	default:
		slog.Debug("Unhandled show state", "state", state)
		return nil
	}
}

func (s *Surface) SetTitle(w *rail.Window, title string) error {
	wid := xproto.Window(w.Handle)
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, wid,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), []byte(title))
	return xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, wid,
		s.atoms.netWmName, s.atoms.utf8String, 8, uint32(len(title)), []byte(title)).
		Check()
}

func (s *Surface) SetStyle(w *rail.Window, style, extendedStyle uint32) error {
	// Motif hints: flags=decorations, decorations on/off.
	decorations := uint32(0)
	if style&styleCaption == styleCaption {
		decorations = 1
	}
	hints := make([]byte, 5*4)
	binary.LittleEndian.PutUint32(hints, 2) // MWM_HINTS_DECORATIONS
	binary.LittleEndian.PutUint32(hints[8:], decorations)

	wid := xproto.Window(w.Handle)
	if err := xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, wid,
		s.atoms.motifWmHints, s.atoms.motifWmHints, 32, 5, hints).Check(); err != nil {
		return err
	}

	if extendedStyle&exStyleToolWindow != 0 {
		return s.clientMessage(wid, s.atoms.netWmState,
			[5]uint32{netWmStateAdd, uint32(s.atoms.netWmStateSkipTask)})
	}
	return nil
}

func (s *Surface) SetIcon(w *rail.Window, icon *rail.Icon, replace bool) error {
	mode := byte(xproto.PropModeAppend)
	if replace {
		mode = xproto.PropModeReplace
	}

	data := make([]byte, len(icon.Data)*4)
	for i, v := range icon.Data {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}

	return xproto.ChangePropertyChecked(s.conn, mode, xproto.Window(w.Handle),
		s.atoms.netWmIcon, xproto.AtomCardinal, 32, uint32(len(icon.Data)), data).
		Check()
}

func (s *Surface) SetVisibilityRects(w *rail.Window, offsetX, offsetY int32, rects []rail.Rect) error {
	if len(rects) == 0 {
		// Reset to an unshaped window.
		return shape.MaskChecked(s.conn, shape.SoSet, shape.SkBounding,
			xproto.Window(w.Handle), 0, 0, xproto.PixmapNone).
			Check()
	}

	xrects := make([]xproto.Rectangle, 0, len(rects))
	for _, r := range rects {
		if r.Empty() {
			continue
		}
		xrects = append(xrects, xproto.Rectangle{
			X:      int16(r.Left),
			Y:      int16(r.Top),
			Width:  uint16(r.Width()),
			Height: uint16(r.Height()),
		})
	}

	return shape.RectanglesChecked(s.conn, shape.SoSet, shape.SkBounding,
		xproto.ClipOrderingUnsorted, xproto.Window(w.Handle),
		int16(offsetX), int16(offsetY), xrects).
		Check()
}

func (s *Surface) Maximize(w *rail.Window) error {
	return s.clientMessage(xproto.Window(w.Handle), s.atoms.netWmState,
		[5]uint32{netWmStateAdd, uint32(s.atoms.netWmStateMaxVert), uint32(s.atoms.netWmStateMaxHorz)})
}

func (s *Surface) SetMinMaxInfo(w *rail.Window, o rail.MinMaxInfoOrder) error {
	// WM_NORMAL_HINTS with PMinSize|PMaxSize.
	hints := make([]byte, 18*4)
	binary.LittleEndian.PutUint32(hints, 16|32)
	binary.LittleEndian.PutUint32(hints[5*4:], uint32(max1(o.MinTrackWidth)))
	binary.LittleEndian.PutUint32(hints[6*4:], uint32(max1(o.MinTrackHeight)))
	binary.LittleEndian.PutUint32(hints[7*4:], uint32(max1(o.MaxTrackWidth)))
	binary.LittleEndian.PutUint32(hints[8*4:], uint32(max1(o.MaxTrackHeight)))

	return xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, xproto.Window(w.Handle),
		xproto.AtomWmNormalHints, xproto.AtomWmSizeHints, 32, 18, hints).
		Check()
}

func (s *Surface) StartMoveSize(w *rail.Window, direction rail.Direction, x, y int32) error {
	var netDirection uint32
	switch direction {
	case rail.DirSizeLeft:
		netDirection = netMoveResizeSizeLeft
	case rail.DirSizeRight:
		netDirection = netMoveResizeSizeRight
	case rail.DirSizeTop:
		netDirection = netMoveResizeSizeTop
	case rail.DirSizeTopLeft:
		netDirection = netMoveResizeSizeTopLeft
	case rail.DirSizeTopRight:
		netDirection = netMoveResizeSizeTopRight
	case rail.DirSizeBottom:
		netDirection = netMoveResizeSizeBottom
	case rail.DirSizeBottomLeft:
		netDirection = netMoveResizeSizeBottomLeft
	case rail.DirSizeBottomRight:
		netDirection = netMoveResizeSizeBottomRight
	case rail.DirMove:
		netDirection = netMoveResizeMove
	default:
		return fmt.Errorf("xwm: no interactive loop for direction %d", direction)
	}

	return s.clientMessage(xproto.Window(w.Handle), s.atoms.netWmMoveResize,
		[5]uint32{uint32(x), uint32(y), netDirection, xproto.ButtonIndex1, 0})
}

func (s *Surface) QueryPointer(w *rail.Window) (int32, int32, error) {
	reply, err := xproto.QueryPointer(s.conn, xproto.Window(w.Handle)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int32(reply.RootX), int32(reply.RootY), nil
}

func (s *Surface) TranslateToRoot(w *rail.Window, x, y int32) (int32, int32, error) {
	reply, err := xproto.TranslateCoordinates(s.conn, xproto.Window(w.Handle), s.screen.Root,
		int16(x), int16(y)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int32(reply.DstX), int32(reply.DstY), nil
}

func (s *Surface) EnableSeamless() error {
	if !s.seamless {
		s.seamless = true
		slog.Info("Seamless mode enabled")
	}
	return nil
}

func (s *Surface) DisableSeamless() error {
	if s.seamless {
		s.seamless = false
		slog.Info("Seamless mode disabled")
	}
	return nil
}

// clientMessage sends a format-32 client message for wid to the root
// window, the way EWMH wants WM requests delivered.
func (s *Surface) clientMessage(wid xproto.Window, typ xproto.Atom, data [5]uint32) error {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: wid,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data[:]),
	}
	return xproto.SendEventChecked(s.conn, false, s.screen.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes())).
		Check()
}

func max1(v int32) int32 {
	if v < 1 {
		return 1
	}
	return v
}
