package rail

type LocalMoveState int

const (
	LocalMoveInactive LocalMoveState = iota
	LocalMoveActive
	LocalMoveTerminating
)

type Direction int

const (
	DirNone Direction = iota
	DirSizeLeft
	DirSizeRight
	DirSizeTop
	DirSizeTopLeft
	DirSizeTopRight
	DirSizeBottom
	DirSizeBottomLeft
	DirSizeBottomRight
	DirMove
	DirKeyboardMove
	DirKeyboardSize
)

func (d Direction) Keyboard() bool {
	return d == DirKeyboardMove || d == DirKeyboardSize
}

// DirectionFromMoveSizeType maps a wire move/size type to a direction.
func DirectionFromMoveSizeType(t uint16) (Direction, bool) {
	switch t {
	case WMSZLeft:
		return DirSizeLeft, true
	case WMSZRight:
		return DirSizeRight, true
	case WMSZTop:
		return DirSizeTop, true
	case WMSZTopLeft:
		return DirSizeTopLeft, true
	case WMSZTopRight:
		return DirSizeTopRight, true
	case WMSZBottom:
		return DirSizeBottom, true
	case WMSZBottomLeft:
		return DirSizeBottomLeft, true
	case WMSZBottomRight:
		return DirSizeBottomRight, true
	case WMSZMove:
		return DirMove, true
	case WMSZKeyMove:
		return DirKeyboardMove, true
	case WMSZKeySize:
		return DirKeyboardSize, true
	default:
		return DirNone, false
	}
}

type LocalMove struct {
	State     LocalMoveState
	Direction Direction
}

// Window is the state of one remote window. Owned exclusively by the
// Registry; remote-authoritative fields change only through the reducer.
type Window struct {
	ID            uint64
	SurfaceID     uint32
	OwnerWindowID uint64

	// Backend window handle, owned by the local surface.
	Handle uint32

	// Remote-authoritative geometry.
	WindowOffsetX      int32
	WindowOffsetY      int32
	WindowWidth        uint32
	WindowHeight       uint32
	ClientOffsetX      int32
	ClientOffsetY      int32
	ClientAreaWidth    uint32
	ClientAreaHeight   uint32
	WindowClientDeltaX int32
	WindowClientDeltaY int32
	ResizeMarginLeft   uint32
	ResizeMarginRight  uint32
	ResizeMarginTop    uint32
	ResizeMarginBottom uint32
	VisibleOffsetX     int32
	VisibleOffsetY     int32
	WindowRects        []Rect
	VisibilityRects    []Rect

	// Local geometry, updated from the windowing backend.
	X      int32
	Y      int32
	Width  int32
	Height int32

	Style         uint32
	ExtendedStyle uint32
	ShowState     ShowState
	Title         string

	LocalMove LocalMove
}
