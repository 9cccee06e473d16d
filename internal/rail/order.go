// Package rail synchronizes remote application window state with local
// windows. Orders arrive as field-flagged diffs; unset bits mean "no change".
package rail

// Window order field flags (MS-RDPERP TS_WINDOW_ORDER).
const (
	FieldOwner            uint32 = 0x00000002
	FieldTitle            uint32 = 0x00000004
	FieldStyle            uint32 = 0x00000008
	FieldShow             uint32 = 0x00000010
	FieldResizeMarginX    uint32 = 0x00000080
	FieldWindowRects      uint32 = 0x00000100
	FieldVisibility       uint32 = 0x00000200
	FieldWindowSize       uint32 = 0x00000400
	FieldWindowOffset     uint32 = 0x00000800
	FieldVisibleOffset    uint32 = 0x00001000
	FieldClientAreaOffset uint32 = 0x00004000
	FieldClientDelta      uint32 = 0x00008000
	FieldClientAreaSize   uint32 = 0x00010000
	FieldResizeMarginY    uint32 = 0x08000000
	StateNew              uint32 = 0x10000000
	StateDeleted          uint32 = 0x20000000
	OrderIcon             uint32 = 0x40000000
	OrderCachedIcon       uint32 = 0x80000000
)

// Field flags that force a local move/resize/redraw of the window.
const geometryFields = FieldWindowOffset | FieldWindowSize | FieldClientAreaOffset |
	FieldClientAreaSize | FieldClientDelta | FieldVisibleOffset | FieldVisibility

type ShowState uint32

const (
	ShowHidden    ShowState = 0x00
	ShowMinimized ShowState = 0x02
	ShowMaximized ShowState = 0x03
	ShowNormal    ShowState = 0x05
)

// Move/size types (RAIL_WMSZ_*).
const (
	WMSZLeft        uint16 = 0x01
	WMSZRight       uint16 = 0x02
	WMSZTop         uint16 = 0x03
	WMSZTopLeft     uint16 = 0x04
	WMSZTopRight    uint16 = 0x05
	WMSZBottom      uint16 = 0x06
	WMSZBottomLeft  uint16 = 0x07
	WMSZBottomRight uint16 = 0x08
	WMSZMove        uint16 = 0x09
	WMSZKeyMove     uint16 = 0x0A
	WMSZKeySize     uint16 = 0x0B
)

// Exec result codes delivered by the peer. Anything other than ExecOK is
// fatal to the connection.
const (
	ExecOK uint16 = iota
	ExecHookNotLoaded
	ExecDecodeFailed
	ExecNotInAllowlist
	ExecFileNotFound
	ExecFail
	ExecSessionLocked
)

var execResultNames = []string{
	"RAIL_EXEC_S_OK",
	"RAIL_EXEC_E_HOOK_NOT_LOADED",
	"RAIL_EXEC_E_DECODE_FAILED",
	"RAIL_EXEC_E_NOT_IN_ALLOWLIST",
	"RAIL_EXEC_E_FILE_NOT_FOUND",
	"RAIL_EXEC_E_FAIL",
	"RAIL_EXEC_E_SESSION_LOCKED",
}

func ExecResultName(code uint16) string {
	if int(code) < len(execResultNames) {
		return execResultNames[code]
	}
	return "RAIL_EXEC_UNKNOWN"
}

type Rect struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

func (r Rect) Empty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Inbound is a decoded order delivered by the remote channel.
type Inbound interface{ inbound() }

// WindowOrder carries a create or update diff for one window. FieldFlags
// selects which fields are present; StateNew marks creation.
type WindowOrder struct {
	WindowID   uint64
	FieldFlags uint32

	OwnerWindowID uint64
	Style         uint32
	ExtendedStyle uint32
	ShowState     ShowState

	// TitleInfo is the raw UTF-16LE title payload.
	TitleInfo []byte

	WindowOffsetX int32
	WindowOffsetY int32
	WindowWidth   uint32
	WindowHeight  uint32

	ResizeMarginLeft   uint32
	ResizeMarginRight  uint32
	ResizeMarginTop    uint32
	ResizeMarginBottom uint32

	ClientOffsetX      int32
	ClientOffsetY      int32
	ClientAreaWidth    uint32
	ClientAreaHeight   uint32
	WindowClientDeltaX int32
	WindowClientDeltaY int32

	VisibleOffsetX  int32
	VisibleOffsetY  int32
	WindowRects     []Rect
	VisibilityRects []Rect
}

type WindowDeleteOrder struct {
	WindowID uint64
}

// IconInfo describes one icon bitmap as carried on the wire.
type IconInfo struct {
	CacheID    uint8
	CacheEntry uint16
	BPP        uint32
	Width      uint32
	Height     uint32
	BitsColor  []byte
	BitsMask   []byte
	ColorTable []byte
}

type IconOrder struct {
	WindowID   uint64
	FieldFlags uint32
	Info       IconInfo
}

type CachedIconOrder struct {
	WindowID   uint64
	FieldFlags uint32
	CacheID    uint8
	CacheEntry uint16
}

type LocalMoveSizeOrder struct {
	WindowID        uint64
	MoveSizeType    uint16
	IsMoveSizeStart bool
	PosX            int32
	PosY            int32
}

type MinMaxInfoOrder struct {
	WindowID       uint64
	MaxWidth       int32
	MaxHeight      int32
	MaxPosX        int32
	MaxPosY        int32
	MinTrackWidth  int32
	MinTrackHeight int32
	MaxTrackWidth  int32
	MaxTrackHeight int32
}

type ExecResultOrder struct {
	Flags      uint16
	ExecResult uint16
	RawResult  uint32
	ExeOrFile  string
}

type HandshakeOrder struct {
	BuildNumber uint32
}

type SystemParamOrder struct {
	Param uint32
	Body  []byte
}

type LanguageBarOrder struct {
	Status uint32
}

type GetAppIDResponseOrder struct {
	WindowID uint64
	AppID    string
}

type NotifyIconOrder struct {
	WindowID   uint64
	NotifyID   uint32
	FieldFlags uint32
	Deleted    bool
}

type MonitoredDesktopOrder struct {
	FieldFlags       uint32
	ActiveWindowID   uint64
	ZOrderWindowIDs  []uint64
	NumWindowIDs     uint32
	ArrangeIconic    bool
	IsDesktopHooked  bool
	IsDesktopRestart bool
}

type NonMonitoredDesktopOrder struct{}

func (WindowOrder) inbound()              {}
func (WindowDeleteOrder) inbound()        {}
func (IconOrder) inbound()                {}
func (CachedIconOrder) inbound()          {}
func (LocalMoveSizeOrder) inbound()       {}
func (MinMaxInfoOrder) inbound()          {}
func (ExecResultOrder) inbound()          {}
func (HandshakeOrder) inbound()           {}
func (SystemParamOrder) inbound()         {}
func (LanguageBarOrder) inbound()         {}
func (GetAppIDResponseOrder) inbound()    {}
func (NotifyIconOrder) inbound()          {}
func (MonitoredDesktopOrder) inbound()    {}
func (NonMonitoredDesktopOrder) inbound() {}

// Outbound orders sent to the remote peer.

type WindowMoveOrder struct {
	WindowID uint64
	Left     int32
	Top      int32
	Right    int32
	Bottom   int32
}

type ActivateOrder struct {
	WindowID uint64
	Enabled  bool
}

type SysCommandOrder struct {
	WindowID uint64
	Command  uint16
}

type ExecOrder struct {
	Program    string
	Args       string
	WorkingDir string
}

type ClientHandshakeOrder struct {
	BuildNumber uint32
}
