package rail

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// ErrSessionAborted wraps remote-signaled failures that are fatal to the
// whole connection, unlike every other error in this package.
var ErrSessionAborted = errors.New("rail: session aborted")

type Options struct {
	Surface     Surface
	Channel     Channel
	IconDecoder IconDecoder

	// Icon cache shape, negotiated at session setup.
	NumIconCaches       uint32
	NumIconCacheEntries uint32

	BuildNumber uint32

	// Programs to request on handshake.
	Programs []ExecOrder
}

// Session owns the window registry, icon cache and move/resize coordinator
// for one channel attach. Everything runs inline on the caller's single
// processing goroutine; no locking inside.
type Session struct {
	registry *Registry
	reducer  *Reducer
	icons    *IconCache
	coord    *Coordinator

	surface     Surface
	channel     Channel
	decodeIcon  IconDecoder
	buildNumber uint32
	programs    []ExecOrder
}

func NewSession(opts Options) *Session {
	s := &Session{
		surface:     opts.Surface,
		channel:     opts.Channel,
		decodeIcon:  opts.IconDecoder,
		buildNumber: opts.BuildNumber,
		programs:    opts.Programs,
	}
	s.registry = NewRegistry(func(w *Window) {
		s.surface.DestroyWindow(w)
	})
	s.reducer = NewReducer(s.registry)
	s.icons = NewIconCache(opts.NumIconCaches, opts.NumIconCacheEntries)
	s.coord = NewCoordinator(opts.Surface, opts.Channel)
	return s
}

// Close tears the session down at channel detach, destroying every local
// window and dropping the icon cache.
func (s *Session) Close() {
	s.registry.Close()
	s.icons = nil
}

func (s *Session) Registry() *Registry       { return s.registry }
func (s *Session) Coordinator() *Coordinator { return s.coord }

// Dispatch routes one decoded order. Errors other than ErrSessionAborted
// are local-operation failures: the caller logs them and keeps processing.
func (s *Session) Dispatch(in Inbound) error {
	switch o := in.(type) {
	case WindowOrder:
		return s.windowCommon(o)
	case WindowDeleteOrder:
		return s.windowDelete(o)
	case IconOrder:
		return s.windowIcon(o)
	case CachedIconOrder:
		return s.windowCachedIcon(o)
	case LocalMoveSizeOrder:
		return s.localMoveSize(o)
	case MinMaxInfoOrder:
		return s.minMaxInfo(o)
	case ExecResultOrder:
		return s.execResult(o)
	case HandshakeOrder:
		return s.handshake(o)
	case NonMonitoredDesktopOrder:
		return s.surface.DisableSeamless()
	default:
		return fmt.Errorf("%T: %w", in, ErrNotImplemented)
	}
}

func (s *Session) windowCommon(o WindowOrder) error {
	effects, err := s.reducer.Apply(o)
	if err != nil {
		return err
	}
	s.applyEffects(effects)
	return nil
}

func (s *Session) windowDelete(o WindowDeleteOrder) error {
	effects, err := s.reducer.Delete(o)
	if err != nil {
		return err
	}
	s.applyEffects(effects)
	return nil
}

func (s *Session) windowIcon(o IconOrder) error {
	w, ok := s.registry.Get(o.WindowID)
	if !ok {
		// The peer may reference a window already torn down locally.
		return nil
	}

	icon, err := s.icons.Lookup(o.Info.CacheID, o.Info.CacheEntry)
	if err != nil {
		return err
	}

	if err := StoreIcon(icon, o.Info, s.decodeIcon); err != nil {
		return fmt.Errorf("window %d: %w", o.WindowID, err)
	}

	s.applyEffects([]Effect{EffectSetIcon{
		Window:  w,
		Icon:    icon,
		Replace: o.FieldFlags&StateNew != 0,
	}})
	return nil
}

func (s *Session) windowCachedIcon(o CachedIconOrder) error {
	w, ok := s.registry.Get(o.WindowID)
	if !ok {
		return nil
	}

	icon, err := s.icons.Lookup(o.CacheID, o.CacheEntry)
	if err != nil {
		return err
	}

	s.applyEffects([]Effect{EffectSetIcon{
		Window:  w,
		Icon:    icon,
		Replace: o.FieldFlags&StateNew != 0,
	}})
	return nil
}

func (s *Session) localMoveSize(o LocalMoveSizeOrder) error {
	w, ok := s.registry.Get(o.WindowID)
	if !ok {
		return fmt.Errorf("window %d: %w", o.WindowID, ErrNotFound)
	}

	direction, ok := DirectionFromMoveSizeType(o.MoveSizeType)
	if !ok {
		return fmt.Errorf("move/size type %d: %w", o.MoveSizeType, ErrNotImplemented)
	}

	x, y := o.PosX, o.PosY
	if direction == DirMove {
		// Move positions arrive window-local; the backend drag wants root.
		var err error
		x, y, err = s.surface.TranslateToRoot(w, x, y)
		if err != nil {
			return err
		}
	}

	if o.IsMoveSizeStart {
		return s.coord.Start(w, direction, x, y)
	}
	return s.coord.End(w)
}

func (s *Session) minMaxInfo(o MinMaxInfoOrder) error {
	w, ok := s.registry.Get(o.WindowID)
	if !ok {
		return nil
	}
	return s.surface.SetMinMaxInfo(w, o)
}

func (s *Session) execResult(o ExecResultOrder) error {
	if o.ExecResult != ExecOK {
		return fmt.Errorf("exec %q: %s (raw 0x%X): %w",
			o.ExeOrFile, ExecResultName(o.ExecResult), o.RawResult, ErrSessionAborted)
	}
	return s.surface.EnableSeamless()
}

func (s *Session) handshake(o HandshakeOrder) error {
	slog.Debug("Server handshake", "build", o.BuildNumber)

	if err := s.channel.ClientHandshake(ClientHandshakeOrder{BuildNumber: s.buildNumber}); err != nil {
		return err
	}
	for _, program := range s.programs {
		if err := s.channel.ClientExec(program); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) applyEffects(effects []Effect) {
	for _, e := range effects {
		if err := s.applyEffect(e); err != nil {
			slog.Error("Failed to apply effect", "effect", fmt.Sprintf("%T", e), "error", err)
		}
	}
}

func (s *Session) applyEffect(e Effect) error {
	switch e := e.(type) {
	case EffectCreate:
		return s.surface.CreateWindow(e.Window)
	case EffectDestroy:
		if !s.registry.Remove(e.WindowID) {
			return fmt.Errorf("window %d: %w", e.WindowID, ErrNotFound)
		}
		return nil
	case EffectMove:
		return s.surface.MoveWindow(e.Window, e.X, e.Y, e.Width, e.Height)
	case EffectRedraw:
		return s.surface.UpdateArea(e.Window, e.X, e.Y, e.Width, e.Height)
	case EffectVisibilityRects:
		return s.surface.SetVisibilityRects(e.Window, e.OffsetX, e.OffsetY, e.Rects)
	case EffectMaximize:
		return s.surface.Maximize(e.Window)
	case EffectShow:
		return s.surface.ShowWindow(e.Window, e.State)
	case EffectTitle:
		return s.surface.SetTitle(e.Window, e.Title)
	case EffectStyle:
		return s.surface.SetStyle(e.Window, e.Style, e.ExtendedStyle)
	case EffectSetIcon:
		return s.surface.SetIcon(e.Window, e.Icon, e.Replace)
	default:
		return fmt.Errorf("%T: %w", e, ErrNotImplemented)
	}
}

// Paint computes per-window redraw rectangles for a global dirty rectangle
// and blits them.
func (s *Session) Paint(dirty Rect) error {
	for _, p := range ComputeDirty(dirty, s.registry) {
		r := p.Rect
		if err := s.surface.UpdateArea(p.Window, r.Left, r.Top, r.Width(), r.Height()); err != nil {
			return err
		}
	}
	return nil
}

// LocalConfigure records a backend-reported geometry change and reconciles
// it with the peer.
func (s *Session) LocalConfigure(handle uint32, x, y, width, height int32) error {
	w, ok := s.registry.FindByHandle(handle)
	if !ok {
		return fmt.Errorf("handle %d: %w", handle, ErrNotFound)
	}

	w.X, w.Y = x, y
	w.Width, w.Height = width, height
	return s.coord.AdjustPosition(w)
}

// LocalExpose repaints the damaged area of one local window.
func (s *Session) LocalExpose(handle uint32, x, y, width, height int32) error {
	w, ok := s.registry.FindByHandle(handle)
	if !ok {
		return fmt.Errorf("handle %d: %w", handle, ErrNotFound)
	}
	return s.surface.UpdateArea(w, x, y, width, height)
}

// LocalDestroy drops a window whose backend half disappeared underneath us.
func (s *Session) LocalDestroy(handle uint32) {
	if w, ok := s.registry.FindByHandle(handle); ok {
		s.registry.Remove(w.ID)
	}
}

// SendActivate reports local focus to the peer.
func (s *Session) SendActivate(handle uint32, enabled bool) error {
	w, ok := s.registry.FindByHandle(handle)
	if !ok {
		return nil
	}

	if enabled {
		if err := s.surface.SetStyle(w, w.Style, w.ExtendedStyle); err != nil {
			return err
		}
	}

	if w.ID > math.MaxUint32 {
		return nil
	}
	return s.channel.ClientActivate(ActivateOrder{WindowID: w.ID, Enabled: enabled})
}

// SendSystemCommand forwards a local minimize/close request to the peer.
func (s *Session) SendSystemCommand(handle uint32, command uint16) error {
	w, ok := s.registry.FindByHandle(handle)
	if !ok {
		return fmt.Errorf("handle %d: %w", handle, ErrNotFound)
	}
	if w.ID > math.MaxUint32 {
		return fmt.Errorf("window %d out of range for system command", w.ID)
	}
	return s.channel.ClientSystemCommand(SysCommandOrder{WindowID: w.ID, Command: command})
}

// WindowSnapshot is a read-only copy of one window for observers outside
// the processing goroutine.
type WindowSnapshot struct {
	ID            uint64    `json:"id"`
	OwnerWindowID uint64    `json:"owner_window_id,omitempty"`
	Title         string    `json:"title"`
	ShowState     ShowState `json:"show_state"`
	LocalX        int32     `json:"local_x"`
	LocalY        int32     `json:"local_y"`
	LocalWidth    int32     `json:"local_width"`
	LocalHeight   int32     `json:"local_height"`
	RemoteX       int32     `json:"remote_x"`
	RemoteY       int32     `json:"remote_y"`
	RemoteWidth   uint32    `json:"remote_width"`
	RemoteHeight  uint32    `json:"remote_height"`
	Moving        bool      `json:"moving"`
}

func (s *Session) Snapshot() []WindowSnapshot {
	snapshots := make([]WindowSnapshot, 0, s.registry.Len())
	s.registry.ForEach(func(w *Window) bool {
		snapshots = append(snapshots, WindowSnapshot{
			ID:            w.ID,
			OwnerWindowID: w.OwnerWindowID,
			Title:         w.Title,
			ShowState:     w.ShowState,
			LocalX:        w.X,
			LocalY:        w.Y,
			LocalWidth:    w.Width,
			LocalHeight:   w.Height,
			RemoteX:       w.WindowOffsetX,
			RemoteY:       w.WindowOffsetY,
			RemoteWidth:   w.WindowWidth,
			RemoteHeight:  w.WindowHeight,
			Moving:        w.LocalMove.State != LocalMoveInactive,
		})
		return true
	})
	return snapshots
}
