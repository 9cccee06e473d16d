package rail

import (
	"errors"
	"strings"
	"testing"
)

func newTestSession() (*Session, *fakeSurface, *fakeChannel) {
	surface := &fakeSurface{}
	channel := &fakeChannel{}
	session := NewSession(Options{
		Surface:             surface,
		Channel:             channel,
		IconDecoder:         func(info IconInfo) ([]uint32, error) { return make([]uint32, info.Width*info.Height), nil },
		NumIconCaches:       3,
		NumIconCacheEntries: 12,
		BuildNumber:         7601,
		Programs: []ExecOrder{
			{Program: "notepad.exe"},
			{Program: "calc.exe", WorkingDir: `C:\`},
		},
	})
	return session, surface, channel
}

func TestSessionHandshake(t *testing.T) {
	s, _, channel := newTestSession()

	if err := s.Dispatch(HandshakeOrder{BuildNumber: 10240}); err != nil {
		t.Fatal(err)
	}

	if len(channel.handshakes) != 1 || channel.handshakes[0].BuildNumber != 7601 {
		t.Errorf("handshakes = %v", channel.handshakes)
	}
	if len(channel.execs) != 2 || channel.execs[0].Program != "notepad.exe" {
		t.Errorf("execs = %v", channel.execs)
	}
}

func TestSessionExecResult(t *testing.T) {
	s, surface, _ := newTestSession()

	err := s.Dispatch(ExecResultOrder{ExecResult: ExecFileNotFound, RawResult: 2, ExeOrFile: "missing.exe"})
	if !errors.Is(err, ErrSessionAborted) {
		t.Fatalf("err = %v, want ErrSessionAborted", err)
	}
	if !strings.Contains(err.Error(), "RAIL_EXEC_E_FILE_NOT_FOUND") {
		t.Errorf("err = %v, want the result name", err)
	}

	if err := s.Dispatch(ExecResultOrder{ExecResult: ExecOK}); err != nil {
		t.Fatal(err)
	}
	if len(surface.calls) != 1 || surface.calls[0] != "seamless on" {
		t.Errorf("calls = %v", surface.calls)
	}
}

func TestSessionWindowLifecycle(t *testing.T) {
	s, surface, _ := newTestSession()

	if err := s.Dispatch(createOrder(1)); err != nil {
		t.Fatal(err)
	}
	if s.Registry().Len() != 1 {
		t.Fatal("window not registered")
	}
	if len(surface.calls) == 0 || !strings.HasPrefix(surface.calls[0], "create") {
		t.Fatalf("calls = %v", surface.calls)
	}

	if err := s.Dispatch(WindowDeleteOrder{WindowID: 1}); err != nil {
		t.Fatal(err)
	}
	if s.Registry().Len() != 0 {
		t.Error("window survived delete")
	}
	last := surface.calls[len(surface.calls)-1]
	if last != "destroy 1" {
		t.Errorf("last call = %q", last)
	}
}

func TestSessionIconUnknownWindow(t *testing.T) {
	s, surface, _ := newTestSession()

	// Window already gone locally; the order is dropped, not an error.
	if err := s.Dispatch(IconOrder{WindowID: 42, Info: IconInfo{CacheID: 0, CacheEntry: 0, Width: 16, Height: 16}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(CachedIconOrder{WindowID: 42, CacheID: 0, CacheEntry: 0}); err != nil {
		t.Fatal(err)
	}
	if len(surface.calls) != 0 {
		t.Errorf("calls = %v", surface.calls)
	}
}

func TestSessionIconFlow(t *testing.T) {
	s, surface, _ := newTestSession()

	if err := s.Dispatch(createOrder(1)); err != nil {
		t.Fatal(err)
	}
	surface.calls = nil

	if err := s.Dispatch(IconOrder{
		WindowID:   1,
		FieldFlags: StateNew,
		Info:       IconInfo{CacheID: 1, CacheEntry: 4, Width: 16, Height: 16},
	}); err != nil {
		t.Fatal(err)
	}
	if len(surface.calls) != 1 || surface.calls[0] != "icon 1 16x16 replace=true" {
		t.Fatalf("calls = %v", surface.calls)
	}

	// The cached entry is now servable without pixel data.
	surface.calls = nil
	if err := s.Dispatch(CachedIconOrder{WindowID: 1, CacheID: 1, CacheEntry: 4}); err != nil {
		t.Fatal(err)
	}
	if len(surface.calls) != 1 || surface.calls[0] != "icon 1 16x16 replace=false" {
		t.Fatalf("calls = %v", surface.calls)
	}

	// Out-of-range coordinates miss instead of falling back anywhere.
	if err := s.Dispatch(CachedIconOrder{WindowID: 1, CacheID: 3, CacheEntry: 0}); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("err = %v, want ErrCacheMiss", err)
	}
}

func TestSessionLocalMoveSize(t *testing.T) {
	s, surface, channel := newTestSession()

	if err := s.Dispatch(createOrder(1)); err != nil {
		t.Fatal(err)
	}

	// Move start arrives window-local and must be translated to root.
	if err := s.Dispatch(LocalMoveSizeOrder{
		WindowID:        1,
		MoveSizeType:    WMSZMove,
		IsMoveSizeStart: true,
		PosX:            5,
		PosY:            6,
	}); err != nil {
		t.Fatal(err)
	}
	w, _ := s.Registry().Get(1)
	want := "startmovesize 1 " // root = local origin + offset
	var found bool
	for _, call := range surface.calls {
		if strings.HasPrefix(call, want) {
			found = true
			if !strings.HasSuffix(call, "15,26") {
				t.Errorf("call = %q, want root coordinates %d,%d", call, w.X+5, w.Y+6)
			}
		}
	}
	if !found {
		t.Fatalf("calls = %v", surface.calls)
	}

	surface.pointerX, surface.pointerY = 77, 88
	if err := s.Dispatch(LocalMoveSizeOrder{WindowID: 1, MoveSizeType: WMSZMove}); err != nil {
		t.Fatal(err)
	}
	if len(channel.releases) != 1 || channel.releases[0] != [2]int32{77, 88} {
		t.Errorf("releases = %v", channel.releases)
	}

	if err := s.Dispatch(LocalMoveSizeOrder{WindowID: 1, MoveSizeType: 0xFF, IsMoveSizeStart: true}); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("bad type: err = %v, want ErrNotImplemented", err)
	}
}

func TestSessionNotImplemented(t *testing.T) {
	s, _, _ := newTestSession()

	for _, in := range []Inbound{
		SystemParamOrder{},
		LanguageBarOrder{},
		GetAppIDResponseOrder{},
		NotifyIconOrder{},
		MonitoredDesktopOrder{},
	} {
		if err := s.Dispatch(in); !errors.Is(err, ErrNotImplemented) {
			t.Errorf("%T: err = %v, want ErrNotImplemented", in, err)
		}
	}
}

func TestSessionNonMonitoredDesktop(t *testing.T) {
	s, surface, _ := newTestSession()

	if err := s.Dispatch(NonMonitoredDesktopOrder{}); err != nil {
		t.Fatal(err)
	}
	if len(surface.calls) != 1 || surface.calls[0] != "seamless off" {
		t.Errorf("calls = %v", surface.calls)
	}
}

func TestSessionLocalConfigure(t *testing.T) {
	s, _, channel := newTestSession()

	if err := s.Dispatch(createOrder(1)); err != nil {
		t.Fatal(err)
	}
	w, _ := s.Registry().Get(1)
	w.Handle = 0xAB

	if err := s.LocalConfigure(0xAB, 111, 222, 300, 200); err != nil {
		t.Fatal(err)
	}
	if w.X != 111 || w.Y != 222 {
		t.Errorf("local = %d,%d", w.X, w.Y)
	}
	if len(channel.moves) != 1 {
		t.Fatalf("moves = %v", channel.moves)
	}

	if err := s.LocalConfigure(0xCD, 0, 0, 0, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown handle: err = %v, want ErrNotFound", err)
	}
}

func TestSessionSendActivate(t *testing.T) {
	s, _, channel := newTestSession()

	if err := s.Dispatch(createOrder(1)); err != nil {
		t.Fatal(err)
	}
	w, _ := s.Registry().Get(1)
	w.Handle = 0xAB

	if err := s.SendActivate(0xAB, true); err != nil {
		t.Fatal(err)
	}
	if len(channel.activates) != 1 || !channel.activates[0].Enabled {
		t.Errorf("activates = %v", channel.activates)
	}

	// Unknown handles are silently ignored; focus moves to non-remote
	// windows all the time.
	if err := s.SendActivate(0xCD, true); err != nil {
		t.Fatal(err)
	}
	if len(channel.activates) != 1 {
		t.Errorf("activates = %v", channel.activates)
	}
}

func TestSessionSnapshot(t *testing.T) {
	s, _, _ := newTestSession()

	o := createOrder(7)
	o.FieldFlags |= FieldTitle
	o.TitleInfo = encodeTitle("Editor")
	if err := s.Dispatch(o); err != nil {
		t.Fatal(err)
	}

	snapshots := s.Snapshot()
	if len(snapshots) != 1 {
		t.Fatalf("snapshots = %v", snapshots)
	}
	snap := snapshots[0]
	if snap.ID != 7 || snap.Title != "Editor" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.RemoteX != 10 || snap.RemoteWidth != 300 {
		t.Errorf("snapshot geometry = %+v", snap)
	}
}

func TestSessionClose(t *testing.T) {
	s, surface, _ := newTestSession()

	if err := s.Dispatch(createOrder(1)); err != nil {
		t.Fatal(err)
	}
	if err := s.Dispatch(createOrder(2)); err != nil {
		t.Fatal(err)
	}

	s.Close()
	if s.Registry().Len() != 0 {
		t.Error("registry not empty after close")
	}

	destroys := 0
	for _, call := range surface.calls {
		if strings.HasPrefix(call, "destroy") {
			destroys++
		}
	}
	if destroys != 2 {
		t.Errorf("destroys = %d, want 2", destroys)
	}
}
