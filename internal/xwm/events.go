package xwm

import (
	"context"
	"encoding/binary"
	"log/slog"

	"github.com/jezek/xgb/xproto"
)

// Msg is a translated X event. Msgs are marshaled onto the session loop so
// the core only ever runs on one goroutine.
type Msg interface{}

type ConfigureMsg struct {
	Handle uint32
	X      int32
	Y      int32
	Width  int32
	Height int32
}

type ExposeMsg struct {
	Handle uint32
	X      int32
	Y      int32
	Width  int32
	Height int32
}

type FocusMsg struct {
	Handle uint32
	In     bool
}

type CloseRequestMsg struct {
	Handle uint32
}

type DestroyMsg struct {
	Handle uint32
}

// ReceiveEvents converts X events to Msgs until the connection or context
// dies.
func (s *Surface) ReceiveEvents(ctx context.Context, msgC chan<- Msg) error {
	for {
		ev, err := s.conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("X connection closed")
			return nil
		}
		if err != nil {
			slog.Error("X event error", "error", err)
			continue
		}

		var msg Msg
		switch ev := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			msg = ConfigureMsg{
				Handle: uint32(ev.Window),
				X:      int32(ev.X),
				Y:      int32(ev.Y),
				Width:  int32(ev.Width),
				Height: int32(ev.Height),
			}
		case xproto.ExposeEvent:
			msg = ExposeMsg{
				Handle: uint32(ev.Window),
				X:      int32(ev.X),
				Y:      int32(ev.Y),
				Width:  int32(ev.Width),
				Height: int32(ev.Height),
			}
		case xproto.FocusInEvent:
			msg = FocusMsg{Handle: uint32(ev.Event), In: true}
		case xproto.FocusOutEvent:
			msg = FocusMsg{Handle: uint32(ev.Event), In: false}
		case xproto.ClientMessageEvent:
			if ev.Type == s.atoms.wmProtocols && ev.Format == 32 {
				data := ev.Data.Bytes()
				if len(data) >= 4 && xproto.Atom(binary.LittleEndian.Uint32(data)) == s.atoms.wmDeleteWindow {
					msg = CloseRequestMsg{Handle: uint32(ev.Window)}
				}
			}
		case xproto.DestroyNotifyEvent:
			msg = DestroyMsg{Handle: uint32(ev.Window)}
		}

		if msg == nil {
			continue
		}

		select {
		case msgC <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
