package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-railview/internal/bus"
	"github.com/ItsNotGoodName/x-railview/internal/rail"
	"github.com/ItsNotGoodName/x-railview/internal/xwm"
	"github.com/thejerf/suture/v4"
)

// SessionLoop owns the session and is the only goroutine that touches it.
// Orders and X events arrive on channels and are handled inline.
type SessionLoop struct {
	session  *rail.Session
	inboundC <-chan rail.Inbound
	msgC     <-chan xwm.Msg
}

func NewSessionLoop(session *rail.Session, inboundC <-chan rail.Inbound, msgC <-chan xwm.Msg) SessionLoop {
	return SessionLoop{
		session:  session,
		inboundC: inboundC,
		msgC:     msgC,
	}
}

func (SessionLoop) String() string {
	return "app.SessionLoop"
}

func (l SessionLoop) Serve(ctx context.Context) error {
	defer l.session.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-l.inboundC:
			if err := l.handleInbound(in); err != nil {
				bus.Publish(bus.SessionEnded{Err: err})
				return errors.Join(suture.ErrTerminateSupervisorTree, err)
			}
		case msg := <-l.msgC:
			l.handleMsg(msg)
		}

		bus.Publish(bus.SessionUpdated{Windows: l.session.Snapshot()})
	}
}

// handleInbound returns an error only when the session cannot continue.
func (l SessionLoop) handleInbound(in rail.Inbound) error {
	err := l.session.Dispatch(in)
	if err == nil {
		return nil
	}
	if errors.Is(err, rail.ErrSessionAborted) {
		return err
	}
	if errors.Is(err, rail.ErrNotImplemented) {
		slog.Warn("Ignored order", "order", fmt.Sprintf("%T", in))
		return nil
	}

	slog.Error("Failed to process order", "order", fmt.Sprintf("%T", in), "error", err)
	bus.Publish(bus.OrderRejected{Order: fmt.Sprintf("%T", in), Err: err})
	return nil
}

func (l SessionLoop) handleMsg(msg xwm.Msg) {
	switch msg := msg.(type) {
	case xwm.ConfigureMsg:
		if err := l.session.LocalConfigure(msg.Handle, msg.X, msg.Y, msg.Width, msg.Height); err != nil {
			slog.Debug("Configure for unknown window", "handle", msg.Handle, "error", err)
		}
	case xwm.ExposeMsg:
		if err := l.session.LocalExpose(msg.Handle, msg.X, msg.Y, msg.Width, msg.Height); err != nil {
			slog.Debug("Expose for unknown window", "handle", msg.Handle, "error", err)
		}
	case xwm.FocusMsg:
		if err := l.session.SendActivate(msg.Handle, msg.In); err != nil {
			slog.Error("Failed to send activate", "handle", msg.Handle, "error", err)
		}
	case xwm.CloseRequestMsg:
		if err := l.session.SendSystemCommand(msg.Handle, xwm.SysCommandClose); err != nil {
			slog.Error("Failed to send close", "handle", msg.Handle, "error", err)
		}
	case xwm.DestroyMsg:
		l.session.LocalDestroy(msg.Handle)
	default:
		slog.Warn("Unknown window message", "msg", fmt.Sprintf("%T", msg))
	}
}
