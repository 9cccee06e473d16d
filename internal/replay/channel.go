package replay

import (
	"log/slog"
	"sync"

	"github.com/ItsNotGoodName/x-railview/internal/rail"
)

// Channel records the orders a session would send to the server.
type Channel struct {
	mu   sync.Mutex
	sent []any
}

func NewChannel() *Channel {
	return &Channel{}
}

// Sent returns a copy of the recorded outbound orders in send order.
func (c *Channel) Sent() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.sent...)
}

func (c *Channel) record(order any) {
	c.mu.Lock()
	c.sent = append(c.sent, order)
	c.mu.Unlock()
}

func (c *Channel) ClientHandshake(order rail.ClientHandshakeOrder) error {
	slog.Info("Sent handshake", "build_number", order.BuildNumber)
	c.record(order)
	return nil
}

func (c *Channel) ClientExec(order rail.ExecOrder) error {
	slog.Info("Sent exec", "program", order.Program)
	c.record(order)
	return nil
}

func (c *Channel) ClientWindowMove(order rail.WindowMoveOrder) error {
	slog.Debug("Sent window move",
		"window_id", order.WindowID,
		"left", order.Left, "top", order.Top, "right", order.Right, "bottom", order.Bottom)
	c.record(order)
	return nil
}

func (c *Channel) ClientActivate(order rail.ActivateOrder) error {
	slog.Debug("Sent activate", "window_id", order.WindowID, "enabled", order.Enabled)
	c.record(order)
	return nil
}

func (c *Channel) ClientSystemCommand(order rail.SysCommandOrder) error {
	slog.Debug("Sent system command", "window_id", order.WindowID, "command", order.Command)
	c.record(order)
	return nil
}

func (c *Channel) ClientButtonRelease(x, y int32) error {
	slog.Debug("Sent button release", "x", x, "y", y)
	c.record([2]int32{x, y})
	return nil
}
