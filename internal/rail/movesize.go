package rail

import "fmt"

// Coordinator tracks the single in-progress local move/resize. At most one
// window may be Active or Terminating at a time, across the whole session.
type Coordinator struct {
	surface Surface
	channel Channel

	state    LocalMoveState
	windowID uint64
}

func NewCoordinator(surface Surface, channel Channel) *Coordinator {
	return &Coordinator{surface: surface, channel: channel}
}

// Active reports the window currently holding the move/resize, if any.
func (c *Coordinator) Active() (uint64, bool) {
	return c.windowID, c.state != LocalMoveInactive
}

// Start begins a local move/resize at root coordinates (x, y). The two
// keyboard directions skip the backend's interactive loop: the backend has
// no pointerless drag, but state still advances so End produces the
// explicit geometry-sync order.
func (c *Coordinator) Start(w *Window, direction Direction, x, y int32) error {
	if c.state != LocalMoveInactive {
		return fmt.Errorf("window %d holds the move/resize: %w", c.windowID, ErrBusy)
	}

	c.state = LocalMoveActive
	c.windowID = w.ID
	w.LocalMove = LocalMove{State: LocalMoveActive, Direction: direction}

	if direction.Keyboard() {
		return nil
	}

	return c.surface.StartMoveSize(w, direction, x, y)
}

// End terminates the move/resize. Keyboard directions send an explicit
// geometry-sync order; pointer directions synthesize a button release at
// the current pointer position to end the backend's native loop. Either
// way the window's remote geometry is proactively overwritten with the
// final local geometry, so paint orders that arrive before the peer's own
// geometry-sync are not interpreted against stale dimensions.
func (c *Coordinator) End(w *Window) error {
	if c.state == LocalMoveInactive || c.windowID != w.ID {
		return nil
	}

	c.state = LocalMoveTerminating
	w.LocalMove.State = LocalMoveTerminating

	var err error
	if w.LocalMove.Direction.Keyboard() {
		width := w.Width + int32(w.ResizeMarginRight)
		height := w.Height + int32(w.ResizeMarginBottom)
		err = c.channel.ClientWindowMove(WindowMoveOrder{
			WindowID: w.ID,
			Left:     w.X - int32(w.ResizeMarginLeft),
			Top:      w.Y - int32(w.ResizeMarginTop),
			Right:    w.X + width, /* in the update the position is one past the window */
			Bottom:   w.Y + height,
		})
	} else {
		var x, y int32
		x, y, err = c.surface.QueryPointer(w)
		if err == nil {
			err = c.channel.ClientButtonRelease(x, y)
		}
	}

	w.WindowOffsetX = w.X
	w.WindowOffsetY = w.Y
	w.WindowWidth = uint32(w.Width)
	w.WindowHeight = uint32(w.Height)

	w.LocalMove.State = LocalMoveInactive
	c.state = LocalMoveInactive
	c.windowID = 0
	return err
}

// AdjustPosition reconciles a backend-reported geometry change with the
// peer. No-op while a move/resize is in flight, to avoid an order storm
// during interactive drags.
func (c *Coordinator) AdjustPosition(w *Window) error {
	if c.state != LocalMoveInactive || w.LocalMove.State != LocalMoveInactive {
		return nil
	}

	if w.X == w.WindowOffsetX && w.Y == w.WindowOffsetY &&
		w.Width == int32(w.WindowWidth) && w.Height == int32(w.WindowHeight) {
		return nil
	}

	return c.channel.ClientWindowMove(WindowMoveOrder{
		WindowID: w.ID,
		Left:     w.X - int32(w.ResizeMarginLeft),
		Top:      w.Y - int32(w.ResizeMarginTop),
		Right:    w.X + w.Width + int32(w.ResizeMarginRight),
		Bottom:   w.Y + w.Height + int32(w.ResizeMarginBottom),
	})
}
