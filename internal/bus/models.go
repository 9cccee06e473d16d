package bus

import "github.com/ItsNotGoodName/x-railview/internal/rail"

// SessionUpdated is published after every order or local event the session
// processed, with a fresh read-only snapshot.
type SessionUpdated struct {
	Windows []rail.WindowSnapshot
}

// SessionEnded is published when the channel detaches.
type SessionEnded struct {
	Err error
}

// OrderRejected is published when an order fails and processing continues.
type OrderRejected struct {
	Order string
	Err   error
}
