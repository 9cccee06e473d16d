package rail

import "errors"

var (
	// ErrNotFound reports an order or accessor referencing a window that is
	// not in the registry.
	ErrNotFound = errors.New("rail: window not found")
	// ErrAlreadyExists reports a create for a windowId that is already live.
	ErrAlreadyExists = errors.New("rail: window already exists")
	// ErrCacheMiss reports icon cache coordinates outside the negotiated
	// grid. The 0xFF scratch sentinel never misses.
	ErrCacheMiss = errors.New("rail: icon cache miss")
	// ErrDecodeFailure reports a title or icon payload that could not be
	// decoded. The current order is aborted.
	ErrDecodeFailure = errors.New("rail: decode failure")
	// ErrBusy reports a move/resize start while another one is in progress.
	ErrBusy = errors.New("rail: move/resize already active")
	// ErrNotImplemented marks order kinds this client does not handle.
	ErrNotImplemented = errors.New("rail: order not implemented")
)
