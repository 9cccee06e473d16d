package rail

import "fmt"

// Registry owns every live Window, keyed by remote window id. Removal is
// the single destruction point: the release hook runs exactly once per
// window, on Remove or on Close.
type Registry struct {
	windows map[uint64]*Window
	release func(*Window)
}

func NewRegistry(release func(*Window)) *Registry {
	if release == nil {
		release = func(*Window) {}
	}
	return &Registry{
		windows: make(map[uint64]*Window),
		release: release,
	}
}

func (r *Registry) Create(id uint64) (*Window, error) {
	if _, ok := r.windows[id]; ok {
		return nil, fmt.Errorf("window %d: %w", id, ErrAlreadyExists)
	}

	w := &Window{ID: id}
	r.windows[id] = w
	return w, nil
}

func (r *Registry) Get(id uint64) (*Window, bool) {
	w, ok := r.windows[id]
	return w, ok
}

func (r *Registry) Remove(id uint64) bool {
	w, ok := r.windows[id]
	if !ok {
		return false
	}

	delete(r.windows, id)
	w.WindowRects = nil
	w.VisibilityRects = nil
	r.release(w)
	return true
}

func (r *Registry) Len() int {
	return len(r.windows)
}

// ForEach visits every window in no particular order. Returning false stops
// the iteration.
func (r *Registry) ForEach(fn func(w *Window) bool) {
	for _, w := range r.windows {
		if !fn(w) {
			return
		}
	}
}

// FindByHandle resolves a backend window handle to its Window.
func (r *Registry) FindByHandle(handle uint32) (*Window, bool) {
	for _, w := range r.windows {
		if w.Handle == handle {
			return w, true
		}
	}
	return nil, false
}

// Close tears down the registry, releasing every window.
func (r *Registry) Close() {
	for id := range r.windows {
		r.Remove(id)
	}
}
