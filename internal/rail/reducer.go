package rail

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// DefaultTitle is used when a create order carries no title field. Distinct
// from a present-but-empty title, which yields "".
const DefaultTitle = "RdpRailWindow"

var titleEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeTitle converts a raw UTF-16LE title payload. A zero-length payload
// is an empty title, not an error.
func DecodeTitle(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if len(b)%2 != 0 {
		return "", fmt.Errorf("title payload length %d: %w", len(b), ErrDecodeFailure)
	}

	s, err := titleEncoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("title payload: %v: %w", err, ErrDecodeFailure)
	}
	// The decoder substitutes U+FFFD for unpaired surrogates instead of
	// failing.
	if strings.ContainsRune(string(s), '�') {
		return "", fmt.Errorf("title payload not valid UTF-16: %w", ErrDecodeFailure)
	}
	return string(s), nil
}

// Ordered field copy table: one entry per field bit, applied verbatim with
// no clamping. Wholesale replacement for the two rect lists.
var fieldOps = []struct {
	flag uint32
	op   func(w *Window, o *WindowOrder) error
}{
	{FieldWindowOffset, func(w *Window, o *WindowOrder) error {
		w.WindowOffsetX, w.WindowOffsetY = o.WindowOffsetX, o.WindowOffsetY
		return nil
	}},
	{FieldWindowSize, func(w *Window, o *WindowOrder) error {
		w.WindowWidth, w.WindowHeight = o.WindowWidth, o.WindowHeight
		return nil
	}},
	{FieldResizeMarginX, func(w *Window, o *WindowOrder) error {
		w.ResizeMarginLeft, w.ResizeMarginRight = o.ResizeMarginLeft, o.ResizeMarginRight
		return nil
	}},
	{FieldResizeMarginY, func(w *Window, o *WindowOrder) error {
		w.ResizeMarginTop, w.ResizeMarginBottom = o.ResizeMarginTop, o.ResizeMarginBottom
		return nil
	}},
	{FieldOwner, func(w *Window, o *WindowOrder) error {
		w.OwnerWindowID = o.OwnerWindowID
		return nil
	}},
	{FieldStyle, func(w *Window, o *WindowOrder) error {
		w.Style, w.ExtendedStyle = o.Style, o.ExtendedStyle
		return nil
	}},
	{FieldShow, func(w *Window, o *WindowOrder) error {
		w.ShowState = o.ShowState
		return nil
	}},
	{FieldTitle, func(w *Window, o *WindowOrder) error {
		title, err := DecodeTitle(o.TitleInfo)
		if err != nil {
			return err
		}
		w.Title = title
		return nil
	}},
	{FieldClientAreaOffset, func(w *Window, o *WindowOrder) error {
		w.ClientOffsetX, w.ClientOffsetY = o.ClientOffsetX, o.ClientOffsetY
		return nil
	}},
	{FieldClientAreaSize, func(w *Window, o *WindowOrder) error {
		w.ClientAreaWidth, w.ClientAreaHeight = o.ClientAreaWidth, o.ClientAreaHeight
		return nil
	}},
	{FieldClientDelta, func(w *Window, o *WindowOrder) error {
		w.WindowClientDeltaX, w.WindowClientDeltaY = o.WindowClientDeltaX, o.WindowClientDeltaY
		return nil
	}},
	{FieldWindowRects, func(w *Window, o *WindowOrder) error {
		w.WindowRects = append([]Rect(nil), o.WindowRects...)
		return nil
	}},
	{FieldVisibleOffset, func(w *Window, o *WindowOrder) error {
		w.VisibleOffsetX, w.VisibleOffsetY = o.VisibleOffsetX, o.VisibleOffsetY
		return nil
	}},
	{FieldVisibility, func(w *Window, o *WindowOrder) error {
		w.VisibilityRects = append([]Rect(nil), o.VisibilityRects...)
		return nil
	}},
}

// Reducer applies window orders against the registry, producing the list of
// surface effects the caller must apply in order.
type Reducer struct {
	registry *Registry
}

func NewReducer(registry *Registry) *Reducer {
	return &Reducer{registry: registry}
}

func (r *Reducer) Apply(o WindowOrder) ([]Effect, error) {
	var effects []Effect

	w, ok := r.registry.Get(o.WindowID)

	if o.FieldFlags&StateNew != 0 {
		if !ok {
			var err error
			w, err = r.registry.Create(o.WindowID)
			if err != nil {
				return nil, err
			}
			w.SurfaceID = 0xFFFFFFFF
			// Seed local geometry so the first compare is against the
			// position the window was created at.
			w.X, w.Y = o.WindowOffsetX, o.WindowOffsetY
			w.Width, w.Height = int32(o.WindowWidth), int32(o.WindowHeight)
		}

		w.Style, w.ExtendedStyle = o.Style, o.ExtendedStyle

		// Ensure every window gets a title.
		if o.FieldFlags&FieldTitle != 0 {
			title, err := DecodeTitle(o.TitleInfo)
			if err != nil {
				return nil, fmt.Errorf("window %d: %w", o.WindowID, err)
			}
			w.Title = title
		} else {
			w.Title = DefaultTitle
		}

		effects = append(effects, EffectCreate{Window: w})
	}

	if w == nil {
		return nil, fmt.Errorf("window %d: %w", o.WindowID, ErrNotFound)
	}

	geometryChanged := o.FieldFlags&geometryFields != 0

	for _, f := range fieldOps {
		if o.FieldFlags&f.flag == 0 {
			continue
		}
		if err := f.op(w, &o); err != nil {
			return nil, fmt.Errorf("window %d: %w", o.WindowID, err)
		}
	}

	if o.FieldFlags&FieldShow != 0 {
		effects = append(effects, EffectShow{Window: w, State: w.ShowState})
	}

	if o.FieldFlags&FieldTitle != 0 {
		effects = append(effects, EffectTitle{Window: w, Title: w.Title})
	}

	if geometryChanged {
		// Normalize visibility rects into window-local space.
		offsetX := w.VisibleOffsetX - (w.ClientOffsetX - w.WindowClientDeltaX)
		offsetY := w.VisibleOffsetY - (w.ClientOffsetY - w.WindowClientDeltaY)

		// The peer sends degenerate geometry while a window is minimized;
		// applying it locally would clobber the restored geometry. State
		// keeps the raw values, the surface is left alone.
		if w.ShowState != ShowMinimized {
			if w.X == w.WindowOffsetX && w.Y == w.WindowOffsetY &&
				w.Width == int32(w.WindowWidth) && w.Height == int32(w.WindowHeight) {
				effects = append(effects, EffectRedraw{
					Window: w,
					Width:  int32(w.WindowWidth),
					Height: int32(w.WindowHeight),
				})
			} else {
				effects = append(effects, EffectMove{
					Window: w,
					X:      w.WindowOffsetX,
					Y:      w.WindowOffsetY,
					Width:  int32(w.WindowWidth),
					Height: int32(w.WindowHeight),
				})
			}

			effects = append(effects, EffectVisibilityRects{
				Window:  w,
				OffsetX: offsetX,
				OffsetY: offsetY,
				Rects:   w.VisibilityRects,
			})
		}

		if w.ShowState == ShowMaximized {
			effects = append(effects, EffectMaximize{Window: w})
		}
	}

	if o.FieldFlags&(StateNew|FieldStyle) != 0 {
		effects = append(effects, EffectStyle{Window: w, Style: w.Style, ExtendedStyle: w.ExtendedStyle})
	}

	return effects, nil
}

func (r *Reducer) Delete(o WindowDeleteOrder) ([]Effect, error) {
	if _, ok := r.registry.Get(o.WindowID); !ok {
		return nil, fmt.Errorf("window %d: %w", o.WindowID, ErrNotFound)
	}
	return []Effect{EffectDestroy{WindowID: o.WindowID}}, nil
}
