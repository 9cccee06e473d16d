// Package replay feeds a session from a YAML order trace and records the
// orders the session sends back. It stands in for the real transport during
// development and conformance testing.
package replay

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ItsNotGoodName/x-railview/internal/rail"
	"golang.org/x/text/encoding/unicode"
	"gopkg.in/yaml.v3"
)

type Trace struct {
	Steps []Step `yaml:"steps"`
}

type Step struct {
	// Delay before the step, e.g. "250ms".
	Delay string `yaml:"delay"`

	Handshake  *HandshakeStep  `yaml:"handshake"`
	Window     *WindowStep     `yaml:"window"`
	Delete     *uint64         `yaml:"delete"`
	Icon       *IconStep       `yaml:"icon"`
	CachedIcon *CachedIconStep `yaml:"cached_icon"`
	MoveSize   *MoveSizeStep   `yaml:"move_size"`
	ExecResult *ExecResultStep `yaml:"exec_result"`
}

type HandshakeStep struct {
	BuildNumber uint32 `yaml:"build_number"`
}

// WindowStep: absent fields stay absent from the field mask.
type WindowStep struct {
	ID  uint64 `yaml:"id"`
	New bool   `yaml:"new"`

	Offset        *[2]int32   `yaml:"offset"`
	Size          *[2]uint32  `yaml:"size"`
	Title         *string     `yaml:"title"`
	Show          *string     `yaml:"show"`
	Owner         *uint64     `yaml:"owner"`
	Style         *StyleStep  `yaml:"style"`
	ClientOffset  *[2]int32   `yaml:"client_offset"`
	ClientSize    *[2]uint32  `yaml:"client_size"`
	ClientDelta   *[2]int32   `yaml:"client_delta"`
	VisibleOffset *[2]int32   `yaml:"visible_offset"`
	Visibility    []rail.Rect `yaml:"visibility"`
	WindowRects   []rail.Rect `yaml:"window_rects"`
	MarginX       *[2]uint32  `yaml:"margin_x"`
	MarginY       *[2]uint32  `yaml:"margin_y"`
}

type StyleStep struct {
	Style    uint32 `yaml:"style"`
	Extended uint32 `yaml:"extended"`
}

type IconStep struct {
	WindowID   uint64 `yaml:"window_id"`
	New        bool   `yaml:"new"`
	CacheID    uint8  `yaml:"cache_id"`
	CacheEntry uint16 `yaml:"cache_entry"`
	BPP        uint32 `yaml:"bpp"`
	Width      uint32 `yaml:"width"`
	Height     uint32 `yaml:"height"`
	Color      []byte `yaml:"color"`
	Mask       []byte `yaml:"mask"`
	Palette    []byte `yaml:"palette"`
}

type CachedIconStep struct {
	WindowID   uint64 `yaml:"window_id"`
	New        bool   `yaml:"new"`
	CacheID    uint8  `yaml:"cache_id"`
	CacheEntry uint16 `yaml:"cache_entry"`
}

type MoveSizeStep struct {
	WindowID uint64 `yaml:"window_id"`
	Type     uint16 `yaml:"type"`
	Start    bool   `yaml:"start"`
	X        int32  `yaml:"x"`
	Y        int32  `yaml:"y"`
}

type ExecResultStep struct {
	Result    uint16 `yaml:"result"`
	Raw       uint32 `yaml:"raw"`
	ExeOrFile string `yaml:"exe_or_file"`
}

var showStates = map[string]rail.ShowState{
	"hidden":    rail.ShowHidden,
	"minimized": rail.ShowMinimized,
	"maximized": rail.ShowMaximized,
	"normal":    rail.ShowNormal,
}

func Load(filePath string) (Trace, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Trace{}, err
	}
	defer file.Close()

	var trace Trace
	if err := yaml.NewDecoder(file).Decode(&trace); err != nil {
		return Trace{}, fmt.Errorf("trace %s: %w", filePath, err)
	}
	return trace, nil
}

// Order converts one step to its decoded order.
func (s Step) Order() (rail.Inbound, error) {
	switch {
	case s.Handshake != nil:
		return rail.HandshakeOrder{BuildNumber: s.Handshake.BuildNumber}, nil
	case s.Window != nil:
		return s.Window.order()
	case s.Delete != nil:
		return rail.WindowDeleteOrder{WindowID: *s.Delete}, nil
	case s.Icon != nil:
		return s.Icon.order(), nil
	case s.CachedIcon != nil:
		o := rail.CachedIconOrder{
			WindowID:   s.CachedIcon.WindowID,
			CacheID:    s.CachedIcon.CacheID,
			CacheEntry: s.CachedIcon.CacheEntry,
		}
		if s.CachedIcon.New {
			o.FieldFlags |= rail.StateNew
		}
		return o, nil
	case s.MoveSize != nil:
		return rail.LocalMoveSizeOrder{
			WindowID:        s.MoveSize.WindowID,
			MoveSizeType:    s.MoveSize.Type,
			IsMoveSizeStart: s.MoveSize.Start,
			PosX:            s.MoveSize.X,
			PosY:            s.MoveSize.Y,
		}, nil
	case s.ExecResult != nil:
		return rail.ExecResultOrder{
			ExecResult: s.ExecResult.Result,
			RawResult:  s.ExecResult.Raw,
			ExeOrFile:  s.ExecResult.ExeOrFile,
		}, nil
	default:
		return nil, fmt.Errorf("replay: empty step")
	}
}

func (w *WindowStep) order() (rail.Inbound, error) {
	o := rail.WindowOrder{WindowID: w.ID}
	if w.New {
		o.FieldFlags |= rail.StateNew
	}
	if w.Offset != nil {
		o.FieldFlags |= rail.FieldWindowOffset
		o.WindowOffsetX, o.WindowOffsetY = w.Offset[0], w.Offset[1]
	}
	if w.Size != nil {
		o.FieldFlags |= rail.FieldWindowSize
		o.WindowWidth, o.WindowHeight = w.Size[0], w.Size[1]
	}
	if w.Title != nil {
		o.FieldFlags |= rail.FieldTitle
		raw, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).
			NewEncoder().Bytes([]byte(*w.Title))
		if err != nil {
			return nil, fmt.Errorf("replay: title %q: %w", *w.Title, err)
		}
		o.TitleInfo = raw
	}
	if w.Show != nil {
		state, ok := showStates[*w.Show]
		if !ok {
			return nil, fmt.Errorf("replay: unknown show state %q", *w.Show)
		}
		o.FieldFlags |= rail.FieldShow
		o.ShowState = state
	}
	if w.Owner != nil {
		o.FieldFlags |= rail.FieldOwner
		o.OwnerWindowID = *w.Owner
	}
	if w.Style != nil {
		o.FieldFlags |= rail.FieldStyle
		o.Style, o.ExtendedStyle = w.Style.Style, w.Style.Extended
	}
	if w.ClientOffset != nil {
		o.FieldFlags |= rail.FieldClientAreaOffset
		o.ClientOffsetX, o.ClientOffsetY = w.ClientOffset[0], w.ClientOffset[1]
	}
	if w.ClientSize != nil {
		o.FieldFlags |= rail.FieldClientAreaSize
		o.ClientAreaWidth, o.ClientAreaHeight = w.ClientSize[0], w.ClientSize[1]
	}
	if w.ClientDelta != nil {
		o.FieldFlags |= rail.FieldClientDelta
		o.WindowClientDeltaX, o.WindowClientDeltaY = w.ClientDelta[0], w.ClientDelta[1]
	}
	if w.VisibleOffset != nil {
		o.FieldFlags |= rail.FieldVisibleOffset
		o.VisibleOffsetX, o.VisibleOffsetY = w.VisibleOffset[0], w.VisibleOffset[1]
	}
	if w.Visibility != nil {
		o.FieldFlags |= rail.FieldVisibility
		o.VisibilityRects = w.Visibility
	}
	if w.WindowRects != nil {
		o.FieldFlags |= rail.FieldWindowRects
		o.WindowRects = w.WindowRects
	}
	if w.MarginX != nil {
		o.FieldFlags |= rail.FieldResizeMarginX
		o.ResizeMarginLeft, o.ResizeMarginRight = w.MarginX[0], w.MarginX[1]
	}
	if w.MarginY != nil {
		o.FieldFlags |= rail.FieldResizeMarginY
		o.ResizeMarginTop, o.ResizeMarginBottom = w.MarginY[0], w.MarginY[1]
	}
	return o, nil
}

func (i *IconStep) order() rail.Inbound {
	o := rail.IconOrder{
		WindowID: i.WindowID,
		Info: rail.IconInfo{
			CacheID:    i.CacheID,
			CacheEntry: i.CacheEntry,
			BPP:        i.BPP,
			Width:      i.Width,
			Height:     i.Height,
			BitsColor:  i.Color,
			BitsMask:   i.Mask,
			ColorTable: i.Palette,
		},
	}
	if i.New {
		o.FieldFlags |= rail.StateNew
	}
	return o
}

// Run emits the trace's orders onto inboundC, honoring step delays.
func Run(ctx context.Context, trace Trace, inboundC chan<- rail.Inbound) error {
	for i, step := range trace.Steps {
		if step.Delay != "" {
			delay, err := time.ParseDuration(step.Delay)
			if err != nil {
				return fmt.Errorf("replay: step %d delay: %w", i, err)
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		order, err := step.Order()
		if err != nil {
			return fmt.Errorf("replay: step %d: %w", i, err)
		}

		select {
		case inboundC <- order:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	<-ctx.Done()
	return ctx.Err()
}
