package rail

import (
	"errors"
	"reflect"
	"testing"
)

func newTestReducer() (*Reducer, *Registry) {
	registry := NewRegistry(nil)
	return NewReducer(registry), registry
}

func createOrder(id uint64) WindowOrder {
	return WindowOrder{
		WindowID:      id,
		FieldFlags:    StateNew | FieldWindowOffset | FieldWindowSize,
		WindowOffsetX: 10,
		WindowOffsetY: 20,
		WindowWidth:   300,
		WindowHeight:  200,
	}
}

func TestReducerCreate(t *testing.T) {
	r, registry := newTestReducer()

	effects, err := r.Apply(createOrder(1))
	if err != nil {
		t.Fatal(err)
	}

	w, ok := registry.Get(1)
	if !ok {
		t.Fatal("window not registered")
	}
	if w.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", w.Title, DefaultTitle)
	}
	if w.SurfaceID != 0xFFFFFFFF {
		t.Errorf("surface id = %08X, want FFFFFFFF", w.SurfaceID)
	}
	if w.X != 10 || w.Y != 20 || w.Width != 300 || w.Height != 200 {
		t.Errorf("local geometry = %d,%d %dx%d", w.X, w.Y, w.Width, w.Height)
	}

	if _, ok := effects[0].(EffectCreate); !ok {
		t.Errorf("first effect = %T, want EffectCreate", effects[0])
	}
	var styled bool
	for _, e := range effects {
		if _, ok := e.(EffectStyle); ok {
			styled = true
		}
	}
	if !styled {
		t.Error("create produced no EffectStyle")
	}
}

func TestReducerCreateEmptyTitle(t *testing.T) {
	r, registry := newTestReducer()

	o := createOrder(1)
	o.FieldFlags |= FieldTitle
	o.TitleInfo = nil

	if _, err := r.Apply(o); err != nil {
		t.Fatal(err)
	}

	w, _ := registry.Get(1)
	if w.Title != "" {
		t.Errorf("title = %q, want empty: a present zero-length title is not the placeholder", w.Title)
	}
}

func TestReducerTitleDecodeFailure(t *testing.T) {
	r, _ := newTestReducer()

	for _, payload := range [][]byte{
		{0x41},             // odd length
		{0x00, 0xD8},       // unpaired high surrogate
		{0x00, 0xD8, 0x41}, // both
	} {
		o := createOrder(1)
		o.FieldFlags |= FieldTitle
		o.TitleInfo = payload

		_, err := r.Apply(o)
		if !errors.Is(err, ErrDecodeFailure) {
			t.Errorf("payload % X: err = %v, want ErrDecodeFailure", payload, err)
		}
	}
}

func TestReducerUnknownWindow(t *testing.T) {
	r, _ := newTestReducer()

	_, err := r.Apply(WindowOrder{WindowID: 7, FieldFlags: FieldShow, ShowState: ShowNormal})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReducerAbsentFieldsUntouched(t *testing.T) {
	r, registry := newTestReducer()

	o := createOrder(1)
	o.FieldFlags |= FieldClientAreaOffset | FieldClientDelta | FieldVisibleOffset
	o.ClientOffsetX, o.ClientOffsetY = 15, 45
	o.WindowClientDeltaX, o.WindowClientDeltaY = 5, 25
	o.VisibleOffsetX, o.VisibleOffsetY = 10, 20
	if _, err := r.Apply(o); err != nil {
		t.Fatal(err)
	}

	w, _ := registry.Get(1)
	before := *w

	// Only the show state bit is set; everything else must survive.
	if _, err := r.Apply(WindowOrder{
		WindowID:      1,
		FieldFlags:    FieldShow,
		ShowState:     ShowNormal,
		WindowOffsetX: -999,
		WindowWidth:   1,
	}); err != nil {
		t.Fatal(err)
	}

	after := *w
	before.ShowState = ShowNormal
	if !reflect.DeepEqual(before, after) {
		t.Errorf("window changed beyond show state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestReducerIdempotent(t *testing.T) {
	r, registry := newTestReducer()

	if _, err := r.Apply(createOrder(1)); err != nil {
		t.Fatal(err)
	}

	o := WindowOrder{
		WindowID:      1,
		FieldFlags:    FieldWindowOffset | FieldWindowSize | FieldShow,
		WindowOffsetX: 50,
		WindowOffsetY: 60,
		WindowWidth:   640,
		WindowHeight:  480,
		ShowState:     ShowNormal,
	}
	if _, err := r.Apply(o); err != nil {
		t.Fatal(err)
	}
	w, _ := registry.Get(1)
	first := *w

	if _, err := r.Apply(o); err != nil {
		t.Fatal(err)
	}
	second := *w

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second apply changed state:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestReducerRedrawWhenGeometryMatches(t *testing.T) {
	r, registry := newTestReducer()

	if _, err := r.Apply(createOrder(1)); err != nil {
		t.Fatal(err)
	}
	w, _ := registry.Get(1)

	// Local geometry already matches what the order carries.
	effects, err := r.Apply(WindowOrder{
		WindowID:      1,
		FieldFlags:    FieldWindowOffset | FieldWindowSize,
		WindowOffsetX: w.X,
		WindowOffsetY: w.Y,
		WindowWidth:   uint32(w.Width),
		WindowHeight:  uint32(w.Height),
	})
	if err != nil {
		t.Fatal(err)
	}

	assertEffect[EffectRedraw](t, effects)
	assertNoEffect[EffectMove](t, effects)
	assertEffect[EffectVisibilityRects](t, effects)
}

func TestReducerMoveWhenGeometryDiffers(t *testing.T) {
	r, _ := newTestReducer()

	if _, err := r.Apply(createOrder(1)); err != nil {
		t.Fatal(err)
	}

	effects, err := r.Apply(WindowOrder{
		WindowID:      1,
		FieldFlags:    FieldWindowOffset,
		WindowOffsetX: 500,
		WindowOffsetY: 500,
	})
	if err != nil {
		t.Fatal(err)
	}

	move := assertEffect[EffectMove](t, effects)
	if move.X != 500 || move.Y != 500 {
		t.Errorf("move to %d,%d, want 500,500", move.X, move.Y)
	}
	assertNoEffect[EffectRedraw](t, effects)
}

func TestReducerMinimizedSuppressesGeometry(t *testing.T) {
	r, registry := newTestReducer()

	if _, err := r.Apply(createOrder(1)); err != nil {
		t.Fatal(err)
	}

	effects, err := r.Apply(WindowOrder{
		WindowID:      1,
		FieldFlags:    FieldShow | FieldWindowOffset | FieldWindowSize,
		ShowState:     ShowMinimized,
		WindowOffsetX: -32000,
		WindowOffsetY: -32000,
		WindowWidth:   160,
		WindowHeight:  24,
	})
	if err != nil {
		t.Fatal(err)
	}

	assertNoEffect[EffectMove](t, effects)
	assertNoEffect[EffectRedraw](t, effects)
	assertNoEffect[EffectVisibilityRects](t, effects)
	assertEffect[EffectShow](t, effects)

	// The degenerate values still land in state.
	w, _ := registry.Get(1)
	if w.WindowOffsetX != -32000 || w.WindowWidth != 160 {
		t.Errorf("raw geometry not recorded: %d %d", w.WindowOffsetX, w.WindowWidth)
	}
}

func TestReducerMaximized(t *testing.T) {
	r, _ := newTestReducer()

	if _, err := r.Apply(createOrder(1)); err != nil {
		t.Fatal(err)
	}

	effects, err := r.Apply(WindowOrder{
		WindowID:      1,
		FieldFlags:    FieldShow | FieldWindowOffset,
		ShowState:     ShowMaximized,
		WindowOffsetX: 0,
		WindowOffsetY: 0,
	})
	if err != nil {
		t.Fatal(err)
	}

	assertEffect[EffectMaximize](t, effects)
}

func TestReducerVisibilityOffset(t *testing.T) {
	r, _ := newTestReducer()

	if _, err := r.Apply(createOrder(1)); err != nil {
		t.Fatal(err)
	}

	effects, err := r.Apply(WindowOrder{
		WindowID:           1,
		FieldFlags:         FieldClientAreaOffset | FieldClientDelta | FieldVisibleOffset | FieldVisibility,
		ClientOffsetX:      15,
		ClientOffsetY:      45,
		WindowClientDeltaX: 5,
		WindowClientDeltaY: 25,
		VisibleOffsetX:     12,
		VisibleOffsetY:     22,
		VisibilityRects:    []Rect{{Left: 0, Top: 0, Right: 100, Bottom: 100}},
	})
	if err != nil {
		t.Fatal(err)
	}

	vis := assertEffect[EffectVisibilityRects](t, effects)
	// 12 - (15 - 5), 22 - (45 - 25)
	if vis.OffsetX != 2 || vis.OffsetY != 2 {
		t.Errorf("offset = %d,%d, want 2,2", vis.OffsetX, vis.OffsetY)
	}
	if len(vis.Rects) != 1 {
		t.Errorf("rects = %d, want 1", len(vis.Rects))
	}
}

func TestReducerDelete(t *testing.T) {
	r, _ := newTestReducer()

	if _, err := r.Delete(WindowDeleteOrder{WindowID: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete unknown: err = %v, want ErrNotFound", err)
	}

	if _, err := r.Apply(createOrder(1)); err != nil {
		t.Fatal(err)
	}

	effects, err := r.Delete(WindowDeleteOrder{WindowID: 1})
	if err != nil {
		t.Fatal(err)
	}
	destroy := assertEffect[EffectDestroy](t, effects)
	if destroy.WindowID != 1 {
		t.Errorf("destroy window = %d, want 1", destroy.WindowID)
	}
}

func TestDecodeTitle(t *testing.T) {
	got, err := DecodeTitle(encodeTitle("Notepad"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Notepad" {
		t.Errorf("got %q", got)
	}

	got, err = DecodeTitle(nil)
	if err != nil || got != "" {
		t.Errorf("empty payload: %q, %v", got, err)
	}
}

func assertEffect[T Effect](t *testing.T, effects []Effect) T {
	t.Helper()
	for _, e := range effects {
		if e, ok := e.(T); ok {
			return e
		}
	}
	var zero T
	t.Fatalf("no %T in %#v", zero, effects)
	return zero
}

func assertNoEffect[T Effect](t *testing.T, effects []Effect) {
	t.Helper()
	for _, e := range effects {
		if _, ok := e.(T); ok {
			t.Fatalf("unexpected %T", e)
		}
	}
}
