package replay

import (
	"strings"
	"testing"

	"github.com/ItsNotGoodName/x-railview/internal/rail"
	"gopkg.in/yaml.v3"
)

const testTrace = `
steps:
  - handshake:
      build_number: 10240
  - window:
      id: 4
      new: true
      offset: [10, 20]
      size: [300, 200]
      title: Notepad
      show: normal
  - delay: 50ms
    window:
      id: 4
      offset: [50, 60]
  - delete: 4
`

func TestTraceDecode(t *testing.T) {
	var trace Trace
	if err := yaml.NewDecoder(strings.NewReader(testTrace)).Decode(&trace); err != nil {
		t.Fatal(err)
	}
	if len(trace.Steps) != 4 {
		t.Fatalf("steps = %d", len(trace.Steps))
	}

	first, err := trace.Steps[0].Order()
	if err != nil {
		t.Fatal(err)
	}
	if o, ok := first.(rail.HandshakeOrder); !ok || o.BuildNumber != 10240 {
		t.Errorf("first = %#v", first)
	}

	second, err := trace.Steps[1].Order()
	if err != nil {
		t.Fatal(err)
	}
	o, ok := second.(rail.WindowOrder)
	if !ok {
		t.Fatalf("second = %#v", second)
	}
	wantFlags := rail.StateNew | rail.FieldWindowOffset | rail.FieldWindowSize |
		rail.FieldTitle | rail.FieldShow
	if o.FieldFlags != wantFlags {
		t.Errorf("flags = %08X, want %08X", o.FieldFlags, wantFlags)
	}
	if o.WindowOffsetX != 10 || o.WindowOffsetY != 20 || o.WindowWidth != 300 {
		t.Errorf("geometry = %+v", o)
	}
	if o.ShowState != rail.ShowNormal {
		t.Errorf("show = %d", o.ShowState)
	}

	title, err := rail.DecodeTitle(o.TitleInfo)
	if err != nil {
		t.Fatal(err)
	}
	if title != "Notepad" {
		t.Errorf("title = %q", title)
	}

	if trace.Steps[2].Delay != "50ms" {
		t.Errorf("delay = %q", trace.Steps[2].Delay)
	}

	last, err := trace.Steps[3].Order()
	if err != nil {
		t.Fatal(err)
	}
	if o, ok := last.(rail.WindowDeleteOrder); !ok || o.WindowID != 4 {
		t.Errorf("last = %#v", last)
	}
}

func TestStepPartialUpdateOmitsAbsentFields(t *testing.T) {
	var trace Trace
	if err := yaml.NewDecoder(strings.NewReader(testTrace)).Decode(&trace); err != nil {
		t.Fatal(err)
	}

	in, err := trace.Steps[2].Order()
	if err != nil {
		t.Fatal(err)
	}
	o := in.(rail.WindowOrder)
	if o.FieldFlags != rail.FieldWindowOffset {
		t.Errorf("flags = %08X, want only the offset bit", o.FieldFlags)
	}
}

func TestStepUnknownShowState(t *testing.T) {
	show := "sideways"
	step := Step{Window: &WindowStep{ID: 1, Show: &show}}
	if _, err := step.Order(); err == nil {
		t.Error("unknown show state accepted")
	}
}

func TestStepEmpty(t *testing.T) {
	if _, err := (Step{}).Order(); err == nil {
		t.Error("empty step accepted")
	}
}
