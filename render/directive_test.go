package render

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/matrix-pulse/collect"
)

func uptr8(v uint8) *uint8    { return &v }
func uptr64(v uint64) *uint64 { return &v }

// viewOf builds a single-snapshot view for dispatch tests.
func viewOf(t *testing.T, s collect.Snapshot) collect.View {
	t.Helper()
	h := collect.NewHistory(4)
	h.Push(s)
	return h.View()
}

func TestApplyUnknownKind(t *testing.T) {
	r := New()
	err := Apply(r, Directive{Kind: "uptime"}, viewOf(t, collect.Snapshot{}))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestApplyMem(t *testing.T) {
	view := viewOf(t, collect.Snapshot{MemUsage: 50})
	r := New()
	d := Directive{Kind: KindMem, X: 4, YStart: 33, YEnd: 27}
	if err := Apply(r, d, view); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	lit := 0
	for y := 27; y < 33; y++ {
		if r.img.GrayAt(4, y).Y > 0 {
			lit++
		}
	}
	if lit != 3 {
		t.Errorf("mem bar at 50%% of 6 rows lit %d pixels, want 3", lit)
	}
}

func TestApplyTempDefaultsMax(t *testing.T) {
	view := viewOf(t, collect.Snapshot{AvgTemp: uptr8(100)})
	r := New()
	d := Directive{Kind: KindTemp, Y: 17, XStart: 0, XEnd: 9}
	if err := Apply(r, d, view); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for x := 0; x < Width; x++ {
		if r.img.GrayAt(x, 17).Y == 0 {
			t.Errorf("column %d dark; 100 degrees against the implicit ceiling of 100 fills the row", x)
		}
	}
}

func TestApplyBattery(t *testing.T) {
	view := viewOf(t, collect.Snapshot{BatteryLevel: uptr8(100)})
	r := New()
	if err := Apply(r, Directive{Kind: KindBattery, Y: 21, MaxHeight: 6}, view); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if r.img.GrayAt(1, 25).Y != 255 {
		t.Error("full battery interior dark")
	}
}

func TestApplyNetworkUsesSeries(t *testing.T) {
	// Two rate samples must produce two plotted columns, which only the
	// full pairwise series can.
	h := collect.NewHistory(4)
	base := time.Now()
	for i, rx := range []uint64{0, 100, 300} {
		h.Push(collect.Snapshot{
			TS:         base.Add(time.Duration(i) * time.Second),
			NetRxBytes: uptr64(rx),
			NetTxBytes: uptr64(0),
		})
	}
	r := New()
	if err := Apply(r, Directive{Kind: KindNetwork, MidPoint: 8, MaxHeight: 8}, h.View()); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for x := 0; x < 2; x++ {
		lit := false
		for y := 0; y < 8; y++ {
			if r.img.GrayAt(x, y).Y > 0 {
				lit = true
			}
		}
		if !lit {
			t.Errorf("column %d dark, want one column per rate sample", x)
		}
	}
}

func TestDirectiveSteepnessDefault(t *testing.T) {
	if got := (Directive{}).steepness(); got != DefaultSteepness {
		t.Errorf("zero K steepness = %v, want %v", got, DefaultSteepness)
	}
	if got := (Directive{K: 12}).steepness(); got != 12 {
		t.Errorf("explicit K = %v, want 12", got)
	}
}

func TestRenderPanelFailFast(t *testing.T) {
	view := viewOf(t, collect.Snapshot{MemUsage: 50})
	directives := []Directive{
		{Kind: KindMem, X: 0, YStart: 0, YEnd: 10},
		{Kind: KindMem, X: 0, YStart: 0, YEnd: 99},
	}
	_, err := RenderPanel(directives, view, 255)
	if !errors.Is(err, ErrGeometry) {
		t.Fatalf("expected ErrGeometry, got %v", err)
	}
	if !strings.Contains(err.Error(), "directive 1") {
		t.Errorf("error %q does not name the failing directive", err)
	}
}

func TestRenderPanelEncodes(t *testing.T) {
	view := viewOf(t, collect.Snapshot{MemUsage: 80, CPULoad: []uint8{40, 60}})
	directives := []Directive{
		{Kind: KindCPU, MidPoint: 10, MaxHeight: 10},
		{Kind: KindMem, X: 4, YStart: 33, YEnd: 27},
	}
	data, err := RenderPanel(directives, view, 255)
	if err != nil {
		t.Fatalf("RenderPanel: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Errorf("frame size %dx%d, want %dx%d", b.Dx(), b.Dy(), Width, Height)
	}
}

func TestRenderPanelBrightnessCapsPixels(t *testing.T) {
	view := viewOf(t, collect.Snapshot{MemUsage: 100})
	directives := []Directive{{Kind: KindMem, X: 0, YStart: 0, YEnd: 20}}

	dim, err := RenderPanel(directives, view, 64)
	if err != nil {
		t.Fatalf("RenderPanel: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(dim))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	max := uint8(0)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray, _, _, _ := img.At(x, y).RGBA()
			if v := uint8(gray >> 8); v > max {
				max = v
			}
		}
	}
	if max == 0 || max > 64 {
		t.Errorf("brightest pixel %d, want in (0, 64]", max)
	}
}
