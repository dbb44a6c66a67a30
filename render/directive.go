package render

import (
	"errors"
	"fmt"

	"gitlab.com/tinyland/lab/matrix-pulse/collect"
)

// Kind identifies one renderable element. The set is closed: the dispatch
// switch in Apply is exhaustive and configuration validation rejects
// anything else.
type Kind string

const (
	KindCPU        Kind = "cpu"
	KindAverageCPU Kind = "average_cpu"
	KindNetwork    Kind = "network"
	KindDisk       Kind = "disk"
	KindMem        Kind = "mem"
	KindTemp       Kind = "temp"
	KindBattery    Kind = "battery"
)

// ErrUnknownKind is returned when a directive carries a kind outside the
// closed set. Configuration validation should have caught it earlier.
var ErrUnknownKind = errors.New("unknown directive kind")

// Directive is one declarative render instruction: which element to draw,
// where, and with what normalization ceiling and falloff steepness. The
// geometry fields mirror the primitive each kind maps to; fields a kind
// does not use are ignored.
type Directive struct {
	Kind Kind

	X, Y         int
	YStart, YEnd int
	XStart, XEnd int
	MidPoint     int
	MaxHeight    int
	Max          uint64
	K            float64
}

// steepness returns the directive's sigmoid steepness, defaulting when unset.
func (d Directive) steepness() float64 {
	if d.K == 0 {
		return DefaultSteepness
	}
	return d.K
}

// Apply maps one directive onto one primitive call, pulling the relevant
// derived series or scalar from the history view. It performs no drawing
// logic of its own: the layout is entirely data. A geometry error aborts
// the caller's whole panel pass.
func Apply(r *Renderer, d Directive, view collect.View) error {
	k := d.steepness()
	switch d.Kind {
	case KindCPU:
		return r.CPU(d.MidPoint, d.MaxHeight, view.CPULoad(), k)
	case KindAverageCPU:
		return r.AverageCPU(d.X, d.YStart, d.YEnd, view.CPULoad(), k)
	case KindNetwork:
		// Plotted history: the full pairwise rate series, not the
		// instantaneous rate.
		return r.PlotIO(d.MidPoint, d.MaxHeight, view.NetworkRateSeries(), k)
	case KindDisk:
		return r.PlotIO(d.MidPoint, d.MaxHeight, view.DiskRateSeries(), k)
	case KindMem:
		return r.VerticalBar(uint64(view.MemUsage()), 100, d.X, d.YStart, d.YEnd, k)
	case KindTemp:
		max := d.Max
		if max == 0 {
			max = 100
		}
		return r.HorizontalBar(uint64(view.Temp()), max, d.Y, d.XStart, d.XEnd, k)
	case KindBattery:
		return r.Battery(d.Y, d.MaxHeight, view.BatteryLevel())
	default:
		return fmt.Errorf("render: %q: %w", d.Kind, ErrUnknownKind)
	}
}

// RenderPanel runs an ordered directive list against a fresh render pass
// and returns the encoded PNG frame. The first geometry error aborts the
// pass (a malformed layout is a deployment bug, not a transient).
func RenderPanel(directives []Directive, view collect.View, brightness uint8) ([]byte, error) {
	r := New()
	r.SetMaxBrightness(brightness)
	for i, d := range directives {
		if err := Apply(r, d, view); err != nil {
			return nil, fmt.Errorf("render: directive %d (%s): %w", i, d.Kind, err)
		}
	}
	return r.EncodePNG()
}
