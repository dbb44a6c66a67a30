package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/matrix-pulse/collect"
)

// Display dimensions of one LED matrix panel, in pixels.
const (
	Width  = 9
	Height = 34
)

// DefaultSteepness is the sigmoid steepness used when a directive does not
// set its own.
const DefaultSteepness = 6

// ErrGeometry is returned when a drawing operation's coordinates fall
// outside the display or violate an anchor/bound precondition. Geometry
// errors are never clamped away: a bad coordinate in the directive list is
// a deployment bug and the whole panel pass aborts.
var ErrGeometry = errors.New("geometry out of display bounds")

// Renderer owns one Width x Height single-channel pixel buffer for the
// duration of one render pass. Create a fresh Renderer per pass; the buffer
// is never shared or reused across passes.
//
// Every primitive validates its geometry before touching the buffer, so a
// failed call leaves the buffer byte-for-byte unchanged.
type Renderer struct {
	img           *image.Gray
	maxBrightness uint8
}

// New returns a Renderer with a zeroed pixel buffer and full brightness.
func New() *Renderer {
	return &Renderer{
		img:           image.NewGray(image.Rect(0, 0, Width, Height)),
		maxBrightness: 255,
	}
}

// SetMaxBrightness caps the brightest pixel any primitive will write.
func (r *Renderer) SetMaxBrightness(b uint8) {
	r.maxBrightness = b
}

// Image exposes the pixel buffer for encoding or preview. Callers must not
// retain it past the render pass.
func (r *Renderer) Image() *image.Gray {
	return r.img
}

// VerticalBar draws a bar at column x growing away from yStart toward yEnd
// (ascending when yStart < yEnd, descending otherwise). The full
// [min,max) row range must lie inside the display. maxValue is widened to
// at least value so an over-range sample never overflows past the anchor;
// a widened maxValue of zero means there is nothing to show and the call
// is a no-op.
//
// Bar length scales linearly with value/maxValue. Pixel brightness follows
// a sigmoid falloff with distance from the anchor, capped by the bar's own
// linear brightness, which gives a soft gradient instead of a flat bar.
func (r *Renderer) VerticalBar(value, maxValue uint64, x, yStart, yEnd int, k float64) error {
	if x < 0 || x >= Width {
		return fmt.Errorf("render: column %d outside display width %d: %w", x, Width, ErrGeometry)
	}
	lo, hi := minMax(yStart, yEnd)
	if lo < 0 || hi > Height {
		return fmt.Errorf("render: row range %d..%d exceeds display height %d: %w", yStart, yEnd, Height, ErrGeometry)
	}

	if maxValue < value {
		maxValue = value
	}
	if maxValue == 0 {
		return nil
	}

	span := hi - lo
	load := Linear(float64(value), float64(maxValue))
	length := int(load.Scale(float64(span)))
	peak := load.Scale(float64(r.maxBrightness))

	from, to := yStart, yStart+length
	if yStart >= yEnd {
		from, to = yStart-length, yStart
	}
	for y := from; y < to; y++ {
		falloff := SigmoidRangeAbs(float64(y), float64(yStart), float64(span), k)
		r.img.SetGray(x, y, color.Gray{Y: uint8(falloff.Scale(peak))})
	}
	return nil
}

// HorizontalBar is VerticalBar transposed to the x axis: a bar on row y
// anchored at xStart, growing toward xEnd, bounded by the display width.
func (r *Renderer) HorizontalBar(value, maxValue uint64, y, xStart, xEnd int, k float64) error {
	if y < 0 || y >= Height {
		return fmt.Errorf("render: row %d outside display height %d: %w", y, Height, ErrGeometry)
	}
	lo, hi := minMax(xStart, xEnd)
	if lo < 0 || hi > Width {
		return fmt.Errorf("render: column range %d..%d exceeds display width %d: %w", xStart, xEnd, Width, ErrGeometry)
	}

	if maxValue < value {
		maxValue = value
	}
	if maxValue == 0 {
		return nil
	}

	span := hi - lo
	load := Linear(float64(value), float64(maxValue))
	length := int(load.Scale(float64(span)))
	peak := load.Scale(float64(r.maxBrightness))

	from, to := xStart, xStart+length
	if xStart >= xEnd {
		from, to = xStart-length, xStart
	}
	for x := from; x < to; x++ {
		falloff := SigmoidRangeAbs(float64(x), float64(xStart), float64(span), k)
		r.img.SetGray(x, y, color.Gray{Y: uint8(falloff.Scale(peak))})
	}
	return nil
}

// CPU draws one bar per core, column index mod Width. Cores in the first
// row (index < Width) grow upward from midPoint, cores in the second row
// grow downward, so two physical rows carry up to 2*Width cores. Loads are
// percentages (0-100).
func (r *Renderer) CPU(midPoint, maxHeight int, loads []uint8, k float64) error {
	if err := validateMidPoint(midPoint, maxHeight); err != nil {
		return err
	}

	n := len(loads)
	if n > 2*Width {
		n = 2 * Width
	}
	for i := 0; i < n; i++ {
		x := i % Width
		end := midPoint - maxHeight
		if i >= Width {
			end = midPoint + maxHeight
		}
		if err := r.VerticalBar(uint64(loads[i]), 100, x, midPoint, end, k); err != nil {
			return err
		}
	}
	return nil
}

// AverageCPU draws the truncating integer mean of loads as two adjacent
// one-pixel columns at x and x+1 for visual weight. An empty load vector
// renders nothing.
func (r *Renderer) AverageCPU(x, yStart, yEnd int, loads []uint8, k float64) error {
	if len(loads) == 0 {
		return nil
	}
	var sum uint64
	for _, l := range loads {
		sum += uint64(l)
	}
	avg := sum / uint64(len(loads))

	if err := r.VerticalBar(avg, 100, x, yStart, yEnd, k); err != nil {
		return err
	}
	return r.VerticalBar(avg, 100, x+1, yStart, yEnd, k)
}

// PlotIO renders a series of rate pairs as two mirrored bar charts around
// midPoint: In rates grow upward, Out rates downward, one column per sample
// oldest to newest, capped at Width samples. Each axis normalizes to its own
// series maximum with a floor of 1, so an all-zero series draws nothing
// rather than erroring. An empty series is a no-op.
func (r *Renderer) PlotIO(midPoint, maxHeight int, pairs []collect.RatePair, k float64) error {
	if err := validateMidPoint(midPoint, maxHeight); err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}

	n := len(pairs)
	if n > Width {
		n = Width
	}
	var maxIn, maxOut uint64 = 1, 1
	for _, p := range pairs[:n] {
		if p.In > maxIn {
			maxIn = p.In
		}
		if p.Out > maxOut {
			maxOut = p.Out
		}
	}

	for i, p := range pairs[:n] {
		if err := r.VerticalBar(p.In, maxIn, i, midPoint, midPoint-maxHeight, k); err != nil {
			return err
		}
		if err := r.VerticalBar(p.Out, maxOut, i, midPoint, midPoint+maxHeight, k); err != nil {
			return err
		}
	}
	return nil
}

// Battery draws a fuel-gauge: a hollow full-width rectangle of the given
// height at row yStart, outline brightness inverse-linear in charge (an
// empty battery glows brightest), interior filled bottom-up, row by row,
// left to right, with round(percent/100 * interiorPixels) pixels at full
// brightness. Heights of two or less have no interior and render outline
// only.
func (r *Renderer) Battery(yStart, maxHeight int, percentCharged uint8) error {
	if maxHeight <= 0 {
		return nil
	}
	if yStart < 0 || yStart+maxHeight > Height {
		return fmt.Errorf("render: battery rows %d..%d exceed display height %d: %w", yStart, yStart+maxHeight, Height, ErrGeometry)
	}

	if percentCharged > 100 {
		percentCharged = 100
	}

	outline := uint8(Linear(float64(100-percentCharged), 100).Scale(float64(r.maxBrightness)))
	top, bottom := yStart, yStart+maxHeight-1
	for x := 0; x < Width; x++ {
		r.img.SetGray(x, top, color.Gray{Y: outline})
		r.img.SetGray(x, bottom, color.Gray{Y: outline})
	}
	for y := top + 1; y < bottom; y++ {
		r.img.SetGray(0, y, color.Gray{Y: outline})
		r.img.SetGray(Width-1, y, color.Gray{Y: outline})
	}

	iw, ih := Width-2, maxHeight-2
	if iw <= 0 || ih <= 0 {
		return nil
	}
	remaining := int(math.Round(float64(percentCharged) / 100 * float64(iw*ih)))
	for y := bottom - 1; y > top && remaining > 0; y-- {
		for x := 1; x < Width-1 && remaining > 0; x++ {
			r.img.SetGray(x, y, color.Gray{Y: r.maxBrightness})
			remaining--
		}
	}
	return nil
}

// EncodePNG encodes the pixel buffer as a grayscale PNG.
func (r *Renderer) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// validateMidPoint checks that a mirrored chart anchored at midPoint leaves
// room for maxHeight rows on the upward side. The downward side is bounded
// by the per-bar range check.
func validateMidPoint(midPoint, maxHeight int) error {
	if maxHeight < 0 {
		return fmt.Errorf("render: negative max height %d: %w", maxHeight, ErrGeometry)
	}
	if midPoint < maxHeight {
		return fmt.Errorf("render: mid point %d must leave room for bar height %d: %w", midPoint, maxHeight, ErrGeometry)
	}
	return nil
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
