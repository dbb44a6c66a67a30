package collect

import "math"

// RatePair is a derived rate-of-change pair in counter units per second.
// For network series In is the receive rate and Out the transmit rate; for
// disk series In is the read rate and Out the write rate.
type RatePair struct {
	In  uint64
	Out uint64
}

// History is a bounded, time-ordered sequence of Snapshots. Pushing past
// the configured capacity evicts the single oldest entry, so the length
// never exceeds capacity. The poller is the only writer; the renderer
// reads through the View it takes per render pass.
type History struct {
	capacity int
	snaps    []Snapshot
}

// NewHistory creates a History holding at most capacity snapshots.
// Capacity must be positive.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		snaps:    make([]Snapshot, 0, capacity+1),
	}
}

// Push appends a snapshot, evicting the oldest when over capacity.
func (h *History) Push(s Snapshot) {
	h.snaps = append(h.snaps, s)
	if len(h.snaps) > h.capacity {
		copy(h.snaps, h.snaps[1:])
		h.snaps = h.snaps[:len(h.snaps)-1]
	}
}

// Len returns the number of snapshots currently held.
func (h *History) Len() int {
	return len(h.snaps)
}

// Capacity returns the configured maximum length.
func (h *History) Capacity() int {
	return h.capacity
}

// View returns a read-only borrow of the buffer for one render pass. The
// view must not outlive the pass: the next Push invalidates it.
func (h *History) View() View {
	return View{snaps: h.snaps}
}

// View is a read-only window over the history buffer. All scalar accessors
// follow the "unknown reads as zero" policy: a missing optional field or an
// empty buffer reads as the zero value, never as an error.
type View struct {
	snaps []Snapshot
}

// Len returns the number of snapshots visible to the view.
func (v View) Len() int {
	return len(v.snaps)
}

// CPULoad returns the most recent per-core load vector, or an empty slice
// when no snapshot exists yet.
func (v View) CPULoad() []uint8 {
	if len(v.snaps) == 0 {
		return nil
	}
	return v.snaps[len(v.snaps)-1].CPULoad
}

// MemUsage returns the most recent used-memory percentage.
func (v View) MemUsage() uint8 {
	if len(v.snaps) == 0 {
		return 0
	}
	return v.snaps[len(v.snaps)-1].MemUsage
}

// Temp returns the most recent average temperature, zero when absent.
func (v View) Temp() uint8 {
	if len(v.snaps) == 0 || v.snaps[len(v.snaps)-1].AvgTemp == nil {
		return 0
	}
	return *v.snaps[len(v.snaps)-1].AvgTemp
}

// BatteryLevel returns the most recent battery charge, zero when absent.
func (v View) BatteryLevel() uint8 {
	if len(v.snaps) == 0 || v.snaps[len(v.snaps)-1].BatteryLevel == nil {
		return 0
	}
	return *v.snaps[len(v.snaps)-1].BatteryLevel
}

// NetworkRateSeries walks all consecutive snapshot pairs oldest to newest
// and returns |delta bytes| / delta seconds for each pair where both
// snapshots carry network counters. Pairs with a missing counter are
// skipped, not zero-filled, so the result may be shorter than Len()-1.
// This is the plottable-series operation; for a single current value use
// NetworkRate.
func (v View) NetworkRateSeries() []RatePair {
	return rateSeries(v.snaps, Snapshot.netCounters)
}

// DiskRateSeries is NetworkRateSeries over the disk read/write counters.
func (v View) DiskRateSeries() []RatePair {
	return rateSeries(v.snaps, Snapshot.diskCounters)
}

// NetworkRate returns the instantaneous rate computed from only the last
// two snapshots, zero when fewer than two snapshots carry counters. This
// is a distinct operation from NetworkRateSeries, for call sites that need
// one current speed rather than a plotted history.
func (v View) NetworkRate() RatePair {
	return latestRate(v.snaps, Snapshot.netCounters)
}

// DiskRate is NetworkRate over the disk read/write counters.
func (v View) DiskRate() RatePair {
	return latestRate(v.snaps, Snapshot.diskCounters)
}

// rateBetween computes the absolute per-second rate pair between two
// snapshots. Two snapshots sharing a timestamp yield rate zero rather than
// propagating an infinite or NaN division.
func rateBetween(prev, cur Snapshot, counters func(Snapshot) (uint64, uint64, bool)) (RatePair, bool) {
	a0, b0, ok := counters(prev)
	if !ok {
		return RatePair{}, false
	}
	a1, b1, ok := counters(cur)
	if !ok {
		return RatePair{}, false
	}
	elapsed := cur.TS.Sub(prev.TS).Seconds()
	if elapsed <= 0 {
		return RatePair{}, true
	}
	return RatePair{
		In:  uint64(math.Abs(float64(a1)-float64(a0)) / elapsed),
		Out: uint64(math.Abs(float64(b1)-float64(b0)) / elapsed),
	}, true
}

func rateSeries(snaps []Snapshot, counters func(Snapshot) (uint64, uint64, bool)) []RatePair {
	var rates []RatePair
	for i := 1; i < len(snaps); i++ {
		if r, ok := rateBetween(snaps[i-1], snaps[i], counters); ok {
			rates = append(rates, r)
		}
	}
	return rates
}

func latestRate(snaps []Snapshot, counters func(Snapshot) (uint64, uint64, bool)) RatePair {
	if len(snaps) < 2 {
		return RatePair{}
	}
	r, ok := rateBetween(snaps[len(snaps)-2], snaps[len(snaps)-1], counters)
	if !ok {
		return RatePair{}
	}
	return r
}
