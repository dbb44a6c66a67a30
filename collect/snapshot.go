// Package collect owns telemetry acquisition and the bounded history of
// snapshots the renderer reads from. One Snapshot is produced per poll
// cycle; the History buffer keeps the most recent N and derives
// rate-of-change series from the cumulative counters.
package collect

import "time"

// Snapshot is one timestamped set of telemetry readings. It is created
// once per poll cycle and never mutated afterwards.
//
// Pointer fields are optional: nil means the corresponding source produced
// no data this cycle (no battery present, no sensor matching the filter,
// a failed probe). Absence is normal operation, not an error.
type Snapshot struct {
	// TS is the capture instant.
	TS time.Time

	// AvgTemp is the average temperature of the matching sensors, in
	// whole degrees.
	AvgTemp *uint8

	// DiskReads and DiskWrites are cumulative operation counters averaged
	// across the matching disks.
	DiskReads  *uint64
	DiskWrites *uint64

	// CPULoad holds one 0-100 load percentage per logical CPU, in core
	// order.
	CPULoad []uint8

	// MemUsage is the used-memory percentage (0-100).
	MemUsage uint8

	// BatteryLevel is the battery charge percentage (0-100).
	BatteryLevel *uint8

	// NetRxBytes and NetTxBytes are cumulative byte counters averaged
	// across the matching interfaces.
	NetRxBytes *uint64
	NetTxBytes *uint64
}

// netCounters returns the network counter pair and whether both are present.
func (s Snapshot) netCounters() (uint64, uint64, bool) {
	if s.NetRxBytes == nil || s.NetTxBytes == nil {
		return 0, 0, false
	}
	return *s.NetRxBytes, *s.NetTxBytes, true
}

// diskCounters returns the disk counter pair and whether both are present.
func (s Snapshot) diskCounters() (uint64, uint64, bool) {
	if s.DiskReads == nil || s.DiskWrites == nil {
		return 0, 0, false
	}
	return *s.DiskReads, *s.DiskWrites, true
}
