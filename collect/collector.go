package collect

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"

	"gitlab.com/tinyland/lab/matrix-pulse/config"
)

// defaultPowerSupplyDir is where the kernel exposes battery state.
const defaultPowerSupplyDir = "/sys/class/power_supply"

// Collector produces one Snapshot per call by probing the host. A failed
// or filtered-out probe leaves the corresponding field absent; nothing
// short of a programming error fails a whole collection cycle.
//
// All probes are swappable function fields so tests can feed canned data.
type Collector struct {
	sources config.SourcesConfig
	logger  *slog.Logger

	// powerSupplyDir is the sysfs battery directory, overridable in tests.
	powerSupplyDir string

	cpuPercents    func(ctx context.Context) ([]float64, error)
	memUsedPercent func(ctx context.Context) (float64, error)
	netCounters    func(ctx context.Context) ([]gnet.IOCountersStat, error)
	diskCounters   func(ctx context.Context) (map[string]disk.IOCountersStat, error)
	sensorTemps    func(ctx context.Context) ([]host.TemperatureStat, error)
	now            func() time.Time
}

// NewCollector creates a Collector reading from the live host.
// If logger is nil, a no-op logger is used.
func NewCollector(sources config.SourcesConfig, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Collector{
		sources:        sources,
		logger:         logger,
		powerSupplyDir: defaultPowerSupplyDir,
		cpuPercents: func(ctx context.Context) ([]float64, error) {
			// Interval zero diffs against the previous call, which
			// matches the poll cadence.
			return cpu.PercentWithContext(ctx, 0, true)
		},
		memUsedPercent: func(ctx context.Context) (float64, error) {
			vm, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return 0, err
			}
			return vm.UsedPercent, nil
		},
		netCounters: func(ctx context.Context) ([]gnet.IOCountersStat, error) {
			return gnet.IOCountersWithContext(ctx, true)
		},
		diskCounters: func(ctx context.Context) (map[string]disk.IOCountersStat, error) {
			return disk.IOCountersWithContext(ctx)
		},
		sensorTemps: func(ctx context.Context) ([]host.TemperatureStat, error) {
			return host.SensorsTemperaturesWithContext(ctx)
		},
		now: time.Now,
	}
}

// Collect gathers one snapshot. Per-metric failures are logged and surface
// as absent fields.
func (c *Collector) Collect(ctx context.Context) Snapshot {
	s := Snapshot{TS: c.now()}

	s.CPULoad = c.collectCPULoad(ctx)
	s.MemUsage = c.collectMemUsage(ctx)
	s.AvgTemp = c.collectTemp(ctx)
	s.NetRxBytes, s.NetTxBytes = c.collectNetBytes(ctx)
	s.DiskReads, s.DiskWrites = c.collectDiskOps(ctx)
	s.BatteryLevel = c.collectBatteryLevel()

	return s
}

func (c *Collector) collectCPULoad(ctx context.Context) []uint8 {
	percents, err := c.cpuPercents(ctx)
	if err != nil {
		c.logger.Warn("cpu load probe failed", "error", err)
		return nil
	}
	loads := make([]uint8, len(percents))
	for i, p := range percents {
		loads[i] = clampPercent(p)
	}
	return loads
}

func (c *Collector) collectMemUsage(ctx context.Context) uint8 {
	used, err := c.memUsedPercent(ctx)
	if err != nil {
		c.logger.Warn("memory probe failed", "error", err)
		return 0
	}
	return clampPercent(used)
}

// collectTemp averages the temperature of all sensors whose label matches
// the configured predicates. No matching sensor means no reading.
func (c *Collector) collectTemp(ctx context.Context) *uint8 {
	temps, err := c.sensorTemps(ctx)
	if err != nil {
		c.logger.Warn("temperature probe failed", "error", err)
		return nil
	}

	var total float64
	var count int
	for _, t := range temps {
		if !config.AnyMatch(c.sources.Temperatures, t.SensorKey) {
			continue
		}
		total += t.Temperature
		count++
	}
	if count == 0 {
		return nil
	}
	avg := clampTo(total/float64(count), 255)
	return &avg
}

// collectNetBytes averages the cumulative rx/tx byte counters of all
// matching interfaces.
func (c *Collector) collectNetBytes(ctx context.Context) (*uint64, *uint64) {
	counters, err := c.netCounters(ctx)
	if err != nil {
		c.logger.Warn("network probe failed", "error", err)
		return nil, nil
	}

	var rx, tx float64
	var count int
	for _, nic := range counters {
		if !config.AnyMatch(c.sources.Networks, nic.Name) {
			continue
		}
		rx += float64(nic.BytesRecv)
		tx += float64(nic.BytesSent)
		count++
	}
	if count == 0 {
		return nil, nil
	}
	avgRx := uint64(rx / float64(count))
	avgTx := uint64(tx / float64(count))
	return &avgRx, &avgTx
}

// collectDiskOps averages the cumulative read/write operation counters of
// all matching disks.
func (c *Collector) collectDiskOps(ctx context.Context) (*uint64, *uint64) {
	counters, err := c.diskCounters(ctx)
	if err != nil {
		c.logger.Warn("disk probe failed", "error", err)
		return nil, nil
	}

	var reads, writes float64
	var count int
	for name, d := range counters {
		if !config.AnyMatch(c.sources.Disks, name) {
			continue
		}
		reads += float64(d.ReadCount)
		writes += float64(d.WriteCount)
		count++
	}
	if count == 0 {
		return nil, nil
	}
	avgReads := uint64(reads / float64(count))
	avgWrites := uint64(writes / float64(count))
	return &avgReads, &avgWrites
}

// collectBatteryLevel reads the first battery's charge percentage from
// sysfs. Hosts without a battery report nothing.
func (c *Collector) collectBatteryLevel() *uint8 {
	entries, err := os.ReadDir(c.powerSupplyDir)
	if err != nil {
		return nil
	}

	for _, e := range entries {
		dir := filepath.Join(c.powerSupplyDir, e.Name())
		kind, err := os.ReadFile(filepath.Join(dir, "type"))
		if err != nil || strings.TrimSpace(string(kind)) != "Battery" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, "capacity"))
		if err != nil {
			c.logger.Warn("battery capacity read failed", "path", dir, "error", err)
			continue
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(string(raw)))
		if err != nil {
			c.logger.Warn("battery capacity unparsable", "path", dir, "value", string(raw))
			continue
		}
		level := clampPercent(float64(capacity))
		return &level
	}
	return nil
}

// clampPercent truncates a float percentage into 0-100.
func clampPercent(v float64) uint8 {
	return clampTo(v, 100)
}

func clampTo(v float64, max uint8) uint8 {
	if v < 0 {
		return 0
	}
	if v > float64(max) {
		return max
	}
	return uint8(v)
}
