package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gitlab.com/tinyland/lab/matrix-pulse/collect"
	"gitlab.com/tinyland/lab/matrix-pulse/config"
	"gitlab.com/tinyland/lab/matrix-pulse/internal/format"
	"gitlab.com/tinyland/lab/matrix-pulse/render"
	"gitlab.com/tinyland/lab/matrix-pulse/transport"
)

// daemon runs the poll-render-transmit loop. Each tick collects one
// snapshot, renders both panels from the history view, and posts the
// frames to the display server. A failed cycle is logged and the next
// tick re-attempts; there is no backoff and no partial-cycle recovery.
type daemon struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger

	collector *collect.Collector
	history   *collect.History
	client    *transport.Client

	// mu protects the directive lists, which the fsnotify watcher may
	// swap between cycles.
	mu         sync.Mutex
	left       []render.Directive
	right      []render.Directive
	brightness uint8
}

// newDaemon wires the collector, history buffer, and transport client
// from the configuration. configPath may be empty when the config came
// from defaults; hot reload is disabled in that case.
func newDaemon(cfg *config.Config, configPath string, logger *slog.Logger) *daemon {
	return &daemon{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		collector:  collect.NewCollector(cfg.Sources, logger),
		history:    collect.NewHistory(cfg.Daemon.MaxHistorySamples),
		client:     transport.NewClient(cfg.Daemon.SocketPath, logger),
		left:       directivesFromConfig(cfg.Panels.Left),
		right:      directivesFromConfig(cfg.Panels.Right),
		brightness: panelBrightness(cfg),
	}
}

// run blocks until the context is cancelled. The history buffer is
// mutated only here, between render passes; the renderer only ever sees
// a read-only view.
func (d *daemon) run(ctx context.Context) error {
	watcher := d.watchConfig(ctx)
	if watcher != nil {
		defer watcher.Close()
	}

	interval := d.cfg.Daemon.SampleInterval.Duration
	d.logger.Info("daemon started",
		"interval", interval,
		"history", d.cfg.Daemon.MaxHistorySamples,
		"socket", d.cfg.Daemon.SocketPath)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := d.cycle(ctx); err != nil {
				d.logger.Error("cycle failed", "error", err)
			}
		}
	}
}

// cycle runs one poll-render-transmit pass.
func (d *daemon) cycle(ctx context.Context) error {
	snap := d.collector.Collect(ctx)
	d.history.Push(snap)
	view := d.history.View()

	// Cycle logging uses the instantaneous last-two-snapshots rates; the
	// plotted directives consume the full series independently.
	netRate := view.NetworkRate()
	diskRate := view.DiskRate()
	d.logger.Debug("snapshot",
		"cores", len(view.CPULoad()),
		"mem", view.MemUsage(),
		"net_rx", format.Rate(netRate.In),
		"net_tx", format.Rate(netRate.Out),
		"disk_r", format.Count(diskRate.In),
		"disk_w", format.Count(diskRate.Out))

	d.mu.Lock()
	left, right, brightness := d.left, d.right, d.brightness
	d.mu.Unlock()

	var frame transport.Frame
	var err error
	if len(left) > 0 {
		if frame.Left, err = render.RenderPanel(left, view, brightness); err != nil {
			return fmt.Errorf("left panel: %w", err)
		}
	}
	if len(right) > 0 {
		if frame.Right, err = render.RenderPanel(right, view, brightness); err != nil {
			return fmt.Errorf("right panel: %w", err)
		}
	}
	if frame.Left == nil && frame.Right == nil {
		return nil
	}

	if _, err := d.client.Send(ctx, frame); err != nil {
		return err
	}
	return nil
}

// watchConfig starts an fsnotify watcher that reloads the panel layout
// when the config file changes. The layout is data; changing it should
// not need a restart. Returns nil when watching is unavailable.
func (d *daemon) watchConfig(ctx context.Context) *fsnotify.Watcher {
	if d.configPath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.logger.Warn("config watch unavailable", "error", err)
		return nil
	}
	// Watch the directory: editors typically replace the file, which
	// drops a watch set on the file itself.
	if err := watcher.Add(filepath.Dir(d.configPath)); err != nil {
		d.logger.Warn("config watch failed", "path", d.configPath, "error", err)
		watcher.Close()
		return nil
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != d.configPath {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				d.reloadPanels()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.logger.Warn("config watch error", "error", err)
			}
		}
	}()
	return watcher
}

// reloadPanels re-reads the config file and swaps in the new directive
// lists. A broken config keeps the running layout.
func (d *daemon) reloadPanels() {
	cfg, err := config.LoadFromFile(d.configPath)
	if err != nil {
		d.logger.Error("config reload failed, keeping current layout", "error", err)
		return
	}

	d.mu.Lock()
	d.left = directivesFromConfig(cfg.Panels.Left)
	d.right = directivesFromConfig(cfg.Panels.Right)
	d.brightness = panelBrightness(cfg)
	d.mu.Unlock()
	d.logger.Info("panel layout reloaded",
		"left", len(cfg.Panels.Left), "right", len(cfg.Panels.Right))
}

// directivesFromConfig converts configuration entries into render
// directives.
func directivesFromConfig(ds []config.Directive) []render.Directive {
	out := make([]render.Directive, 0, len(ds))
	for _, d := range ds {
		out = append(out, render.Directive{
			Kind:      render.Kind(d.Kind),
			X:         d.X,
			Y:         d.Y,
			YStart:    d.YStart,
			YEnd:      d.YEnd,
			XStart:    d.XStart,
			XEnd:      d.XEnd,
			MidPoint:  d.MidPoint,
			MaxHeight: d.MaxHeight,
			Max:       d.Max,
			K:         d.K,
		})
	}
	return out
}

// panelBrightness maps the config value onto the renderer cap, treating
// zero as full brightness.
func panelBrightness(cfg *config.Config) uint8 {
	if cfg.Panels.Brightness == 0 {
		return 255
	}
	return uint8(cfg.Panels.Brightness)
}
