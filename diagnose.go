package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gitlab.com/tinyland/lab/matrix-pulse/collect"
	"gitlab.com/tinyland/lab/matrix-pulse/config"
	"gitlab.com/tinyland/lab/matrix-pulse/render"
)

// runDiagnose collects a single snapshot, renders both panels, and writes
// left.png and right.png into dir so the layout can be inspected without
// a display server.
func runDiagnose(ctx context.Context, cfg *config.Config, dir string, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("diagnose: create %s: %w", dir, err)
	}

	collector := collect.NewCollector(cfg.Sources, logger)
	history := collect.NewHistory(cfg.Daemon.MaxHistorySamples)
	history.Push(collector.Collect(ctx))
	view := history.View()

	brightness := panelBrightness(cfg)
	panels := map[string][]render.Directive{
		"left":  directivesFromConfig(cfg.Panels.Left),
		"right": directivesFromConfig(cfg.Panels.Right),
	}
	for name, directives := range panels {
		png, err := render.RenderPanel(directives, view, brightness)
		if err != nil {
			return fmt.Errorf("diagnose: render %s panel: %w", name, err)
		}
		path := filepath.Join(dir, name+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("diagnose: write %s: %w", path, err)
		}
		logger.Info("wrote panel", "path", path, "bytes", len(png))
	}
	return nil
}
