// matrix-pulse drives a pair of 9x34 LED matrix panels with host
// telemetry. It polls CPU load, memory, temperature, battery, network and
// disk throughput on a fixed cadence, renders the readings as monochrome
// bitmaps through a declarative directive list, and posts the frames to a
// local display server over its Unix socket.
//
// Usage:
//
//	matrix-pulse [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/matrix-pulse/config.yaml)
//	-once             Run a single poll-render-transmit cycle and exit
//	-preview          Render the panels live in the terminal instead of the socket
//	-diagnose string  Render one frame per panel as PNG files into the given directory
//	-verbose          Force debug logging
//	-version          Print version and exit
//	-man              Print the man page in roff format and exit
//
// Without a mode flag the polling daemon runs until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/tinyland/lab/matrix-pulse/collect"
	"gitlab.com/tinyland/lab/matrix-pulse/config"
	"gitlab.com/tinyland/lab/matrix-pulse/display/tui"
	"gitlab.com/tinyland/lab/matrix-pulse/docs/manpage"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/matrix-pulse/config.yaml)")
		runOnce     = flag.Bool("once", false, "Run a single poll-render-transmit cycle and exit")
		runPreview  = flag.Bool("preview", false, "Render the panels live in the terminal instead of the socket")
		diagnoseDir = flag.String("diagnose", "", "Render one frame per panel as PNG files into the given directory")
		verbose     = flag.Bool("verbose", false, "Force debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
		showMan     = flag.Bool("man", false, "Print the man page in roff format and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("matrix-pulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}
	if *showMan {
		fmt.Print(manpage.Generate(version, commit, date))
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Daemon.LogLevel, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *diagnoseDir != "":
		if err := runDiagnose(ctx, cfg, *diagnoseDir, logger); err != nil {
			fmt.Fprintf(os.Stderr, "diagnose failed: %v\n", err)
			os.Exit(1)
		}

	case *runPreview:
		d := newDaemon(cfg, *configPath, logger)
		m := tui.New(cfg.Daemon.SampleInterval.Duration,
			collect.NewCollector(cfg.Sources, logger),
			collect.NewHistory(cfg.Daemon.MaxHistorySamples),
			d.left, d.right, d.brightness)
		if err := tui.Run(m); err != nil {
			fmt.Fprintf(os.Stderr, "preview error: %v\n", err)
			os.Exit(1)
		}

	case *runOnce:
		d := newDaemon(cfg, *configPath, logger)
		if err := d.cycle(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "cycle failed: %v\n", err)
			os.Exit(1)
		}

	default:
		logger.Info("starting matrix-pulse", "version", version)
		d := newDaemon(cfg, *configPath, logger)
		if err := d.run(ctx); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "daemon error: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadConfig resolves the configuration from an explicit path or the
// standard search locations.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// newLogger builds the process-wide slog logger writing to stderr.
func newLogger(level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
