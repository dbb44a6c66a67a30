// Package manpage generates a roff-formatted man page for matrix-pulse.
//
// The page is generated at runtime from the compiled-in version
// information and the default configuration, keeping documentation in
// sync with the code automatically.
//
// Usage:
//
//	matrix-pulse -man | man -l -
//	matrix-pulse -man > ~/.local/share/man/man1/matrix-pulse.1
package manpage

import (
	"fmt"
	"strings"
	"time"
)

// Generate produces a complete roff-formatted man(1) page for matrix-pulse.
// The version, commit, and date parameters are passed from the build-time
// linker variables so the page always reflects the current build.
func Generate(version, commit, date string) string {
	var b strings.Builder

	writeHeader(&b, version)
	writeName(&b)
	writeSynopsis(&b)
	writeDescription(&b)
	writeOptions(&b)
	writeConfiguration(&b)
	writeFiles(&b)
	writeExamples(&b)
	writeEnvironment(&b)
	writeExitStatus(&b)
	writeSeeAlso(&b)
	writeFooter(&b, version, commit, date)

	return b.String()
}

func writeHeader(b *strings.Builder, version string) {
	month := time.Now().Format("January 2006")
	fmt.Fprintf(b, ".TH MATRIX-PULSE 1 \"%s\" \"matrix-pulse %s\" \"User Commands\"\n", month, version)
}

func writeName(b *strings.Builder) {
	b.WriteString(`.SH NAME
matrix\-pulse \- host telemetry renderer for paired 9x34 LED matrix panels
`)
}

func writeSynopsis(b *strings.Builder) {
	b.WriteString(`.SH SYNOPSIS
.B matrix\-pulse
[\fIOPTIONS\fR]
`)
}

func writeDescription(b *strings.Builder) {
	b.WriteString(`.SH DESCRIPTION
.B matrix\-pulse
polls host telemetry (per-core CPU load, memory usage, sensor
temperatures, battery charge, network and disk throughput) on a fixed
cadence, renders the readings as monochrome bitmaps through a
declarative per-panel directive list, and posts the frames to a local
display server over its Unix domain socket.
.PP
The tool operates in several modes:
.IP \(bu 2
.B Daemon mode
(default, no flags): Runs the poll\-render\-transmit loop until
interrupted, reloading the panel layout when the configuration file
changes.
.IP \(bu 2
.B One-shot mode
(\fB\-once\fR): Runs a single poll\-render\-transmit cycle and exits.
.IP \(bu 2
.B Preview mode
(\fB\-preview\fR): Renders both panels live in the terminal as
half-block bitmaps instead of posting to the socket.
.IP \(bu 2
.B Diagnose mode
(\fB\-diagnose\fR \fIDIR\fR): Renders one frame per panel as PNG files
so the layout can be inspected without a display server.
`)
}

func writeOptions(b *strings.Builder) {
	b.WriteString(`.SH OPTIONS
`)

	flags := []struct {
		flag string
		arg  string
		desc string
	}{
		{"config", "PATH", "Path to the YAML configuration file. Default: ~/.config/matrix\\-pulse/config.yaml."},
		{"once", "", "Run a single poll\\-render\\-transmit cycle and exit. Useful for cron-style invocation and smoke testing."},
		{"preview", "", "Launch the interactive terminal preview. Draws both panels with Unicode half-blocks on the configured poll cadence; space pauses, q quits."},
		{"diagnose", "DIR", "Collect one snapshot, render both panels, and write left.png and right.png into DIR."},
		{"verbose", "", "Force debug-level logging to stderr regardless of the configured log level."},
		{"version", "", "Print the version, commit hash, and build date, then exit."},
		{"man", "", "Print this man page to stdout in roff format. Pipe to man(1) for formatted viewing: \\fBmatrix\\-pulse \\-man | man \\-l \\-\\fR."},
	}

	for _, f := range flags {
		b.WriteString(".TP\n")
		if f.arg != "" {
			fmt.Fprintf(b, ".BR \\-%s \" \\fI%s\\fR\"\n", f.flag, f.arg)
		} else {
			fmt.Fprintf(b, ".B \\-%s\n", f.flag)
		}
		b.WriteString(f.desc + "\n")
	}
}

func writeConfiguration(b *strings.Builder) {
	b.WriteString(`.SH CONFIGURATION
Configuration is read from a YAML file at
.B ~/.config/matrix\-pulse/config.yaml
by default, or from the path specified with \fB\-config\fR. Every key is
optional; unset keys keep their defaults.
.SS daemon
.TP
.B sample_interval
Duration between poll\-render\-transmit cycles (e.g., "200ms", "1s").
Default: "200ms".
.TP
.B max_history_samples
History buffer capacity. Rate charts derive one column per consecutive
snapshot pair, so a capacity of N yields up to N\-1 plotted columns.
Default: 9.
.TP
.B socket_path
Unix socket of the display server. Default:
/run/matrix\-pulse/display.sock.
.TP
.B log_level
Log level: "debug", "info", "warn", or "error". Default: "info".
.SS sources
.PP
Selects which host sensors feed each metric. Each of
.BR disks ", " networks ", and " temperatures
is a list of predicates; a predicate sets exactly one of
.BR contains ", " starts_with ", " ends_with ", " equal ", or " iequal .
A metric whose list matches nothing is absent from that cycle's
snapshot. An empty list matches nothing: an unfiltered metric is a
disabled metric.
.SS panels
.TP
.B brightness
Caps pixel intensity (1\-255). Zero means full brightness.
.TP
.B left, right
Ordered directive lists for the two panels. Each directive names a
.B kind
(one of cpu, average_cpu, network, disk, mem, temp, battery) plus the
geometry fields the corresponding element needs. The layout is entirely
data; changing it never requires new code, and the running daemon picks
up edits without a restart.
`)
}

func writeFiles(b *strings.Builder) {
	b.WriteString(`.SH FILES
.TP
.I ~/.config/matrix\-pulse/config.yaml
Primary configuration file (YAML).
.TP
.I /run/matrix\-pulse/display.sock
Default display server socket.
`)
}

func writeExamples(b *strings.Builder) {
	b.WriteString(`.SH EXAMPLES
Run the polling daemon with the default configuration:
.PP
.nf
matrix\-pulse
.fi
.PP
Preview the panel layout in the terminal:
.PP
.nf
matrix\-pulse \-preview
.fi
.PP
Inspect the rendered frames without a display server:
.PP
.nf
matrix\-pulse \-diagnose /tmp/frames
.fi
.PP
Run one cycle against a non-standard socket:
.PP
.nf
MATRIX_PULSE_SOCKET=/tmp/display.sock matrix\-pulse \-once
.fi
`)
}

func writeEnvironment(b *strings.Builder) {
	b.WriteString(`.SH ENVIRONMENT
.TP
.B MATRIX_PULSE_SOCKET
Overrides the configured display server socket path.
.TP
.B MATRIX_PULSE_LOG_LEVEL
Overrides the configured log level.
.TP
.B XDG_CONFIG_HOME
Changes the configuration search directory from ~/.config.
`)
}

func writeExitStatus(b *strings.Builder) {
	b.WriteString(`.SH EXIT STATUS
.TP
.B 0
Success.
.TP
.B 1
Configuration error, render failure, or transport failure in one-shot
and diagnose modes. The daemon logs per-cycle failures and keeps
running.
`)
}

func writeSeeAlso(b *strings.Builder) {
	b.WriteString(`.SH SEE ALSO
.BR man (1),
.BR systemd.service (5)
`)
}

func writeFooter(b *strings.Builder, version, commit, date string) {
	fmt.Fprintf(b, `.SH VERSION
matrix\-pulse %s (commit %s, built %s)
`, version, commit, date)
}
