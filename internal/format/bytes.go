// Package format provides shared formatting helpers for logs and the
// preview status line.
package format

import "fmt"

// Rate renders a bytes-per-second value as a concise human-readable
// string: "512 B/s", "1.2 KB/s", "3.4 MB/s".
func Rate(bytesPerSec uint64) string {
	const unit = 1000
	if bytesPerSec < unit {
		return fmt.Sprintf("%d B/s", bytesPerSec)
	}
	div, exp := uint64(unit), 0
	for n := bytesPerSec / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB/s", float64(bytesPerSec)/float64(div), "KMGTPE"[exp])
}

// Count renders a per-second operation count: "87 op/s", "1.3k op/s".
func Count(opsPerSec uint64) string {
	if opsPerSec < 1000 {
		return fmt.Sprintf("%d op/s", opsPerSec)
	}
	return fmt.Sprintf("%.1fk op/s", float64(opsPerSec)/1000)
}
