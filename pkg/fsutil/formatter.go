package fsutil

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes converts bytes to human-readable form (e.g. "1.2 GB").
// This is a display convenience for the CLI/TUI, distinct from the
// spec-grammar size strings the sizeparse package parses (the
// --min-size flag).
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}
	return humanize.Bytes(uint64(bytes))
}

// FormatCount formats a count with thousands separators (e.g. "1,234").
func FormatCount(count int64) string {
	return humanize.Comma(count)
}

// FormatDuration formats a duration at human-appropriate precision.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

// FormatPercentage formats value/total as a percentage with one decimal
// place, reporting "0%" (not "0.0%") for a zero total to signal "no
// data" distinctly from "zero measured".
func FormatPercentage(value, total int64) string {
	if total == 0 {
		return "0%"
	}
	pct := float64(value) / float64(total) * 100
	return fmt.Sprintf("%.1f%%", pct)
}
