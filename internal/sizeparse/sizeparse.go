// Package sizeparse implements the decimal size-string grammar used by
// config and CLI inputs (spec.md §6):
//
//	size := integer unit?
//	unit := "KB"|"MB"|"GB"|"K"|"M"|"G"   (case-insensitive)
//
// Multipliers are decimal (1 KB = 1000 bytes, not 1024); the unit
// suffix is mandatory once the value reaches 1000. This is a distinct,
// stricter format from the humanize-based display strings in
// pkg/fsutil — this one round-trips exactly for values that are a
// whole number of KB, MB or GB (or below 1000) and to the nearest KB
// otherwise, that one is lossy and reader-friendly.
package sizeparse

import (
	"fmt"
	"strconv"
	"strings"
)

const thousand int64 = 1000

var units = map[string]int64{
	"k":  thousand,
	"kb": thousand,
	"m":  thousand * thousand,
	"mb": thousand * thousand,
	"g":  thousand * thousand * thousand,
	"gb": thousand * thousand * thousand,
}

// ParseSize parses s per the grammar above, returning (0, false) on any
// syntactic error — mirroring the spec's "returns None" contract without
// forcing callers into Go's error-wrapping ceremony for what is, at the
// boundary, a boolean outcome.
func ParseSize(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}

	numPart := s[:i]
	unitPart := strings.TrimSpace(s[i:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}

	if unitPart == "" {
		if n >= thousand {
			// Mandatory suffix for values >= 1000 (spec.md §6).
			return 0, false
		}
		return n, true
	}

	mult, ok := units[strings.ToLower(unitPart)]
	if !ok {
		return 0, false
	}
	return n * mult, true
}

// FormatSize renders n using the same grammar ParseSize consumes,
// choosing the largest unit that divides n evenly, falling back to a
// bare integer below 1000 and, when n >= 1000 and no unit divides it
// evenly, rounding to the nearest KB. This keeps parse_size(format_size(n))
// round-tripping within the spec's unit-rounding tolerance (invariant 8,
// spec.md §8).
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	switch {
	case n != 0 && n%(thousand*thousand*thousand) == 0:
		return fmt.Sprintf("%dGB", n/(thousand*thousand*thousand))
	case n != 0 && n%(thousand*thousand) == 0:
		return fmt.Sprintf("%dMB", n/(thousand*thousand))
	case n != 0 && n%thousand == 0:
		return fmt.Sprintf("%dKB", n/thousand)
	case n < thousand:
		return strconv.FormatInt(n, 10)
	default:
		// No unit divides evenly; round to the nearest KB rather than
		// emit a suffix-less value >= 1000, which ParseSize would reject.
		return fmt.Sprintf("%dKB", (n+thousand/2)/thousand)
	}
}
