// Package analytics turns stored stats rows into normalized snapshots,
// deltas and range aggregates. Every function here is pure.
package analytics

import (
	"math"
	"regexp"
	"strconv"
)

var (
	// Alternation is leftmost-first, so "ms" must precede "m" and "s".
	durationSegment = regexp.MustCompile(`([\d.]+)(µs|μs|ms|s|m|h)`)
	singleDuration  = regexp.MustCompile(`^([\d.]+)(µs|μs|ms|s|m|h)$`)
	cooldownPattern = regexp.MustCompile(`^([\d.]+)s$`)
	numberPrefix    = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

var unitMillis = map[string]float64{
	"µs": 0.001,
	"μs": 0.001,
	"ms": 1,
	"s":  1000,
	"m":  60 * 1000,
	"h":  60 * 60 * 1000,
}

// ParseDuration converts a duration such as "1h2m3.5s" or "450µs" to
// milliseconds. Every <number><unit> segment is summed; anything else is
// ignored. A malformed number counts its leading digits, so "1..2s" is
// one second. Returns 0 when nothing matches.
func ParseDuration(text string) float64 {
	var total float64
	for _, m := range durationSegment.FindAllStringSubmatch(text, -1) {
		v, err := leadingFloat(m[1])
		if err != nil {
			continue
		}
		total += v * unitMillis[m[2]]
	}
	return total
}

// ParseDurationStrict accepts exactly one <number><unit> segment, e.g.
// "1.2ms", and returns 0 for anything else.
func ParseDurationStrict(text string) float64 {
	m := singleDuration.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := leadingFloat(m[1])
	if err != nil {
		return 0
	}
	return v * unitMillis[m[2]]
}

// ParseCooldown converts a cooldown such as "45.5s" to seconds.
func ParseCooldown(text string) float64 {
	m := cooldownPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := leadingFloat(m[1])
	if err != nil {
		return 0
	}
	return v
}

// leadingFloat parses the longest numeric prefix of text, so "1..2"
// reads as 1. It fails only when text has no leading digits.
func leadingFloat(text string) (float64, error) {
	prefix := numberPrefix.FindString(text)
	if prefix == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(prefix, 64)
}

// round rounds half up, matching how the upstream dashboard rounds.
func round(x float64) float64 {
	return math.Floor(x + 0.5)
}
