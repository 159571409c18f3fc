package components

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatCount renders an integer with thousands separators: 12,345.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatSigned renders a delta with an explicit sign: +1,024 or -3.
func FormatSigned(n int64) string {
	if n > 0 {
		return "+" + humanize.Comma(n)
	}
	return humanize.Comma(n)
}

// FormatAxis renders chart axis values compactly: 950, 1.2k, 3.4M.
func FormatAxis(v float64) string {
	if math.Abs(v) < 1000 {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
	value, prefix := humanize.ComputeSI(v)
	return humanize.FtoaWithDigits(value, 1) + prefix
}

// FormatRate renders a per-minute request rate.
func FormatRate(perMinute float64) string {
	return humanize.FormatFloat("#,###.##", perMinute) + "/min"
}

// FormatMillis renders a latency in milliseconds.
func FormatMillis(ms int64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.2fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dms", ms)
}

// FormatCooldown renders the breaker cooldown in seconds.
func FormatCooldown(seconds float64) string {
	if seconds <= 0 {
		return "none"
	}
	return (time.Duration(seconds * float64(time.Second))).Round(100 * time.Millisecond).String()
}

// FormatUptime renders server uptime as "3d 4h 12m".
func FormatUptime(seconds float64) string {
	if seconds <= 0 {
		return "0m"
	}
	total := int64(seconds)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", total)
	}
}

// FormatMB renders a size given in megabytes.
func FormatMB(mb float64) string {
	return humanize.Bytes(uint64(math.Max(mb, 0) * 1000 * 1000))
}

// FormatPercent renders a 0-100 percentage.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
