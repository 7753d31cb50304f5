// Package format renders addresses, hashes, durations and amounts for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ShortenAddress keeps the first 6 and last 4 characters: 0x1234...5678.
func ShortenAddress(address string) string {
	return shorten(address, 6, 4)
}

// ShortenTxHash keeps the first 10 and last 8 characters.
func ShortenTxHash(hash string) string {
	return shorten(hash, 10, 8)
}

func shorten(s string, head, tail int) string {
	if s == "" {
		return ""
	}
	if len(s) <= head+tail {
		return s
	}
	return s[:head] + "..." + s[len(s)-tail:]
}

// TimeAgo renders how long before now t was.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown time"
	}
	seconds := int(now.Sub(t).Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%d seconds ago", max(seconds, 0))
	}
	minutes := seconds / 60
	if minutes < 60 {
		return plural(minutes, "minute") + " ago"
	}
	hours := minutes / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	days := hours / 24
	if days < 30 {
		return plural(days, "day") + " ago"
	}
	return plural(days/30, "month") + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// TimeRange renders a minute range. Ranges no wider than two minutes collapse to their midpoint.
func TimeRange(minMinutes, maxMinutes float64) string {
	if maxMinutes-minMinutes <= 2 {
		return duration((minMinutes + maxMinutes) / 2)
	}
	return duration(minMinutes) + " - " + duration(maxMinutes)
}

func duration(minutes float64) string {
	switch {
	case minutes < 1:
		return fmt.Sprintf("%d seconds", int(math.Round(minutes*60)))
	case minutes < 60:
		mins := int(math.Floor(minutes))
		secs := int(math.Round((minutes - float64(mins)) * 60))
		out := fmt.Sprintf("%d min", mins)
		if mins != 1 {
			out += "s"
		}
		if secs > 0 {
			out += fmt.Sprintf(" %d sec", secs)
		}
		return out
	default:
		hours := int(math.Floor(minutes / 60))
		mins := int(math.Round(math.Mod(minutes, 60)))
		out := fmt.Sprintf("%d hr", hours)
		if hours != 1 {
			out += "s"
		}
		if mins > 0 {
			out += fmt.Sprintf(" %d min", mins)
		}
		return out
	}
}

// Currency renders a USD amount with thousands separators and 2 to 6 decimals.
func Currency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 6, 64)
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	for len(frac) < 2 {
		frac += "0"
	}

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}
