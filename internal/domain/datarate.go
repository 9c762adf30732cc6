package domain

import (
	"strconv"
	"strings"
)

// FormatDataRate renders a raw dataRate attribute (bits per second) for
// display. Non-numeric input counts as zero.
func FormatDataRate(raw string) string {
	return FormatBaud(parseLeadingInt(raw))
}

// FormatBaud picks the largest unit the rate strictly exceeds and truncates:
// 1000 is "1000 bps", 1001 is "1 kbps", 1000000 is "1000 kbps".
func FormatBaud(baud int64) string {
	switch {
	case baud > 1_000_000:
		return strconv.FormatInt(baud/1_000_000, 10) + " Mbps"
	case baud > 1_000:
		return strconv.FormatInt(baud/1_000, 10) + " kbps"
	default:
		return strconv.FormatInt(baud, 10) + " bps"
	}
}

// parseLeadingInt reads an optional sign and the leading decimal digits of s,
// ignoring anything after them ("2.5e6" reads as 2). It returns 0 when there
// are no digits or the value overflows.
func parseLeadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
