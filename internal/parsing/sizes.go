package parsing

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const bytesPerMegabyte = 1024 * 1024

// ParseRate parses a transfer rate such as "2M", "500K" or "1.5MiB" into
// bytes per second. An empty value means unlimited and returns 0.
func ParseRate(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(strings.TrimSuffix(strings.TrimSuffix(value, "/s"), "ps"))
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", value, err)
	}
	return int64(n), nil
}

// FormatMB renders a byte count as megabytes with one decimal, e.g. "12.3 MB".
func FormatMB(n int64) string {
	return fmt.Sprintf("%.1f MB", float64(n)/bytesPerMegabyte)
}

// FormatSize renders a byte count for log lines, e.g. "13 MB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
