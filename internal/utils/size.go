package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb", "pb"}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(units)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		formatted := fmt.Sprintf("%.1f", value)
		formatted = strings.TrimSuffix(formatted, ".0")
		return formatted + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, units[unitIndex])
}

// ParseSizeLimit converts a human size expression such as "500k", "2M" or
// "1g" into a byte count. Bare digits are taken as bytes. An empty string or
// "0" disables the limit and yields zero. Malformed input yields zero and a
// non-nil error so callers can warn and continue without a limit.
func ParseSizeLimit(sizeExpression string) (int64, error) {
	normalized := strings.ToLower(strings.TrimSpace(sizeExpression))
	if normalized == EmptyString || normalized == "0" {
		return 0, nil
	}

	multiplier := int64(1)
	digits := normalized
	switch {
	case strings.HasSuffix(normalized, "g"):
		multiplier = 1024 * 1024 * 1024
		digits = strings.TrimSuffix(normalized, "g")
	case strings.HasSuffix(normalized, "m"):
		multiplier = 1024 * 1024
		digits = strings.TrimSuffix(normalized, "m")
	case strings.HasSuffix(normalized, "k"):
		multiplier = 1024
		digits = strings.TrimSuffix(normalized, "k")
	}

	value, parseError := strconv.ParseInt(digits, 10, 64)
	if parseError != nil || value < 0 {
		return 0, fmt.Errorf("invalid size expression %q", sizeExpression)
	}
	return value * multiplier, nil
}
