package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeHexColor accepts "#rgb", "#rrggbb" and "#aarrggbb" (with or
// without the leading #) and returns lowercase "#rrggbb". Alpha is dropped.
// Example: "#FF112233" -> "#112233"
func NormalizeHexColor(color string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(color), "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		hex = hex[2:]
	default:
		return "", fmt.Errorf("invalid color %q", color)
	}

	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q: %w", color, err)
	}
	return "#" + strings.ToLower(hex), nil
}

// ColorOrDefault normalizes color, falling back to def when it is empty or
// invalid.
func ColorOrDefault(color, def string) string {
	if strings.TrimSpace(color) == "" {
		return def
	}
	c, err := NormalizeHexColor(color)
	if err != nil {
		return def
	}
	return c
}
