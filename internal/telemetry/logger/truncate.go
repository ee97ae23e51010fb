package logger

import (
	"fmt"
	"log/slog"
)

// clip shortens string attributes longer than maxLen bytes, recursing into
// groups. Stored values can be arbitrarily large and are logged at debug.
func clip(a slog.Attr, maxLen int) slog.Attr {
	if maxLen < 0 {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if len(s) > maxLen {
			return slog.String(a.Key, fmt.Sprintf("%s...(%d bytes)", s[:maxLen], len(s)))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			clipped[i] = clip(attr, maxLen)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	}
	return a
}
