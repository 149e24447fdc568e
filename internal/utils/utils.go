package utils

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// WaitFor blocks for d or until ctx is done, whichever comes first.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TruncateForLog flattens free text into a single log-friendly line of at most limit runes.
// Whitespace runs become one space, and "..." marks a cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	line := strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(line) <= limit {
		return line
	}
	return string([]rune(line)[:limit]) + "..."
}
