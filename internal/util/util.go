// Package util holds small formatting and hashing helpers shared
// across the cache, matrix builder, and CLI.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// HashKey returns a filesystem-safe, content-addressed name for an
// arbitrary cache key. Route-query keys embed characters such as
// ':', ',', '(', ')' that are legal on POSIX filesystems but not
// guaranteed portable everywhere; hashing sidesteps the question
// entirely (spec.md §9: "portable implementations should hash").
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// FormatDuration formats duration into human readable format (e.g., "1h30m", "5m10s", "45s").
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	}

	if duration < time.Hour {
		m := int(duration.Minutes())
		s := int(duration.Seconds()) % 60

		return fmt.Sprintf("%dm%ds", m, s)
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	return fmt.Sprintf("%dh%dm", h, m)
}
