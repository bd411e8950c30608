package stopwatch

import (
	"fmt"
	"time"
)

// ZeroDisplay is what the stopwatch shows before it is started and after a reset.
const ZeroDisplay = "00:00"

// FormatElapsed renders milliseconds as "SS:CC", or "MM:SS:CC" once at least
// one minute has elapsed. Minutes wrap at 60, there is no hours field.
// Negative input is treated as zero.
func FormatElapsed(millis int64) string {
	if millis < 0 {
		millis = 0
	}

	var (
		centiseconds = (millis / 10) % 100
		seconds      = (millis / 1000) % 60
		minutes      = (millis / 60000) % 60
	)

	if minutes > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, centiseconds)
	}

	return fmt.Sprintf("%02d:%02d", seconds, centiseconds)
}

// FormatDuration is FormatElapsed for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatElapsed(d.Milliseconds())
}
