// Package clocks provides the platform layer's three clocks, sleep, and
// ISO-8601 timestamp formatting.
//
// WallMillis and WallMicros read the wall clock as epoch offsets; they can
// jump when the system time is adjusted. Monotonic counts nanoseconds
// since process start from the runtime's monotonic reading and never runs
// backward. Use it for elapsed time, never wall time.
//
// FormatTime and ParseTime round-trip the fixed wire shape
// YYYY-MM-DDTHH:MM:SSZ used in filings and audit records. The shape is
// preserved even when formatting local time: the UTC switch selects which
// wall digits are rendered, the trailing Z is part of the shape.
package clocks

import (
	"context"
	"time"

	"github.com/docketworks/platform/errors"
)

// timeLayout is the wire shape. The trailing Z is a literal, not a zone
// directive, so local formatting keeps the shape.
const timeLayout = "2006-01-02T15:04:05Z"

var processStart = time.Now()

// WallMillis returns the wall clock as milliseconds since the Unix epoch.
func WallMillis() int64 {
	return time.Now().UnixMilli()
}

// WallMicros returns the wall clock as microseconds since the Unix epoch.
func WallMicros() int64 {
	return time.Now().UnixMicro()
}

// Monotonic returns nanoseconds elapsed since process start. Successive
// readings never decrease within a process lifetime.
func Monotonic() int64 {
	return time.Since(processStart).Nanoseconds()
}

// Sleep blocks the calling thread for d.
func Sleep(d time.Duration) {
	time.Sleep(d)
}

// SleepContext sleeps for d or until ctx ends, whichever comes first.
// A context deadline reports timeout; cancellation reports a generic
// failure carrying the cause.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Timeout("clocks.sleep")
		}
		return errors.Wrap(errors.CodeError, "clocks.sleep", ctx.Err(), "sleep canceled")
	}
}

// FormatTime renders epoch seconds in the wire shape. With utc true the
// UTC wall digits are rendered, otherwise the local ones; the shape is
// identical either way.
func FormatTime(epochSeconds int64, utc bool) string {
	t := time.Unix(epochSeconds, 0)
	if utc {
		t = t.UTC()
	} else {
		t = t.Local()
	}
	return t.Format(timeLayout)
}

// ParseTime reads a wire-shape timestamp as UTC epoch seconds. It is the
// exact inverse of UTC formatting.
func ParseTime(s string) (int64, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, errors.Wrap(errors.CodeInvalidArgument, "clocks.parse", err, "malformed timestamp")
	}
	return t.Unix(), nil
}
