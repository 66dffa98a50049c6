// Package sizefmt formats byte counts and durations for display. It is a
// thin wrapper around the teacher's formatting dependency so that the core
// packages (appstate, view) depend only on this small interface rather
// than importing humanize directly everywhere.
package sizefmt

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Bytes formats n using binary (IEC) units, e.g. "1.2 MiB".
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// Duration formats d for the calc-duration suffix shown next to a row
// (spec.md §4.7: "optional calc-duration suffix when known").
func Duration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Truncate(time.Second).String()
	}
}
