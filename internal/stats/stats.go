// Package stats contains the accuracy and speed calculations.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typers/internal/typing"
)

const sparkChars = " .:-=+*#%@"

// Snapshot is the metrics view rendered alongside a sentence.
type Snapshot struct {
	Errors      int
	Accuracy    float64
	HasAccuracy bool
	WPM         float64
}

// Accuracy returns max(0, 100 - errors*100/typedChars). The second result is
// false when nothing has been typed yet.
func Accuracy(errors, typedChars int) (float64, bool) {
	if typedChars <= 0 {
		return 0, false
	}
	acc := 100 - float64(errors)*100/float64(typedChars)
	if acc < 0 {
		acc = 0
	}
	return acc, true
}

// WPM returns words per minute for the elapsed time, or 0 before any time has passed.
func WPM(typedWords int, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return 60 * float64(typedWords) / secs
}

// Measure computes a snapshot from cumulative counters at time now.
func Measure(c *typing.Counters, now time.Time) Snapshot {
	acc, ok := Accuracy(c.Errors, c.TypedChars)
	return Snapshot{
		Errors:      c.Errors,
		Accuracy:    acc,
		HasAccuracy: ok,
		WPM:         WPM(c.TypedWords, now.Sub(c.StartedAt)),
	}
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
