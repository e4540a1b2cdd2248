// Package transcript holds the timed text segments produced by speech
// recognition and consumed by overlay generation.
package transcript

import (
	"fmt"
	"time"
)

// Segment is one timed span of recognized speech. Start and End are offsets
// from the beginning of the media; the span is half-open [Start, End).
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Duration returns the length of the span, or zero when End <= Start.
func (s Segment) Duration() time.Duration {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

// ValidTiming reports whether the segment has a positive, non-negative span.
func (s Segment) ValidTiming() bool {
	return s.Start >= 0 && s.End > s.Start
}

func (s Segment) String() string {
	return fmt.Sprintf("[%s, %s) %q", s.Start, s.End, s.Text)
}

// Seconds converts fractional seconds, as emitted by recognizers, to a
// duration rounded to the millisecond.
func Seconds(value float64) time.Duration {
	return (time.Duration(value*float64(time.Second)) + time.Millisecond/2).Truncate(time.Millisecond)
}
