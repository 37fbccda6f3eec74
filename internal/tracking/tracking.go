// Package tracking derives countdown figures from the timeline resolver.
//
// For the active segment it reports total, elapsed-derived progress, and
// remaining seconds in display-ready form. A segment that has not begun yet
// is a distinct NotStarted state, not a zero total.
package tracking

import (
	"fmt"
	"math"
	"time"

	"lessond/internal/timeline"
)

// Info is the per-tick time summary of the active segment.
type Info struct {
	ID   timeline.ActivityID
	Kind timeline.Kind

	// NotStarted marks the pending state: the node's anchor is still in
	// the future. Total is meaningless while set.
	NotStarted bool

	// Total is the segment length in seconds.
	Total int

	// Remaining is the number of seconds until the segment (or, in the
	// pending state, the wait for the anchor) ends. Never negative.
	Remaining int
}

// Compute resolves the active segment and derives its time info. A false
// return means no segment is active and the countdown display must blank.
func Compute(table timeline.Table, anchor timeline.Anchor, now time.Time) (Info, bool) {
	seg, ok := timeline.Resolve(table, anchor, now)
	if !ok {
		return Info{}, false
	}

	if now.Before(anchor.Start) {
		// Pending: counting down to the anchor, displayed as a break.
		return Info{
			ID:         seg.ID,
			Kind:       timeline.KindBreak,
			NotStarted: true,
			Remaining:  seconds(anchor.Start.Sub(now)),
		}, true
	}

	remaining := seconds(seg.End.Sub(now))
	if remaining < 0 {
		remaining = 0
	}

	return Info{
		ID:        seg.ID,
		Kind:      seg.Kind,
		Total:     seconds(seg.Duration),
		Remaining: remaining,
	}, true
}

// ProgressPercent returns the display progress in [0,100]. The pending state
// pins to 100, meaning "ready at the boundary".
func (i Info) ProgressPercent() int {
	if i.NotStarted {
		return 100
	}
	if i.Total <= 0 {
		return 0
	}
	p := int(math.Round(float64(i.Total-i.Remaining) / float64(i.Total) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Unit is the display unit for a countdown value.
type Unit int

const (
	// UnitMinutes displays whole minutes.
	UnitMinutes Unit = iota

	// UnitSeconds displays whole seconds.
	UnitSeconds
)

// Countdown is the rounded display form of the remaining time.
type Countdown struct {
	Value int
	Unit  Unit
}

// String formats the countdown the way the overlay renders it.
func (c Countdown) String() string {
	if c.Unit == UnitSeconds {
		return fmt.Sprintf("< %d s", c.Value)
	}
	return fmt.Sprintf("< %d min", c.Value)
}

// Display applies the countdown rounding rule: a minute or more rounds up to
// whole minutes; under a minute shows seconds, never displaying 0 while the
// segment is still active.
func (i Info) Display() Countdown {
	if i.Remaining >= 60 {
		return Countdown{Value: (i.Remaining + 59) / 60, Unit: UnitMinutes}
	}
	v := i.Remaining
	if v < 1 {
		v = 1
	}
	return Countdown{Value: v, Unit: UnitSeconds}
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
