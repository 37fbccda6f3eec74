// Package timeline resolves which timetable segment is active at an instant.
//
// A school day is divided into nodes (top-level period groupings), each
// anchored to a wall-clock start time. Within a node, activities (lessons
// and breaks) occupy contiguous half-open windows laid out back to back from
// the anchor. The resolver is pure: it holds no state and derives everything
// from the table, the anchor, and the supplied clock value.
package timeline

import (
	"sort"
	"strconv"
	"time"
)

// Kind classifies a timetable activity.
type Kind int

const (
	// KindLesson is a taught lesson.
	KindLesson Kind = iota

	// KindBreak is the recess between lessons.
	KindBreak
)

// String returns a short name for the kind.
func (k Kind) String() string {
	if k == KindBreak {
		return "break"
	}
	return "lesson"
}

// Activity id bytes: the leading byte is the type tag, the second byte is
// the node index digit, the remainder is the sequence number. Lessons tag
// with 'a' and breaks with 'f'; 'a' sorting before 'f' is load-bearing for
// the equal-sequence tie-break.
const (
	tagLesson = 'a'
	tagBreak  = 'f'
)

// ActivityID is a compact activity identifier such as "a01" or "f12".
type ActivityID string

// Valid reports whether the id carries a parseable type, node and sequence.
func (id ActivityID) Valid() bool {
	if len(id) < 3 {
		return false
	}
	if id[0] != tagLesson && id[0] != tagBreak {
		return false
	}
	if id[1] < '0' || id[1] > '9' {
		return false
	}
	_, err := strconv.Atoi(string(id[2:]))
	return err == nil
}

// Kind returns the activity type encoded in the id.
func (id ActivityID) Kind() Kind {
	if len(id) > 0 && id[0] == tagBreak {
		return KindBreak
	}
	return KindLesson
}

// Node returns the node index encoded in the id.
func (id ActivityID) Node() int {
	if len(id) < 2 {
		return 0
	}
	return int(id[1] - '0')
}

// Sequence returns the in-node sequence number encoded in the id.
func (id ActivityID) Sequence() int {
	if len(id) < 3 {
		return 0
	}
	n, err := strconv.Atoi(string(id[2:]))
	if err != nil {
		return 0
	}
	return n
}

// Table maps activity ids to their duration in minutes.
type Table map[ActivityID]int

// Anchor fixes where a node starts on the wall clock. It is supplied by the
// host once per node and never mutated here.
type Anchor struct {
	Node  int
	Start time.Time
}

// Segment is one resolved activity window. Recomputed every tick, never
// persisted.
type Segment struct {
	ID       ActivityID
	Kind     Kind
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// Contains reports whether now falls inside the half-open window.
func (s Segment) Contains(now time.Time) bool {
	return !now.Before(s.Start) && now.Before(s.End)
}

// Build lays out the node's segments in order from the anchor: filtered to
// the anchor's node, sorted by (sequence asc, type asc) so a lesson and a
// break with equal sequence never both claim a slot, then accumulated into
// contiguous windows with no gaps or overlaps. Unparseable ids are skipped.
func Build(table Table, anchor Anchor) []Segment {
	type entry struct {
		id      ActivityID
		minutes int
	}

	entries := make([]entry, 0, len(table))
	for id, minutes := range table {
		if !id.Valid() || id.Node() != anchor.Node || minutes <= 0 {
			continue
		}
		entries = append(entries, entry{id: id, minutes: minutes})
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		si, sj := entries[i].id.Sequence(), entries[j].id.Sequence()
		if si != sj {
			return si < sj
		}
		return entries[i].id[0] < entries[j].id[0]
	})

	segments := make([]Segment, 0, len(entries))
	cursor := anchor.Start
	for _, e := range entries {
		d := time.Duration(e.minutes) * time.Minute
		segments = append(segments, Segment{
			ID:       e.id,
			Kind:     e.id.Kind(),
			Start:    cursor,
			End:      cursor.Add(d),
			Duration: d,
		})
		cursor = cursor.Add(d)
	}
	return segments
}

// Resolve returns the segment governing now within the anchored node.
//
//   - Before the anchor it returns the node's first lesson segment; the
//     caller sees the pending state from now preceding anchor.Start.
//   - At or after the end of the last segment it reports false: the node has
//     fully elapsed.
//   - Otherwise it returns the segment whose window contains now. If no
//     window contains now (a rounding gap), the node's last lesson segment
//     is the documented fallback.
func Resolve(table Table, anchor Anchor, now time.Time) (Segment, bool) {
	segments := Build(table, anchor)
	if len(segments) == 0 {
		return Segment{}, false
	}

	if now.Before(anchor.Start) {
		return firstLesson(segments)
	}
	if !now.Before(segments[len(segments)-1].End) {
		return Segment{}, false
	}

	for _, seg := range segments {
		if seg.Contains(now) {
			return seg, true
		}
	}
	return lastLesson(segments)
}

// ResolveHighlight returns the activity the UI should highlight at now.
// Highlighting always points at a lesson: when now falls inside a break, the
// next lesson after it is returned instead, or false if the break is the
// node's tail.
func ResolveHighlight(table Table, anchor Anchor, now time.Time) (ActivityID, bool) {
	segments := Build(table, anchor)
	if len(segments) == 0 {
		return "", false
	}

	if now.Before(anchor.Start) {
		seg, ok := firstLesson(segments)
		return seg.ID, ok
	}
	if !now.Before(segments[len(segments)-1].End) {
		return "", false
	}

	for i, seg := range segments {
		if !seg.Contains(now) {
			continue
		}
		if seg.Kind == KindLesson {
			return seg.ID, true
		}
		for _, next := range segments[i+1:] {
			if next.Kind == KindLesson {
				return next.ID, true
			}
		}
		return "", false
	}

	seg, ok := lastLesson(segments)
	return seg.ID, ok
}

// NodeEnd returns the wall-clock end of the anchored node, false when the
// node has no entries.
func NodeEnd(table Table, anchor Anchor) (time.Time, bool) {
	segments := Build(table, anchor)
	if len(segments) == 0 {
		return time.Time{}, false
	}
	return segments[len(segments)-1].End, true
}

func firstLesson(segments []Segment) (Segment, bool) {
	for _, seg := range segments {
		if seg.Kind == KindLesson {
			return seg, true
		}
	}
	return Segment{}, false
}

func lastLesson(segments []Segment) (Segment, bool) {
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Kind == KindLesson {
			return segments[i], true
		}
	}
	return Segment{}, false
}
