package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustClock(t *testing.T, hhmm string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", "2026-03-02 "+hhmm)
	require.NoError(t, err)
	return ts
}

// morning is a node starting 08:00: lesson 45m, break 10m, lesson 45m.
func morning(t *testing.T) (Table, Anchor) {
	t.Helper()
	table := Table{
		"a00": 45,
		"f01": 10,
		"a02": 45,
	}
	return table, Anchor{Node: 0, Start: mustClock(t, "08:00")}
}

func TestActivityID(t *testing.T) {
	assert.True(t, ActivityID("a00").Valid())
	assert.True(t, ActivityID("f12").Valid())
	assert.False(t, ActivityID("x00").Valid())
	assert.False(t, ActivityID("a0").Valid())
	assert.False(t, ActivityID("aX0").Valid())
	assert.False(t, ActivityID("a0x").Valid())

	assert.Equal(t, KindLesson, ActivityID("a00").Kind())
	assert.Equal(t, KindBreak, ActivityID("f00").Kind())
	assert.Equal(t, 3, ActivityID("a31").Node())
	assert.Equal(t, 12, ActivityID("a012").Sequence())
}

func TestBuildContiguous(t *testing.T) {
	table, anchor := morning(t)
	segments := Build(table, anchor)
	require.Len(t, segments, 3)

	assert.Equal(t, ActivityID("a00"), segments[0].ID)
	assert.Equal(t, ActivityID("f01"), segments[1].ID)
	assert.Equal(t, ActivityID("a02"), segments[2].ID)

	assert.Equal(t, anchor.Start, segments[0].Start)
	for i := 1; i < len(segments); i++ {
		assert.Equal(t, segments[i-1].End, segments[i].Start)
	}
	assert.Equal(t, mustClock(t, "09:40"), segments[2].End)
}

func TestBuildFilters(t *testing.T) {
	table := Table{
		"a00": 45,
		"a10": 40, // other node
		"f01": 0,  // zero duration
		"bad": 30, // unparseable
	}
	segments := Build(table, Anchor{Node: 0, Start: mustClock(t, "08:00")})
	require.Len(t, segments, 1)
	assert.Equal(t, ActivityID("a00"), segments[0].ID)
}

func TestBuildTieBreakLessonFirst(t *testing.T) {
	table := Table{
		"f00": 10,
		"a00": 45,
	}
	segments := Build(table, Anchor{Node: 0, Start: mustClock(t, "08:00")})
	require.Len(t, segments, 2)
	assert.Equal(t, ActivityID("a00"), segments[0].ID)
	assert.Equal(t, ActivityID("f00"), segments[1].ID)
}

func TestResolve(t *testing.T) {
	table, anchor := morning(t)

	// Pending: before the anchor the first lesson is returned.
	seg, ok := Resolve(table, anchor, mustClock(t, "07:30"))
	require.True(t, ok)
	assert.Equal(t, ActivityID("a00"), seg.ID)

	// Inside the first lesson.
	seg, ok = Resolve(table, anchor, mustClock(t, "08:20"))
	require.True(t, ok)
	assert.Equal(t, ActivityID("a00"), seg.ID)

	// 08:50 falls in the break (08:45-08:55).
	seg, ok = Resolve(table, anchor, mustClock(t, "08:50"))
	require.True(t, ok)
	assert.Equal(t, ActivityID("f01"), seg.ID)
	assert.Equal(t, KindBreak, seg.Kind)

	// Exactly at a boundary the next segment owns the instant.
	seg, ok = Resolve(table, anchor, mustClock(t, "08:45"))
	require.True(t, ok)
	assert.Equal(t, ActivityID("f01"), seg.ID)

	// At the node's end nothing resolves.
	_, ok = Resolve(table, anchor, mustClock(t, "09:40"))
	assert.False(t, ok)

	_, ok = Resolve(table, anchor, mustClock(t, "11:00"))
	assert.False(t, ok)
}

func TestResolveEmptyTable(t *testing.T) {
	_, ok := Resolve(Table{}, Anchor{Node: 0, Start: mustClock(t, "08:00")}, mustClock(t, "08:30"))
	assert.False(t, ok)
}

func TestResolveHighlight(t *testing.T) {
	table, anchor := morning(t)

	// During a break the highlight moves to the next lesson.
	id, ok := ResolveHighlight(table, anchor, mustClock(t, "08:50"))
	require.True(t, ok)
	assert.Equal(t, ActivityID("a02"), id)

	// During a lesson it is that lesson.
	id, ok = ResolveHighlight(table, anchor, mustClock(t, "08:20"))
	require.True(t, ok)
	assert.Equal(t, ActivityID("a00"), id)

	// Pending highlights the first lesson.
	id, ok = ResolveHighlight(table, anchor, mustClock(t, "07:00"))
	require.True(t, ok)
	assert.Equal(t, ActivityID("a00"), id)

	// A tail break highlights nothing.
	tail := Table{"a00": 45, "f01": 10}
	_, ok = ResolveHighlight(tail, anchor, mustClock(t, "08:50"))
	assert.False(t, ok)

	// After the node nothing highlights.
	_, ok = ResolveHighlight(table, anchor, mustClock(t, "10:00"))
	assert.False(t, ok)
}

func TestNodeEnd(t *testing.T) {
	table, anchor := morning(t)
	end, ok := NodeEnd(table, anchor)
	require.True(t, ok)
	assert.Equal(t, mustClock(t, "09:40"), end)

	_, ok = NodeEnd(Table{}, anchor)
	assert.False(t, ok)
}

func genTable(t *rapid.T) Table {
	table := Table{}
	n := rapid.IntRange(1, 8).Draw(t, "entries")
	for i := 0; i < n; i++ {
		tag := byte(tagLesson)
		if rapid.Bool().Draw(t, "isBreak") {
			tag = tagBreak
		}
		id := ActivityID([]byte{tag, '0', byte('0' + i)})
		table[id] = rapid.IntRange(1, 90).Draw(t, "minutes")
	}
	return table
}

func TestBuildProperties(t *testing.T) {
	anchorStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	rapid.Check(t, func(t *rapid.T) {
		table := genTable(t)
		anchor := Anchor{Node: 0, Start: anchorStart}
		segments := Build(table, anchor)

		if len(segments) != len(table) {
			t.Fatalf("expected %d segments, got %d", len(table), len(segments))
		}

		// Contiguous windows from the anchor, no gaps or overlaps.
		cursor := anchor.Start
		total := time.Duration(0)
		for _, seg := range segments {
			if !seg.Start.Equal(cursor) {
				t.Fatalf("segment %s starts %v, want %v", seg.ID, seg.Start, cursor)
			}
			if seg.ID.Node() != anchor.Node {
				t.Fatalf("segment %s from wrong node", seg.ID)
			}
			cursor = seg.End
			total += seg.Duration
		}
		if !cursor.Equal(anchor.Start.Add(total)) {
			t.Fatalf("windows do not sum")
		}

		// Every in-window instant resolves, and the highlight is never
		// a break.
		offset := rapid.Int64Range(0, int64(total/time.Second)-1).Draw(t, "offset")
		now := anchor.Start.Add(time.Duration(offset) * time.Second)
		seg, ok := Resolve(table, anchor, now)
		if !ok {
			t.Fatalf("no segment resolved at %v", now)
		}
		if !seg.Contains(now) {
			t.Fatalf("resolved segment does not contain %v", now)
		}
		if id, ok := ResolveHighlight(table, anchor, now); ok && id.Kind() == KindBreak {
			t.Fatalf("highlight resolved to a break: %s", id)
		}
	})
}
