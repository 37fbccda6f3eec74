package schedule

import (
	"fmt"
	"time"

	"lessond/internal/timeline"
)

// Context is the per-tick bridge from the timetable to the resolver: the
// node governing now, rendered as a duration table plus anchor, and the
// subject names keyed by activity id.
type Context struct {
	// Node is the index of the governing node within the day.
	Node int

	// Anchor is the governing node's clock anchor.
	Anchor timeline.Anchor

	// Table holds the governing node's activity durations.
	Table timeline.Table

	// Subjects maps lesson ids to their display names.
	Subjects map[timeline.ActivityID]string
}

// ContextAt derives the resolver inputs for now. Node selection follows the
// display rule: the node whose window contains now; before the first node,
// the first node (pending); in a gap between nodes, the next upcoming node;
// after the last node, the last node so the day can finish resolving to
// nothing. The second return is false on a day with no nodes.
func ContextAt(t *Timetable, now time.Time) (Context, bool) {
	nodes := t.NodesFor(now)
	if len(nodes) == 0 {
		return Context{}, false
	}

	pick := -1
	for i := range nodes {
		ctx := buildContext(nodes, i, now)
		end, ok := timeline.NodeEnd(ctx.Table, ctx.Anchor)
		if !ok {
			continue
		}
		if now.Before(ctx.Anchor.Start) {
			// First upcoming node wins the gap (and the pending
			// morning).
			pick = i
			break
		}
		if now.Before(end) {
			pick = i
			break
		}
	}
	if pick < 0 {
		pick = len(nodes) - 1
	}
	return buildContext(nodes, pick, now), true
}

// buildContext renders one node into resolver inputs. Activity ids encode
// (kind tag, node digit, position): positions are assigned in listed order,
// which the resolver's (sequence, tag) sort preserves.
func buildContext(nodes []Node, idx int, day time.Time) Context {
	node := nodes[idx]
	offset, _ := parseClock(node.Start)

	ctx := Context{
		Node:     idx,
		Anchor:   timeline.Anchor{Node: idx, Start: clockOn(day, offset)},
		Table:    make(timeline.Table, len(node.Activities)),
		Subjects: make(map[timeline.ActivityID]string),
	}
	for j, act := range node.Activities {
		tag := byte('a')
		if act.Kind == "break" {
			tag = 'f'
		}
		id := timeline.ActivityID(fmt.Sprintf("%c%d%d", tag, idx, j))
		ctx.Table[id] = act.Minutes
		if act.Subject != "" {
			ctx.Subjects[id] = act.Subject
		}
	}
	return ctx
}

// HighlightName resolves the lesson name the widget should highlight at now,
// or "" when nothing qualifies.
func (c Context) HighlightName(now time.Time) string {
	id, ok := timeline.ResolveHighlight(c.Table, c.Anchor, now)
	if !ok {
		return ""
	}
	return c.Subjects[id]
}
