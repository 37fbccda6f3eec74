package schedule

import (
	"strconv"
	"time"

	"lessond/internal/config"
	"lessond/internal/timeline"
)

// TodayEnd returns the wall-clock end of the day's last node, false on a day
// with no nodes.
func TodayEnd(t *Timetable, now time.Time) (time.Time, bool) {
	nodes := t.NodesFor(now)
	if len(nodes) == 0 {
		return time.Time{}, false
	}
	last := len(nodes) - 1
	ctx := buildContext(nodes, last, now)
	return timeline.NodeEnd(ctx.Table, ctx.Anchor)
}

// TomorrowCourses lists tomorrow's lesson subjects in timetable order.
// Consecutive repeats collapse to one entry, matching the widget's preview.
func TomorrowCourses(t *Timetable, now time.Time) []string {
	tomorrow := now.AddDate(0, 0, 1)
	nodes := t.NodesFor(tomorrow)

	var out []string
	for _, node := range nodes {
		for _, act := range node.Activities {
			if act.Kind != "lesson" || act.Subject == "" {
				continue
			}
			if len(out) > 0 && out[len(out)-1] == act.Subject {
				continue
			}
			out = append(out, act.Subject)
		}
	}
	return out
}

// ShouldShowTomorrow decides whether the tomorrow-course preview is due:
// the feature is switched on, now has passed the configured earliest clock
// time, and no more than the configured number of minutes remain before
// today's last node ends. Once today is over the preview stays up.
func ShouldShowTomorrow(t *Timetable, spec config.TomorrowSpec, now time.Time) bool {
	if !config.ParseFlag(spec.Switch) {
		return false
	}

	if spec.StartTimeLimit != "" {
		offset, err := parseClock(spec.StartTimeLimit)
		if err != nil {
			return false
		}
		if now.Before(clockOn(now, offset)) {
			return false
		}
	}

	end, ok := TodayEnd(t, now)
	if !ok {
		// Nothing scheduled today: the preview is all there is to show.
		return true
	}
	if !now.Before(end) {
		return true
	}

	limit, err := strconv.Atoi(spec.TimeRemaining)
	if err != nil || limit <= 0 {
		return false
	}
	return end.Sub(now) <= time.Duration(limit)*time.Minute
}
