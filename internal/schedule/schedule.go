// Package schedule loads the weekly timetable and maps wall-clock instants
// onto it.
//
// The timetable is a YAML file: per weekday, a list of nodes, each anchored
// to a clock time and carrying an ordered list of activities. Alternate-week
// timetables are supported through an optional even-week node list per day;
// parity counts from the configured start date.
package schedule

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Activity is one timetable entry inside a node.
type Activity struct {
	// Subject is the lesson name shown in the widget. Breaks leave it
	// empty.
	Subject string `yaml:"subject,omitempty"`

	// Kind is "lesson" or "break".
	Kind string `yaml:"kind"`

	// Minutes is the activity length.
	Minutes int `yaml:"minutes"`
}

// Node is a period grouping anchored to a clock time.
type Node struct {
	// Start is the anchor clock time, "HH:MM".
	Start string `yaml:"start"`

	// Activities run back to back from the anchor.
	Activities []Activity `yaml:"activities"`
}

// Day holds a weekday's nodes. EvenNodes, when present, replaces Nodes on
// even weeks.
type Day struct {
	Nodes     []Node `yaml:"nodes"`
	EvenNodes []Node `yaml:"even_nodes,omitempty"`
}

// Timetable is the full weekly schedule.
type Timetable struct {
	// StartDate ("2006-01-02") fixes week parity: the week containing it
	// is week one, an odd week.
	StartDate string `yaml:"start_date"`

	// Days maps lowercase weekday names to their schedule.
	Days map[string]Day `yaml:"days"`
}

// Load reads and validates a timetable file.
func Load(path string) (*Timetable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timetable: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes a timetable document.
func Parse(data []byte) (*Timetable, error) {
	var t Timetable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse timetable: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks anchors, kinds and durations.
func (t *Timetable) Validate() error {
	if t.StartDate != "" {
		if _, err := time.Parse("2006-01-02", t.StartDate); err != nil {
			return fmt.Errorf("start_date: %w", err)
		}
	}
	for name, day := range t.Days {
		if !validWeekday(name) {
			return fmt.Errorf("unknown weekday %q", name)
		}
		for _, nodes := range [][]Node{day.Nodes, day.EvenNodes} {
			for i, node := range nodes {
				if _, err := parseClock(node.Start); err != nil {
					return fmt.Errorf("%s node %d: %w", name, i, err)
				}
				for j, act := range node.Activities {
					switch act.Kind {
					case "lesson", "break":
					default:
						return fmt.Errorf("%s node %d activity %d: unknown kind %q", name, i, j, act.Kind)
					}
					if act.Minutes <= 0 {
						return fmt.Errorf("%s node %d activity %d: minutes must be positive", name, i, j)
					}
					if act.Kind == "lesson" && act.Subject == "" {
						return fmt.Errorf("%s node %d activity %d: lesson needs a subject", name, i, j)
					}
				}
			}
		}
	}
	return nil
}

// EvenWeek reports whether the week containing now is an even week. Without
// a start date every week is odd.
func (t *Timetable) EvenWeek(now time.Time) bool {
	if t.StartDate == "" {
		return false
	}
	start, err := time.ParseInLocation("2006-01-02", t.StartDate, now.Location())
	if err != nil {
		return false
	}
	start = weekMonday(start)
	days := int(weekMonday(now).Sub(start).Hours() / 24)
	if days < 0 {
		return false
	}
	return (days/7)%2 == 1
}

// NodesFor returns the node list in effect on the given day.
func (t *Timetable) NodesFor(day time.Time) []Node {
	d, ok := t.Days[strings.ToLower(day.Weekday().String())]
	if !ok {
		return nil
	}
	if t.EvenWeek(day) && len(d.EvenNodes) > 0 {
		return d.EvenNodes
	}
	return d.Nodes
}

func validWeekday(name string) bool {
	switch name {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}

// parseClock parses "HH:MM" into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("clock time %q: %w", s, err)
	}
	return time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute, nil
}

// clockOn places a clock offset onto a calendar day.
func clockOn(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(offset)
}

// weekMonday returns midnight of the Monday of now's week.
func weekMonday(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	wd := int(now.Weekday())
	if wd == 0 {
		wd = 7
	}
	return midnight.AddDate(0, 0, 1-wd)
}
