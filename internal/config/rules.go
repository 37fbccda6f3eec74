package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RuleSpec is one raw automation rule entry from the rules JSON, keyed by
// lesson name. Boolean flags use the literal strings "True"/"False" (the
// original on-disk format, preserved for compatibility).
type RuleSpec struct {
	// Time is the signed trigger offset in seconds: positive fires that
	// many seconds into the lesson, non-positive when at most that many
	// seconds remain.
	Time int `json:"time"`

	// Click is "True" when the rule commits even if the user is active.
	Click string `json:"click"`

	// Mode is blackboard, whiteboard or none.
	Mode string `json:"mode"`
}

// TomorrowSpec configures the tomorrow-course preview.
type TomorrowSpec struct {
	// Switch is "True" when the preview is enabled.
	Switch string `json:"switch"`

	// StartTimeLimit is the earliest wall-clock time (HH:MM) the preview
	// may appear.
	StartTimeLimit string `json:"start_time_limit"`

	// TimeRemaining is the threshold in minutes before today's last node
	// ends.
	TimeRemaining string `json:"time_remaining"`
}

// AutomationData is the parsed rules document.
type AutomationData struct {
	Events         map[string]RuleSpec `json:"events"`
	TomorrowCourse TomorrowSpec        `json:"tomorrow_course"`

	// Malformed lists lesson names whose entries could not be decoded and
	// were skipped. The caller logs them; they never abort the rest.
	Malformed []string `json:"-"`
}

// rulesSchema validates the document envelope. Individual rule entries are
// converted tolerantly afterwards so one malformed entry cannot take the
// rest down.
const rulesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "events": {
      "type": "object",
      "additionalProperties": {"type": "object"}
    },
    "tomorrow_course": {"type": "object"}
  },
  "additionalProperties": true
}`

var compiledRulesSchema = jsonschema.MustCompileString("rules.schema.json", rulesSchema)

// LoadAutomationData reads and validates the rules JSON. A missing file is
// not an error: automation simply has no rules until one appears.
func LoadAutomationData(path string) (*AutomationData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &AutomationData{Events: map[string]RuleSpec{}}, nil
		}
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseAutomationData(data)
}

// ParseAutomationData validates and decodes a rules document.
func ParseAutomationData(data []byte) (*AutomationData, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := compiledRulesSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}

	var raw struct {
		Events         map[string]json.RawMessage `json:"events"`
		TomorrowCourse TomorrowSpec               `json:"tomorrow_course"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	out := AutomationData{
		Events:         make(map[string]RuleSpec, len(raw.Events)),
		TomorrowCourse: raw.TomorrowCourse,
	}
	for lesson, msg := range raw.Events {
		var spec RuleSpec
		if err := json.Unmarshal(msg, &spec); err != nil {
			out.Malformed = append(out.Malformed, lesson)
			continue
		}
		out.Events[lesson] = spec
	}
	return &out, nil
}

// ParseFlag decodes the "True"/"False" string convention.
func ParseFlag(s string) bool {
	return s == "True"
}
