package automation

import (
	"fmt"
	"log/slog"

	"lessond/internal/board"
	"lessond/internal/config"
)

// ParseRule converts one raw rules entry into an engine rule. A zero offset
// or an unknown mode rejects the entry.
func ParseRule(lesson string, spec config.RuleSpec) (Rule, error) {
	if spec.Time == 0 {
		return Rule{}, fmt.Errorf("rule %q: time offset must be non-zero", lesson)
	}
	mode, err := board.ParseMode(spec.Mode)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", lesson, err)
	}
	return Rule{
		Lesson:          lesson,
		Offset:          spec.Time,
		IgnoreInterrupt: config.ParseFlag(spec.Click),
		Target:          mode,
	}, nil
}

// BuildRuleset converts a parsed rules document into the engine's table.
// Malformed entries are logged and skipped; one bad rule never disables the
// rest.
func BuildRuleset(data *config.AutomationData, logger *slog.Logger) Ruleset {
	if logger == nil {
		logger = slog.Default()
	}
	rules := make(Ruleset, len(data.Events))
	for _, lesson := range data.Malformed {
		logger.Warn("skipping malformed automation rule", "lesson", lesson)
	}
	for lesson, spec := range data.Events {
		rule, err := ParseRule(lesson, spec)
		if err != nil {
			logger.Warn("skipping invalid automation rule", "lesson", lesson, "error", err)
			continue
		}
		rules[lesson] = rule
	}
	return rules
}
