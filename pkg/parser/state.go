package parser

import (
	"regexp"
	"strings"
)

// State is the section of the narrative the parser is currently reading.
type State int

const (
	StateOverview State = iota
	StateSteps
	StateSafety
)

func (s State) String() string {
	switch s {
	case StateOverview:
		return "overview"
	case StateSteps:
		return "steps"
	case StateSafety:
		return "safety"
	default:
		return "unknown"
	}
}

// Action tells the caller which buffer a classified line belongs to.
type Action int

const (
	ActionSkip Action = iota
	ActionOverview
	ActionStep
	ActionSafety
)

var (
	stepStartRe = regexp.MustCompile(`^(\d+\.|(?i:step)\s+\d+)`)

	// A line that both mentions a safety keyword and is shaped like a title.
	headingShapeRe = regexp.MustCompile(`^(#{1,6}\s|\*\*.*\*\*:?$)|:$`)
)

var safetyHeaderKeywords = []string{"safety", "warning", "caution"}

var safetyTipKeywords = []string{
	"turn off",
	"shut off",
	"ensure",
	"always",
	"caution",
	"be careful",
	"safety",
	"warning",
}

// Transition classifies one trimmed, non-empty line given the current state
// and returns the next state plus what to do with the line. Rules are tried
// in priority order: safety header, step start, then content for the current
// section.
func Transition(state State, line string) (State, Action) {
	if isSafetyHeader(state, line) {
		return StateSafety, ActionSkip
	}
	if IsStepStart(line) {
		return StateSteps, ActionStep
	}
	switch state {
	case StateSafety:
		return state, ActionSafety
	case StateSteps:
		return state, ActionStep
	default:
		return state, ActionOverview
	}
}

// IsStepStart reports whether line opens with "12." or "Step 3".
func IsStepStart(line string) bool {
	return stepStartRe.MatchString(line)
}

// isSafetyHeader reports whether line switches the parser into the safety
// section. Outside that section any keyword hit counts. Inside it, only
// title-shaped lines ("Safety Warnings:", "## Caution") do, so tips such as
// "Use caution with sharp edges." stay content.
func isSafetyHeader(state State, line string) bool {
	if !containsAny(strings.ToLower(line), safetyHeaderKeywords) {
		return false
	}
	if state != StateSafety {
		return true
	}
	return headingShapeRe.MatchString(line)
}

// IsSafetyTip reports whether normalized safety-section text is worth keeping.
func IsSafetyTip(normalized string) bool {
	return containsAny(strings.ToLower(normalized), safetyTipKeywords)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
