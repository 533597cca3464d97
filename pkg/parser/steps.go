package parser

import (
	"regexp"
	"strings"
)

var (
	newStepRe    = regexp.MustCompile(`^(\d+\.|(?i:step)\s+\d+|\*\*)`)
	stepPrefixRe = regexp.MustCompile(`^(\d+\.|(?i:step)\s+\d+[:.)]?)\s*`)
)

// AggregateSteps folds the buffered step lines into one entry per logical
// step. A line opening with an enumerator or a bold marker starts a new
// step; anything else continues the current one.
func AggregateSteps(lines []string) []string {
	var (
		steps   []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() == 0 {
			return
		}
		if step := finalizeStep(current.String()); step != "" {
			steps = append(steps, step)
		}
		current.Reset()
	}

	for _, line := range lines {
		if newStepRe.MatchString(line) && current.Len() > 0 {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(line)
	}
	flush()
	return steps
}

func finalizeStep(text string) string {
	return Normalize(stepPrefixRe.ReplaceAllString(text, ""))
}
