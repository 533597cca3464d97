package parser

import (
	"strings"

	"github.com/helmcode/homefix-ai/pkg/model"
)

// Fallbacks used when a section of the narrative yields nothing.
const (
	DefaultOverview  = "Here is a general approach to diagnosing and fixing this problem."
	DefaultStep      = "Consult a licensed professional for detailed repair instructions."
	DefaultSafetyTip = "Always turn off power and water to the affected area before starting any repair."
)

// Parser turns a model's free-text answer into a model.Guide. The zero value
// is not usable; build one with New. A Parser is immutable and safe for
// concurrent use.
type Parser struct {
	denylist []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithOverviewDenylist adds phrases to the overview denylist. Matching is
// case-insensitive.
func WithOverviewDenylist(phrases ...string) Option {
	return func(p *Parser) {
		for _, phrase := range phrases {
			if phrase = strings.ToLower(strings.TrimSpace(phrase)); phrase != "" {
				p.denylist = append(p.denylist, phrase)
			}
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{denylist: append([]string(nil), DefaultOverviewDenylist...)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse classifies raw with the default parser. It never fails: sections
// that produce nothing are replaced by the Default* fallbacks.
func Parse(raw string) model.Guide {
	return defaultParser.Parse(raw)
}

func (p *Parser) Parse(raw string) model.Guide {
	var (
		state         = StateOverview
		overviewLines []string
		stepLines     []string
		safetyTips    []string
	)

	for _, line := range splitLines(raw) {
		var action Action
		state, action = Transition(state, line)
		switch action {
		case ActionOverview:
			overviewLines = append(overviewLines, line)
		case ActionStep:
			stepLines = append(stepLines, line)
		case ActionSafety:
			if tip := Normalize(line); tip != "" && IsSafetyTip(tip) {
				safetyTips = append(safetyTips, tip)
			}
		}
	}

	return withFallbacks(model.Guide{
		Overview:   ExtractOverview(overviewLines, p.denylist),
		Steps:      AggregateSteps(stepLines),
		SafetyTips: safetyTips,
	})
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func withFallbacks(g model.Guide) model.Guide {
	if g.Overview == "" {
		g.Overview = DefaultOverview
	}
	if len(g.Steps) == 0 {
		g.Steps = []string{DefaultStep}
	}
	if len(g.SafetyTips) == 0 {
		g.SafetyTips = []string{DefaultSafetyTip}
	}
	return g
}
