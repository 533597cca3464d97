package parser

import (
	"regexp"
	"strings"
)

// DefaultOverviewDenylist lists section titles and tool/material names that
// leak into the overview when the model ignores the requested layout. Lines
// containing any of them are dropped from the overview.
//
// The list is tuned to plumbing answers; categories such as electrical or
// drywall need their own phrases (see WithOverviewDenylist).
var DefaultOverviewDenylist = []string{
	"tools and materials needed:",
	"safety first:",
	"step-by-step instructions:",
	"when to seek professional help:",
	"safety warnings:",
	"tools you'll need:",
	"materials needed:",
	"what you'll need:",
	"adjustable wrench",
	"screwdriver",
	"replacement",
	"plumber's grease",
	"bucket",
	"towel",
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// ExtractOverview reduces the overview lines to a single sentence ending in
// a period. It returns "" when nothing usable is left.
func ExtractOverview(lines []string, denylist []string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if containsAny(strings.ToLower(line), denylist) {
			continue
		}
		kept = append(kept, line)
	}

	text := Normalize(strings.Join(kept, " "))
	first := firstSentence(text)
	if first == "" {
		return ""
	}
	return CollapseWhitespace(StripBullets(first + "."))
}

func firstSentence(text string) string {
	for _, frag := range sentenceSplitRe.Split(text, -1) {
		if frag = strings.TrimSpace(frag); frag != "" {
			return frag
		}
	}
	return ""
}
