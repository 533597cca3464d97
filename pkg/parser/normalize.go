package parser

import (
	"regexp"
	"strings"
)

// Pass is a single text transform of the markdown normalization pipeline.
type Pass func(string) string

var (
	headingRe    = regexp.MustCompile(`(?m)^[ \t]*#{1,6}\s+`)
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.+?)\*`)
	underBoldRe  = regexp.MustCompile(`__(.+?)__`)
	underscoreRe = regexp.MustCompile(`_(.+?)_`)
	bulletLineRe = regexp.MustCompile(`(?m)^[ \t]*[-*+]\s+`)
	bulletMidRe  = regexp.MustCompile(`(\s)[-*+]\s+`)
	numberedRe   = regexp.MustCompile(`(?m)^([ \t]*\d+\.\s+)+`)
	hashRunRe    = regexp.MustCompile(`#+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizePasses is the ordered markdown-stripping pipeline. Later passes
// rely on earlier ones: numbered markers hidden behind emphasis only surface
// once the emphasis is unwrapped.
var NormalizePasses = []Pass{
	StripHeadings,
	UnwrapEmphasis,
	StripBullets,
	StripNumbering,
	StripHashes,
	CollapseWhitespace,
}

// StripHeadings removes leading "#".."######" heading markers.
func StripHeadings(s string) string {
	return headingRe.ReplaceAllString(s, "")
}

// UnwrapEmphasis unwraps bold first, then single-star italics and the
// underscore variants.
func UnwrapEmphasis(s string) string {
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = underBoldRe.ReplaceAllString(s, "$1")
	return underscoreRe.ReplaceAllString(s, "$1")
}

// StripBullets removes "-", "*" and "+" list markers at line start and where
// an inline list was flattened into running text.
func StripBullets(s string) string {
	s = bulletLineRe.ReplaceAllString(s, "")
	return bulletMidRe.ReplaceAllString(s, "$1")
}

// StripNumbering removes "1. " style markers at line start, stacked ones
// included.
func StripNumbering(s string) string {
	return numberedRe.ReplaceAllString(s, "")
}

// StripHashes drops any "#" left over after heading removal.
func StripHashes(s string) string {
	return hashRunRe.ReplaceAllString(s, "")
}

// CollapseWhitespace folds every whitespace run, newlines included, into a
// single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func applyPasses(s string, passes []Pass) string {
	for _, p := range passes {
		s = p(s)
	}
	return s
}

// Normalize strips markdown syntax and collapses whitespace. The pipeline is
// re-applied until the text stops changing so that Normalize is idempotent
// even for stacked markers such as "1. - **2.** text". After the first round
// whitespace is already collapsed and every pass can only remove characters,
// so the loop terminates.
func Normalize(s string) string {
	out := applyPasses(s, NormalizePasses)
	for {
		next := applyPasses(out, NormalizePasses)
		if next == out {
			return out
		}
		out = next
	}
}
