package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/kaptinlin/jsonrepair"

	"github.com/helmcode/homefix-ai/pkg/model"
)

var (
	fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")
	htmlRe  = regexp.MustCompile(`(?i)<(p|ol|ul|li|h[1-6]|br|div|strong|em)[\s/>]`)
)

// structuredGuide accepts both the camelCase keys we ask for and the
// snake_case variant some models prefer.
type structuredGuide struct {
	Overview        string   `json:"overview"`
	Steps           []string `json:"steps"`
	SafetyTips      []string `json:"safetyTips"`
	SafetyTipsSnake []string `json:"safety_tips"`
}

// Decode is Parse for real model output. Answers that already came back as
// a JSON guide (possibly fenced or slightly broken) are used directly, HTML
// answers are converted to markdown first, and everything else goes through
// the line parser.
func Decode(raw string) model.Guide {
	return defaultParser.Decode(raw)
}

func (p *Parser) Decode(raw string) model.Guide {
	cleaned := stripFences(raw)

	if strings.HasPrefix(cleaned, "{") {
		if g, ok := p.decodeJSON(cleaned); ok {
			return g
		}
	}

	if htmlRe.MatchString(cleaned) {
		if md, err := htmltomarkdown.ConvertString(cleaned); err == nil {
			return p.Parse(md)
		}
	}

	return p.Parse(cleaned)
}

// decodeJSON reads a structured guide. The overview goes through the same
// denylist and first-sentence reduction as a free-text one.
func (p *Parser) decodeJSON(text string) (model.Guide, bool) {
	var sg structuredGuide
	if err := json.Unmarshal([]byte(text), &sg); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return model.Guide{}, false
		}
		if err := json.Unmarshal([]byte(repaired), &sg); err != nil {
			return model.Guide{}, false
		}
	}

	if len(sg.SafetyTips) == 0 {
		sg.SafetyTips = sg.SafetyTipsSnake
	}
	g := model.Guide{
		Overview:   ExtractOverview([]string{sg.Overview}, p.denylist),
		Steps:      normalizeAll(sg.Steps),
		SafetyTips: normalizeAll(sg.SafetyTips),
	}
	if g.Overview == "" && len(g.Steps) == 0 && len(g.SafetyTips) == 0 {
		return model.Guide{}, false
	}
	return withFallbacks(g), true
}

func normalizeAll(items []string) []string {
	var out []string
	for _, item := range items {
		if s := Normalize(stepPrefixRe.ReplaceAllString(strings.TrimSpace(item), "")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stripFences removes markdown code fences such as ```json ... ``` so JSON can be parsed
func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}
