package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/homefix-ai/pkg/model"
)

// Formats lists the accepted values of the -o flag.
var Formats = []string{"human", "json", "yaml"}

// DisplayGuide formats and writes the repair guide
func DisplayGuide(w io.Writer, guide *model.Guide, format string) error {
	switch format {
	case "json":
		return displayJSON(w, guide)
	case "yaml":
		return displayYAML(w, guide)
	case "human":
		fallthrough
	default:
		displayHuman(w, guide)
	}
	return nil
}

func displayJSON(w io.Writer, guide *model.Guide) error {
	output, err := json.MarshalIndent(guide, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, guide *model.Guide) error {
	output, err := yaml.Marshal(guide)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

func displayHuman(w io.Writer, guide *model.Guide) {
	// Colors
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	fmt.Fprintln(w)

	cyan.Fprintln(w, "🔎 WHAT'S GOING ON:")
	fmt.Fprintln(w, wrapText(guide.Overview, 80, "   "))
	fmt.Fprintln(w)

	if len(guide.Steps) > 0 {
		green.Fprintln(w, "🛠️  HOW TO FIX IT:")
		for i, step := range guide.Steps {
			prefix := fmt.Sprintf("   %d. ", i+1)
			fmt.Fprintln(w, prefix+strings.TrimPrefix(wrapText(step, 80, strings.Repeat(" ", len(prefix))), strings.Repeat(" ", len(prefix))))
		}
		fmt.Fprintln(w)
	}

	if len(guide.SafetyTips) > 0 {
		yellow.Fprintln(w, "⚠️  SAFETY FIRST:")
		for _, tip := range guide.SafetyTips {
			fmt.Fprintf(w, "   • %s\n", tip)
		}
		fmt.Fprintln(w)
	}

	// Footer
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			} else if currentLine == indent {
				currentLine += word
			} else {
				currentLine += " " + word
			}
		}

		if currentLine != indent {
			result.WriteString(currentLine + "\n")
		}
	}

	return strings.TrimSuffix(result.String(), "\n")
}
