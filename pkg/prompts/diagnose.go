package prompts

import (
	"fmt"
	"strings"

	"github.com/helmcode/homefix-ai/pkg/llm"
	"github.com/helmcode/homefix-ai/pkg/model"
)

// SystemPreamble is sent with every diagnosis. The layout it asks for is the
// one the narrative parser understands best.
const SystemPreamble = `You are an experienced home-repair technician helping a homeowner fix a problem themselves.

Safety comes first. Answer in plain text with three parts:
1. A one-paragraph overview of what is most likely wrong.
2. A numbered list of step-by-step DIY instructions, one step per number.
3. A section titled "Safety Warnings:" with one precaution per line.

Keep steps concrete and doable with common household tools. If the job needs
a licensed professional (gas lines, main electrical panels, structural work),
say so in the overview.`

// BuildDiagnosePrompt turns a diagnosis request into the prompt sent upstream.
func BuildDiagnosePrompt(req model.DiagnosisRequest) llm.Prompt {
	var b strings.Builder
	if category := strings.TrimSpace(req.Category); category != "" {
		fmt.Fprintf(&b, "Category: %s\n", category)
	}
	fmt.Fprintf(&b, "Problem: %s\n", strings.TrimSpace(req.Description))
	if !req.Image.Empty() {
		b.WriteString("\nA photo of the problem is attached. Use what you can see in it.\n")
	}
	b.WriteString("\nPlease diagnose the problem and explain how to fix it.")

	return llm.Prompt{
		System: SystemPreamble,
		User:   b.String(),
		Image:  req.Image,
	}
}
