package parser

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/homefix-ai/pkg/model"
)

func TestParseLeakingFaucet(t *testing.T) {
	raw := "The faucet is leaking.\n\n1. Turn off the water supply.\n2. Remove the handle.\n\nSafety Warnings:\nAlways wear gloves.\nUse caution with sharp edges."

	want := model.Guide{
		Overview:   "The faucet is leaking.",
		Steps:      []string{"Turn off the water supply.", "Remove the handle."},
		SafetyTips: []string{"Always wear gloves.", "Use caution with sharp edges."},
	}
	if diff := cmp.Diff(want, Parse(raw)); diff != "" {
		t.Fatalf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBoldStep(t *testing.T) {
	g := Parse("1. **Shut off water** Locate the valve under the sink and turn clockwise.")

	assert.Equal(t, []string{"Shut off water Locate the valve under the sink and turn clockwise."}, g.Steps)
	assert.Equal(t, DefaultOverview, g.Overview)
	assert.Equal(t, []string{DefaultSafetyTip}, g.SafetyTips)
}

func TestParseTotal(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n\t\n", "\r\n"} {
		g := Parse(raw)
		assert.Equal(t, DefaultOverview, g.Overview, "input %q", raw)
		assert.Equal(t, []string{DefaultStep}, g.Steps, "input %q", raw)
		assert.Equal(t, []string{DefaultSafetyTip}, g.SafetyTips, "input %q", raw)
	}
}

func TestParseNeverReturnsEmptyFields(t *testing.T) {
	inputs := []string{
		"Safety:",
		"1.",
		"**",
		"#",
		"...",
		"- \n* \n+ ",
		"Warning\nCaution\nSafety",
		"{}",
	}
	for _, raw := range inputs {
		g := Parse(raw)
		assert.NotEmpty(t, g.Overview, "input %q", raw)
		require.NotEmpty(t, g.Steps, "input %q", raw)
		require.NotEmpty(t, g.SafetyTips, "input %q", raw)
		for _, s := range append(append([]string{}, g.Steps...), g.SafetyTips...) {
			assert.Equal(t, strings.TrimSpace(s), s)
			assert.NotEmpty(t, s)
		}
	}
}

func TestParseStepCount(t *testing.T) {
	for _, n := range []int{1, 3, 12} {
		var b strings.Builder
		want := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, "%d. Tighten fitting number %d\n", i, i)
			want = append(want, fmt.Sprintf("Tighten fitting number %d", i))
		}
		assert.Equal(t, want, Parse(b.String()).Steps)
	}
}

func TestParseSafetyFiltering(t *testing.T) {
	g := Parse("Safety:\nWear old clothes.\nUse caution near the drain.")

	assert.Equal(t, []string{"Use caution near the drain."}, g.SafetyTips)
}

func TestParseOverviewSingleSentence(t *testing.T) {
	g := Parse("Turn off water. 1. Shut valve")

	assert.Equal(t, "Turn off water.", g.Overview)
	assert.NotContains(t, g.Overview, "Shut valve")
	assert.Equal(t, []string{DefaultStep}, g.Steps)
}

func TestParseMultiLineSteps(t *testing.T) {
	raw := `Step 1: Drain the tank
Flush once with the supply closed.
**Check the flapper** for warping
2. Reinstall the chain`

	assert.Equal(t, []string{
		"Drain the tank Flush once with the supply closed.",
		"Check the flapper for warping",
		"Reinstall the chain",
	}, Parse(raw).Steps)
}

func TestParseSafetyInterruptsSteps(t *testing.T) {
	raw := "1. Remove the cover plate\nCaution: live wires behind the plate\nAlways test with a voltage tester.\n2. Test the outlet"
	g := Parse(raw)

	assert.Equal(t, []string{"Remove the cover plate", "Test the outlet"}, g.Steps)
	assert.Equal(t, []string{"Always test with a voltage tester."}, g.SafetyTips)
}

func TestParseSafetyHeaderBeatsStepMarker(t *testing.T) {
	g := Parse("1. Warning: the pipe may be hot\nEnsure it has cooled down.")

	assert.Equal(t, []string{DefaultStep}, g.Steps)
	assert.Equal(t, []string{"Ensure it has cooled down."}, g.SafetyTips)
}

func TestParseMarkdownOverview(t *testing.T) {
	raw := "### **Leaky faucet** - the washer is worn. Replace it soon\n1. Close the valve"

	assert.Equal(t, "Leaky faucet the washer is worn.", Parse(raw).Overview)
}

func TestParseOverviewDenylist(t *testing.T) {
	raw := "Tools and materials needed: adjustable wrench, bucket\nThe shutoff valve is stuck!\n1. Spray penetrating oil"

	assert.Equal(t, "The shutoff valve is stuck.", Parse(raw).Overview)
}

func TestParseOverviewDenylistExtension(t *testing.T) {
	raw := "Breaker panel: 200 amp service\nThe outlet is dead."

	assert.Equal(t, "Breaker panel: 200 amp service The outlet is dead.", Parse(raw).Overview)

	p := New(WithOverviewDenylist("  Breaker Panel ", ""))
	assert.Equal(t, "The outlet is dead.", p.Parse(raw).Overview)
}

func TestParseStepWithSafetyKeywordInStepsSection(t *testing.T) {
	raw := "1. Turn off the breaker\nAlways double check it is off.\n2. Remove the fixture"

	g := Parse(raw)
	assert.Equal(t, []string{"Turn off the breaker Always double check it is off.", "Remove the fixture"}, g.Steps)
}

func TestParseConcurrent(t *testing.T) {
	raw := "The drain is slow.\n1. Remove the stopper\n2. Clear the hair\nSafety:\nAlways wear gloves."
	want := Parse(raw)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Parse(raw))
		}()
	}
	wg.Wait()
}
