package llm

import (
	"strings"
	"testing"
)

func TestATSScorePromptInlinesResume(t *testing.T) {
	got := ATSScorePrompt("Jane Doe\nGo engineer")
	if !strings.Contains(got, "---\nJane Doe\nGo engineer\n---") {
		t.Fatalf("resume text not inlined:\n%s", got)
	}
	if strings.Contains(got, resumePlaceholder) {
		t.Fatalf("placeholder left in prompt")
	}
	if !strings.Contains(got, `"overall_score"`) {
		t.Fatalf("expected output structure in prompt")
	}
}
