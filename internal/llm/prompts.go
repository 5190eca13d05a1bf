package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/ats_score_v1.txt
var atsScoreV1 string

const resumePlaceholder = "{{RESUME_TEXT}}"

// ATSScorePrompt returns the scoring prompt with resumeText inlined.
func ATSScorePrompt(resumeText string) string {
	return strings.Replace(atsScoreV1, resumePlaceholder, resumeText, 1)
}
