package scoring

import "strings"

const (
	mismatchSuggestion = "This position requires experience in a different field. Consider applying to jobs that match your professional background."
	mismatchReason     = "Profession mismatch - resume does not match job requirements"
	confirmedReason    = "reviewer confirmed alignment"

	goodMatchSuggestion = "Your profile is a good match. Consider tailoring your resume to emphasize key achievements."

	// weakDimension is the score below which a dimension earns improvement advice.
	weakDimension = 0.5
	// missingSkillsShown is how many missing skills the default suggestion names.
	missingSkillsShown = 3
)

// defaultSuggestion builds advice from the local scores when no reviewer text is available.
func defaultSuggestion(skills SkillsBreakdown, education, experience float64) string {
	var parts []string

	if len(skills.Missing) > 0 {
		top := skills.Missing
		if len(top) > missingSkillsShown {
			top = top[:missingSkillsShown]
		}
		parts = append(parts, "Consider gaining experience in: "+strings.Join(top, ", "))
	}
	if education < weakDimension {
		parts = append(parts, "Consider pursuing additional certifications or degrees relevant to this role")
	}
	if experience < weakDimension {
		parts = append(parts, "Highlight more relevant work experience or projects in your resume")
	}

	if len(parts) == 0 {
		return goodMatchSuggestion
	}
	return strings.Join(parts, ". ") + "."
}
