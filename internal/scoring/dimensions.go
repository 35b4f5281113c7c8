package scoring

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/utils"
)

// Similarity compares two texts, returning a cosine-like value where 0 means unrelated.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) float64
}

// SimilarityFunc adapts a function to Similarity.
type SimilarityFunc func(ctx context.Context, a, b string) float64

func (f SimilarityFunc) Similarity(ctx context.Context, a, b string) float64 {
	return f(ctx, a, b)
}

const (
	// professionPrefix is how much of each normalized document the profession gate compares.
	professionPrefix = 1000
	// neutralProfession is returned when either document is empty.
	neutralProfession = 0.5
	// dimensionMatchThreshold marks a dimension as matched in the breakdown.
	dimensionMatchThreshold = 0.7
)

// degreeGapFloor maps resume rank minus posting rank onto a minimum education score.
func degreeGapFloor(gap int) float64 {
	switch {
	case gap >= 1:
		return 0.9
	case gap == 0:
		return 0.8
	case gap == -1:
		return 0.6
	default:
		return 0.4
	}
}

// EducationScore blends degree-level comparison with text similarity.
func EducationScore(ctx context.Context, sim Similarity, resume, posting extract.EducationFeatures) float64 {
	base := sim.Similarity(ctx, resume.NormalizedText, posting.NormalizedText)

	var score float64
	if posting.Rank() == 0 {
		score = base + 0.15*float64(resume.Rank())
	} else {
		score = max(degreeGapFloor(resume.Rank()-posting.Rank()), base)
	}
	return utils.Clamp(score, 0, 1)
}

// SkillsScore compares skill sets. An empty posting set scores 1 and an empty resume set scores 0.
func SkillsScore(ctx context.Context, sim Similarity, resumeSkills, postingSkills []string) (float64, SkillsBreakdown) {
	resumeSet := lowerSet(resumeSkills)
	postingSet := lowerSet(postingSkills)

	if len(postingSet) == 0 {
		return 1, SkillsBreakdown{Matched: []string{}, Missing: []string{}, Extra: sortedKeys(resumeSet)}
	}
	if len(resumeSet) == 0 {
		return 0, SkillsBreakdown{Matched: []string{}, Missing: sortedKeys(postingSet), Extra: []string{}}
	}

	breakdown := SkillsBreakdown{Matched: []string{}, Missing: []string{}, Extra: []string{}}
	for _, skill := range sortedKeys(postingSet) {
		if resumeSet[skill] {
			breakdown.Matched = append(breakdown.Matched, skill)
		} else {
			breakdown.Missing = append(breakdown.Missing, skill)
		}
	}
	for _, skill := range sortedKeys(resumeSet) {
		if !postingSet[skill] {
			breakdown.Extra = append(breakdown.Extra, skill)
		}
	}
	breakdown.MatchRatio = fmt.Sprintf("%d/%d", len(breakdown.Matched), len(postingSet))

	exact := float64(len(breakdown.Matched)) / float64(len(postingSet))
	semantic := sim.Similarity(ctx, strings.Join(sortedKeys(resumeSet), ", "), strings.Join(sortedKeys(postingSet), ", "))

	return utils.Clamp(0.85*exact+0.15*semantic, 0, 1), breakdown
}

// ExperienceScore blends tenure, text similarity and job title overlap.
func ExperienceScore(ctx context.Context, sim Similarity, resume, posting extract.ExperienceFeatures) float64 {
	var yearsScore float64
	if posting.Years > 0 {
		yearsScore = min(1, resume.Years/posting.Years)
	} else {
		yearsScore = min(1, resume.Years/(resume.Years+2))
	}

	var semantic float64
	if strings.TrimSpace(resume.RawText) != "" && strings.TrimSpace(posting.RawText) != "" {
		semantic = sim.Similarity(ctx, resume.RawText, posting.RawText)
	}

	var titleOverlap float64
	if len(posting.JobTitles) > 0 {
		resumeTitles := lowerSet(resume.JobTitles)
		postingTitles := lowerSet(posting.JobTitles)
		shared := 0
		for title := range postingTitles {
			if resumeTitles[title] {
				shared++
			}
		}
		titleOverlap = float64(shared) / float64(max(1, len(postingTitles)))
	}

	return utils.Clamp(0.45*yearsScore+0.35*semantic+0.2*titleOverlap, 0, 1)
}

// ProfessionSimilarity is a cheap whole-document comparison used to gate the composite score.
func ProfessionSimilarity(ctx context.Context, sim Similarity, resumeText, postingText string) float64 {
	a := strings.TrimSpace(utils.Truncate(extract.Normalize(resumeText), professionPrefix))
	b := strings.TrimSpace(utils.Truncate(extract.Normalize(postingText), professionPrefix))
	if a == "" || b == "" {
		return neutralProfession
	}
	return utils.Clamp(sim.Similarity(ctx, a, b), 0, 1)
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key != "" {
			set[key] = true
		}
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
