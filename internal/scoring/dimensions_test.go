package scoring

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/spigell/fitscore/internal/extract"
)

func constSimilarity(v float64) SimilarityFunc {
	return func(context.Context, string, string) float64 { return v }
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEducationScore(t *testing.T) {
	t.Parallel()

	sim := constSimilarity(0.3)
	edu := func(level extract.DegreeLevel) extract.EducationFeatures {
		return extract.EducationFeatures{DegreeLevel: level, NormalizedText: string(level)}
	}

	cases := []struct {
		name    string
		resume  extract.DegreeLevel
		posting extract.DegreeLevel
		want    float64
	}{
		{"above requirement", extract.DegreeMaster, extract.DegreeBachelor, 0.9},
		{"meets requirement", extract.DegreeBachelor, extract.DegreeBachelor, 0.8},
		{"one level short", extract.DegreeDiploma, extract.DegreeBachelor, 0.6},
		{"no education stated", extract.DegreeUnknown, extract.DegreeBachelor, 0.4},
		{"posting states no level", extract.DegreeMaster, extract.DegreeUnknown, 0.75},
		{"doctoral bonus", extract.DegreeDoctoral, extract.DegreeUnknown, 0.9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EducationScore(context.Background(), sim, edu(tc.resume), edu(tc.posting))
			if !almostEqual(got, tc.want) {
				t.Fatalf("EducationScore = %v, want %v", got, tc.want)
			}
		})
	}

	high := EducationScore(context.Background(), constSimilarity(0.95), edu(extract.DegreeUnknown), edu(extract.DegreeBachelor))
	if !almostEqual(high, 0.95) {
		t.Fatalf("expected base similarity above the floor to win, got %v", high)
	}

	capped := EducationScore(context.Background(), constSimilarity(0.8), edu(extract.DegreeDoctoral), edu(extract.DegreeUnknown))
	if capped != 1 {
		t.Fatalf("expected score capped at 1, got %v", capped)
	}

	negative := EducationScore(context.Background(), constSimilarity(-0.5), edu(extract.DegreeUnknown), edu(extract.DegreeUnknown))
	if negative != 0 {
		t.Fatalf("expected negative similarity to clamp to 0, got %v", negative)
	}
}

func TestMissingEducationScoresLower(t *testing.T) {
	t.Parallel()

	sim := constSimilarity(0.5)
	posting := extract.EducationFeatures{DegreeLevel: extract.DegreeMaster, NormalizedText: "master s degree required"}

	without := EducationScore(context.Background(), sim, extract.EducationFeatures{DegreeLevel: extract.DegreeUnknown}, posting)
	with := EducationScore(context.Background(), sim, extract.EducationFeatures{DegreeLevel: extract.DegreeMaster, NormalizedText: "msc"}, posting)
	if without >= with {
		t.Fatalf("expected missing education (%v) to score below a matching degree (%v)", without, with)
	}
}

func TestSkillsScore(t *testing.T) {
	t.Parallel()

	sim := constSimilarity(0.5)

	score, bd := SkillsScore(context.Background(), sim, []string{"go"}, nil)
	if score != 1 {
		t.Fatalf("expected 1 for empty posting skills, got %v", score)
	}
	if !reflect.DeepEqual(bd.Extra, []string{"go"}) || len(bd.Matched) != 0 || len(bd.Missing) != 0 {
		t.Fatalf("unexpected breakdown %+v", bd)
	}

	score, bd = SkillsScore(context.Background(), sim, nil, []string{"go", "sql"})
	if score != 0 {
		t.Fatalf("expected 0 for empty resume skills, got %v", score)
	}
	if !reflect.DeepEqual(bd.Missing, []string{"go", "sql"}) {
		t.Fatalf("unexpected missing %v", bd.Missing)
	}

	score, bd = SkillsScore(context.Background(), sim, []string{"Go", "Docker"}, []string{"go", "kubernetes"})
	if !almostEqual(score, 0.5) {
		t.Fatalf("expected 0.5, got %v", score)
	}
	want := SkillsBreakdown{Matched: []string{"go"}, Missing: []string{"kubernetes"}, Extra: []string{"docker"}, MatchRatio: "1/2"}
	if !reflect.DeepEqual(bd, want) {
		t.Fatalf("unexpected breakdown %+v", bd)
	}
}

func TestSkillsScoreExtremes(t *testing.T) {
	t.Parallel()

	// Even a perfect semantic match cannot reach 1 without the posting being empty.
	score, _ := SkillsScore(context.Background(), constSimilarity(0.99), []string{"go"}, []string{"go", "rust"})
	if score >= 1 {
		t.Fatalf("expected score below 1, got %v", score)
	}
	// Negative similarity never produces a negative score.
	score, _ = SkillsScore(context.Background(), constSimilarity(-1), []string{"java"}, []string{"go"})
	if score != 0 {
		t.Fatalf("expected clamp to 0, got %v", score)
	}
}

func TestSkillsScoreMonotonic(t *testing.T) {
	t.Parallel()

	sim := constSimilarity(0.4)
	posting := []string{"go", "kubernetes", "postgresql", "terraform"}
	resume := []string{"python"}

	prev, _ := SkillsScore(context.Background(), sim, resume, posting)
	for _, skill := range posting {
		resume = append(resume, skill)
		next, _ := SkillsScore(context.Background(), sim, resume, posting)
		if next < prev {
			t.Fatalf("adding %q decreased the score from %v to %v", skill, prev, next)
		}
		prev = next
	}
}

func TestExperienceScore(t *testing.T) {
	t.Parallel()

	sim := constSimilarity(0.5)

	resume := extract.ExperienceFeatures{Years: 5, JobTitles: []string{"senior software engineer"}, RawText: "built services"}
	posting := extract.ExperienceFeatures{Years: 4, JobTitles: []string{"architect", "senior software engineer"}, RawText: "design services"}
	if got := ExperienceScore(context.Background(), sim, resume, posting); !almostEqual(got, 0.725) {
		t.Fatalf("expected 0.725, got %v", got)
	}

	noRequirement := ExperienceScore(context.Background(), sim,
		extract.ExperienceFeatures{Years: 2},
		extract.ExperienceFeatures{},
	)
	if !almostEqual(noRequirement, 0.225) {
		t.Fatalf("expected 0.225, got %v", noRequirement)
	}

	if got := ExperienceScore(context.Background(), sim, extract.ExperienceFeatures{}, extract.ExperienceFeatures{Years: 3}); got != 0 {
		t.Fatalf("expected 0 for an empty resume, got %v", got)
	}
}

func TestProfessionSimilarity(t *testing.T) {
	t.Parallel()

	if got := ProfessionSimilarity(context.Background(), constSimilarity(0.1), "", "posting"); got != neutralProfession {
		t.Fatalf("expected neutral value, got %v", got)
	}

	var seenA, seenB string
	sim := SimilarityFunc(func(_ context.Context, a, b string) float64 {
		seenA, seenB = a, b
		return 0.9
	})

	long := ""
	for i := 0; i < 400; i++ {
		long += "Word "
	}
	if got := ProfessionSimilarity(context.Background(), sim, long, "Go, Developer!"); got != 0.9 {
		t.Fatalf("expected 0.9, got %v", got)
	}
	if n := len([]rune(seenA)); n > professionPrefix {
		t.Fatalf("expected prefix of at most %d runes, got %d", professionPrefix, n)
	}
	if seenB != "go developer" {
		t.Fatalf("expected normalized text, got %q", seenB)
	}
}
