package scoring

import "github.com/spigell/fitscore/internal/review"

// DimensionScores holds the three per-dimension scores, each in [0,1].
type DimensionScores struct {
	Education  float64 `json:"education"`
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
}

// SkillsBreakdown explains the skills dimension.
type SkillsBreakdown struct {
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
	Extra      []string `json:"extra"`
	MatchRatio string   `json:"match_ratio,omitempty"`
}

// Weights are the dimension weights a result was computed with.
type Weights struct {
	Education  float64 `json:"education"`
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
}

// Breakdown records how the final score was reached.
type Breakdown struct {
	Skills          SkillsBreakdown `json:"skills_breakdown"`
	WeightsUsed     Weights         `json:"weights_used"`
	EducationMatch  bool            `json:"education_match"`
	ExperienceMatch bool            `json:"experience_match"`

	InitialMismatch bool    `json:"initial_mismatch"`
	OverlapRatio    float64 `json:"overlap_ratio"`
	Overridden      bool    `json:"overridden"`
	OverrideReason  string  `json:"override_reason,omitempty"`

	RawComposite float64 `json:"raw_composite"`
	Zeroed       bool    `json:"zeroed"`
	Capped       bool    `json:"capped"`
	CapValue     float64 `json:"cap_value,omitempty"`
	Baseline     float64 `json:"baseline"`

	CorrectionApplied bool     `json:"correction_applied"`
	MismatchClamped   bool     `json:"mismatch_clamped"`
	PreClampScore     *float64 `json:"pre_clamp_score,omitempty"`
}

// MatchResult is the outcome of scoring one resume against one posting.
type MatchResult struct {
	ID                   string             `json:"id"`
	Scores               DimensionScores    `json:"scores"`
	ProfessionSimilarity float64            `json:"profession_similarity"`
	ProfessionMatch      bool               `json:"profession_match_flag"`
	ProfessionReason     string             `json:"profession_reason,omitempty"`
	FinalScore           float64            `json:"final_score"`
	Breakdown            Breakdown          `json:"breakdown"`
	Correction           *review.Correction `json:"correction,omitempty"`
	Suggestion           string             `json:"suggestion"`
}
