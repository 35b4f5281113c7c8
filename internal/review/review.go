// Package review defines the contract with the external reviewer that may
// correct locally computed match scores.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/fitscore/internal/extract"
)

// ErrNoFinalScore is returned when a reviewer response lacks a numeric final_score.
var ErrNoFinalScore = errors.New("reviewer response has no numeric final_score")

// Scores are the locally computed values shown to the reviewer.
type Scores struct {
	Education  float64 `json:"education"`
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Final      float64 `json:"final"`
}

// Request is everything the reviewer sees about one match.
type Request struct {
	Resume               extract.DocumentFeatures
	Posting              extract.DocumentFeatures
	Scores               Scores
	ProfessionSimilarity float64
}

// Correction is a reviewer's verdict. A Correction is only usable when FinalScore is set.
type Correction struct {
	EducationScore     *float64 `json:"education_score,omitempty"`
	SkillsScore        *float64 `json:"skills_score,omitempty"`
	ExperienceScore    *float64 `json:"experience_score,omitempty"`
	FinalScore         *float64 `json:"final_score,omitempty"`
	ProfessionMismatch bool     `json:"profession_mismatch"`
	ProfessionReason   string   `json:"profession_reason,omitempty"`
	Review             string   `json:"review,omitempty"`
	Suggestion         string   `json:"suggestion,omitempty"`
	Reason             string   `json:"reason,omitempty"`
	Raw                string   `json:"-"`
}

// Valid reports whether the correction carries a final score.
func (c *Correction) Valid() bool {
	return c != nil && c.FinalScore != nil
}

// Reviewer returns a correction for req, or an error when none is available.
type Reviewer interface {
	Review(ctx context.Context, req Request) (*Correction, error)
}

// ParseCorrection decodes a reviewer response. Markdown code fences around the
// JSON are tolerated and loosely typed values are coerced.
func ParseCorrection(raw string) (*Correction, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse reviewer response: %w", err)
	}

	correction := &Correction{
		EducationScore:     optionalFloat(data["education_score"]),
		SkillsScore:        optionalFloat(data["skills_score"]),
		ExperienceScore:    optionalFloat(data["experience_score"]),
		FinalScore:         optionalFloat(data["final_score"]),
		ProfessionMismatch: coerceBool(data["profession_mismatch"]),
		ProfessionReason:   coerceString(data["profession_reason"]),
		Review:             coerceString(data["review"]),
		Suggestion:         coerceString(data["suggestion"]),
		Reason:             coerceString(data["reason"]),
		Raw:                raw,
	}
	if !correction.Valid() {
		return nil, ErrNoFinalScore
	}

	return correction, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func optionalFloat(v any) *float64 {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes" || lower == "1"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
