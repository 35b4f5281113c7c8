// Package extract turns resume and posting text into structured features.
package extract

import (
	"strings"
	"time"

	"github.com/spigell/fitscore/internal/segment"
)

// DocumentFeatures is everything the scorer knows about one document.
type DocumentFeatures struct {
	Education    EducationFeatures  `json:"education"`
	Skills       []string           `json:"skills"`
	Experience   ExperienceFeatures `json:"experience"`
	Requirements []string           `json:"requirements,omitempty"`
}

// Extractor holds the tunables of feature extraction. The zero value is not usable; call New.
type Extractor struct {
	now          func() time.Time
	equivalences map[string]DegreeLevel
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used to resolve "present" in date ranges.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithDegreeEquivalences registers extra phrases that count as a degree level,
// e.g. {"specialist degree": "master"}. Entries with unknown levels are ignored.
func WithDegreeEquivalences(table map[string]string) Option {
	return func(e *Extractor) {
		for phrase, level := range table {
			key := Normalize(phrase)
			lvl := ParseDegreeLevel(level)
			if key == "" || lvl == DegreeUnknown {
				continue
			}
			e.equivalences[key] = lvl
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		now:          time.Now,
		equivalences: make(map[string]DegreeLevel),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseResume extracts features from a resume. Missing sections fall back to the whole document.
func (e *Extractor) ParseResume(text string) DocumentFeatures {
	sections := segment.Split(text)

	skillsText := sectionOr(sections, segment.Skills, text)
	if exp, ok := sections[segment.Experience]; ok && skillsText != text {
		skillsText = joinLines(skillsText, exp)
	}

	return DocumentFeatures{
		Education:  e.Education(sectionOr(sections, segment.Education, text)),
		Skills:     Skills(skillsText),
		Experience: e.Experience(sectionOr(sections, segment.Experience, text)),
	}
}

// ParsePosting extracts features from a job posting. Requirement lines are
// folded into the skills and experience inputs.
func (e *Extractor) ParsePosting(text string) DocumentFeatures {
	sections := segment.Split(text)
	requirements := Requirements(text)
	reqText := strings.Join(requirements, "\n")

	return DocumentFeatures{
		Education:    e.Education(sectionOr(sections, segment.Education, text)),
		Skills:       Skills(joinLines(sectionOr(sections, segment.Skills, text), reqText)),
		Experience:   e.Experience(joinLines(sectionOr(sections, segment.Experience, text), reqText)),
		Requirements: requirements,
	}
}

func sectionOr(sections map[segment.Section]string, section segment.Section, fallback string) string {
	if text, ok := sections[section]; ok {
		return text
	}
	return fallback
}

func joinLines(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
