package extract

import (
	"regexp"
	"sort"
	"strings"
)

// DegreeLevel is the highest academic level detected in a document.
type DegreeLevel string

const (
	DegreeUnknown  DegreeLevel = "unknown"
	DegreeDiploma  DegreeLevel = "diploma"
	DegreeBachelor DegreeLevel = "bachelor"
	DegreeMaster   DegreeLevel = "master"
	DegreeDoctoral DegreeLevel = "doctoral"
)

var degreeRank = map[DegreeLevel]int{
	DegreeUnknown:  0,
	DegreeDiploma:  1,
	DegreeBachelor: 2,
	DegreeMaster:   3,
	DegreeDoctoral: 4,
}

// Rank maps the level onto 0 (unknown) through 4 (doctoral).
func (d DegreeLevel) Rank() int {
	return degreeRank[d]
}

// ParseDegreeLevel resolves a level name, returning DegreeUnknown for anything unrecognised.
func ParseDegreeLevel(s string) DegreeLevel {
	level := DegreeLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := degreeRank[level]; ok {
		return level
	}
	switch level {
	case "phd", "doctorate":
		return DegreeDoctoral
	case "masters":
		return DegreeMaster
	case "bachelors":
		return DegreeBachelor
	case "associate":
		return DegreeDiploma
	}
	return DegreeUnknown
}

// Patterns run against normalized text, so dotted abbreviations appear space separated ("ph d", "b tech").
var degreePatterns = []struct {
	level DegreeLevel
	re    *regexp.Regexp
}{
	{DegreeDoctoral, regexp.MustCompile(`\b(phd|ph d|dphil|doctorate|doctoral|doctor of philosophy|doctor of (science|engineering))\b`)},
	{DegreeMaster, regexp.MustCompile(`\b(masters?|msc|m sc|mba|m b a|mtech|m tech|meng|m eng|mphil|m s|ms in|ma in|master of (science|arts|engineering|business administration))\b`)},
	{DegreeBachelor, regexp.MustCompile(`\b(bachelors?|bsc|b sc|btech|b tech|beng|b eng|bcom|b com|bba|b e|b s|bs in|ba in|b a in|undergraduate degree|bachelor of (science|arts|engineering|technology|commerce))\b`)},
	{DegreeDiploma, regexp.MustCompile(`\b(diploma|associates? degree|associate of (arts|science|applied science)|hnd|higher national diploma)\b`)},
}

// Phrases that contain degree words without naming a degree.
var degreeNoise = []string{"scrum master", "master data", "master branch", "bachelor party"}

// EducationFeatures describes the academic signal of one document.
type EducationFeatures struct {
	DegreeLevel    DegreeLevel   `json:"degree_level"`
	Degrees        []DegreeLevel `json:"degrees"`
	RawText        string        `json:"raw_text"`
	NormalizedText string        `json:"normalized_text"`
}

// Rank returns the rank of the highest detected degree.
func (e EducationFeatures) Rank() int {
	return e.DegreeLevel.Rank()
}

// Education detects degree levels in text. Degrees are ordered from highest to lowest rank.
func (e *Extractor) Education(text string) EducationFeatures {
	normalized := Normalize(text)
	probe := " " + normalized + " "
	for _, noise := range degreeNoise {
		probe = strings.ReplaceAll(probe, " "+noise+" ", " ")
	}

	found := make(map[DegreeLevel]bool)
	for _, p := range degreePatterns {
		if p.re.MatchString(probe) {
			found[p.level] = true
		}
	}
	for phrase, level := range e.equivalences {
		if containsPhrase(probe, phrase) {
			found[level] = true
		}
	}

	degrees := make([]DegreeLevel, 0, len(found))
	for level := range found {
		if level == DegreeUnknown {
			continue
		}
		degrees = append(degrees, level)
	}
	sort.Slice(degrees, func(i, j int) bool { return degrees[i].Rank() > degrees[j].Rank() })

	level := DegreeUnknown
	if len(degrees) > 0 {
		level = degrees[0]
	}

	return EducationFeatures{
		DegreeLevel:    level,
		Degrees:        degrees,
		RawText:        strings.TrimSpace(text),
		NormalizedText: normalized,
	}
}
