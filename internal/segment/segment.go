// Package segment splits raw resume and posting text into labelled sections.
package segment

import (
	"strings"
)

// Section identifies a labelled block of a document.
type Section string

const (
	Education  Section = "education"
	Experience Section = "experience"
	Skills     Section = "skills"
)

var headings = map[string]Section{
	"education":                Education,
	"educational background":   Education,
	"academic background":      Education,
	"academic qualifications":  Education,
	"academics":                Education,
	"education and training":   Education,
	"experience":               Experience,
	"work experience":          Experience,
	"professional experience":  Experience,
	"employment history":       Experience,
	"employment":               Experience,
	"work history":             Experience,
	"career history":           Experience,
	"relevant experience":      Experience,
	"skills":                   Skills,
	"technical skills":         Skills,
	"key skills":               Skills,
	"core competencies":        Skills,
	"competencies":             Skills,
	"technologies":             Skills,
	"tech stack":               Skills,
	"skills and abilities":     Skills,
}

// Heading reports whether line is a known section heading.
func Heading(line string) (Section, bool) {
	key := strings.TrimSpace(line)
	key = strings.Trim(key, "#*_ \t")
	key = strings.TrimSuffix(key, ":")
	key = strings.Join(strings.Fields(strings.ToLower(key)), " ")
	if key == "" {
		return "", false
	}
	section, ok := headings[key]
	return section, ok
}

// Split scans text line by line and groups content lines under the most recent heading.
// Lines before the first heading are discarded and empty sections are omitted.
func Split(text string) map[Section]string {
	var (
		current Section
		active  bool
		buckets = make(map[Section][]string)
	)

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if section, ok := Heading(line); ok {
			current = section
			active = true
			continue
		}
		if !active {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		buckets[current] = append(buckets[current], trimmed)
	}

	out := make(map[Section]string, len(buckets))
	for section, lines := range buckets {
		if len(lines) == 0 {
			continue
		}
		out[section] = strings.Join(lines, "\n")
	}
	return out
}
