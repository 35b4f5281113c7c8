package extract

import (
	"regexp"
	"strings"
)

var (
	bulletRe = regexp.MustCompile(`^\s*(?:[•·●▪]\s*|[-*–+]\s+|\d{1,2}[.)]\s+)`)

	requirementKeywords = []string{"requirement", "qualification", "responsibilit", "must have", "nice to have"}
)

// maxHeadingWords is the longest line still considered a heading.
const maxHeadingWords = 6

// Requirements collects the lines listed under requirement-like headings of a posting,
// in first-seen order and without bullet or numbering prefixes.
func Requirements(text string) []string {
	var (
		capturing bool
		seen      = make(map[string]bool)
		out       []string
	)

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if heading, keyword := requirementHeading(trimmed); heading {
			// A heading naming a skill ("Python:") groups items inside the block.
			capturing = keyword || (capturing && len(Skills(trimmed)) > 0)
			continue
		}
		if !capturing {
			continue
		}

		item := strings.TrimSpace(bulletRe.ReplaceAllString(trimmed, ""))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}

	return out
}

// requirementHeading reports whether line looks like a heading and whether it names requirements.
func requirementHeading(line string) (heading, keyword bool) {
	if bulletRe.MatchString(line) {
		return false, false
	}
	bare := strings.Trim(line, "#*_ \t")
	if len(strings.Fields(bare)) > maxHeadingWords {
		return false, false
	}

	lower := strings.ToLower(bare)
	for _, kw := range requirementKeywords {
		if strings.Contains(lower, kw) {
			return true, true
		}
	}
	return strings.HasSuffix(bare, ":"), false
}
