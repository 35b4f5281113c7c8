package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/fitscore/internal/utils"
)

// maxYears bounds plausible experience claims; larger numbers are usually calendar years or noise.
const maxYears = 50

// ExperienceFeatures describes the tenure and role signal of one document.
type ExperienceFeatures struct {
	Years          float64  `json:"years"`
	JobTitles      []string `json:"job_titles"`
	RawText        string   `json:"raw_text"`
	NormalizedText string   `json:"normalized_text"`
}

var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}(?:\.\d)?)\s*(?:years?|yrs?)\b`),
	regexp.MustCompile(`\b(\d{1,2})\s*\+\s*(?:years?|yrs?)\b`),
	regexp.MustCompile(`\b(?:at least|minimum of|minimum|min\.?|over|more than)\s+(\d{1,2})(?:\.\d)?\s*\+?\s*(?:years?|yrs?)\b`),
	regexp.MustCompile(`\bexperience\s*:?\s*(\d{1,2}(?:\.\d)?)\b`),
}

const monthToken = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

var dateRangeRe = regexp.MustCompile(
	`\b` + monthToken + `\s+(\d{4})\s*(?:-|–|—|to|until|till)\s*(?:` + monthToken + `\s+(\d{4})|(present|current|now|today))\b`,
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	titleRe = regexp.MustCompile(
		`\b(?:(?:senior|junior|lead|principal|staff|software|data|ml|machine learning|frontend|backend|full stack|fullstack|devops|cloud|mobile|qa|platform|product|project|program|research)\s+)+` +
			`(?:engineer|developer|programmer|scientist|analyst|manager|architect|designer)\b`,
	)
	standaloneTitleRe = regexp.MustCompile(`\b(architect|consultant)\b`)
)

// Experience estimates years of experience and collects job titles from text.
func (e *Extractor) Experience(text string) ExperienceFeatures {
	normalized := Normalize(text)
	lower := lowerCollapsed(text)

	years := 0.0
	for _, re := range yearPatterns {
		for _, match := range re.FindAllStringSubmatch(lower, -1) {
			v, err := strconv.ParseFloat(match[1], 64)
			if err != nil || v > maxYears {
				continue
			}
			if v > years {
				years = v
			}
		}
	}
	if fromDates := e.dateRangeYears(lower); fromDates > years && fromDates <= maxYears {
		years = fromDates
	}

	return ExperienceFeatures{
		Years:          utils.Round(years, 2),
		JobTitles:      jobTitles(normalized),
		RawText:        strings.TrimSpace(text),
		NormalizedText: normalized,
	}
}

type monthSpan struct {
	start, end int // months since year zero
}

func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

func parseMonth(token string) (time.Month, bool) {
	if len(token) < 3 {
		return 0, false
	}
	m, ok := months[token[:3]]
	return m, ok
}

// dateRangeYears merges month-year spans and returns the larger of the summed
// span length and the earliest-to-latest distance, in years.
func (e *Extractor) dateRangeYears(lower string) float64 {
	now := e.now()
	current := monthIndex(now.Year(), now.Month())

	var spans []monthSpan
	for _, match := range dateRangeRe.FindAllStringSubmatch(lower, -1) {
		startMonth, ok := parseMonth(match[1])
		if !ok {
			continue
		}
		startYear, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		start := monthIndex(startYear, startMonth)

		end := current
		if match[5] == "" {
			endMonth, ok := parseMonth(match[3])
			if !ok {
				continue
			}
			endYear, err := strconv.Atoi(match[4])
			if err != nil {
				continue
			}
			end = monthIndex(endYear, endMonth)
		}
		if end > current {
			end = current
		}
		if end < start {
			continue
		}
		spans = append(spans, monthSpan{start: start, end: end})
	}
	if len(spans) == 0 {
		return 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := []monthSpan{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}

	summed := 0
	for _, s := range merged {
		summed += spanMonths(s)
	}
	overall := spanMonths(monthSpan{start: merged[0].start, end: merged[len(merged)-1].end})
	if overall > summed {
		summed = overall
	}
	return float64(summed) / 12
}

// A span that starts and ends in the same month still counts as one month.
func spanMonths(s monthSpan) int {
	if n := s.end - s.start; n > 0 {
		return n
	}
	return 1
}

func jobTitles(normalized string) []string {
	found := make(map[string]bool)
	for _, match := range titleRe.FindAllString(normalized, -1) {
		found[strings.Join(strings.Fields(match), " ")] = true
	}
	for _, match := range standaloneTitleRe.FindAllString(normalized, -1) {
		found[match] = true
	}

	titles := make([]string, 0, len(found))
	for title := range found {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
