package extract

import (
	"regexp"
	"sort"
	"strings"
)

// vocabulary is the fixed list of canonical skills matched by containment.
var vocabulary = []string{
	"python", "java", "javascript", "typescript", "ruby", "php", "swift", "kotlin", "go", "rust", "scala",
	"react", "angular", "vue", "node", "express", "django", "flask", "spring", "fastapi",
	"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch", "kafka",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins", "git", "linux",
	"machine learning", "deep learning", "nlp", "computer vision", "data science",
	"tensorflow", "pytorch", "keras", "scikit-learn", "pandas", "numpy",
	"html", "css", "sass", "bootstrap", "tailwind",
	"rest api", "graphql", "microservices", "agile", "scrum", "devops",
	"leadership", "communication", "problem solving", "teamwork", "project management",
}

// Terms that are ordinary English words are only accepted through aliases or phrase matching.
var phraseOnly = map[string]bool{
	"go":      true,
	"express": true,
	"spring":  true,
	"swift":   true,
	"rust":    true,
	"node":    true,
}

// aliases maps normalized variants onto canonical skills.
var aliases = map[string]string{
	"golang":                "go",
	"go lang":               "go",
	"js":                    "javascript",
	"ecmascript":            "javascript",
	"ts":                    "typescript",
	"react js":              "react",
	"reactjs":               "react",
	"react native":          "react",
	"vue js":                "vue",
	"vuejs":                 "vue",
	"angularjs":             "angular",
	"angular js":            "angular",
	"node js":               "node",
	"nodejs":                "node",
	"express js":            "express",
	"expressjs":             "express",
	"spring boot":           "spring",
	"postgres":              "postgresql",
	"mongo":                 "mongodb",
	"k8s":                   "kubernetes",
	"ml":                    "machine learning",
	"dl":                    "deep learning",
	"sklearn":               "scikit-learn",
	"scikit learn":          "scikit-learn",
	"rest":                  "rest api",
	"rest apis":             "rest api",
	"restful api":           "rest api",
	"restful apis":          "rest api",
	"amazon web services":   "aws",
	"google cloud":          "gcp",
	"google cloud platform": "gcp",
	"microsoft azure":       "azure",
	"tailwindcss":           "tailwind",
	"tailwind css":          "tailwind",
	"html5":                 "html",
	"css3":                  "css",
	"elastic search":        "elasticsearch",
	"team work":             "teamwork",

	"natural language processing": "nlp",
}

// Short aliases that are also ordinary words are only trusted as standalone phrases.
var sentenceAliasStop = map[string]bool{
	"rest": true,
	"ts":   true,
	"dl":   true,
	"js":   true,
}

var (
	// Compound tokens are matched on lowercased raw text so the "." survives.
	jsTokenRe   = regexp.MustCompile(`\b[a-z][a-z0-9]*\.js\b`)
	sqlTokenRe  = regexp.MustCompile(`\b[a-z]+sql\b`)
	dbTokenRe   = regexp.MustCompile(`\b[a-z]+db\b`)
	symbolLangs = regexp.MustCompile(`(?:^|[^a-z0-9+#])(c\+\+|c#|f#|\.net|objective-c)(?:$|[^a-z0-9+#])`)

	// ":" splits inline labels such as "Languages: Go, Python" from their first item.
	phraseDelimiters = regexp.MustCompile(`[,;:|/•·●▪\n\t()\[\]]+|\s+(?:and|or|&)\s+`)
)

// Tokens ending in "db"/"sql" that are not technologies.
var compoundNoise = map[string]bool{
	"imdb": true,
	"ldb":  true,
}

var vocabularySet = func() map[string]bool {
	set := make(map[string]bool, len(vocabulary))
	for _, skill := range vocabulary {
		set[skill] = true
	}
	return set
}()

// Skills returns the sorted, deduplicated set of canonical skills mentioned in text.
func Skills(text string) []string {
	normalized := Normalize(text)
	lower := lowerCollapsed(text)
	found := make(map[string]bool)

	add := func(skill string) {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			return
		}
		if canonical, ok := aliases[skill]; ok {
			skill = canonical
		}
		found[skill] = true
	}

	for _, skill := range vocabulary {
		if phraseOnly[skill] {
			continue
		}
		if containsPhrase(normalized, Normalize(skill)) {
			add(skill)
		}
	}

	for _, re := range []*regexp.Regexp{jsTokenRe, sqlTokenRe, dbTokenRe} {
		for _, match := range re.FindAllString(lower, -1) {
			if compoundNoise[match] {
				continue
			}
			if strings.HasSuffix(match, ".js") {
				if canonical, ok := aliases[strings.TrimSuffix(match, ".js")+" js"]; ok {
					add(canonical)
					continue
				}
			}
			add(match)
		}
	}
	for _, match := range symbolLangs.FindAllStringSubmatch(lower, -1) {
		add(match[1])
	}

	for _, phrase := range phraseDelimiters.Split(lowerLines(text), -1) {
		key := Normalize(phrase)
		if key == "" || len(strings.Fields(key)) > 4 {
			continue
		}
		if canonical, ok := aliases[key]; ok {
			add(canonical)
			continue
		}
		if vocabularySet[key] {
			add(key)
		}
	}

	// Aliases can also appear inside longer sentences.
	for variant, canonical := range aliases {
		if sentenceAliasStop[variant] {
			continue
		}
		if containsPhrase(normalized, variant) {
			add(canonical)
		}
	}

	skills := make([]string, 0, len(found))
	for skill := range found {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}
