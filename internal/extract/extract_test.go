package extract

import (
	"reflect"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Hello, World!  Go-lang":   "hello world go lang",
		"ＧＯ   developer\n\tC++":    "go developer c",
		"  ":                       "",
		"B.Sc. (Hons) - 2015":      "b sc hons 2015",
		"snake_case stays intact!": "snake_case stays intact",
	}

	for in, want := range cases {
		got := Normalize(in)
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
		if again := Normalize(got); again != got {
			t.Fatalf("Normalize is not idempotent for %q: %q then %q", in, got, again)
		}
	}
}

func TestSkills(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "aliases and compound tokens",
			text: "Python, Golang and K8s; React.js / PostgreSQL",
			want: []string{"go", "kubernetes", "postgresql", "python", "react"},
		},
		{
			name: "token boundaries",
			text: "JavaScript and TypeScript",
			want: []string{"javascript", "typescript"},
		},
		{
			name: "symbol languages",
			text: "C++ and C#, .NET",
			want: []string{".net", "c#", "c++"},
		},
		{
			name: "inline label",
			text: "Languages: Go, Docker",
			want: []string{"docker", "go"},
		},
		{
			name: "nothing",
			text: "Friendly person who likes hiking",
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Skills(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Skills(%q) = %v, want %v", tc.text, got, tc.want)
			}
			if again := Skills(tc.text); !reflect.DeepEqual(got, again) {
				t.Fatalf("Skills is not deterministic: %v vs %v", got, again)
			}
		})
	}
}

func TestEducation(t *testing.T) {
	t.Parallel()

	ex := New(WithDegreeEquivalences(map[string]string{
		"Specialist Degree": "master",
		"bootcamp":          "not-a-level",
	}))

	cases := []struct {
		text    string
		level   DegreeLevel
		degrees []DegreeLevel
	}{
		{"PhD in Computer Science; M.Sc. Physics", DegreeDoctoral, []DegreeLevel{DegreeDoctoral, DegreeMaster}},
		{"Bachelor of Science", DegreeBachelor, []DegreeLevel{DegreeBachelor}},
		{"B.Tech in Mechanical", DegreeBachelor, []DegreeLevel{DegreeBachelor}},
		{"Certified Scrum Master", DegreeUnknown, []DegreeLevel{}},
		{"Specialist degree in physics", DegreeMaster, []DegreeLevel{DegreeMaster}},
		{"Finished a bootcamp", DegreeUnknown, []DegreeLevel{}},
		{"Self-taught developer", DegreeUnknown, []DegreeLevel{}},
	}

	for _, tc := range cases {
		got := ex.Education(tc.text)
		if got.DegreeLevel != tc.level {
			t.Fatalf("Education(%q).DegreeLevel = %q, want %q", tc.text, got.DegreeLevel, tc.level)
		}
		if !reflect.DeepEqual(got.Degrees, tc.degrees) {
			t.Fatalf("Education(%q).Degrees = %v, want %v", tc.text, got.Degrees, tc.degrees)
		}
		if got.Rank() != tc.level.Rank() {
			t.Fatalf("unexpected rank %d for %q", got.Rank(), tc.text)
		}
	}
}

func TestParseDegreeLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]DegreeLevel{
		"PhD":       DegreeDoctoral,
		" master ":  DegreeMaster,
		"bachelors": DegreeBachelor,
		"associate": DegreeDiploma,
		"":          DegreeUnknown,
		"wizard":    DegreeUnknown,
	}
	for in, want := range cases {
		if got := ParseDegreeLevel(in); got != want {
			t.Fatalf("ParseDegreeLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExperienceYears(t *testing.T) {
	t.Parallel()

	ex := New(WithClock(fixedClock))

	cases := []struct {
		text string
		want float64
	}{
		{"5+ years of experience with Go", 5},
		{"At least 3 years in backend development", 3},
		{"Experience: 7", 7},
		{"3.5 yrs of Python, 2 years of Java", 3.5},
		{"A company with 99 years of history", 0},
		{"No numbers here", 0},
		{"Jan 2019 - Mar 2021\nJune 2020 to present", 5.42},
		{"Jan 2015 – Dec 2015\nJan 2020 - Jan 2021", 6},
		{"2 years of Go, Jan 2023 - present", 2},
	}

	for _, tc := range cases {
		got := ex.Experience(tc.text)
		if got.Years != tc.want {
			t.Fatalf("Experience(%q).Years = %v, want %v", tc.text, got.Years, tc.want)
		}
	}
}

func TestExperienceTitles(t *testing.T) {
	t.Parallel()

	got := New().Experience("Senior Software Engineer at Acme, later Solutions Architect and Consultant")
	want := []string{"architect", "consultant", "senior software engineer"}
	if !reflect.DeepEqual(got.JobTitles, want) {
		t.Fatalf("unexpected titles %v, want %v", got.JobTitles, want)
	}
}

func TestRequirements(t *testing.T) {
	t.Parallel()

	text := `About us
We build things.

**Requirements:**
- 3+ years of Go
- Kubernetes
- Kubernetes
1) Strong SQL

Benefits:
- Free lunch
`
	got := Requirements(text)
	want := []string{"3+ years of Go", "Kubernetes", "Strong SQL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Requirements = %v, want %v", got, want)
	}

	grouped := Requirements("Requirements\n- Go\nPython:\n- Django\nBenefits:\n- Gym")
	if want := []string{"Go", "Django"}; !reflect.DeepEqual(grouped, want) {
		t.Fatalf("Requirements with a skill sub-heading = %v, want %v", grouped, want)
	}

	if none := Requirements("Just a paragraph without any headings"); len(none) != 0 {
		t.Fatalf("expected no requirements, got %v", none)
	}
}

func TestParsePosting(t *testing.T) {
	t.Parallel()

	text := `Senior Backend Engineer

Responsibilities
- Design Go services on Kubernetes

Qualifications:
- Bachelor's degree in Computer Science
- 4+ years with PostgreSQL
`
	got := New(WithClock(fixedClock)).ParsePosting(text)

	wantReqs := []string{
		"Design Go services on Kubernetes",
		"Bachelor's degree in Computer Science",
		"4+ years with PostgreSQL",
	}
	if !reflect.DeepEqual(got.Requirements, wantReqs) {
		t.Fatalf("unexpected requirements %v", got.Requirements)
	}
	if got.Education.DegreeLevel != DegreeBachelor {
		t.Fatalf("expected bachelor, got %q", got.Education.DegreeLevel)
	}
	if got.Experience.Years != 4 {
		t.Fatalf("expected 4 years, got %v", got.Experience.Years)
	}
	if !reflect.DeepEqual(got.Experience.JobTitles, []string{"senior backend engineer"}) {
		t.Fatalf("unexpected titles %v", got.Experience.JobTitles)
	}
	if !reflect.DeepEqual(got.Skills, []string{"kubernetes", "postgresql"}) {
		t.Fatalf("unexpected skills %v", got.Skills)
	}
}

func TestParseResume(t *testing.T) {
	t.Parallel()

	text := `Jane Doe

Education:
B.Sc. Computer Science, 2015

Work Experience
Senior Software Engineer, Acme (Jan 2019 - Mar 2023)
Built Go services

Skills
Go, Kubernetes, PostgreSQL
`
	got := New(WithClock(fixedClock)).ParseResume(text)

	if got.Education.DegreeLevel != DegreeBachelor {
		t.Fatalf("expected bachelor, got %q", got.Education.DegreeLevel)
	}
	if got.Experience.Years != 4.17 {
		t.Fatalf("expected 4.17 years, got %v", got.Experience.Years)
	}
	if !reflect.DeepEqual(got.Skills, []string{"go", "kubernetes", "postgresql"}) {
		t.Fatalf("unexpected skills %v", got.Skills)
	}
	if got.Requirements != nil {
		t.Fatalf("resumes carry no requirements, got %v", got.Requirements)
	}
}
