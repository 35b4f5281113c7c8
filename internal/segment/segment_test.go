package segment

import (
	"reflect"
	"testing"
)

const resume = `Jane Doe
jane@example.com

## Education:
B.Sc. Computer Science, 2015

Work Experience
Senior Software Engineer, Acme (Jan 2019 - Mar 2023)
Built Go services

SKILLS
Go, Kubernetes, PostgreSQL
Projects
Open source CLI
`

func TestSplit(t *testing.T) {
	t.Parallel()

	got := Split(resume)
	want := map[Section]string{
		Education:  "B.Sc. Computer Science, 2015",
		Experience: "Senior Software Engineer, Acme (Jan 2019 - Mar 2023)\nBuilt Go services",
		Skills:     "Go, Kubernetes, PostgreSQL\nProjects\nOpen source CLI",
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sections:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestSplitDiscardsPreambleAndEmptySections(t *testing.T) {
	t.Parallel()

	got := Split("Summary line\nEducation:\n\nSkills:\nPython\n")
	if _, ok := got[Education]; ok {
		t.Fatalf("expected empty education section to be omitted: %#v", got)
	}
	if got[Skills] != "Python" {
		t.Fatalf("unexpected skills section: %q", got[Skills])
	}
	if len(got) != 1 {
		t.Fatalf("expected only skills section, got %#v", got)
	}

	if none := Split("no headings at all\njust text"); len(none) != 0 {
		t.Fatalf("expected no sections, got %#v", none)
	}
}

func TestSplitIsIdempotent(t *testing.T) {
	t.Parallel()

	first := Split(resume)
	second := Split(resume)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestHeading(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line    string
		section Section
		ok      bool
	}{
		{line: "EXPERIENCE:", section: Experience, ok: true},
		{line: "  **Technical   Skills**  ", section: Skills, ok: true},
		{line: "Academic Background", section: Education, ok: true},
		{line: "Experience with Go", ok: false},
		{line: "", ok: false},
	}

	for _, tc := range cases {
		section, ok := Heading(tc.line)
		if ok != tc.ok || section != tc.section {
			t.Fatalf("Heading(%q) = (%q, %v), want (%q, %v)", tc.line, section, ok, tc.section, tc.ok)
		}
	}
}
