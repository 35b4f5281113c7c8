package headhunter

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/fitscore/internal/ingest"
)

// Experience ids used by the hh.ru dictionaries.
const (
	ExperienceNone        = "noExperience"
	ExperienceOneToThree  = "between1And3"
	ExperienceThreeToSix  = "between3And6"
	ExperienceMoreThanSix = "moreThan6"
)

var experienceText = map[string]string{
	ExperienceNone:        "No experience required",
	ExperienceOneToThree:  "Experience: at least 1 year",
	ExperienceThreeToSix:  "Experience: at least 3 years",
	ExperienceMoreThanSix: "Experience: at least 6 years",
}

type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Experience struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"experience,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Description  string `json:"description,omitempty"`
	KeySkills    []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	Archived bool `json:"archived,omitempty"`
}

func decodeVacancy(raw map[string]any) (*Vacancy, error) {
	var vacancy Vacancy

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &vacancy,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return &vacancy, nil
}

// Title returns a short human label for the vacancy.
func (va *Vacancy) Title() string {
	if va.Employer.Name == "" {
		return va.Name
	}
	return fmt.Sprintf("%s (%s)", va.Name, va.Employer.Name)
}

// PostingText renders the vacancy as plain posting text: name, description without
// markup, experience requirement and key skills.
func (va *Vacancy) PostingText() (string, error) {
	var parts []string
	if name := strings.TrimSpace(va.Name); name != "" {
		parts = append(parts, name)
	}

	if strings.TrimSpace(va.Description) != "" {
		description, err := ingest.HTMLText(va.Description)
		if err != nil {
			return "", fmt.Errorf("vacancy %s description: %w", va.ID, err)
		}
		if description != "" {
			parts = append(parts, description)
		}
	}

	if text, ok := experienceText[va.Experience.ID]; ok {
		parts = append(parts, text)
	}

	// Kept on one line so the segmenter does not treat it as a skills heading
	// and hide the description from skill extraction.
	var skills []string
	for _, skill := range va.KeySkills {
		if name := strings.TrimSpace(skill.Name); name != "" {
			skills = append(skills, name)
		}
	}
	if len(skills) > 0 {
		parts = append(parts, "Key skills: "+strings.Join(skills, ", "))
	}

	text := strings.Join(parts, "\n")
	if text == "" {
		return "", fmt.Errorf("vacancy %s: %w", va.ID, ingest.ErrEmpty)
	}
	return text, nil
}
