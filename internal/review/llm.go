package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/utils"
	"go.uber.org/zap"
)

// Generator sends a prompt to a language model and returns its text reply.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// LLM is a Reviewer backed by a language model.
type LLM struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewLLM(generator Generator, log *zap.Logger, maxLogLength int) *LLM {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &LLM{
		generator: generator,
		logger:    logger.WithCommonFields(log, "", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// documentView is the part of DocumentFeatures worth showing to a model; raw text is omitted.
type documentView struct {
	DegreeLevel  extract.DegreeLevel `json:"degree_level"`
	Skills       []string            `json:"skills"`
	Years        float64             `json:"years_of_experience"`
	JobTitles    []string            `json:"job_titles,omitempty"`
	Requirements []string            `json:"requirements,omitempty"`
}

func viewOf(f extract.DocumentFeatures) documentView {
	return documentView{
		DegreeLevel:  f.Education.DegreeLevel,
		Skills:       f.Skills,
		Years:        f.Experience.Years,
		JobTitles:    f.Experience.JobTitles,
		Requirements: f.Requirements,
	}
}

func (l *LLM) Review(ctx context.Context, req Request) (*Correction, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("reviewer request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, l.maxLogLen)),
	)

	raw, err := l.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("reviewer response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, l.maxLogLen)),
	)

	return ParseCorrection(raw)
}

// BuildPrompt renders the reviewer prompt for req.
func BuildPrompt(req Request) (string, error) {
	resumeJSON, err := json.MarshalIndent(viewOf(req.Resume), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal resume features: %w", err)
	}
	postingJSON, err := json.MarshalIndent(viewOf(req.Posting), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal posting features: %w", err)
	}
	scoresJSON, err := json.MarshalIndent(req.Scores, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal scores: %w", err)
	}

	replacer := strings.NewReplacer(
		"{{RESUME_JSON}}", string(resumeJSON),
		"{{POSTING_JSON}}", string(postingJSON),
		"{{SCORES_JSON}}", string(scoresJSON),
		"{{PROFESSION_SIMILARITY}}", strconv.FormatFloat(req.ProfessionSimilarity, 'f', 3, 64),
	)
	return replacer.Replace(promptTemplate), nil
}
