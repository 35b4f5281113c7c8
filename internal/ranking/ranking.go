// Package ranking scores one resume against many postings and orders the results.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/scoring"
	"go.uber.org/zap"
)

// Scorer is implemented by scoring.Engine.
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) *scoring.MatchResult
}

// Posting is a named posting text.
type Posting struct {
	Name string `json:"name"`
	Text string `json:"-"`
}

// Candidate is a posting together with its score once the score step has run.
type Candidate struct {
	Posting Posting              `json:"posting"`
	Result  *scoring.MatchResult `json:"result"`
}

// Filter represents a single ranking step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool
	Reason() string

	Apply(ctx context.Context, candidates []*Candidate) ([]*Candidate, Step, error)
}

// Step describes the result of executing a ranking step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config controls concurrency and which candidates survive ranking.
type Config struct {
	Concurrency    int     `mapstructure:"concurrency" validate:"gte=0,lte=64"`
	MinimumScore   float64 `mapstructure:"minimum-score" validate:"gte=0,lte=100"`
	DropMismatches bool    `mapstructure:"drop-mismatches"`
}

// Request is one ranking job.
type Request struct {
	ResumeText string
	Postings   []Posting
	Scoring    scoring.Config
	Config     Config
}

// Rank scores the resume against every posting, drops candidates below the
// minimum score and returns the rest sorted by final score, best first.
func Rank(ctx context.Context, logger *zap.Logger, scorer Scorer, req Request) ([]*Candidate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var resume *extract.DocumentFeatures
	// Parse the resume once instead of per posting.
	if x, ok := scorer.(interface{ Extractor() *extract.Extractor }); ok {
		features := x.Extractor().ParseResume(req.ResumeText)
		resume = &features
	}

	steps := []Filter{
		NewScore(scorer, req.ResumeText, resume, req.Scoring, req.Config.Concurrency),
		NewMinimumScore(req.Config.MinimumScore),
		NewProfessionMismatch(),
	}
	if !req.Config.DropMismatches {
		DisableByName(steps, "profession_mismatch", "drop-mismatches is off")
	}

	candidates := make([]*Candidate, 0, len(req.Postings))
	for _, p := range req.Postings {
		candidates = append(candidates, &Candidate{Posting: p})
	}

	ranked, err := Run(ctx, logger, steps, candidates)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.FinalScore > ranked[j].Result.FinalScore
	})

	return ranked, nil
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied steps sequentially.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, candidates []*Candidate) ([]*Candidate, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("ranking step disabled", zap.String("name", step.Name()), zap.String("reason", step.Reason()))
			continue
		}

		next, info, err := step.Apply(ctx, candidates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("ranking step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		candidates = next
	}

	return candidates, nil
}
