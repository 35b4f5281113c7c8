package ranking

import (
	"context"
	"runtime"

	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/scoring"
	"golang.org/x/sync/errgroup"
)

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) Reason() string { return t.reason }

type scoreFilter struct {
	toggle
	scorer      Scorer
	resumeText  string
	resume      *extract.DocumentFeatures
	config      scoring.Config
	concurrency int
}

// NewScore creates the step that scores every candidate. Concurrency 0 means one worker per CPU.
func NewScore(scorer Scorer, resumeText string, resume *extract.DocumentFeatures, cfg scoring.Config, concurrency int) Filter {
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &scoreFilter{
		scorer:      scorer,
		resumeText:  resumeText,
		resume:      resume,
		config:      cfg,
		concurrency: concurrency,
	}
}

func (f *scoreFilter) Name() string { return "score" }

func (f *scoreFilter) Apply(ctx context.Context, candidates []*Candidate) ([]*Candidate, Step, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for _, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.Result = f.scorer.Score(gctx, scoring.Input{
				ResumeText:  f.resumeText,
				PostingText: c.Posting.Text,
				Resume:      f.resume,
				Config:      f.config,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Step{}, err
	}

	return candidates, Step{Initial: len(candidates), Left: len(candidates)}, nil
}

type minimumScoreFilter struct {
	toggle
	minimum float64
}

// NewMinimumScore creates the step dropping candidates scored below minimum.
func NewMinimumScore(minimum float64) Filter {
	return &minimumScoreFilter{minimum: minimum}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Apply(_ context.Context, candidates []*Candidate) ([]*Candidate, Step, error) {
	return keep(candidates, func(c *Candidate) bool {
		return c.Result != nil && c.Result.FinalScore >= f.minimum
	})
}

type professionMismatchFilter struct {
	toggle
}

// NewProfessionMismatch creates the step dropping candidates whose profession does not match.
func NewProfessionMismatch() Filter {
	return &professionMismatchFilter{}
}

func (f *professionMismatchFilter) Name() string { return "profession_mismatch" }

func (f *professionMismatchFilter) Apply(_ context.Context, candidates []*Candidate) ([]*Candidate, Step, error) {
	return keep(candidates, func(c *Candidate) bool {
		return c.Result != nil && c.Result.ProfessionMatch
	})
}

func keep(candidates []*Candidate, ok func(*Candidate) bool) ([]*Candidate, Step, error) {
	initial := len(candidates)
	left := make([]*Candidate, 0, initial)
	for _, c := range candidates {
		if ok(c) {
			left = append(left, c)
		}
	}
	return left, Step{Initial: initial, Dropped: initial - len(left), Left: len(left)}, nil
}
