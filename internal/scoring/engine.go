// Package scoring computes explainable resume-to-posting match scores.
package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/review"
	"github.com/spigell/fitscore/internal/utils"
	"go.uber.org/zap"
)

const (
	// OverrideOverlap is the skill overlap ratio that clears an initial profession mismatch.
	OverrideOverlap = 0.5
	// MismatchCeiling is the highest final score allowed while a mismatch stands.
	MismatchCeiling = 5.0
	// overlapCapWidening widens the partial credit cap when skills overlap strongly.
	overlapCapWidening = 1.5
)

// Engine runs the composite scoring state machine. It is safe for concurrent use
// as long as its collaborators are.
type Engine struct {
	similarity    Similarity
	extractor     *extract.Extractor
	reviewer      review.Reviewer
	reviewTimeout time.Duration
	logger        *zap.Logger
	newID         func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithReviewer enables external correction. A positive timeout bounds each review call.
func WithReviewer(r review.Reviewer, timeout time.Duration) Option {
	return func(e *Engine) {
		e.reviewer = r
		e.reviewTimeout = timeout
	}
}

// WithLogger sets the logger; nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExtractor sets the extractor used for documents passed as text.
func WithExtractor(x *extract.Extractor) Option {
	return func(e *Engine) {
		if x != nil {
			e.extractor = x
		}
	}
}

// WithIDGenerator replaces the uuid-based MatchResult ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// NewEngine creates an Engine comparing texts with sim.
func NewEngine(sim Similarity, opts ...Option) *Engine {
	e := &Engine{
		similarity: sim,
		extractor:  extract.New(),
		logger:     zap.NewNop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logger.ForComponent(e.logger, "scoring")
	return e
}

// Extractor returns the extractor used for documents passed as text.
func (e *Engine) Extractor() *extract.Extractor {
	return e.extractor
}

// Input is one scoring request. Pre-extracted features, when set, are used instead of parsing the text.
type Input struct {
	ResumeText  string
	PostingText string
	Resume      *extract.DocumentFeatures
	Posting     *extract.DocumentFeatures
	Config      Config
}

// Score compares a resume with a posting. It never fails: missing signals degrade to neutral values.
func (e *Engine) Score(ctx context.Context, in Input) *MatchResult {
	var resume, posting extract.DocumentFeatures
	if in.Resume != nil {
		resume = *in.Resume
	} else {
		resume = e.extractor.ParseResume(in.ResumeText)
	}
	if in.Posting != nil {
		posting = *in.Posting
	} else {
		posting = e.extractor.ParsePosting(in.PostingText)
	}

	profession := ProfessionSimilarity(ctx, e.similarity,
		documentText(in.ResumeText, resume),
		documentText(in.PostingText, posting),
	)

	skills, skillsBreakdown := SkillsScore(ctx, e.similarity, resume.Skills, posting.Skills)
	dims := DimensionScores{
		Education:  EducationScore(ctx, e.similarity, resume.Education, posting.Education),
		Skills:     skills,
		Experience: ExperienceScore(ctx, e.similarity, resume.Experience, posting.Experience),
	}

	return e.decide(ctx, decision{
		config:     in.Config,
		resume:     resume,
		posting:    posting,
		profession: profession,
		dims:       dims,
		skills:     skillsBreakdown,
	})
}

// documentText returns text, or a stand-in assembled from features when only features were supplied.
func documentText(text string, f extract.DocumentFeatures) string {
	if strings.TrimSpace(text) != "" {
		return text
	}
	parts := []string{f.Education.RawText, f.Experience.RawText, strings.Join(f.Skills, " ")}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

type decision struct {
	config     Config
	resume     extract.DocumentFeatures
	posting    extract.DocumentFeatures
	profession float64
	dims       DimensionScores
	skills     SkillsBreakdown
}

func (e *Engine) decide(ctx context.Context, d decision) *MatchResult {
	cfg := d.config
	id := e.newID()
	log := e.logger.With(zap.String(logger.FieldMatchID, id))

	result := &MatchResult{
		ID:                   id,
		ProfessionSimilarity: utils.Round(d.profession, 3),
	}
	bd := &result.Breakdown
	bd.Skills = d.skills
	bd.WeightsUsed = Weights{Education: cfg.WeightEducation, Skills: cfg.WeightSkills, Experience: cfg.WeightExperience}
	bd.EducationMatch = d.dims.Education > dimensionMatchThreshold
	bd.ExperienceMatch = d.dims.Experience > dimensionMatchThreshold

	// Gate.
	mismatch := d.profession < cfg.ProfessionZeroThreshold
	bd.InitialMismatch = mismatch
	log.Debug("stage", zap.String("stage", "gate_check"),
		zap.Float64("profession_similarity", d.profession),
		zap.Bool("initial_mismatch", mismatch),
	)

	log.Debug("stage", zap.String("stage", "dimension_scoring"),
		zap.Float64("education", d.dims.Education),
		zap.Float64("skills", d.dims.Skills),
		zap.Float64("experience", d.dims.Experience),
	)

	// Overlap override.
	overlap := overlapRatio(d.skills)
	bd.OverlapRatio = utils.Round(overlap, 3)
	var overrideReason string
	if mismatch && overlap >= OverrideOverlap {
		mismatch = false
		bd.Overridden = true
		overrideReason = fmt.Sprintf("skill overlap %d/%d outweighs low profession similarity",
			len(d.skills.Matched), len(d.skills.Matched)+len(d.skills.Missing))
		bd.OverrideReason = overrideReason
		log.Debug("stage", zap.String("stage", "overlap_override"), zap.Float64("overlap_ratio", overlap))
	}

	// Composite.
	raw := cfg.WeightEducation*d.dims.Education + cfg.WeightSkills*d.dims.Skills + cfg.WeightExperience*d.dims.Experience
	baseline := raw * 100
	bd.RawComposite = utils.Round(raw, 4)

	// Cap.
	switch {
	case mismatch:
		baseline = 0
		bd.Zeroed = true
	case d.profession < cfg.ProfessionCapThreshold:
		limit := cfg.PartialCreditCap
		if overlap >= OverrideOverlap {
			limit = min(100, cfg.PartialCreditCap*overlapCapWidening)
		}
		if baseline > limit {
			baseline = limit
		}
		bd.Capped = true
		bd.CapValue = limit
	}
	bd.Baseline = utils.Round(baseline, 2)
	log.Debug("stage", zap.String("stage", "cap_apply"),
		zap.Float64("raw_composite", raw),
		zap.Float64("baseline", baseline),
		zap.Bool("zeroed", bd.Zeroed),
		zap.Bool("capped", bd.Capped),
	)

	// External correction.
	score := baseline
	correction := e.review(ctx, log, d, baseline)
	if correction != nil {
		score = utils.Clamp(*correction.FinalScore, 0, 100)
		mismatch = correction.ProfessionMismatch
		bd.CorrectionApplied = true
		result.Correction = correction
		log.Debug("stage", zap.String("stage", "external_correction"),
			zap.Float64("final_score", score),
			zap.Bool("profession_mismatch", mismatch),
		)
	}

	// Reconcile.
	result.Suggestion = reconcileSuggestion(correction, mismatch, d)
	result.ProfessionReason = reconcileReason(correction, mismatch, bd.InitialMismatch, overrideReason)

	// Final cap.
	if mismatch && score > MismatchCeiling {
		pre := utils.Round(score, 2)
		bd.PreClampScore = &pre
		bd.MismatchClamped = true
		score = MismatchCeiling
		log.Debug("stage", zap.String("stage", "final_cap"), zap.Float64("pre_clamp_score", pre))
	}

	result.Scores = DimensionScores{
		Education:  utils.Round(d.dims.Education, 3),
		Skills:     utils.Round(d.dims.Skills, 3),
		Experience: utils.Round(d.dims.Experience, 3),
	}
	result.ProfessionMatch = !mismatch
	result.FinalScore = utils.Round(utils.Clamp(score, 0, 100), 2)

	log.Debug("stage", zap.String("stage", "finalize"),
		zap.Float64("final_score", result.FinalScore),
		zap.Bool("profession_match", result.ProfessionMatch),
	)

	return result
}

// review asks the external reviewer for a correction. Failures are logged and yield nil.
func (e *Engine) review(ctx context.Context, log *zap.Logger, d decision, baseline float64) *review.Correction {
	if e.reviewer == nil {
		return nil
	}

	if e.reviewTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.reviewTimeout)
		defer cancel()
	}

	correction, err := e.reviewer.Review(ctx, review.Request{
		Resume:  d.resume,
		Posting: d.posting,
		Scores: review.Scores{
			Education:  utils.Round(d.dims.Education, 3),
			Skills:     utils.Round(d.dims.Skills, 3),
			Experience: utils.Round(d.dims.Experience, 3),
			Final:      utils.Round(baseline, 2),
		},
		ProfessionSimilarity: utils.Round(d.profession, 3),
	})
	if err != nil {
		log.Warn("reviewer unavailable, keeping local score", zap.Error(err))
		return nil
	}
	if !correction.Valid() {
		log.Warn("reviewer returned no final score, keeping local score")
		return nil
	}
	return correction
}

func overlapRatio(s SkillsBreakdown) float64 {
	total := len(s.Matched) + len(s.Missing)
	if total == 0 {
		return 0
	}
	return float64(len(s.Matched)) / float64(total)
}

func reconcileSuggestion(c *review.Correction, mismatch bool, d decision) string {
	if c != nil {
		if c.Review != "" {
			return c.Review
		}
		if c.Suggestion != "" {
			return c.Suggestion
		}
	}
	if mismatch {
		return mismatchSuggestion
	}
	return defaultSuggestion(d.skills, d.dims.Education, d.dims.Experience)
}

func reconcileReason(c *review.Correction, mismatch, initialMismatch bool, overrideReason string) string {
	switch {
	case c != nil && c.ProfessionReason != "":
		return c.ProfessionReason
	case c != nil && initialMismatch && !c.ProfessionMismatch:
		return confirmedReason
	case overrideReason != "":
		return overrideReason
	case mismatch:
		return mismatchReason
	default:
		return ""
	}
}
