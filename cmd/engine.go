package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/spigell/fitscore/internal/embedding"
	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/headhunter"
	"github.com/spigell/fitscore/internal/logger"
	"github.com/spigell/fitscore/internal/review"
	"github.com/spigell/fitscore/internal/review/anthropic"
	"github.com/spigell/fitscore/internal/review/gemini"
	"github.com/spigell/fitscore/internal/scoring"
	"github.com/spigell/fitscore/internal/secrets"
	"github.com/spigell/fitscore/internal/settings"
	"go.uber.org/zap"
)

const (
	reviewerGemini    = "gemini"
	reviewerAnthropic = "anthropic"

	defaultReviewTimeout  = 30 * time.Second
	defaultCommandTimeout = 5 * time.Minute
)

var apiKeyEnv = map[string]string{
	embedding.ProviderGemini: "GEMINI_API_KEY",
	embedding.ProviderOpenAI: "OPENAI_API_KEY",
	reviewerAnthropic:        "ANTHROPIC_API_KEY",
}

// newLogger writes to stderr so stdout stays free for results and the MCP stream.
func newLogger() (*zap.Logger, error) {
	return logger.NewWithOutput(viper.GetBool("json"), viper.GetBool("debug"), "stderr")
}

// buildEngine wires settings, the embedder and, when asked for, the reviewer into a scoring engine.
// A reviewer that cannot be built is logged and skipped: scores are still computed locally.
func buildEngine(ctx context.Context, config *Config, log *zap.Logger, withReview bool) (*scoring.Engine, *settings.Store, error) {
	current, err := settings.Decode(config.Scoring, settings.Default())
	if err != nil {
		return nil, nil, err
	}

	store, err := settings.NewStore(current)
	if err != nil {
		return nil, nil, err
	}

	provider, err := newEmbedder(ctx, config.Embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("building embedder: %w", err)
	}

	var embedCfg embedding.Config
	if config.Embedder != nil {
		embedCfg = config.Embedder.Config
	}
	similarity := embedding.NewService(provider, logger.WithCommonFields(log, providerName(embedCfg.Provider, embedding.ProviderLocal), embedCfg.Model))

	opts := []scoring.Option{
		scoring.WithLogger(log),
		scoring.WithExtractor(extract.New(extract.WithDegreeEquivalences(current.DegreeEquivalences))),
	}

	if withReview && config.Reviewer != nil && config.Reviewer.Enabled {
		reviewer, err := newReviewer(ctx, config.Reviewer, log)
		if err != nil {
			log.Warn("skipping reviewer", zap.Error(err))
		} else {
			timeout := config.Reviewer.Timeout
			if timeout <= 0 {
				timeout = defaultReviewTimeout
			}
			opts = append(opts, scoring.WithReviewer(reviewer, timeout))
		}
	}

	return scoring.NewEngine(similarity, opts...), store, nil
}

func newEmbedder(ctx context.Context, cfg *EmbedderConfig) (embedding.Provider, error) {
	if cfg == nil {
		return embedding.NewLocal(), nil
	}

	embedCfg := cfg.Config
	name := providerName(embedCfg.Provider, embedding.ProviderLocal)
	if env, ok := apiKeyEnv[name]; ok {
		key, err := secrets.Load(secrets.Source{
			Name: name + " api key",
			File: cfg.APIKeyFile,
			Env:  env,
		})
		if err != nil {
			return nil, err
		}
		embedCfg.APIKey = key
	}

	return embedding.NewProvider(ctx, embedCfg)
}

func newReviewer(ctx context.Context, cfg *ReviewerConfig, log *zap.Logger) (review.Reviewer, error) {
	name := providerName(cfg.Provider, reviewerGemini)

	key, err := secrets.Load(secrets.Source{
		Name: name + " api key",
		File: cfg.APIKeyFile,
		Env:  apiKeyEnv[name],
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set reviewer.api-key-file or %s)", err, apiKeyEnv[name])
	}

	var generator review.Generator
	switch name {
	case reviewerGemini:
		generator, err = gemini.NewGenerator(ctx, key, cfg.Model)
	case reviewerAnthropic:
		generator, err = anthropic.NewGenerator(key, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported reviewer provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return review.NewLLM(generator, logger.WithCommonFields(log, name, ""), cfg.MaxLogLength), nil
}

// postingFromVacancy fetches an hh.ru vacancy and renders it as posting text.
func postingFromVacancy(ctx context.Context, config *Config, log *zap.Logger, id string) (string, string, error) {
	var token string
	if tokenFile := strings.TrimSpace(config.HHTokenFile); tokenFile != "" {
		var err error
		token, err = secrets.Load(secrets.Source{Name: "headhunter token", File: tokenFile})
		if err != nil {
			return "", "", err
		}
	}

	vacancy, err := headhunter.New(log, token).GetVacancy(ctx, id)
	if err != nil {
		return "", "", err
	}

	text, err := vacancy.PostingText()
	if err != nil {
		return "", "", err
	}

	return vacancy.Title(), text, nil
}

func providerName(name, fallback string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fallback
	}
	return name
}
