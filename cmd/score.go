package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spigell/fitscore/internal/ingest"
	"github.com/spigell/fitscore/internal/scoring"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a single job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "resume file (.txt, .md or .html)")
	scoreCmd.Flags().StringP("posting", "p", "", "job posting file (.txt, .md or .html)")
	scoreCmd.Flags().String("vacancy", "", "hh.ru vacancy id to use as the posting")
	scoreCmd.Flags().Bool("no-review", false, "do not ask the external reviewer")
	scoreCmd.Flags().Duration("timeout", defaultCommandTimeout, "overall timeout")
	scoreCmd.Flags().StringToString("set", nil, "scoring setting overrides, e.g. --set weight-skills=0.5")

	scoreCmd.MarkFlagRequired("resume")
	scoreCmd.MarkFlagsMutuallyExclusive("posting", "vacancy")
	scoreCmd.MarkFlagsOneRequired("posting", "vacancy")
}

func score(cmd *cobra.Command) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	noReview, _ := cmd.Flags().GetBool("no-review")
	engine, store, err := buildEngine(ctx, config, logger, !noReview)
	if err != nil {
		logger.Fatal("building scoring engine", zap.Error(err))
	}

	overrides, _ := cmd.Flags().GetStringToString("set")
	current, err := store.With(toAny(overrides))
	if err != nil {
		logger.Fatal("applying scoring overrides", zap.Error(err))
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	resume, err := ingest.LoadFile(resumePath)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	name, posting, err := loadPosting(ctx, cmd, config, logger)
	if err != nil {
		logger.Fatal("loading posting", zap.Error(err))
	}

	logger.Info("scoring", zap.String("posting", name), zap.String("version", version))

	result := engine.Score(ctx, scoring.Input{
		ResumeText:  resume,
		PostingText: posting,
		Config:      current.Config,
	})

	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		logger.Fatal("writing result", zap.Error(err))
	}
}

func loadPosting(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) (string, string, error) {
	if id, _ := cmd.Flags().GetString("vacancy"); id != "" {
		return postingFromVacancy(ctx, config, logger, id)
	}

	path, _ := cmd.Flags().GetString("posting")
	text, err := ingest.LoadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, text, nil
}

func toAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
