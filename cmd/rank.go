package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spigell/fitscore/internal/ingest"
	"github.com/spigell/fitscore/internal/ranking"
	"github.com/spigell/fitscore/internal/utils"
	"go.uber.org/zap"
)

const (
	PromptDumpToFile = "Dump results to file"
	PromptExit       = "Exit"

	labelSuggestionLength = 60
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score a resume against many postings and browse the ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("resume", "r", "", "resume file (.txt, .md or .html)")
	rankCmd.Flags().StringSliceP("posting", "p", nil, "job posting file, may be repeated")
	rankCmd.Flags().StringSlice("vacancy", nil, "hh.ru vacancy id, may be repeated")
	rankCmd.Flags().Float64("minimum-score", 0, "drop postings scored below this value")
	rankCmd.Flags().Int("concurrency", 0, "postings scored in parallel (default is the number of CPUs)")
	rankCmd.Flags().Bool("drop-mismatches", false, "drop postings for a different profession")
	rankCmd.Flags().Bool("no-review", false, "do not ask the external reviewer")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking as JSON instead of browsing it")
	rankCmd.Flags().Duration("timeout", defaultCommandTimeout, "overall timeout")
	rankCmd.Flags().StringToString("set", nil, "scoring setting overrides, e.g. --set weight-skills=0.5")

	rankCmd.MarkFlagRequired("resume")
	rankCmd.MarkFlagsOneRequired("posting", "vacancy")
}

func rank(cmd *cobra.Command) {
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

	rankCfg, err := rankConfig(cmd, config)
	if err != nil {
		logger.Fatal("invalid rank configuration", zap.Error(err))
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

	postings, err := loadPostings(ctx, cmd, config, logger)
	if err != nil {
		logger.Fatal("loading postings", zap.Error(err))
	}

	logger.Info("starting the ranking", zap.Int("postings", len(postings)), zap.String("version", version))

	ranked, err := ranking.Rank(ctx, logger, engine, ranking.Request{
		ResumeText: resume,
		Postings:   postings,
		Scoring:    current.Config,
		Config:     rankCfg,
	})
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	if len(ranked) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after ranking"))
		return
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		if err := writeJSON(cmd.OutOrStdout(), ranked); err != nil {
			logger.Fatal("writing results", zap.Error(err))
		}
		return
	}

	for {
		if err := browse(cmd.OutOrStdout(), logger, ranked); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func rankConfig(cmd *cobra.Command, config *Config) (ranking.Config, error) {
	var cfg ranking.Config
	if config.Rank != nil {
		cfg = *config.Rank
	}

	flags := cmd.Flags()
	if flags.Changed("minimum-score") {
		cfg.MinimumScore, _ = flags.GetFloat64("minimum-score")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("drop-mismatches") {
		cfg.DropMismatches, _ = flags.GetBool("drop-mismatches")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadPostings(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) ([]ranking.Posting, error) {
	var postings []ranking.Posting

	paths, _ := cmd.Flags().GetStringSlice("posting")
	for _, path := range paths {
		text, err := ingest.LoadFile(path)
		if err != nil {
			return nil, err
		}
		postings = append(postings, ranking.Posting{Name: path, Text: text})
	}

	ids, _ := cmd.Flags().GetStringSlice("vacancy")
	for _, id := range ids {
		name, text, err := postingFromVacancy(ctx, config, logger, id)
		if err != nil {
			return nil, err
		}
		postings = append(postings, ranking.Posting{Name: name, Text: text})
	}

	return postings, nil
}

// browse shows the ranking once and handles a single choice.
func browse(out io.Writer, logger *zap.Logger, ranked []*ranking.Candidate) error {
	items := make([]string, 0, len(ranked)+2)
	for i, c := range ranked {
		items = append(items, candidateLabel(i, c))
	}
	items = append(items, PromptDumpToFile, PromptExit)

	prompt := promptui.Select{
		Label: "Choose a posting to see the breakdown",
		Items: items,
		Size:  10,
	}

	idx, selected, err := prompt.Run()
	if err != nil {
		return err
	}

	switch selected {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptDumpToFile:
		filename, err := dumpToTmpFile(ranked)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return writeJSON(out, ranked[idx])
	}
}

func candidateLabel(i int, c *ranking.Candidate) string {
	return fmt.Sprintf("%2d. %5.1f  %s  %s",
		i+1, c.Result.FinalScore, c.Posting.Name, utils.TruncateForLog(c.Result.Suggestion, labelSuggestionLength),
	)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dumpToTmpFile(ranked []*ranking.Candidate) (string, error) {
	file, err := os.CreateTemp("", "fitscore_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := writeJSON(file, ranked); err != nil {
		return "", err
	}
	return file.Name(), nil
}
