package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/scoring"
	"github.com/spigell/fitscore/internal/settings"
	"go.uber.org/zap"
)

const (
	toolScoreMatch      = "score_match"
	toolExtractFeatures = "extract_features"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the scoring tools over MCP on stdio",
	Run: func(cmd *cobra.Command, _ []string) {
		serveMCP(cmd)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().Bool("no-review", false, "do not ask the external reviewer")
}

func serveMCP(cmd *cobra.Command) {
	ctx := context.Background()

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

	logger.Info("serving MCP on stdio", zap.String("version", version))

	if err := server.ServeStdio(newMCPServer(&matchTools{engine: engine, store: store, logger: logger})); err != nil {
		logger.Fatal("mcp server", zap.Error(err))
	}
}

type matchTools struct {
	engine *scoring.Engine
	store  *settings.Store
	logger *zap.Logger
}

func newMCPServer(tools *matchTools) *server.MCPServer {
	s := server.NewMCPServer(app, version)

	score := mcp.NewTool(toolScoreMatch,
		mcp.WithDescription("Score how well a resume fits a job posting (0-100) with a per-dimension breakdown"),
	)
	score.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"resume":  map[string]interface{}{"type": "string", "description": "Plain resume text"},
			"posting": map[string]interface{}{"type": "string", "description": "Plain job posting text"},
			"scoring": map[string]interface{}{
				"type":        "object",
				"description": "Optional scoring setting overrides, e.g. {\"weight-skills\": 0.5}",
			},
		},
		Required: []string{"resume", "posting"},
	}
	s.AddTool(score, tools.scoreMatch)

	features := mcp.NewTool(toolExtractFeatures,
		mcp.WithDescription("Extract education, skills, experience and requirements from a resume or posting"),
	)
	features.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"text": map[string]interface{}{"type": "string", "description": "Document text"},
			"kind": map[string]interface{}{"type": "string", "enum": []string{"resume", "posting"}},
		},
		Required: []string{"text"},
	}
	s.AddTool(features, tools.extractFeatures)

	return s
}

func (t *matchTools) scoreMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	resume, _ := args["resume"].(string)
	posting, _ := args["posting"].(string)
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(posting) == "" {
		return mcp.NewToolResultError("resume and posting are required"), nil
	}

	overrides, _ := args["scoring"].(map[string]interface{})
	current, err := t.store.With(overrides)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scoring settings: %v", err)), nil
	}

	// Equivalences may be overridden per call, so features are extracted here.
	x := extract.New(extract.WithDegreeEquivalences(current.DegreeEquivalences))
	resumeFeatures := x.ParseResume(resume)
	postingFeatures := x.ParsePosting(posting)

	result := t.engine.Score(ctx, scoring.Input{
		ResumeText:  resume,
		PostingText: posting,
		Resume:      &resumeFeatures,
		Posting:     &postingFeatures,
		Config:      current.Config,
	})

	t.logger.Info("scored match over MCP", zap.String("id", result.ID), zap.Float64("final_score", result.FinalScore))

	return jsonResult(result)
}

func (t *matchTools) extractFeatures(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	text, _ := args["text"].(string)
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	x := extract.New(extract.WithDegreeEquivalences(t.store.Snapshot().DegreeEquivalences))

	kind, _ := args["kind"].(string)
	switch kind {
	case "", "resume":
		return jsonResult(x.ParseResume(text))
	case "posting":
		return jsonResult(x.ParsePosting(text))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown kind %q", kind)), nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
