package cmd

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spigell/fitscore/internal/embedding"
	"github.com/spigell/fitscore/internal/extract"
	"github.com/spigell/fitscore/internal/scoring"
	"github.com/spigell/fitscore/internal/settings"
	"go.uber.org/zap"
)

const (
	testResume  = "Skills\nGo, Kubernetes, PostgreSQL\nExperience\nBackend engineer, 6 years"
	testPosting = "Backend engineer\nRequirements:\n- Go and PostgreSQL\n- 3+ years"
)

func newTestTools(t *testing.T) *matchTools {
	t.Helper()

	store, err := settings.NewStore(settings.Default())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	return &matchTools{
		engine: scoring.NewEngine(embedding.NewService(embedding.NewLocal(), nil)),
		store:  store,
		logger: zap.NewNop(),
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if result == nil || len(result.Content) == 0 {
		t.Fatalf("expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestScoreMatchTool(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t)

	result, err := tools.scoreMatch(context.Background(), callRequest(map[string]any{
		"resume":  testResume,
		"posting": testPosting,
		"scoring": map[string]any{"partial-credit-cap": 25},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var match scoring.MatchResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &match); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if match.ID == "" || match.FinalScore < 0 || match.FinalScore > 100 {
		t.Fatalf("unexpected match result %+v", match)
	}

	if tools.store.Snapshot().PartialCreditCap != 30 {
		t.Fatalf("per-call overrides must not change the stored settings")
	}
}

func TestScoreMatchToolRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args map[string]any
	}{
		{name: "missing posting", args: map[string]any{"resume": testResume}},
		{name: "blank resume", args: map[string]any{"resume": "  ", "posting": testPosting}},
		{name: "bad weights", args: map[string]any{
			"resume":  testResume,
			"posting": testPosting,
			"scoring": map[string]any{"weight-skills": 0.9},
		}},
	}

	tools := newTestTools(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := tools.scoreMatch(context.Background(), callRequest(tc.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected tool error")
			}
		})
	}

	var request mcp.CallToolRequest
	request.Params.Arguments = "not a map"
	result, _ := tools.scoreMatch(context.Background(), request)
	if !result.IsError {
		t.Fatalf("expected tool error for malformed arguments")
	}
}

func TestExtractFeaturesTool(t *testing.T) {
	t.Parallel()

	tools := newTestTools(t)

	result, err := tools.extractFeatures(context.Background(), callRequest(map[string]any{
		"text": testPosting,
		"kind": "posting",
	}))
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}

	var features extract.DocumentFeatures
	if err := json.Unmarshal([]byte(resultText(t, result)), &features); err != nil {
		t.Fatalf("decode features: %v", err)
	}
	if len(features.Requirements) != 2 {
		t.Fatalf("expected two requirements, got %v", features.Requirements)
	}

	result, _ = tools.extractFeatures(context.Background(), callRequest(map[string]any{"text": "x", "kind": "letter"}))
	if !result.IsError {
		t.Fatalf("expected tool error for unknown kind")
	}
}
